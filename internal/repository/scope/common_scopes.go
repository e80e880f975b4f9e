package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// DashboardOrder lists cases newest first, ties by case id.
func DashboardOrder(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC").Order("case_id ASC")
}
