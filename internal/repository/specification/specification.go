package specification

import "gorm.io/gorm"

// Specification narrows a submissions or dashboard_cases query. Repositories
// apply them in order, so pagination goes last.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
