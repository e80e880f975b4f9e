package implementation

import (
	"context"

	"legalaid-intake-be/internal/entity"
	"legalaid-intake-be/internal/mapper"
	"legalaid-intake-be/internal/model"
	"legalaid-intake-be/internal/repository/contract"
	"legalaid-intake-be/internal/repository/scope"
	"legalaid-intake-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DashboardCaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DashboardCaseMapper
}

func NewDashboardCaseRepository(db *gorm.DB) contract.DashboardCaseRepository {
	return &DashboardCaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewDashboardCaseMapper(),
	}
}

func (r *DashboardCaseRepositoryImpl) Upsert(ctx context.Context, c *entity.DashboardCase) error {
	m := r.mapper.ToModel(c)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "case_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "document_type", "status", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "dashboard_cases.updated_at < excluded.updated_at"},
		}},
	}).Create(m).Error
}

func (r *DashboardCaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DashboardCase, error) {
	var models []*model.DashboardCase
	query := applySpecifications(r.db.WithContext(ctx).Scopes(scope.DashboardOrder), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
