package postgres

import (
	"context"
	"fmt"

	"youthPolicyHub/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViewPolicyRepository struct {
	DB *gorm.DB
}

func NewViewPolicyRepository(db *gorm.DB) *ViewPolicyRepository {
	return &ViewPolicyRepository{
		DB: db,
	}
}

// Increment creates the counter at 1 or bumps it in the same statement.
func (r *ViewPolicyRepository) Increment(ctx context.Context, policyID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "policy_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"view_count": gorm.Expr("view_policies.view_count + 1"),
			}),
		}).
		Create(&domain.ViewPolicy{PolicyID: policyID, ViewCount: 1}).Error
	if err != nil {
		return fmt.Errorf("failed to increase view count: %w", err)
	}

	return nil
}

func (r *ViewPolicyRepository) Count(ctx context.Context, policyID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	var views []int64
	err := r.DB.WithContext(ctx).
		Model(&domain.ViewPolicy{}).
		Where("policy_id = ?", policyID).
		Pluck("view_count", &views).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read view count: %w", err)
	}
	if len(views) == 0 {
		return 0, nil
	}

	return views[0], nil
}
