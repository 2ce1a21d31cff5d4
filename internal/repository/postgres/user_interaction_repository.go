package postgres

import (
	"context"
	"fmt"
	"time"

	"youthPolicyHub/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserInteractionRepository struct {
	DB *gorm.DB
}

func NewUserInteractionRepository(db *gorm.DB) *UserInteractionRepository {
	return &UserInteractionRepository{
		DB: db,
	}
}

// Upsert keeps one row per (user, policy, action) and moves its action time.
func (r *UserInteractionRepository) Upsert(ctx context.Context, userID uint, policyID string, action domain.ActionType, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	interaction := domain.UserInteraction{
		UserID:     userID,
		PolicyID:   policyID,
		ActionType: action,
		ActionTime: at,
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "policy_id"}, {Name: "action_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"action_time"}),
		}).
		Create(&interaction).Error
	if err != nil {
		return fmt.Errorf("failed to save interaction: %w", err)
	}

	return nil
}

func (r *UserInteractionRepository) Delete(ctx context.Context, userID uint, policyID string, action domain.ActionType) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND policy_id = ? AND action_type = ?", userID, policyID, string(action)).
		Delete(&domain.UserInteraction{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete interaction: %w", err)
	}

	return nil
}

// FindByUser returns the user's interactions newest first.
func (r *UserInteractionRepository) FindByUser(ctx context.Context, userID uint) ([]domain.UserInteraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	var interactions []domain.UserInteraction
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("action_time DESC").
		Order("id DESC").
		Find(&interactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interactions: %w", err)
	}

	return interactions, nil
}
