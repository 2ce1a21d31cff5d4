package postgres

import (
	"context"
	"fmt"

	"youthPolicyHub/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoritePolicyRepository struct {
	DB *gorm.DB
}

func NewFavoritePolicyRepository(db *gorm.DB) *FavoritePolicyRepository {
	return &FavoritePolicyRepository{
		DB: db,
	}
}

// Create ignores a favorite the user already holds.
func (r *FavoritePolicyRepository) Create(ctx context.Context, fav *domain.FavoritePolicy) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "policy_id"}},
			DoNothing: true,
		}).
		Create(fav).Error
	if err != nil {
		return fmt.Errorf("failed to create favorite: %w", err)
	}

	return nil
}

// Delete reports whether a row was removed.
func (r *FavoritePolicyRepository) Delete(ctx context.Context, userID uint, policyID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND policy_id = ?", userID, policyID).
		Delete(&domain.FavoritePolicy{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *FavoritePolicyRepository) FindByUser(ctx context.Context, userID uint) ([]domain.FavoritePolicy, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	var favs []domain.FavoritePolicy
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&favs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}

	return favs, nil
}

func (r *FavoritePolicyRepository) FindFavoritePolicyIDs(ctx context.Context, userID uint, policyIDs []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	if len(policyIDs) == 0 {
		return []string{}, nil
	}

	var ids []string
	err := r.DB.WithContext(ctx).
		Model(&domain.FavoritePolicy{}).
		Where("user_id = ? AND policy_id IN ?", userID, policyIDs).
		Pluck("policy_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorite flags: %w", err)
	}

	return ids, nil
}
