package postgres

import (
	"context"
	"errors"
	"fmt"

	"youthPolicyHub/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	var user domain.User

	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
		}
		return domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) UpdatePreferences(ctx context.Context, id uint, prefs domain.UserPreferences) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	regions := prefs.Regions
	if regions == nil {
		regions = []domain.Region{}
	}
	classes := prefs.Classifications
	if classes == nil {
		classes = []domain.Classification{}
	}

	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"preferred_regions":         datatypes.NewJSONSlice(regions),
			"preferred_classifications": datatypes.NewJSONSlice(classes),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update preferences: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}

	return nil
}
