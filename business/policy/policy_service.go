package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"

	"github.com/go-playground/validator/v10"
)

const maxPageSize = 100

// ---- Repository interfaces ----

type PolicyRepository interface {
	FindByID(ctx context.Context, id string) (domain.Policy, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Policy, error)
	FindPage(ctx context.Context, filter domain.PolicyFilter, offset, limit int) ([]domain.Policy, error)
	TopHot(ctx context.Context, n int, filter domain.PolicyFilter) ([]domain.Policy, error)
	Search(ctx context.Context, q domain.SearchQuery, offset, limit int) ([]domain.Policy, int64, error)
}

type FavoriteRepository interface {
	Create(ctx context.Context, fav *domain.FavoritePolicy) error
	Delete(ctx context.Context, userID uint, policyID string) (bool, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.FavoritePolicy, error)
	FindFavoritePolicyIDs(ctx context.Context, userID uint, policyIDs []string) ([]string, error)
}

type ViewRepository interface {
	Increment(ctx context.Context, policyID string) error
	Count(ctx context.Context, policyID string) (int64, error)
}

type InteractionRepository interface {
	Upsert(ctx context.Context, userID uint, policyID string, action domain.ActionType, at time.Time) error
	Delete(ctx context.Context, userID uint, policyID string, action domain.ActionType) error
	FindByUser(ctx context.Context, userID uint) ([]domain.UserInteraction, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	UpdatePreferences(ctx context.Context, id uint, prefs domain.UserPreferences) error
}

// RankingCache stores the shared hot list. Entries carry no per-user data.
type RankingCache interface {
	GetPolicies(ctx context.Context, key string) ([]domain.PolicySummary, bool, error)
	SetPolicies(ctx context.Context, key string, policies []domain.PolicySummary, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// ---- Service ----

type PolicyService struct {
	policyRepo      PolicyRepository
	favoriteRepo    FavoriteRepository
	viewRepo        ViewRepository
	interactionRepo InteractionRepository
	userRepo        UserRepository
	cache           RankingCache
	validate        *validator.Validate
	hotCacheTTL     time.Duration
	now             func() time.Time
}

func NewPolicyService(
	policyRepo PolicyRepository,
	favoriteRepo FavoriteRepository,
	viewRepo ViewRepository,
	interactionRepo InteractionRepository,
	userRepo UserRepository,
	cache RankingCache,
	validate *validator.Validate,
	hotCacheTTL time.Duration,
) *PolicyService {
	if hotCacheTTL <= 0 {
		hotCacheTTL = time.Hour
	}
	return &PolicyService{
		policyRepo:      policyRepo,
		favoriteRepo:    favoriteRepo,
		viewRepo:        viewRepo,
		interactionRepo: interactionRepo,
		userRepo:        userRepo,
		cache:           cache,
		validate:        validate,
		hotCacheTTL:     hotCacheTTL,
		now:             time.Now,
	}
}

// ListPolicies returns one page of the catalog in sort order. page is 1-based.
func (s *PolicyService) ListPolicies(ctx context.Context, userID uint, filter domain.PolicyFilter, page, size int) ([]domain.PolicyListItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	offset, err := pageOffset(page, size)
	if err != nil {
		return nil, err
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	policies, err := s.policyRepo.FindPage(ctx, filter, offset, size)
	if err != nil {
		logger.Error("Failed to list policies", "error", err)
		return nil, internal(err)
	}

	return s.withFavorites(ctx, userID, summaries(policies))
}

// GetPolicyDetail returns a policy and records the view. The view counter and the
// interaction log are best effort: a failure is logged and the detail is still served.
func (s *PolicyService) GetPolicyDetail(ctx context.Context, userID uint, policyID string) (domain.PolicyDetail, error) {
	if err := ctx.Err(); err != nil {
		return domain.PolicyDetail{}, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return domain.PolicyDetail{}, err
	}

	p, err := s.findPolicy(ctx, policyID)
	if err != nil {
		return domain.PolicyDetail{}, err
	}

	favIDs, err := s.favoriteRepo.FindFavoritePolicyIDs(ctx, userID, []string{p.ID})
	if err != nil {
		logger.Error("Failed to check favorite", "user_id", userID, "policy_id", p.ID, "error", err)
		return domain.PolicyDetail{}, internal(err)
	}

	if err := s.viewRepo.Increment(ctx, p.ID); err != nil {
		logger.Warn("Failed to increase view count", "policy_id", p.ID, "error", err)
	}
	if err := s.interactionRepo.Upsert(ctx, userID, p.ID, domain.ActionView, s.now()); err != nil {
		logger.Warn("Failed to log view interaction", "user_id", userID, "policy_id", p.ID, "error", err)
	}

	views, err := s.viewRepo.Count(ctx, p.ID)
	if err != nil {
		logger.Warn("Failed to read view count", "policy_id", p.ID, "error", err)
	}

	detail := domain.NewPolicyDetail(p, len(favIDs) > 0)
	detail.ViewCount = views
	return detail, nil
}

// RegisterFavorite is idempotent. If the favorite is stored but the interaction log
// fails, the favorite stays and ErrInternal is returned.
func (s *PolicyService) RegisterFavorite(ctx context.Context, userID uint, policyID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return err
	}

	p, err := s.findPolicy(ctx, policyID)
	if err != nil {
		return err
	}

	fav := &domain.FavoritePolicy{
		UserID:   userID,
		PolicyID: p.ID,
		Title:    p.Title,
	}
	if err := s.favoriteRepo.Create(ctx, fav); err != nil {
		logger.Error("Failed to register favorite", "user_id", userID, "policy_id", p.ID, "error", err)
		return internal(err)
	}

	if err := s.interactionRepo.Upsert(ctx, userID, p.ID, domain.ActionFavorite, s.now()); err != nil {
		logger.Error("Failed to log favorite interaction", "user_id", userID, "policy_id", p.ID, "error", err)
		return internal(err)
	}

	return nil
}

// RemoveFavorite works for policies that already left the catalog.
func (s *PolicyService) RemoveFavorite(ctx context.Context, userID uint, policyID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return err
	}

	removed, err := s.favoriteRepo.Delete(ctx, userID, policyID)
	if err != nil {
		logger.Error("Failed to remove favorite", "user_id", userID, "policy_id", policyID, "error", err)
		return internal(err)
	}
	if !removed {
		return fmt.Errorf("%w: favorite policy %s", domain.ErrNotFound, policyID)
	}

	if err := s.interactionRepo.Delete(ctx, userID, policyID, domain.ActionFavorite); err != nil {
		logger.Error("Failed to delete favorite interaction", "user_id", userID, "policy_id", policyID, "error", err)
		return internal(err)
	}

	return nil
}

// ListFavorites returns the user's favorites newest first. Favorites whose policy is
// gone are kept with IsActive false.
func (s *PolicyService) ListFavorites(ctx context.Context, userID uint) ([]domain.FavoritePolicyItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	favs, err := s.favoriteRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list favorites", "user_id", userID, "error", err)
		return nil, internal(err)
	}
	if len(favs) == 0 {
		return []domain.FavoritePolicyItem{}, nil
	}

	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.PolicyID)
	}

	policies, err := s.policyRepo.FindByIDs(ctx, ids)
	if err != nil {
		logger.Error("Failed to load favorite policies", "user_id", userID, "error", err)
		return nil, internal(err)
	}
	byID := make(map[string]domain.Policy, len(policies))
	for _, p := range policies {
		byID[p.ID] = p
	}

	items := make([]domain.FavoritePolicyItem, 0, len(favs))
	for _, f := range favs {
		item := domain.FavoritePolicyItem{PolicyID: f.PolicyID, Title: f.Title}
		if p, ok := byID[f.PolicyID]; ok {
			summary := domain.NewPolicySummary(p)
			item.IsActive = true
			item.Title = summary.Title
			item.Policy = &summary
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *PolicyService) GetPreferences(ctx context.Context, userID uint) (domain.UserPreferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	u, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.UserPreferences{}, err
	}

	return domain.UserPreferences{
		Regions:         append([]domain.Region{}, u.PreferredRegions...),
		Classifications: append([]domain.Classification{}, u.PreferredClassifications...),
	}, nil
}

func (s *PolicyService) UpdatePreferences(ctx context.Context, userID uint, prefs domain.UserPreferences) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	for _, r := range prefs.Regions {
		if !r.Valid() {
			return fmt.Errorf("%w: unknown region %q", domain.ErrValidation, r)
		}
	}
	for _, c := range prefs.Classifications {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown classification %q", domain.ErrValidation, c)
		}
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.UpdatePreferences(ctx, userID, prefs); err != nil {
		logger.Error("Failed to update preferences", "user_id", userID, "error", err)
		return internal(err)
	}

	return nil
}

// ---- helpers ----

func (s *PolicyService) findUser(ctx context.Context, userID uint) (domain.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, err
		}
		logger.Error("Failed to find user", "user_id", userID, "error", err)
		return domain.User{}, internal(err)
	}
	return u, nil
}

func (s *PolicyService) findPolicy(ctx context.Context, policyID string) (domain.Policy, error) {
	p, err := s.policyRepo.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Policy{}, err
		}
		logger.Error("Failed to find policy", "policy_id", policyID, "error", err)
		return domain.Policy{}, internal(err)
	}
	return p, nil
}

// withFavorites marks which summaries the user has favorited with one batched lookup.
func (s *PolicyService) withFavorites(ctx context.Context, userID uint, list []domain.PolicySummary) ([]domain.PolicyListItem, error) {
	items := make([]domain.PolicyListItem, 0, len(list))
	if len(list) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}

	favIDs, err := s.favoriteRepo.FindFavoritePolicyIDs(ctx, userID, ids)
	if err != nil {
		logger.Error("Failed to load favorite flags", "user_id", userID, "error", err)
		return nil, internal(err)
	}
	favs := make(map[string]struct{}, len(favIDs))
	for _, id := range favIDs {
		favs[id] = struct{}{}
	}

	for _, p := range list {
		_, fav := favs[p.ID]
		items = append(items, domain.PolicyListItem{PolicySummary: p, IsFavorite: fav})
	}

	return items, nil
}

func summaries(policies []domain.Policy) []domain.PolicySummary {
	out := make([]domain.PolicySummary, 0, len(policies))
	for _, p := range policies {
		out = append(out, domain.NewPolicySummary(p))
	}
	return out
}

func pageOffset(page, size int) (int, error) {
	if page < 1 {
		return 0, fmt.Errorf("%w: page must be at least 1", domain.ErrValidation)
	}
	if size < 1 || size > maxPageSize {
		return 0, fmt.Errorf("%w: page size must be between 1 and %d", domain.ErrValidation, maxPageSize)
	}
	return (page - 1) * size, nil
}

func internal(cause error) error {
	if errors.Is(cause, domain.ErrInternal) {
		return cause
	}
	return fmt.Errorf("%w: %v", domain.ErrInternal, cause)
}
