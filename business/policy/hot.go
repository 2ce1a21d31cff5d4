package policy

import (
	"context"
	"fmt"

	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"
	"youthPolicyHub/pkg/metrics"
)

const (
	HotPoliciesCacheKey = "hot_policies"
	HotPoliciesSize     = 6
)

// GetHotPolicies returns the six most popular policies. The list is shared across
// users and cached; favorite flags are applied per request.
func (s *PolicyService) GetHotPolicies(ctx context.Context, userID uint) ([]domain.PolicyListItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	hot, err := s.hotPolicies(ctx)
	if err != nil {
		return nil, err
	}

	return s.withFavorites(ctx, userID, hot)
}

func (s *PolicyService) hotPolicies(ctx context.Context) ([]domain.PolicySummary, error) {
	cached, ok, err := s.cache.GetPolicies(ctx, HotPoliciesCacheKey)
	switch {
	case err != nil:
		logger.Warn("Hot policy cache read failed, falling back to store", "error", err)
		metrics.HotCacheRequests.WithLabelValues("error").Inc()
	case ok:
		metrics.HotCacheRequests.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.HotCacheRequests.WithLabelValues("miss").Inc()
	}

	policies, err := s.policyRepo.TopHot(ctx, HotPoliciesSize, domain.PolicyFilter{})
	if err != nil {
		logger.Error("Failed to rank hot policies", "error", err)
		return nil, internal(err)
	}

	list := summaries(policies)
	if err := s.cache.SetPolicies(ctx, HotPoliciesCacheKey, list, s.hotCacheTTL); err != nil {
		logger.Warn("Failed to cache hot policies", "error", err)
	}

	return list, nil
}

// InvalidateHot drops the cached hot list after the catalog changed. Failure only
// delays freshness until the entry expires.
func (s *PolicyService) InvalidateHot(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, HotPoliciesCacheKey); err != nil {
		logger.Warn("Failed to invalidate hot policy cache", "error", err)
	}
}
