package policy

import (
	"context"
	"fmt"
	"time"

	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"
	"youthPolicyHub/pkg/metrics"
)

const RecommendationSize = 6

// GetRecommendations builds up to six policies for the user: the highest weighted
// policies that match the user's preferences, topped up from the hot ranking under
// the same preferences. Fewer than six are returned only when both run dry.
func (s *PolicyService) GetRecommendations(ctx context.Context, userID uint) ([]domain.PolicyListItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	start := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	}()

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	filter := user.PreferenceFilter()

	interactions, err := s.interactionRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to load interactions", "user_id", userID, "error", err)
		return nil, internal(err)
	}

	weights := InteractionWeights(interactions, s.now())

	var weighted []domain.Policy
	if len(weights) > 0 {
		ids := make([]string, 0, len(weights))
		for _, w := range weights {
			ids = append(ids, w.PolicyID)
		}
		weighted, err = s.policyRepo.FindByIDs(ctx, ids)
		if err != nil {
			logger.Error("Failed to load weighted policies", "user_id", userID, "error", err)
			return nil, internal(err)
		}
	}

	selected := truncate(filterByPreference(rankByWeight(weights, weighted), filter), RecommendationSize)

	if len(selected) < RecommendationSize {
		// at most len(selected) of the top six can be duplicates, so six is enough to fill
		hot, err := s.policyRepo.TopHot(ctx, RecommendationSize, filter)
		if err != nil {
			logger.Error("Failed to rank hot policies for recommendation", "user_id", userID, "error", err)
			return nil, internal(err)
		}
		selected = fillFromHot(selected, hot, RecommendationSize)
	}

	logger.Debug("Recommendations composed",
		"user_id", userID,
		"weighted", len(weights),
		"returned", len(selected),
	)

	return s.withFavorites(ctx, userID, summaries(selected))
}

// rankByWeight orders policies by weight. Weighted ids without a stored policy are dropped.
func rankByWeight(weights []Weight, policies []domain.Policy) []domain.Policy {
	byID := make(map[string]domain.Policy, len(policies))
	for _, p := range policies {
		byID[p.ID] = p
	}

	out := make([]domain.Policy, 0, len(weights))
	for _, w := range weights {
		if p, ok := byID[w.PolicyID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func filterByPreference(policies []domain.Policy, filter domain.PolicyFilter) []domain.Policy {
	out := make([]domain.Policy, 0, len(policies))
	for i := range policies {
		if filter.Matches(&policies[i]) {
			out = append(out, policies[i])
		}
	}
	return out
}

func truncate(policies []domain.Policy, n int) []domain.Policy {
	if len(policies) > n {
		return policies[:n]
	}
	return policies
}

// fillFromHot appends hot policies not already selected until size is reached.
func fillFromHot(selected, hot []domain.Policy, size int) []domain.Policy {
	seen := make(map[string]struct{}, len(selected))
	for _, p := range selected {
		seen[p.ID] = struct{}{}
	}

	for _, p := range hot {
		if len(selected) >= size {
			break
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		selected = append(selected, p)
	}
	return selected
}
