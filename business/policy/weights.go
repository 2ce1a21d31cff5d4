package policy

import (
	"sort"
	"time"

	"youthPolicyHub/domain"
)

const (
	viewWeight     = 1
	favoriteWeight = 3
	recencyBonus   = 1
	recencyWindow  = 7 * 24 * time.Hour
)

// Weight is a policy's interest score for one user.
type Weight struct {
	PolicyID string
	Score    int
}

// InteractionWeights scores each policy the user touched. A view counts 1, a favorite
// counts 3, and any interaction newer than seven days adds 1. interactions are
// expected newest first; ties keep that order.
func InteractionWeights(interactions []domain.UserInteraction, now time.Time) []Weight {
	cutoff := now.Add(-recencyWindow)
	index := make(map[string]int)
	var weights []Weight

	for _, in := range interactions {
		score := 0
		switch in.ActionType {
		case domain.ActionView:
			score = viewWeight
		case domain.ActionFavorite:
			score = favoriteWeight
		default:
			continue
		}
		if in.ActionTime.After(cutoff) {
			score += recencyBonus
		}

		i, ok := index[in.PolicyID]
		if !ok {
			index[in.PolicyID] = len(weights)
			weights = append(weights, Weight{PolicyID: in.PolicyID})
			i = len(weights) - 1
		}
		weights[i].Score += score
	}

	sort.SliceStable(weights, func(i, j int) bool {
		return weights[i].Score > weights[j].Score
	})

	return weights
}
