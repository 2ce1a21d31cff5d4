//go:build !integration

package policy

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"youthPolicyHub/domain"
)

func TestFillFromHot(t *testing.T) {
	selected := []domain.Policy{{ID: "A"}, {ID: "B"}}
	hot := []domain.Policy{{ID: "B"}, {ID: "C"}, {ID: "A"}, {ID: "D"}, {ID: "E"}, {ID: "F"}, {ID: "G"}}

	got := policyIDs(fillFromHot(selected, hot, 6))
	want := []string{"A", "B", "C", "D", "E", "F"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFillFromHot_PoolExhausted(t *testing.T) {
	got := policyIDs(fillFromHot([]domain.Policy{{ID: "A"}}, []domain.Policy{{ID: "A"}, {ID: "B"}}, 6))
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("got %v", got)
	}
}

func TestRankByWeight_DropsMissingPolicies(t *testing.T) {
	weights := []Weight{{"GONE", 9}, {"B", 5}, {"A", 2}}
	policies := []domain.Policy{{ID: "A"}, {ID: "B"}}

	got := policyIDs(rankByWeight(weights, policies))
	if !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("got %v", got)
	}
}

func TestGetRecommendations_WeightedThenHot(t *testing.T) {
	f := newFixture(
		mkPolicy("JOB-SEOUL-1", domain.ClassificationJob, domain.RegionSeoul),
		mkPolicy("JOB-SEOUL-2", domain.ClassificationJob, domain.RegionSeoul),
		mkPolicy("JOB-BUSAN", domain.ClassificationJob, domain.RegionBusan),
		mkPolicy("EDU-SEOUL", domain.ClassificationEducation, domain.RegionSeoul),
		mkPolicy("JOB-SEOUL-3", domain.ClassificationJob, domain.RegionSeoul, domain.RegionBusan),
		mkPolicy("JOB-SEOUL-4", domain.ClassificationJob, domain.RegionSeoul),
	)
	f.users.byID[testUser] = domain.User{
		ID:                       testUser,
		PreferredRegions:         []domain.Region{domain.RegionSeoul},
		PreferredClassifications: []domain.Classification{domain.ClassificationJob},
	}

	ctx := context.Background()
	_ = f.interactions.Upsert(ctx, testUser, "JOB-SEOUL-2", domain.ActionFavorite, testNow.Add(-time.Hour))
	_ = f.interactions.Upsert(ctx, testUser, "JOB-BUSAN", domain.ActionFavorite, testNow.Add(-time.Hour))
	_ = f.interactions.Upsert(ctx, testUser, "EDU-SEOUL", domain.ActionView, testNow.Add(-2*time.Hour))
	f.views.counts["JOB-SEOUL-4"] = 10

	got, err := f.svc.GetRecommendations(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// weighted match first, then hot under the same preferences
	want := []string{"JOB-SEOUL-2", "JOB-SEOUL-4", "JOB-SEOUL-1", "JOB-SEOUL-3"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}

func TestGetRecommendations_NoPreferencesCapsAtSix(t *testing.T) {
	var policies []domain.Policy
	for _, id := range []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8"} {
		policies = append(policies, mkPolicy(id, domain.ClassificationJob))
	}
	f := newFixture(policies...)

	ctx := context.Background()
	_ = f.interactions.Upsert(ctx, testUser, "P8", domain.ActionView, testNow.Add(-time.Minute))
	_ = f.favorites.Create(ctx, &domain.FavoritePolicy{UserID: testUser, PolicyID: "P8"})

	got, err := f.svc.GetRecommendations(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != RecommendationSize {
		t.Fatalf("len = %d, want %d", len(got), RecommendationSize)
	}
	if got[0].ID != "P8" || !got[0].IsFavorite {
		t.Errorf("first = %+v, want favorited P8", got[0])
	}
	seen := map[string]bool{}
	for _, it := range got {
		if seen[it.ID] {
			t.Errorf("duplicate %s", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestGetRecommendations_UnknownUser(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.GetRecommendations(context.Background(), 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetRecommendations_HotFailureIsInternal(t *testing.T) {
	f := newFixture(mkPolicy("A", domain.ClassificationJob))
	f.policies.hotErr = errBoom

	if _, err := f.svc.GetRecommendations(context.Background(), testUser); !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("err = %v, want internal", err)
	}
}
