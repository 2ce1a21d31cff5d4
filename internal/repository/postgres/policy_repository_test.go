//go:build !integration

package postgres

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"youthPolicyHub/domain"
)

func TestPolicyRepository_ApplyReconcile(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	seedPolicies(t, repo,
		newPolicy("A", 1, domain.ClassificationJob, domain.RegionSeoul, domain.RegionBusan),
		newPolicy("B", 2, domain.ClassificationResident),
		newPolicy("C", 3, domain.ClassificationEducation, domain.RegionSeoul),
	)

	a, err := repo.FindByID(ctx, "A")
	if err != nil {
		t.Fatalf("find A: %v", err)
	}
	if !reflect.DeepEqual(a.RegionList(), []domain.Region{domain.RegionBusan, domain.RegionSeoul}) {
		t.Errorf("A regions = %v", a.RegionList())
	}

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing policy: err = %v", err)
	}

	favs := NewFavoritePolicyRepository(db)
	if err := favs.Create(ctx, &domain.FavoritePolicy{UserID: 9, PolicyID: "C", Title: "title C"}); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	incoming := newPolicy("A", 1, domain.ClassificationJob, domain.RegionDaegu)
	incoming.Title = "renamed"
	if !a.ApplyChanges(incoming) {
		t.Fatalf("expected A to change")
	}

	if err := repo.ApplyReconcile(ctx, nil, []domain.Policy{a}, []string{"C"}); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	all, err := repo.FindAllWithRegions(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if !reflect.DeepEqual(policyIDs(all), []string{"A", "B"}) {
		t.Fatalf("ids = %v, want [A B]", policyIDs(all))
	}
	if all[0].Title != "renamed" {
		t.Errorf("title = %q", all[0].Title)
	}
	if !reflect.DeepEqual(all[0].RegionList(), []domain.Region{domain.RegionDaegu}) {
		t.Errorf("A regions after update = %v", all[0].RegionList())
	}

	var orphans int64
	db.Model(&domain.PolicyRegion{}).Where("policy_id = ?", "C").Count(&orphans)
	if orphans != 0 {
		t.Errorf("regions of deleted policy remain: %d", orphans)
	}

	// favorites outlive the policy they point at
	kept, err := favs.FindByUser(ctx, 9)
	if err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if len(kept) != 1 || kept[0].PolicyID != "C" {
		t.Errorf("favorites after delete = %+v, want the C favorite", kept)
	}
}

func TestPolicyRepository_FindPage(t *testing.T) {
	repo := NewPolicyRepository(newTestDB(t))
	ctx := context.Background()

	seedPolicies(t, repo,
		newPolicy("A", 1, domain.ClassificationJob, domain.RegionSeoul, domain.RegionBusan),
		newPolicy("B", 2, domain.ClassificationResident, domain.RegionBusan),
		newPolicy("C", 3, domain.ClassificationEducation, domain.RegionSeoul),
		newPolicy("D", 4, domain.ClassificationJob, domain.RegionSeoul),
	)

	tests := []struct {
		name   string
		filter domain.PolicyFilter
		offset int
		limit  int
		want   []string
	}{
		{"no filter", domain.PolicyFilter{}, 0, 10, []string{"A", "B", "C", "D"}},
		{"second page", domain.PolicyFilter{}, 2, 2, []string{"C", "D"}},
		{"region", domain.PolicyFilter{Regions: []domain.Region{domain.RegionSeoul}}, 0, 10, []string{"A", "C", "D"}},
		{"any region", domain.PolicyFilter{Regions: []domain.Region{domain.RegionSeoul, domain.RegionBusan}}, 0, 10, []string{"A", "B", "C", "D"}},
		{
			"region and classification",
			domain.PolicyFilter{
				Regions:         []domain.Region{domain.RegionSeoul},
				Classifications: []domain.Classification{domain.ClassificationJob},
			},
			0, 10, []string{"A", "D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindPage(ctx, tt.filter, tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(policyIDs(got), tt.want) {
				t.Errorf("ids = %v, want %v", policyIDs(got), tt.want)
			}
		})
	}
}

func TestPolicyRepository_TopHot(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db)
	views := NewViewPolicyRepository(db)
	favs := NewFavoritePolicyRepository(db)
	ctx := context.Background()

	seedPolicies(t, repo,
		newPolicy("A", 1, domain.ClassificationJob, domain.RegionSeoul),
		newPolicy("B", 2, domain.ClassificationJob, domain.RegionBusan),
		newPolicy("C", 3, domain.ClassificationEducation, domain.RegionSeoul),
		newPolicy("D", 4, domain.ClassificationJob, domain.RegionSeoul),
	)

	// A = 1, B = 1 + 2*3 = 7, C = 2, D = 0
	for _, id := range []string{"A", "B", "C", "C"} {
		if err := views.Increment(ctx, id); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	for _, uid := range []uint{1, 2} {
		if err := favs.Create(ctx, &domain.FavoritePolicy{UserID: uid, PolicyID: "B", Title: "title B"}); err != nil {
			t.Fatalf("favorite: %v", err)
		}
	}

	got, err := repo.TopHot(ctx, 3, domain.PolicyFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(policyIDs(got), []string{"B", "C", "A"}) {
		t.Errorf("ids = %v, want [B C A]", policyIDs(got))
	}
	if !reflect.DeepEqual(got[0].RegionList(), []domain.Region{domain.RegionBusan}) {
		t.Errorf("regions not attached: %v", got[0].RegionList())
	}

	filtered, err := repo.TopHot(ctx, 6, domain.PolicyFilter{
		Regions:         []domain.Region{domain.RegionSeoul},
		Classifications: []domain.Classification{domain.ClassificationJob},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(policyIDs(filtered), []string{"A", "D"}) {
		t.Errorf("filtered ids = %v, want [A D]", policyIDs(filtered))
	}
}

func TestPolicyRepository_TopHotTieBreaksOnSortOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db)
	views := NewViewPolicyRepository(db)
	favs := NewFavoritePolicyRepository(db)
	ctx := context.Background()

	seedPolicies(t, repo,
		newPolicy("P1", 3, domain.ClassificationJob),
		newPolicy("P2", 1, domain.ClassificationJob),
	)

	// P1 = 5 views, P2 = 2 views + 1 favorite, both score 5
	for i := 0; i < 5; i++ {
		if err := views.Increment(ctx, "P1"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := views.Increment(ctx, "P2"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if err := favs.Create(ctx, &domain.FavoritePolicy{UserID: 1, PolicyID: "P2", Title: "title P2"}); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	got, err := repo.TopHot(ctx, 6, domain.PolicyFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(policyIDs(got), []string{"P2", "P1"}) {
		t.Errorf("ids = %v, want [P2 P1]", policyIDs(got))
	}
}

func TestPolicyRepository_Search(t *testing.T) {
	repo := NewPolicyRepository(newTestDB(t))
	ctx := context.Background()

	a := newPolicy("A", 1, domain.ClassificationResident)
	a.Title = "청년 월세 지원"
	a.Introduce = "주거 안정"
	b := newPolicy("B", 2, domain.ClassificationJob)
	b.Title = "청년 창업"
	b.Introduce = "1000명 모집"
	c := newPolicy("C", 3, domain.ClassificationEtc)
	c.ApplicationDetails = "수강료 100% 환급"
	seedPolicies(t, repo, a, b, c)

	tests := []struct {
		name  string
		query domain.SearchQuery
		want  []string
	}{
		{"phrase in title", domain.SearchQuery{Phrase: "청년", Tokens: []string{"청년"}}, []string{"A", "B"}},
		{"tokens across fields", domain.SearchQuery{Phrase: "월세 안정", Tokens: []string{"월세", "안정"}}, []string{"A"}},
		{"every token required", domain.SearchQuery{Phrase: "창업 안정", Tokens: []string{"창업", "안정"}}, []string{}},
		{"escaped wildcard", domain.SearchQuery{Phrase: `100\%`, Tokens: []string{`100\%`}}, []string{"C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := repo.Search(ctx, tt.query, 0, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total != int64(len(tt.want)) {
				t.Errorf("total = %d, want %d", total, len(tt.want))
			}
			if !reflect.DeepEqual(policyIDs(got), tt.want) {
				t.Errorf("ids = %v, want %v", policyIDs(got), tt.want)
			}
		})
	}

	page, total, err := repo.Search(ctx, domain.SearchQuery{Phrase: "청년", Tokens: []string{"청년"}}, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || !reflect.DeepEqual(policyIDs(page), []string{"B"}) {
		t.Errorf("paged search = %v total %d", policyIDs(page), total)
	}
}
