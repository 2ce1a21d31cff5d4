//go:build !integration

package policy

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"youthPolicyHub/domain"

	"github.com/go-playground/validator/v10"
)

type fakePolicies struct {
	byID   map[string]domain.Policy
	views  map[string]int64
	favs   *fakeFavorites
	hotErr error
}

func (f *fakePolicies) FindByID(ctx context.Context, id string) (domain.Policy, error) {
	p, ok := f.byID[id]
	if !ok {
		return domain.Policy{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePolicies) FindByIDs(ctx context.Context, ids []string) ([]domain.Policy, error) {
	var out []domain.Policy
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	// storage order is unrelated to the requested order
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakePolicies) sorted(filter domain.PolicyFilter) []domain.Policy {
	var out []domain.Policy
	for _, p := range f.byID {
		p := p
		if filter.Matches(&p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakePolicies) FindPage(ctx context.Context, filter domain.PolicyFilter, offset, limit int) ([]domain.Policy, error) {
	all := f.sorted(filter)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakePolicies) TopHot(ctx context.Context, n int, filter domain.PolicyFilter) ([]domain.Policy, error) {
	if f.hotErr != nil {
		return nil, f.hotErr
	}
	all := f.sorted(filter)
	score := func(p domain.Policy) int64 {
		return f.views[p.ID] + 3*int64(f.favs.countFor(p.ID))
	}
	sort.SliceStable(all, func(i, j int) bool { return score(all[i]) > score(all[j]) })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (f *fakePolicies) Search(ctx context.Context, q domain.SearchQuery, offset, limit int) ([]domain.Policy, int64, error) {
	var hits []domain.Policy
	for _, p := range f.sorted(domain.PolicyFilter{}) {
		if strings.Contains(p.Title, q.Phrase) {
			hits = append(hits, p)
		}
	}
	total := int64(len(hits))
	if offset >= len(hits) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(hits) {
		end = len(hits)
	}
	return hits[offset:end], total, nil
}

type fakeFavorites struct {
	rows      []domain.FavoritePolicy
	createErr error
}

func (f *fakeFavorites) countFor(policyID string) int {
	n := 0
	for _, r := range f.rows {
		if r.PolicyID == policyID {
			n++
		}
	}
	return n
}

func (f *fakeFavorites) Create(ctx context.Context, fav *domain.FavoritePolicy) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range f.rows {
		if r.UserID == fav.UserID && r.PolicyID == fav.PolicyID {
			return nil
		}
	}
	fav.CreatedAt = time.Now()
	f.rows = append(f.rows, *fav)
	return nil
}

func (f *fakeFavorites) Delete(ctx context.Context, userID uint, policyID string) (bool, error) {
	for i, r := range f.rows {
		if r.UserID == userID && r.PolicyID == policyID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFavorites) FindByUser(ctx context.Context, userID uint) ([]domain.FavoritePolicy, error) {
	var out []domain.FavoritePolicy
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeFavorites) FindFavoritePolicyIDs(ctx context.Context, userID uint, policyIDs []string) ([]string, error) {
	var out []string
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		for _, id := range policyIDs {
			if r.PolicyID == id {
				out = append(out, id)
			}
		}
	}
	return out, nil
}

type fakeViews struct {
	counts map[string]int64
	err    error
}

func (f *fakeViews) Increment(ctx context.Context, policyID string) error {
	if f.err != nil {
		return f.err
	}
	f.counts[policyID]++
	return nil
}

func (f *fakeViews) Count(ctx context.Context, policyID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[policyID], nil
}

type interactionKey struct {
	userID   uint
	policyID string
	action   domain.ActionType
}

type fakeInteractions struct {
	rows      map[interactionKey]time.Time
	upsertErr error
}

func (f *fakeInteractions) Upsert(ctx context.Context, userID uint, policyID string, action domain.ActionType, at time.Time) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[interactionKey{userID, policyID, action}] = at
	return nil
}

func (f *fakeInteractions) Delete(ctx context.Context, userID uint, policyID string, action domain.ActionType) error {
	delete(f.rows, interactionKey{userID, policyID, action})
	return nil
}

func (f *fakeInteractions) FindByUser(ctx context.Context, userID uint) ([]domain.UserInteraction, error) {
	var out []domain.UserInteraction
	for k, at := range f.rows {
		if k.userID == userID {
			out = append(out, domain.UserInteraction{UserID: k.userID, PolicyID: k.policyID, ActionType: k.action, ActionTime: at})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActionTime.After(out[j].ActionTime) })
	return out, nil
}

type fakeUsers struct {
	byID map[uint]domain.User
}

func (f *fakeUsers) FindByID(ctx context.Context, id uint) (domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) UpdatePreferences(ctx context.Context, id uint, prefs domain.UserPreferences) error {
	u := f.byID[id]
	u.PreferredRegions = prefs.Regions
	u.PreferredClassifications = prefs.Classifications
	f.byID[id] = u
	return nil
}

type fakeCache struct {
	entries map[string][]domain.PolicySummary
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func (f *fakeCache) GetPolicies(ctx context.Context, key string) ([]domain.PolicySummary, bool, error) {
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeCache) SetPolicies(ctx context.Context, key string, policies []domain.PolicySummary, ttl time.Duration) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = policies
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

var errBoom = errors.New("boom")

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc          *PolicyService
	policies     *fakePolicies
	favorites    *fakeFavorites
	views        *fakeViews
	interactions *fakeInteractions
	users        *fakeUsers
	cache        *fakeCache
}

const testUser uint = 7

func newFixture(policies ...domain.Policy) *fixture {
	favs := &fakeFavorites{}
	views := &fakeViews{counts: make(map[string]int64)}
	f := &fixture{
		policies:     &fakePolicies{byID: make(map[string]domain.Policy), views: views.counts, favs: favs},
		favorites:    favs,
		views:        views,
		interactions: &fakeInteractions{rows: make(map[interactionKey]time.Time)},
		users:        &fakeUsers{byID: map[uint]domain.User{testUser: {ID: testUser}}},
		cache:        &fakeCache{entries: make(map[string][]domain.PolicySummary)},
	}
	for i, p := range policies {
		if p.SortOrder == 0 {
			p.SortOrder = i + 1
		}
		f.policies.byID[p.ID] = p
	}

	f.svc = NewPolicyService(f.policies, f.favorites, f.views, f.interactions, f.users, f.cache, validator.New(), time.Hour)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func mkPolicy(id string, c domain.Classification, regions ...domain.Region) domain.Policy {
	p := domain.Policy{ID: id, Title: "title " + id, Classification: c}
	p.SetRegions(regions)
	return p
}

func ids(items []domain.PolicyListItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func policyIDs(policies []domain.Policy) []string {
	out := make([]string, 0, len(policies))
	for _, p := range policies {
		out = append(out, p.ID)
	}
	return out
}
