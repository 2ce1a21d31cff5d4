package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"
	"youthPolicyHub/pkg/metrics"

	"github.com/google/uuid"
)

// CatalogClient fetches the youth policy catalog from the provider.
type CatalogClient interface {
	FetchTotalCount(ctx context.Context) (int, error)
	FetchAllPages(ctx context.Context, totalCount, pageSize int) ([]domain.RawPolicy, error)
}

// PolicyRepository contract interface
type PolicyRepository interface {
	FindAllWithRegions(ctx context.Context) ([]domain.Policy, error)
	ApplyReconcile(ctx context.Context, inserts, updates []domain.Policy, deletes []string) error
}

type RefreshResult struct {
	RunID      string          `json:"runId"`
	TotalCount int             `json:"totalCount"`
	Fetched    int             `json:"fetched"`
	Reconcile  ReconcileResult `json:"reconcile"`
	Duration   string          `json:"duration"`
}

type IngestionService struct {
	client   CatalogClient
	repo     PolicyRepository
	resolver RegionResolver
	pageSize int
	now      func() time.Time
	hooks    []func(ctx context.Context)
}

func NewIngestionService(client CatalogClient, repo PolicyRepository, resolver RegionResolver, pageSize int) *IngestionService {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &IngestionService{
		client:   client,
		repo:     repo,
		resolver: resolver,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// OnRefreshed registers fn to run after each refresh that changed the catalog.
func (s *IngestionService) OnRefreshed(fn func(ctx context.Context)) {
	s.hooks = append(s.hooks, fn)
}

// Refresh pulls the full catalog and reconciles it into the store. Nothing is
// written unless every page was fetched and the catalog is at least as large as
// the reported total.
func (s *IngestionService) Refresh(ctx context.Context) (RefreshResult, error) {
	if err := ctx.Err(); err != nil {
		return RefreshResult{}, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	start := s.now()
	result := RefreshResult{RunID: uuid.NewString()}
	log := logger.With("run_id", result.RunID)

	total, err := s.client.FetchTotalCount(ctx)
	if err != nil {
		log.Errorw("Failed to fetch youth policy total count", "error", err)
		metrics.RefreshRuns.WithLabelValues("fetch_error").Inc()
		return result, wrapKind(domain.ErrTotalCountFetch, err)
	}
	result.TotalCount = total

	if total == 0 {
		log.Warnw("Youth policy api returned zero policies, keeping stored catalog")
		metrics.RefreshRuns.WithLabelValues("no_data").Inc()
		return result, domain.ErrNoData
	}

	log.Infow("Fetching youth policies", "total_count", total, "page_size", s.pageSize)

	raws, err := s.client.FetchAllPages(ctx, total, s.pageSize)
	if err != nil {
		log.Errorw("Failed to fetch youth policy pages", "error", err)
		metrics.RefreshRuns.WithLabelValues("fetch_error").Inc()
		return result, wrapKind(domain.ErrPageFetch, err)
	}
	result.Fetched = len(raws)

	if len(raws) < total {
		log.Errorw("Youth policy catalog came back short", "fetched", len(raws), "total_count", total)
		metrics.RefreshRuns.WithLabelValues("fetch_error").Inc()
		return result, fmt.Errorf("%w: fetched %d of %d policies", domain.ErrPageFetch, len(raws), total)
	}

	today := s.now()
	policies := make([]domain.Policy, 0, len(raws))
	for _, raw := range raws {
		p := RawToPolicy(raw, s.resolver, today)
		if p.ID == "" {
			log.Warnw("Skipping youth policy without id", "title", raw.PolicyName)
			continue
		}
		policies = append(policies, p)
	}

	rec, err := s.Reconcile(ctx, policies)
	if err != nil {
		metrics.RefreshRuns.WithLabelValues("save_error").Inc()
		return result, err
	}
	result.Reconcile = rec

	if rec != (ReconcileResult{}) {
		for _, hook := range s.hooks {
			hook(ctx)
		}
	}

	elapsed := s.now().Sub(start)
	result.Duration = elapsed.String()
	metrics.RefreshRuns.WithLabelValues("success").Inc()
	metrics.RefreshDuration.Observe(elapsed.Seconds())

	log.Infow("Youth policy refresh finished",
		"fetched", result.Fetched,
		"inserted", rec.Inserted,
		"updated", rec.Updated,
		"deleted", rec.Deleted,
		"duration", elapsed,
	)

	return result, nil
}

// Reconcile makes the stored catalog equal to incoming in one transaction.
func (s *IngestionService) Reconcile(ctx context.Context, incoming []domain.Policy) (ReconcileResult, error) {
	if err := ctx.Err(); err != nil {
		return ReconcileResult{}, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	existing, err := s.repo.FindAllWithRegions(ctx)
	if err != nil {
		logger.Error("Failed to load stored policies", "error", err)
		return ReconcileResult{}, wrapKind(domain.ErrReconcileProcessing, err)
	}

	plan := planReconcile(existing, incoming)
	logger.Info("Reconcile plan computed",
		"stored", len(existing),
		"incoming", len(incoming),
		"inserts", len(plan.Inserts),
		"updates", len(plan.Updates),
		"deletes", len(plan.Deletes),
	)

	res := ReconcileResult{
		Inserted: len(plan.Inserts),
		Updated:  len(plan.Updates),
		Deleted:  len(plan.Deletes),
	}
	if plan.Empty() {
		return res, nil
	}

	if err := s.repo.ApplyReconcile(ctx, plan.Inserts, plan.Updates, plan.Deletes); err != nil {
		logger.Error("Failed to save reconciled policies", "error", err)
		return ReconcileResult{}, wrapKind(domain.ErrSave, err)
	}

	metrics.ReconcileChanges.WithLabelValues("insert").Add(float64(res.Inserted))
	metrics.ReconcileChanges.WithLabelValues("update").Add(float64(res.Updated))
	metrics.ReconcileChanges.WithLabelValues("delete").Add(float64(res.Deleted))

	return res, nil
}

// wrapKind keeps the error kind matchable and the cause readable, without
// exposing the infrastructure error type.
func wrapKind(kind, cause error) error {
	if errors.Is(cause, kind) {
		return cause
	}
	return fmt.Errorf("%w: %v", kind, cause)
}
