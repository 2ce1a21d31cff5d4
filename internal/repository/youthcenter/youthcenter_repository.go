package youthcenter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"
	"youthPolicyHub/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// maxPrealloc bounds the slice hint taken from the provider's total count.
const maxPrealloc = 10000

type YouthCenterConfig struct {
	ApiUrl      string
	ApiKey      string
	PageDelay   time.Duration
	RetryDelay  time.Duration
	MaxRetries  int
	HttpTimeout time.Duration
}

// YouthCenterRepository reads the youth policy open API.
type YouthCenterRepository struct {
	cfg     YouthCenterConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewYouthCenterRepository(cfg YouthCenterConfig) *YouthCenterRepository {
	if cfg.HttpTimeout <= 0 {
		cfg.HttpTimeout = 10 * time.Second
	}

	return &YouthCenterRepository{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HttpTimeout},
		// one page per PageDelay, first request goes out immediately
		limiter: rate.NewLimiter(rate.Every(cfg.PageDelay), 1),
	}
}

// FetchTotalCount asks for an empty page and reads the catalog size from the paging block.
func (r *YouthCenterRepository) FetchTotalCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	res, err := r.get(ctx, 1, 0)
	if err != nil {
		return 0, err
	}

	return res.Result.Paging.TotalCount, nil
}

// FetchAllPages walks ceil(totalCount/pageSize) pages in order. Requests are spaced
// by the page delay and each page is retried with a constant backoff. Any page that
// still fails aborts the walk. Every page in that range must carry records, so an
// empty page is a failure, not the end of the catalog.
func (r *YouthCenterRepository) FetchAllPages(ctx context.Context, totalCount, pageSize int) ([]domain.RawPolicy, error) {
	if pageSize <= 0 {
		return nil, errors.New("page size must be positive")
	}

	pages := (totalCount + pageSize - 1) / pageSize
	policies := make([]domain.RawPolicy, 0, min(max(totalCount, 0), maxPrealloc))

	for pageNum := 1; pageNum <= pages; pageNum++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
		}

		page, err := r.fetchPage(ctx, pageNum, pageSize)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}

		logger.Debug("Youth policy page fetched", "page", pageNum, "pages", pages, "count", len(page))
		policies = append(policies, page...)
	}

	return policies, nil
}

func (r *YouthCenterRepository) fetchPage(ctx context.Context, pageNum, pageSize int) ([]domain.RawPolicy, error) {
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.cfg.RetryDelay), uint64(r.cfg.MaxRetries)),
		ctx,
	)

	op := func() ([]domain.RawPolicy, error) {
		res, err := r.get(ctx, pageNum, pageSize)
		if err != nil {
			return nil, err
		}
		if len(res.Result.Policies) == 0 {
			return nil, errors.New("youth policy api returned an empty page")
		}
		return res.Result.Policies, nil
	}

	notify := func(err error, wait time.Duration) {
		metrics.PageRetries.Inc()
		logger.Warn("Retrying youth policy page", "page", pageNum, "wait", wait, "error", err)
	}

	return backoff.RetryNotifyWithData(op, b, notify)
}

func (r *YouthCenterRepository) get(ctx context.Context, pageNum, pageSize int) (*domain.YouthPolicyResponse, error) {
	u, err := url.Parse(r.cfg.ApiUrl)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("invalid api url: %w", stripURL(err)))
	}

	q := u.Query()
	q.Set("apiKeyNm", r.cfg.ApiKey)
	q.Set("pageType", "2")
	q.Set("rtnType", "json")
	q.Set("pageNum", strconv.Itoa(pageNum))
	q.Set("pageSize", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build youth policy request: %w", stripURL(err)))
	}
	req.Header.Add("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call youth policy api: %w", stripURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read youth policy response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("youth policy api returned status %d", resp.StatusCode)
	}

	var res domain.YouthPolicyResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode youth policy response: %w", err)
	}

	// the provider reports failures inside a 200 response; 0 means the field was absent
	if res.ResultCode != 0 && res.ResultCode != http.StatusOK {
		return nil, fmt.Errorf("youth policy api returned result code %d: %s", res.ResultCode, res.ResultMessage)
	}

	return &res, nil
}

// stripURL drops the request URL from client errors. The query string carries the api key.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}
