package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"youthPolicyHub/business/ingestion"
	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PolicyHandler struct {
		policyService  PolicyService
		refreshService RefreshService
		validate       *validator.Validate
		timeout        time.Duration
		refreshTimeout time.Duration
	}

	PolicyService interface {
		ListPolicies(ctx context.Context, userID uint, filter domain.PolicyFilter, page, size int) ([]domain.PolicyListItem, error)
		GetPolicyDetail(ctx context.Context, userID uint, policyID string) (domain.PolicyDetail, error)
		RegisterFavorite(ctx context.Context, userID uint, policyID string) error
		RemoveFavorite(ctx context.Context, userID uint, policyID string) error
		ListFavorites(ctx context.Context, userID uint) ([]domain.FavoritePolicyItem, error)
		GetHotPolicies(ctx context.Context, userID uint) ([]domain.PolicyListItem, error)
		GetRecommendations(ctx context.Context, userID uint) ([]domain.PolicyListItem, error)
		Search(ctx context.Context, userID uint, keyword string, page, size int) (domain.SearchResult, error)
		GetPreferences(ctx context.Context, userID uint) (domain.UserPreferences, error)
		UpdatePreferences(ctx context.Context, userID uint, prefs domain.UserPreferences) error
	}

	RefreshService interface {
		Refresh(ctx context.Context) (ingestion.RefreshResult, error)
	}

	ListPoliciesQuery struct {
		Region         string `query:"region"`
		Classification string `query:"classification"`
		PageIndex      int    `query:"pageIndex" validate:"min=1"`
		Display        int    `query:"display" validate:"min=10,max=50"`
	}

	SearchPoliciesQuery struct {
		Keyword   string `query:"keyword"`
		PageIndex int    `query:"pageIndex" validate:"min=1"`
		PageSize  int    `query:"pageSize" validate:"min=10,max=100"`
	}

	UpdatePreferencesRequest struct {
		Regions         []string `json:"regions" validate:"max=18,dive,required"`
		Classifications []string `json:"classifications" validate:"max=6,dive,required"`
	}
)

func NewPolicyHandler(policyService PolicyService, refreshService RefreshService, timeout, refreshTimeout time.Duration) *PolicyHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if refreshTimeout <= 0 {
		refreshTimeout = 30 * time.Minute
	}
	return &PolicyHandler{
		policyService:  policyService,
		refreshService: refreshService,
		validate:       validator.New(),
		timeout:        timeout,
		refreshTimeout: refreshTimeout,
	}
}

func (h *PolicyHandler) ListPolicies(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	q := ListPoliciesQuery{PageIndex: 1, Display: 10}
	if err := c.Bind(&q); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	if err := h.validate.Struct(&q); err != nil {
		return badRequest(c, err.Error())
	}

	filter, err := parseFilter(q.Region, q.Classification)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	policies, err := h.policyService.ListPolicies(ctx, userID, filter, q.PageIndex, q.Display)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(policies))
}

func (h *PolicyHandler) GetPolicyDetail(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	detail, err := h.policyService.GetPolicyDetail(ctx, userID, c.Param("policyId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(detail))
}

func (h *PolicyHandler) RegisterFavorite(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.policyService.RegisterFavorite(ctx, userID, c.Param("policyId")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(true))
}

func (h *PolicyHandler) RemoveFavorite(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.policyService.RemoveFavorite(ctx, userID, c.Param("policyId")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(true))
}

func (h *PolicyHandler) ListFavorites(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	favorites, err := h.policyService.ListFavorites(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(favorites))
}

func (h *PolicyHandler) GetHotPolicies(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	policies, err := h.policyService.GetHotPolicies(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(policies))
}

func (h *PolicyHandler) GetRecommendations(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	policies, err := h.policyService.GetRecommendations(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(policies))
}

func (h *PolicyHandler) Search(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	q := SearchPoliciesQuery{PageIndex: 1, PageSize: 10}
	if err := c.Bind(&q); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	if err := h.validate.Struct(&q); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.policyService.Search(ctx, userID, q.Keyword, q.PageIndex, q.PageSize)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// Refresh runs a catalog refresh synchronously. Admin only.
func (h *PolicyHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.refreshTimeout)
	defer cancel()

	result, err := h.refreshService.Refresh(ctx)
	if err != nil {
		logger.Error("Manual policy refresh failed", "run_id", result.RunID, "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *PolicyHandler) GetPreferences(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	prefs, err := h.policyService.GetPreferences(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(prefs))
}

func (h *PolicyHandler) UpdatePreferences(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	filter, err := parseFilter(strings.Join(req.Regions, ","), strings.Join(req.Classifications, ","))
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	prefs := domain.UserPreferences{Regions: filter.Regions, Classifications: filter.Classifications}
	if err := h.policyService.UpdatePreferences(ctx, userID, prefs); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(prefs))
}

// parseFilter reads comma separated enum names. Blank input means no restriction.
func parseFilter(regions, classifications string) (domain.PolicyFilter, error) {
	filter := domain.PolicyFilter{
		Regions:         []domain.Region{},
		Classifications: []domain.Classification{},
	}

	for _, s := range splitList(regions) {
		r, ok := domain.ParseRegion(s)
		if !ok {
			return domain.PolicyFilter{}, fmt.Errorf("%w: unknown region %q", domain.ErrValidation, s)
		}
		filter.Regions = append(filter.Regions, r)
	}

	for _, s := range splitList(classifications) {
		cl, ok := domain.ParseClassification(s)
		if !ok {
			return domain.PolicyFilter{}, fmt.Errorf("%w: unknown classification %q", domain.ErrValidation, s)
		}
		filter.Classifications = append(filter.Classifications, cl)
	}

	return filter, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
