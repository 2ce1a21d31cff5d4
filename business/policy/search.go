package policy

import (
	"context"
	"fmt"
	"strings"

	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildSearchQuery trims the keyword, requires at least two characters and escapes
// LIKE wildcards with a backslash.
func (s *PolicyService) BuildSearchQuery(keyword string) (domain.SearchQuery, error) {
	keyword = strings.TrimSpace(keyword)
	if err := s.validate.Var(keyword, "required,min=2"); err != nil {
		return domain.SearchQuery{}, domain.ErrInvalidKeyword
	}

	escaped := likeEscaper.Replace(keyword)
	return domain.SearchQuery{
		Phrase: escaped,
		Tokens: strings.Fields(escaped),
	}, nil
}

// Search matches title, introduction and application details. page is 1-based.
func (s *PolicyService) Search(ctx context.Context, userID uint, keyword string, page, size int) (domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SearchResult{}, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	q, err := s.BuildSearchQuery(keyword)
	if err != nil {
		return domain.SearchResult{}, err
	}

	offset, err := pageOffset(page, size)
	if err != nil {
		return domain.SearchResult{}, err
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return domain.SearchResult{}, err
	}

	policies, total, err := s.policyRepo.Search(ctx, q, offset, size)
	if err != nil {
		logger.Error("Failed to search policies", "keyword", keyword, "error", err)
		return domain.SearchResult{}, internal(err)
	}

	items, err := s.withFavorites(ctx, userID, summaries(policies))
	if err != nil {
		return domain.SearchResult{}, err
	}

	return domain.SearchResult{Policies: items, TotalCount: total}, nil
}
