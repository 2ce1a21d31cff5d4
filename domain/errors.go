package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoData              = errors.New("youth policy api returned no data")
	ErrTotalCountFetch     = errors.New("failed to fetch youth policy total count")
	ErrPageFetch           = errors.New("failed to fetch youth policy page")
	ErrReconcileProcessing = errors.New("failed to process youth policy data")
	ErrSave                = errors.New("failed to save youth policies")
	ErrValidation          = errors.New("invalid request")
	ErrNotFound            = errors.New("resource not found")
	ErrInternal            = errors.New("internal server error")
)

var ErrInvalidKeyword = fmt.Errorf("%w: search keyword must be at least 2 characters", ErrValidation)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrNoData, "YOUTH_POLICY_NO_DATA"},
	{ErrTotalCountFetch, "YOUTH_POLICY_TOTAL_COUNT_FETCH_ERROR"},
	{ErrPageFetch, "YOUTH_POLICY_PAGE_FETCH_ERROR"},
	{ErrReconcileProcessing, "YOUTH_POLICY_PROCESSING_ERROR"},
	{ErrSave, "YOUTH_POLICY_SAVE_ERROR"},
	{ErrInvalidKeyword, "INVALID_POLICY_SEARCH_KEYWORD"},
	{ErrValidation, "INVALID_REQUEST"},
	{ErrNotFound, "NOT_FOUND"},
}

// ErrorCode returns the stable code clients key on. Unknown errors are SERVER_ERROR.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "SERVER_ERROR"
}

// Kind returns the coded sentinel err wraps, or nil.
func Kind(err error) error {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.err
		}
	}
	return nil
}
