package core

import (
	"errors"
	"fmt"
)

var (
	ErrReferentialIntegrity = errors.New("event references a category that does not exist")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateSubmission  = errors.New("duplicate submission")
	ErrQueryFailed          = errors.New("query failed")
)

// Error kinds returned by KindOf.
const (
	KindReferentialIntegrity = "referential_integrity"
	KindNotFound             = "not_found"
	KindDuplicateSubmission  = "duplicate_submission"
	KindQueryFailed          = "query_failed"
	KindValidation           = "validation"
	KindInternal             = "internal"
)

// QueryFailed wraps a storage failure during a read; both ErrQueryFailed and
// cause stay reachable through errors.Is.
func QueryFailed(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrQueryFailed, op, cause)
}

// KindOf classifies err. Nil yields the empty string.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrReferentialIntegrity):
		return KindReferentialIntegrity
	case errors.Is(err, ErrDuplicateSubmission):
		return KindDuplicateSubmission
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrQueryFailed):
		return KindQueryFailed
	case isValidation(err):
		return KindValidation
	default:
		return KindInternal
	}
}

func isValidation(err error) bool {
	for _, v := range []error{
		ErrEmptyDescription,
		ErrDescriptionTooLong,
		ErrInvalidCategoryType,
		ErrZeroStart,
		ErrInvalidStart,
		ErrInvalidDuration,
		ErrDetailsTooLong,
		ErrInvalidCategoryID,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
