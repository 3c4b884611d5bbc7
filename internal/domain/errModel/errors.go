package errModel

import (
	"errors"
	"fmt"
)

// Closed set of error kinds. Callers branch with errors.Is instead of
// matching on message strings.
var (
	ErrClassification = errors.New("classification error")
	ErrFetch          = errors.New("fetch error")
	ErrEmbedding      = errors.New("embedding error")
	ErrIndex          = errors.New("vector index error")
	ErrJobSetup       = errors.New("job setup error")
	ErrModel          = errors.New("model error")
)

// Tag wraps err under one of the kinds above.
func Tag(kind error, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func Tagf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
