package gowergo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gowergo/gower"
	"github.com/hupe1980/gowergo/pam"
	"github.com/hupe1980/gowergo/schema"
)

var (
	// ErrSchemaMismatch is returned when a requested attribute is absent
	// from the input table or a cell value falls outside its declared
	// domain. Not recoverable inside the pipeline; fix the data or the
	// schema.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrDegenerateDissimilarity is returned when a record pair shares no
	// comparable attribute, leaving the dissimilarity undefined. Indicates
	// a data-quality problem upstream.
	ErrDegenerateDissimilarity = errors.New("degenerate dissimilarity")

	// ErrInvalidClusterCount is returned when k is outside [2, N].
	ErrInvalidClusterCount = errors.New("invalid cluster count")
)

// translateError unifies package-level typed errors into the root sentinels,
// preserving the originals for errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var mismatch *schema.ErrMismatch
	if errors.As(err, &mismatch) {
		return fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}

	var degenerate *gower.ErrDegenerate
	if errors.As(err, &degenerate) {
		return fmt.Errorf("%w: %w", ErrDegenerateDissimilarity, err)
	}

	var invalidK *pam.ErrInvalidK
	if errors.As(err, &invalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidClusterCount, err)
	}

	return err
}
