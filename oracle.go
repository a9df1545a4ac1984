package pdfprep

import (
	"context"
	"fmt"
	"os"
)

// The partitioner treats the capabilities below as ground truth without
// any knowledge of their internals. Real implementations shell out to
// document tooling; tests supply deterministic fakes.

// PageCounter reports the total page count of a document.
type PageCounter interface {
	PageCount(ctx context.Context, path string) (int, error)
}

// SizeOracle reports the serialized byte size of a materialized artifact.
type SizeOracle interface {
	Measure(ctx context.Context, path string) (int64, error)
}

// RangeMaterializer writes a new document containing exactly the pages
// of r from src, in order, to dst.
type RangeMaterializer interface {
	MaterializeRange(ctx context.Context, src string, r PageRange, dst string) error
}

// Oracles bundles the external capabilities a partition run relies on.
type Oracles struct {
	Pages       PageCounter
	Size        SizeOracle
	Materialize RangeMaterializer
}

// complete reports whether all three capabilities are present.
func (o Oracles) complete() bool {
	return o.Pages != nil && o.Size != nil && o.Materialize != nil
}

// StatSizeOracle measures artifact size with os.Stat.
type StatSizeOracle struct{}

// Compile-time interface check.
var _ SizeOracle = StatSizeOracle{}

// Measure returns the on-disk byte size of path.
func (StatSizeOracle) Measure(ctx context.Context, path string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSizeDetermination, err)
	}
	return info.Size(), nil
}
