package pdfprep

import (
	"context"
	"fmt"
	"os"

	"github.com/hleroy/pdfprep/internal/fileutil"
)

// PartitionOption configures a single partition run.
type PartitionOption func(*partitionConfig)

// partitionConfig holds per-run tunables.
type partitionConfig struct {
	safetyMargin float64
	maxAttempts  int
	workDir      string // parent for the run workspace; "" = os.TempDir
}

// PartitionSafetyMargin overrides the estimation discount for one run.
func PartitionSafetyMargin(m float64) PartitionOption {
	return func(c *partitionConfig) {
		c.safetyMargin = m
	}
}

// PartitionMaxAttempts overrides the per-segment attempt ceiling.
func PartitionMaxAttempts(n int) PartitionOption {
	return func(c *partitionConfig) {
		c.maxAttempts = n
	}
}

// PartitionWorkDir places the run workspace under dir instead of the
// system temp directory.
func PartitionWorkDir(dir string) PartitionOption {
	return func(c *partitionConfig) {
		c.workDir = dir
	}
}

// Partition splits doc into the minimum practical number of contiguous,
// page-ordered segments, each measuring at or under maxSizeBytes.
//
// It is a pure function of (document, ceiling, oracles): it keeps no
// state between calls and mutates nothing outside its own workspace.
// When the whole document already fits, the returned plan holds a
// single segment covering every page, produced by a straight copy
// without calling the materializer. On any error all artifacts of the
// run are released and no partial plan is returned. Cancellation is
// honored between attempts; individual oracle calls block until the
// external operation finishes.
//
// The caller owns the returned plan and must call Release after
// assembling its outputs.
func Partition(ctx context.Context, doc Document, maxSizeBytes int64, oracles Oracles, opts ...PartitionOption) (*PartitionPlan, error) {
	if doc.Path == "" {
		return nil, ErrEmptyDocument
	}
	if maxSizeBytes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxSize, maxSizeBytes)
	}
	if !oracles.complete() {
		return nil, ErrMissingOracle
	}

	cfg := partitionConfig{
		safetyMargin: DefaultSafetyMargin,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.safetyMargin <= 0 || cfg.safetyMargin > 1 {
		return nil, fmt.Errorf("%w: %.2f", ErrInvalidSafetyMargin, cfg.safetyMargin)
	}
	if cfg.maxAttempts < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxAttempts, cfg.maxAttempts)
	}

	ws, err := fileutil.NewWorkspace(cfg.workDir, "pdfprep-run-")
	if err != nil {
		return nil, err
	}

	run := &partitionRun{
		cfg:     cfg,
		doc:     doc,
		maxSize: maxSizeBytes,
		oracles: oracles,
		ws:      ws,
	}

	plan, err := run.execute(ctx)
	if err != nil {
		// Fatal: release everything produced so far, accepted or not.
		_ = ws.Release()
		return nil, err
	}
	return plan, nil
}

// partitionRun carries the cursor/window state of one run through the
// estimate -> probe -> accept/shrink loop.
type partitionRun struct {
	cfg     partitionConfig
	doc     Document
	maxSize int64
	oracles Oracles
	ws      *fileutil.Workspace

	pageCount int
	totalSize int64
	cursor    int // first page of the segment being probed
	window    int // candidate pages per segment
}

// execute resolves the whole document into an ordered plan.
func (r *partitionRun) execute(ctx context.Context) (*PartitionPlan, error) {
	if err := r.determineTotals(ctx); err != nil {
		return nil, err
	}

	// Already compliant: the whole document is the sole segment,
	// copied straight, bypassing the materializer.
	if r.totalSize <= r.maxSize {
		return r.wholeDocumentPlan()
	}

	r.window = estimateWindow(r.totalSize, r.pageCount, r.maxSize, r.cfg.safetyMargin)
	r.cursor = 1

	var segments []Segment
	for r.cursor <= r.pageCount {
		seg, err := r.probeSegment(ctx, len(segments))
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
		r.cursor = seg.Range.End + 1
		// The accepted window carries over to the next segment; the
		// estimate itself is never recomputed mid-run.
	}

	return &PartitionPlan{
		Segments:  segments,
		PageCount: r.pageCount,
		workDir:   r.ws.Dir(),
	}, nil
}

// determineTotals fetches the whole-document facts from the oracles.
func (r *partitionRun) determineTotals(ctx context.Context) error {
	pages, err := r.oracles.Pages.PageCount(ctx, r.doc.Path)
	if err != nil {
		return fmt.Errorf("%w: counting pages: %v", ErrSizeDetermination, err)
	}
	if pages < 1 {
		return fmt.Errorf("%w: document reports %d pages", ErrSizeDetermination, pages)
	}

	size, err := r.oracles.Size.Measure(ctx, r.doc.Path)
	if err != nil {
		return fmt.Errorf("%w: measuring document: %v", ErrSizeDetermination, err)
	}
	if size <= 0 {
		return fmt.Errorf("%w: document measures %d bytes", ErrSizeDetermination, size)
	}

	r.pageCount = pages
	r.totalSize = size
	return nil
}

// wholeDocumentPlan builds the single-segment plan for a document that
// already fits under the ceiling.
func (r *partitionRun) wholeDocumentPlan() (*PartitionPlan, error) {
	dst := r.ws.Path("segment-0001.pdf")
	if err := fileutil.CopyFile(r.doc.Path, dst); err != nil {
		return nil, fmt.Errorf("%w: copying compliant document: %v", ErrMaterialization, err)
	}
	return &PartitionPlan{
		Segments: []Segment{{
			Range: PageRange{Start: 1, End: r.pageCount},
			Path:  dst,
			Size:  r.totalSize,
		}},
		PageCount: r.pageCount,
		workDir:   r.ws.Dir(),
	}, nil
}

// probeSegment resolves one segment starting at r.cursor: materialize a
// candidate window, measure it, and accept or shrink. Oversized
// candidates are removed before the next attempt, so at most one trial
// artifact exists at any time beyond the accepted plan.
func (r *partitionRun) probeSegment(ctx context.Context, index int) (Segment, error) {
	attempts := 0
	for {
		// Cancellation is only honored between attempts; the external
		// calls themselves are not interruptible mid-flight.
		if err := ctx.Err(); err != nil {
			return Segment{}, err
		}

		attempts++
		if attempts > r.cfg.maxAttempts {
			return Segment{}, fmt.Errorf("%w: segment %d starting at page %d (%d attempts)",
				ErrMaxAttempts, index+1, r.cursor, r.cfg.maxAttempts)
		}

		rng := PageRange{Start: r.cursor, End: r.cursor + r.window - 1}
		if rng.End > r.pageCount {
			rng.End = r.pageCount
		}

		dst := r.ws.Path(fmt.Sprintf("segment-%04d.pdf", index+1))
		if err := r.oracles.Materialize.MaterializeRange(ctx, r.doc.Path, rng, dst); err != nil {
			return Segment{}, fmt.Errorf("%w: range %s: %v", ErrMaterialization, rng, err)
		}

		size, err := r.oracles.Size.Measure(ctx, dst)
		if err != nil {
			_ = os.Remove(dst)
			return Segment{}, fmt.Errorf("%w: measuring range %s: %v", ErrMaterialization, rng, err)
		}

		if size <= r.maxSize {
			return Segment{Range: rng, Path: dst, Size: size}, nil
		}

		// Oversized candidates are not outputs; remove before retrying
		// to bound outstanding artifacts.
		_ = os.Remove(dst)

		if rng.Pages() == 1 {
			return Segment{}, fmt.Errorf("%w: page %d measures %d bytes (limit %d)",
				ErrUnsplittablePage, r.cursor, size, r.maxSize)
		}

		// Shrink from the effective candidate size, not the nominal
		// window: near the tail the window may exceed the remaining
		// pages, and shrinking the nominal value would retry the same
		// range forever.
		r.window = shrinkWindow(rng.Pages())
	}
}
