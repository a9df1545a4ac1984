package pdfprep

import (
	"fmt"
	"os"
	"time"
)

// Partitioning defaults.
const (
	// DefaultMaxSizeBytes leaves headroom under the 25 MiB ceiling most
	// submission portals enforce, absorbing transport overhead.
	DefaultMaxSizeBytes int64 = 24 << 20

	// DefaultSafetyMargin discounts the byte ceiling when estimating the
	// initial pages-per-segment window, compensating for per-segment
	// serialization overhead.
	DefaultSafetyMargin = 0.90

	// DefaultMaxAttempts bounds materialize+measure trials per segment.
	// A geometric 20%-per-step shrink reaches a single page well within
	// this ceiling for any realistic starting window.
	DefaultMaxAttempts = 20
)

// shrinkRatio is the fraction of the window removed on each retry.
const shrinkRatio = 0.20

// Document is an opaque handle to an input document on disk.
// The partitioner never inspects its contents; page count and byte size
// come from the oracles.
type Document struct {
	Path string
}

// PageRange is a 1-indexed, inclusive range of pages.
type PageRange struct {
	Start int
	End   int
}

// Pages returns the number of pages covered by the range.
func (r PageRange) Pages() int {
	return r.End - r.Start + 1
}

// String formats the range as "start-end", the form qpdf accepts.
func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Validate checks ordering and bounds against the document page count.
func (r PageRange) Validate(pageCount int) error {
	if r.Start < 1 || r.End < r.Start || r.End > pageCount {
		return fmt.Errorf("invalid page range %s for %d-page document", r, pageCount)
	}
	return nil
}

// Segment is a materialized, size-verified contiguous page range of the
// source document. Immutable once accepted into a plan.
type Segment struct {
	Range PageRange
	Path  string // artifact file, owned by the plan until Release
	Size  int64  // measured size in bytes
}

// PartitionPlan is the ordered list of accepted segments. Segments are
// contiguous, non-overlapping, and cover [1, PageCount] exactly once.
// The plan owns the segment artifacts: call Release once outputs have
// been assembled (or on error paths).
type PartitionPlan struct {
	Segments  []Segment
	PageCount int

	workDir string
}

// Split reports whether the document actually needed splitting.
// A single-segment plan is the whole compliant document.
func (p *PartitionPlan) Split() bool {
	return len(p.Segments) > 1
}

// Release removes the plan's working directory and every segment
// artifact in it. Safe to call more than once.
func (p *PartitionPlan) Release() error {
	if p == nil || p.workDir == "" {
		return nil
	}
	dir := p.workDir
	p.workDir = ""
	return os.RemoveAll(dir)
}

// Option configures a Preparer.
type Option func(*Preparer)

// preparerConfig holds internal configuration for Preparer.
type preparerConfig struct {
	maxSizeBytes int64
	safetyMargin float64
	maxAttempts  int
	timeout      time.Duration
	validate     bool
	rules        ComplianceRules
	tools        ToolPaths
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 60 * time.Second

// ToolPaths overrides the binaries used for the external collaborators.
// Empty fields fall back to the conventional names on PATH.
type ToolPaths struct {
	QPDF        string
	PDFInfo     string
	PDFFonts    string
	Ghostscript string
	Soffice     string
	Magick      string
}

// WithMaxSize sets the per-part byte ceiling.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithMaxSize(n int64) Option {
	if n <= 0 {
		panic("pdfprep: WithMaxSize must be positive")
	}
	return func(p *Preparer) {
		p.cfg.maxSizeBytes = n
	}
}

// WithSafetyMargin sets the estimation discount applied to the ceiling.
func WithSafetyMargin(m float64) Option {
	return func(p *Preparer) {
		p.cfg.safetyMargin = m
	}
}

// WithMaxAttempts sets the per-segment attempt ceiling.
func WithMaxAttempts(n int) Option {
	return func(p *Preparer) {
		p.cfg.maxAttempts = n
	}
}

// WithTimeout sets the per-document preparation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pdfprep: WithTimeout duration must be positive")
	}
	return func(p *Preparer) {
		p.cfg.timeout = d
	}
}

// WithoutValidation skips the compliance checks between conversion and
// partitioning.
func WithoutValidation() Option {
	return func(p *Preparer) {
		p.cfg.validate = false
	}
}

// WithComplianceRules replaces the default submission rules.
func WithComplianceRules(rules ComplianceRules) Option {
	return func(p *Preparer) {
		p.cfg.rules = rules
	}
}

// WithToolPaths overrides external binary locations.
func WithToolPaths(tools ToolPaths) Option {
	return func(p *Preparer) {
		p.cfg.tools = tools
	}
}
