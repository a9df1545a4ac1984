package pdfprep

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hleroy/pdfprep/internal/execx"
)

// QPDF implements the page-counting and range-extraction oracles on top
// of the qpdf binary. It never parses PDF structure itself; qpdf's
// answers are taken as ground truth.
type QPDF struct {
	Runner execx.CommandRunner
	Path   string // binary name or path; empty = "qpdf" on PATH
}

// Compile-time interface checks.
var (
	_ PageCounter       = (*QPDF)(nil)
	_ RangeMaterializer = (*QPDF)(nil)
)

// NewQPDF creates a QPDF oracle with a real command runner.
func NewQPDF() *QPDF {
	return &QPDF{Runner: execx.Runner{}}
}

func (q *QPDF) binary() string {
	if q.Path != "" {
		return q.Path
	}
	return "qpdf"
}

// PageCount reports the document's total page count via `qpdf --show-npages`.
func (q *QPDF) PageCount(ctx context.Context, path string) (int, error) {
	stdout, stderr, err := q.Runner.Run(ctx, q.binary(), "--show-npages", path)
	if err != nil && !exitedWithWarnings(err) {
		return 0, fmt.Errorf("%w: qpdf: %s: %v", ErrSizeDetermination, firstLine(stderr), err)
	}

	n, convErr := strconv.Atoi(strings.TrimSpace(stdout))
	if convErr != nil || n < 1 {
		return 0, fmt.Errorf("%w: unexpected qpdf page count %q", ErrSizeDetermination, strings.TrimSpace(stdout))
	}
	return n, nil
}

// MaterializeRange writes a new PDF containing exactly the pages of r
// from src, in order, via qpdf page selection.
func (q *QPDF) MaterializeRange(ctx context.Context, src string, r PageRange, dst string) error {
	_, stderr, err := q.Runner.Run(ctx, q.binary(), "--empty", "--pages", src, r.String(), "--", dst)
	if err != nil && !exitedWithWarnings(err) {
		return fmt.Errorf("qpdf: %s: %w", firstLine(stderr), err)
	}
	return nil
}

// exitedWithWarnings reports qpdf's "completed with warnings" exit
// status (3), which still produces a usable output file.
func exitedWithWarnings(err error) bool {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode() == 3
	}
	return false
}

// firstLine trims tool stderr down to its leading line for error messages.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
