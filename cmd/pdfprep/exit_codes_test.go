package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	pdfprep "github.com/hleroy/pdfprep"
	"github.com/hleroy/pdfprep/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"unsplittable page", pdfprep.ErrUnsplittablePage, ExitUnsplittable},
		{"attempt budget exhausted", pdfprep.ErrMaxAttempts, ExitAttempts},
		{"non compliant", pdfprep.ErrNonCompliant, ExitNonCompliant},
		{"size determination", pdfprep.ErrSizeDetermination, ExitSizeOracle},
		{"materialization", pdfprep.ErrMaterialization, ExitExternalTool},
		{"conversion", pdfprep.ErrConversion, ExitExternalTool},
		{"browser connect", pdfprep.ErrBrowserConnect, ExitExternalTool},
		{"compliance tool failure", pdfprep.ErrComplianceCheck, ExitExternalTool},
		{"deadline exceeded", context.DeadlineExceeded, ExitExternalTool},
		{"file not found", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"empty document", pdfprep.ErrEmptyDocument, ExitUsage},
		{"unsupported format", pdfprep.ErrUnsupportedFormat, ExitUsage},
		{"invalid worker count", ErrInvalidWorkerCount, ExitUsage},
		{"invalid timeout", ErrInvalidTimeout, ExitUsage},
		{"invalid limit", ErrInvalidLimit, ExitUsage},
		{"unknown error", errors.New("something else"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFor_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("preparing report.pdf: %w", pdfprep.ErrUnsplittablePage)
	if got := exitCodeFor(wrapped); got != ExitUnsplittable {
		t.Errorf("wrapped error: exitCodeFor = %d, want %d", got, ExitUnsplittable)
	}

	doubly := fmt.Errorf("batch: %w", fmt.Errorf("loading config: %w", config.ErrConfigNotFound))
	if got := exitCodeFor(doubly); got != ExitUsage {
		t.Errorf("doubly wrapped error: exitCodeFor = %d, want %d", got, ExitUsage)
	}
}
