package main

import (
	"context"
	"errors"
	"os"

	pdfprep "github.com/hleroy/pdfprep"
	"github.com/hleroy/pdfprep/internal/config"
)

// Exit codes for pdfprep CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess      = 0 // All inputs prepared
	ExitGeneral      = 1 // General/unexpected error
	ExitUsage        = 2 // Invalid flags, config, or validation
	ExitIO           = 3 // File not found, permission denied
	ExitExternalTool = 4 // External tool or browser failure
	ExitSizeOracle   = 5 // Size or page count could not be determined
	ExitUnsplittable = 6 // A single page exceeds the size limit
	ExitAttempts     = 7 // Segment attempt budget exhausted
	ExitNonCompliant = 8 // Document failed compliance checks
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Partitioning outcomes get their own codes so scripts can react.
	if errors.Is(err, pdfprep.ErrUnsplittablePage) {
		return ExitUnsplittable
	}
	if errors.Is(err, pdfprep.ErrMaxAttempts) {
		return ExitAttempts
	}
	if errors.Is(err, pdfprep.ErrNonCompliant) {
		return ExitNonCompliant
	}
	if errors.Is(err, pdfprep.ErrSizeDetermination) {
		return ExitSizeOracle
	}

	// External tool and browser errors (exit 4)
	if errors.Is(err, pdfprep.ErrMaterialization) ||
		errors.Is(err, pdfprep.ErrConversion) ||
		errors.Is(err, pdfprep.ErrHTMLConversion) ||
		errors.Is(err, pdfprep.ErrComplianceCheck) ||
		errors.Is(err, pdfprep.ErrBrowserConnect) ||
		errors.Is(err, pdfprep.ErrPageCreate) ||
		errors.Is(err, pdfprep.ErrPageLoad) ||
		errors.Is(err, pdfprep.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitExternalTool
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, pdfprep.ErrEmptyDocument) ||
		errors.Is(err, pdfprep.ErrInvalidMaxSize) ||
		errors.Is(err, pdfprep.ErrInvalidSafetyMargin) ||
		errors.Is(err, pdfprep.ErrInvalidMaxAttempts) ||
		errors.Is(err, pdfprep.ErrUnsupportedFormat) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidLimit) {
		return ExitUsage
	}

	return ExitGeneral
}
