package pdfprep

import "errors"

// Sentinel errors for library operations.
var (
	// Partitioning errors. All of them abort the run; no partial plan
	// is ever returned.
	ErrSizeDetermination = errors.New("document size or page count could not be determined")
	ErrMaterialization   = errors.New("page range materialization failed")
	ErrUnsplittablePage  = errors.New("single page exceeds the size limit")
	ErrMaxAttempts       = errors.New("segment attempts exhausted without convergence")

	// Input validation errors.
	ErrEmptyDocument       = errors.New("document path cannot be empty")
	ErrInvalidMaxSize      = errors.New("max size must be positive")
	ErrInvalidSafetyMargin = errors.New("safety margin must be greater than 0 and at most 1")
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrMissingOracle       = errors.New("page counter, size oracle and range materializer are all required")

	// Conversion errors.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrConversion        = errors.New("PDF conversion failed")
	ErrHTMLConversion    = errors.New("HTML conversion failed")
	ErrBrowserConnect    = errors.New("failed to connect to browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrPageLoad          = errors.New("failed to load page")
	ErrPDFGeneration     = errors.New("PDF generation failed")

	// Compliance errors.
	ErrComplianceCheck = errors.New("compliance check failed")
	ErrNonCompliant    = errors.New("document violates submission rules")
)
