package pdfprep

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hleroy/pdfprep/internal/execx"
	"github.com/hleroy/pdfprep/internal/fileutil"
)

// complianceChecker abstracts the validation stage to allow mocking.
type complianceChecker interface {
	Validate(ctx context.Context, path string) (*ComplianceReport, error)
}

// Compile-time interface check.
var _ complianceChecker = (*Validator)(nil)

// Preparer orchestrates the convert -> validate -> partition pipeline.
// Create with NewPreparer, process documents with Prepare, and Close
// when done.
type Preparer struct {
	cfg       preparerConfig
	runner    execx.CommandRunner
	qpdf      *QPDF
	validator complianceChecker
	browser   *BrowserConverter

	// converters overrides the extension registry (tests only).
	converters map[string]Converter
	// oracles overrides the partition capabilities (tests only).
	oracles *Oracles
}

// NewPreparer creates a Preparer with default configuration.
// Use options to customize behavior (e.g., WithMaxSize, WithTimeout).
func NewPreparer(opts ...Option) (*Preparer, error) {
	p := &Preparer{
		cfg: preparerConfig{
			maxSizeBytes: DefaultMaxSizeBytes,
			safetyMargin: DefaultSafetyMargin,
			maxAttempts:  DefaultMaxAttempts,
			timeout:      defaultTimeout,
			validate:     true,
			rules:        DefaultComplianceRules(),
		},
		runner: execx.Runner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.cfg.maxSizeBytes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxSize, p.cfg.maxSizeBytes)
	}
	if p.cfg.safetyMargin <= 0 || p.cfg.safetyMargin > 1 {
		return nil, fmt.Errorf("%w: %.2f", ErrInvalidSafetyMargin, p.cfg.safetyMargin)
	}
	if p.cfg.maxAttempts < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxAttempts, p.cfg.maxAttempts)
	}

	// Wire the real collaborators unless tests injected substitutes.
	if p.qpdf == nil {
		p.qpdf = &QPDF{Runner: p.runner, Path: p.cfg.tools.QPDF}
	}
	if p.validator == nil {
		p.validator = &Validator{
			Runner:       p.runner,
			Rules:        p.cfg.rules,
			PDFInfoPath:  p.cfg.tools.PDFInfo,
			PDFFontsPath: p.cfg.tools.PDFFonts,
		}
	}
	if p.browser == nil {
		p.browser = NewBrowserConverter(p.cfg.timeout)
	}

	return p, nil
}

// PrepareResult holds the outcome of preparing one document.
type PrepareResult struct {
	Outputs   []string          // final files, in page order
	Parts     int               // len(Outputs); 1 means "not split"
	PageCount int               // pages in the converted PDF
	TotalSize int64             // size of the converted PDF in bytes
	Report    *ComplianceReport // nil when validation is disabled
}

// Prepare converts inputPath to PDF, validates it, and splits it into
// size-compliant parts written next to outputPath. When the converted
// document already fits, the single output is outputPath itself;
// otherwise parts are named outputPath with a _part{N} suffix.
func (p *Preparer) Prepare(ctx context.Context, inputPath, outputPath string) (*PrepareResult, error) {
	if inputPath == "" {
		return nil, ErrEmptyDocument
	}
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = strings.TrimSuffix(inputPath, ext) + ".pdf"
	}

	if p.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.timeout)
		defer cancel()
	}

	ws, err := fileutil.NewWorkspace("", "pdfprep-prepare-")
	if err != nil {
		return nil, err
	}
	defer func() { _ = ws.Release() }()

	// Convert to PDF.
	conv, err := p.converterFor(filepath.Ext(inputPath))
	if err != nil {
		return nil, err
	}
	pdfPath := ws.Path("converted.pdf")
	if err := conv.ToPDF(ctx, inputPath, pdfPath); err != nil {
		return nil, fmt.Errorf("converting %s: %w", filepath.Base(inputPath), err)
	}

	// Compliance checks.
	var report *ComplianceReport
	if p.cfg.validate {
		report, err = p.validator.Validate(ctx, pdfPath)
		if err != nil {
			return nil, err
		}
		if !report.Compliant() {
			return nil, fmt.Errorf("%w: %s", ErrNonCompliant, strings.Join(report.Violations, "; "))
		}
	}

	// Partition under the byte ceiling.
	plan, err := Partition(ctx, Document{Path: pdfPath}, p.cfg.maxSizeBytes, p.partitionOracles(),
		PartitionSafetyMargin(p.cfg.safetyMargin),
		PartitionMaxAttempts(p.cfg.maxAttempts),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = plan.Release() }()

	outputs, err := Assemble(plan, outputPath)
	if err != nil {
		return nil, err
	}

	var totalSize int64
	for _, seg := range plan.Segments {
		totalSize += seg.Size
	}

	return &PrepareResult{
		Outputs:   outputs,
		Parts:     len(outputs),
		PageCount: plan.PageCount,
		TotalSize: totalSize,
		Report:    report,
	}, nil
}

// Close releases resources (headless Chrome browser).
func (p *Preparer) Close() error {
	if p.browser != nil {
		return p.browser.Close()
	}
	return nil
}

// partitionOracles returns the capabilities the partitioner runs with.
func (p *Preparer) partitionOracles() Oracles {
	if p.oracles != nil {
		return *p.oracles
	}
	return Oracles{
		Pages:       p.qpdf,
		Size:        StatSizeOracle{},
		Materialize: p.qpdf,
	}
}

// converterFor maps an input extension to its conversion adapter.
func (p *Preparer) converterFor(ext string) (Converter, error) {
	ext = strings.ToLower(ext)

	if c, ok := p.converters[ext]; ok {
		return c, nil
	}

	switch ext {
	case ".pdf":
		return passthroughConverter{}, nil
	case ".md", ".markdown":
		return NewMarkdownConverter(p.browser), nil
	case ".html", ".htm":
		return p.browser, nil
	case ".doc", ".docx", ".odt", ".rtf", ".xls", ".xlsx", ".ods", ".ppt", ".pptx", ".odp":
		return &OfficeConverter{Runner: p.runner, Path: p.cfg.tools.Soffice}, nil
	case ".ps", ".eps":
		return &GhostscriptConverter{Runner: p.runner, Path: p.cfg.tools.Ghostscript}, nil
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return &ImageConverter{Runner: p.runner, Path: p.cfg.tools.Magick}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
