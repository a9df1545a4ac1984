package pdfprep

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hleroy/pdfprep/internal/execx"
)

// ComplianceRules configures which submission rules the Validator
// enforces. Zero geometry limits disable the page size check.
type ComplianceRules struct {
	RequireEmbeddedFonts bool
	ForbidEncryption     bool
	MaxPageWidthPts      float64
	MaxPageHeightPts     float64
}

// DefaultComplianceRules returns the rules most submission portals
// enforce: embedded fonts, no encryption, no geometry ceiling.
func DefaultComplianceRules() ComplianceRules {
	return ComplianceRules{
		RequireEmbeddedFonts: true,
		ForbidEncryption:     true,
	}
}

// ComplianceReport summarizes the submission checks for one PDF.
type ComplianceReport struct {
	Pages            int
	Encrypted        bool
	NonEmbeddedFonts []string
	PageWidthPts     float64
	PageHeightPts    float64
	Violations       []string
}

// Compliant reports whether no rule was violated.
func (r *ComplianceReport) Compliant() bool {
	return len(r.Violations) == 0
}

// Validator checks a PDF against the downstream submission rules by
// parsing pdfinfo and pdffonts output. It performs no PDF parsing of
// its own.
type Validator struct {
	Runner       execx.CommandRunner
	Rules        ComplianceRules
	PDFInfoPath  string // empty = "pdfinfo" on PATH
	PDFFontsPath string // empty = "pdffonts" on PATH
}

// NewValidator creates a Validator with a real command runner and the
// default rules.
func NewValidator() *Validator {
	return &Validator{
		Runner: execx.Runner{},
		Rules:  DefaultComplianceRules(),
	}
}

func (v *Validator) pdfinfoBinary() string {
	if v.PDFInfoPath != "" {
		return v.PDFInfoPath
	}
	return "pdfinfo"
}

func (v *Validator) pdffontsBinary() string {
	if v.PDFFontsPath != "" {
		return v.PDFFontsPath
	}
	return "pdffonts"
}

// Validate runs every enabled check and returns the aggregated report.
// A failing rule is recorded as a violation; only tool failures return
// an error.
func (v *Validator) Validate(ctx context.Context, path string) (*ComplianceReport, error) {
	report := &ComplianceReport{}

	if err := v.checkInfo(ctx, path, report); err != nil {
		return nil, err
	}
	if v.Rules.RequireEmbeddedFonts {
		if err := v.checkFonts(ctx, path, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// checkInfo parses pdfinfo output for page count, encryption, and page
// geometry.
func (v *Validator) checkInfo(ctx context.Context, path string, report *ComplianceReport) error {
	stdout, stderr, err := v.Runner.Run(ctx, v.pdfinfoBinary(), path)
	if err != nil {
		return fmt.Errorf("%w: pdfinfo: %s: %v", ErrComplianceCheck, firstLine(stderr), err)
	}

	for _, line := range strings.Split(stdout, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Pages":
			report.Pages, _ = strconv.Atoi(value)
		case "Encrypted":
			if strings.HasPrefix(value, "yes") {
				report.Encrypted = true
				if v.Rules.ForbidEncryption {
					report.Violations = append(report.Violations, "document is encrypted")
				}
			}
		case "Page size":
			w, h, ok := parsePageSize(value)
			if !ok {
				continue
			}
			report.PageWidthPts = w
			report.PageHeightPts = h
			if v.Rules.MaxPageWidthPts > 0 && w > v.Rules.MaxPageWidthPts {
				report.Violations = append(report.Violations,
					fmt.Sprintf("page width %.0f pts exceeds %.0f pts", w, v.Rules.MaxPageWidthPts))
			}
			if v.Rules.MaxPageHeightPts > 0 && h > v.Rules.MaxPageHeightPts {
				report.Violations = append(report.Violations,
					fmt.Sprintf("page height %.0f pts exceeds %.0f pts", h, v.Rules.MaxPageHeightPts))
			}
		}
	}
	return nil
}

// parsePageSize extracts dimensions from pdfinfo's "Page size" value,
// e.g. "612 x 792 pts (letter)".
func parsePageSize(value string) (width, height float64, ok bool) {
	if _, err := fmt.Sscanf(value, "%f x %f pts", &width, &height); err != nil {
		return 0, 0, false
	}
	return width, height, true
}

// checkFonts parses pdffonts output and records fonts that are not
// embedded.
func (v *Validator) checkFonts(ctx context.Context, path string, report *ComplianceReport) error {
	stdout, stderr, err := v.Runner.Run(ctx, v.pdffontsBinary(), path)
	if err != nil {
		return fmt.Errorf("%w: pdffonts: %s: %v", ErrComplianceCheck, firstLine(stderr), err)
	}

	lines := strings.Split(stdout, "\n")
	if len(lines) < 3 {
		// Header plus separator only: the document uses no fonts.
		return nil
	}

	// Table columns end with: emb sub uni object ID. The ID is two
	// tokens, so the emb flag is always the fifth field from the right.
	// The name and type columns may contain spaces and cannot be split
	// positionally from the left.
	for _, line := range lines[2:] {
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}
		if fields[len(fields)-5] == "no" {
			name := fields[0]
			report.NonEmbeddedFonts = append(report.NonEmbeddedFonts, name)
			report.Violations = append(report.Violations,
				fmt.Sprintf("font %q is not embedded", name))
		}
	}
	return nil
}
