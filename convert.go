package pdfprep

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hleroy/pdfprep/internal/execx"
	"github.com/hleroy/pdfprep/internal/fileutil"
)

// Converter turns one input file into a PDF artifact at outputPath.
// Adapters are thin wrappers over external tools; the preparer picks
// one by input extension.
type Converter interface {
	ToPDF(ctx context.Context, inputPath, outputPath string) error
}

// Compile-time interface checks.
var (
	_ Converter = passthroughConverter{}
	_ Converter = (*OfficeConverter)(nil)
	_ Converter = (*GhostscriptConverter)(nil)
	_ Converter = (*ImageConverter)(nil)
)

// passthroughConverter copies PDFs unchanged.
type passthroughConverter struct{}

func (passthroughConverter) ToPDF(ctx context.Context, inputPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fileutil.CopyFile(inputPath, outputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return nil
}

// OfficeConverter renders office-suite documents with headless LibreOffice.
type OfficeConverter struct {
	Runner execx.CommandRunner
	Path   string // empty = "soffice" on PATH
}

func (c *OfficeConverter) binary() string {
	if c.Path != "" {
		return c.Path
	}
	return "soffice"
}

// ToPDF converts inputPath via `soffice --headless --convert-to pdf`.
// LibreOffice names its output after the input base name, so the result
// is renamed to outputPath when the two differ.
func (c *OfficeConverter) ToPDF(ctx context.Context, inputPath, outputPath string) error {
	outDir := filepath.Dir(outputPath)
	_, stderr, err := c.Runner.Run(ctx, c.binary(),
		"--headless", "--convert-to", "pdf", "--outdir", outDir, inputPath)
	if err != nil {
		return fmt.Errorf("%w: soffice: %s: %v", ErrConversion, firstLine(stderr), err)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	produced := filepath.Join(outDir, base+".pdf")
	if produced == outputPath {
		return nil
	}
	if err := fileutil.CopyFile(produced, outputPath); err != nil {
		return fmt.Errorf("%w: collecting soffice output: %v", ErrConversion, err)
	}
	return nil
}

// GhostscriptConverter interprets PostScript into PDF.
type GhostscriptConverter struct {
	Runner execx.CommandRunner
	Path   string // empty = "gs" on PATH
}

func (c *GhostscriptConverter) binary() string {
	if c.Path != "" {
		return c.Path
	}
	return "gs"
}

// ToPDF converts inputPath via Ghostscript's pdfwrite device.
func (c *GhostscriptConverter) ToPDF(ctx context.Context, inputPath, outputPath string) error {
	_, stderr, err := c.Runner.Run(ctx, c.binary(),
		"-dBATCH", "-dNOPAUSE", "-dQUIET", "-sDEVICE=pdfwrite",
		"-sOutputFile="+outputPath, inputPath)
	if err != nil {
		return fmt.Errorf("%w: gs: %s: %v", ErrConversion, firstLine(stderr), err)
	}
	return nil
}

// ImageConverter rasterizes images onto PDF pages with ImageMagick.
type ImageConverter struct {
	Runner execx.CommandRunner
	Path   string // empty = "magick" on PATH
}

func (c *ImageConverter) binary() string {
	if c.Path != "" {
		return c.Path
	}
	return "magick"
}

// ToPDF converts inputPath via `magick input output.pdf`.
func (c *ImageConverter) ToPDF(ctx context.Context, inputPath, outputPath string) error {
	_, stderr, err := c.Runner.Run(ctx, c.binary(), inputPath, outputPath)
	if err != nil {
		return fmt.Errorf("%w: magick: %s: %v", ErrConversion, firstLine(stderr), err)
	}
	return nil
}

// SupportedExtensions lists the input formats the preparer accepts,
// lowercase with leading dot.
func SupportedExtensions() []string {
	return []string{
		".pdf",
		".md", ".markdown",
		".html", ".htm",
		".doc", ".docx", ".odt", ".rtf",
		".xls", ".xlsx", ".ods",
		".ppt", ".pptx", ".odp",
		".ps", ".eps",
		".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp",
	}
}

// IsSupportedExtension reports whether ext (with leading dot, any case)
// maps to a conversion adapter.
func IsSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, known := range SupportedExtensions() {
		if ext == known {
			return true
		}
	}
	return false
}
