package pdfprep

import (
	"bytes"
	"context"
	"fmt"
	"os"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// documentCSS keeps markdown-sourced submissions readable without any
// styling surface: system fonts, restrained code blocks, print-safe
// tables.
const documentCSS = `body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; font-size: 12pt; line-height: 1.5; }
pre { background: #f5f5f5; padding: 0.5em; overflow-x: auto; font-size: 10pt; }
code { font-family: "SF Mono", Consolas, monospace; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.3em 0.6em; }
img { max-width: 100%; }`

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Document</title>
<style>
%s
</style>
</head>
<body>
%s
</body>
</html>`

// MarkdownConverter converts Markdown to PDF: goldmark renders HTML
// (pure Go), then the browser converter prints it.
type MarkdownConverter struct {
	md       goldmark.Markdown
	renderer *BrowserConverter
}

// Compile-time interface check.
var _ Converter = (*MarkdownConverter)(nil)

// NewMarkdownConverter creates a MarkdownConverter with GFM extensions
// and syntax highlighting, rendering through browser.
func NewMarkdownConverter(browser *BrowserConverter) *MarkdownConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes keep the HTML small
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Treat newlines as <br>
			html.WithXHTML(),     // Self-closing tags
		),
	)
	return &MarkdownConverter{md: md, renderer: browser}
}

// ToPDF reads the Markdown file, converts it to a standalone HTML5
// document, and prints it to PDF.
func (c *MarkdownConverter) ToPDF(ctx context.Context, inputPath, outputPath string) error {
	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}

	htmlContent, err := c.toHTML(ctx, content)
	if err != nil {
		return err
	}

	pdfBytes, err := c.renderer.RenderHTML(ctx, htmlContent)
	if err != nil {
		return err
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("%w: writing output: %v", ErrPDFGeneration, err)
	}
	return nil
}

// toHTML converts Markdown content to a standalone HTML5 document.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *MarkdownConverter) toHTML(ctx context.Context, content []byte) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert(content, &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, documentCSS, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
