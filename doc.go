// Package pdfprep prepares documents for submission systems that enforce
// a hard per-file byte ceiling and PDF compliance rules.
//
// # Quick Start
//
// Create a preparer, process a document, and close when done:
//
//	prep, err := pdfprep.NewPreparer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer prep.Close()
//
//	result, err := prep.Prepare(ctx, "report.docx", "report.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Outputs) // ["report.pdf"] or ["report_part1.pdf", ...]
//
// # Pipeline
//
// Preparation follows three stages:
//
//  1. Conversion to PDF via format adapters (LibreOffice, Ghostscript,
//     ImageMagick, headless Chrome for HTML and Markdown)
//  2. Compliance validation (font embedding, encryption, page geometry)
//     by parsing pdfinfo and pdffonts output
//  3. Adaptive partitioning when the PDF exceeds the byte ceiling,
//     producing contiguous page-ordered parts that each fit
//
// # Partitioning
//
// The core of the package is Partition: given a document whose size
// exceeds a limit, it produces the minimum practical number of
// contiguous segments using only black-box "materialize a page range"
// and "measure size" operations. The size of a materialized range is
// non-linear in its page count (headers, shared resources, per-file
// overhead), so Partition estimates a window from the whole-document
// average bytes per page and corrects by shrinking 20% per retry until
// a candidate fits. The external capabilities are expressed as the
// PageCounter, SizeOracle and RangeMaterializer interfaces so the
// algorithm is testable with deterministic fakes; QPDF implements the
// real ones on top of the qpdf binary.
//
// # Configuration
//
// Use functional options to customize the preparer:
//
//	prep, err := pdfprep.NewPreparer(
//	    pdfprep.WithMaxSize(20<<20),
//	    pdfprep.WithSafetyMargin(0.85),
//	    pdfprep.WithTimeout(2*time.Minute),
//	)
//
// # Parallel Processing
//
// For batch preparation, use PreparerPool to manage multiple instances
// (each owns its own browser for HTML rendering):
//
//	pool := pdfprep.NewPreparerPool(4)
//	defer pool.Close()
//
//	prep := pool.Acquire()
//	defer pool.Release(prep)
//	result, err := prep.Prepare(ctx, input, output)
//
// # External Tools
//
// Real oracles and adapters shell out to qpdf, pdfinfo, pdffonts,
// Ghostscript, LibreOffice and ImageMagick. HTML rendering requires
// Chrome/Chromium; the go-rod library downloads a managed Chromium on
// first run. Run "pdfprep doctor" to check which tools are available.
package pdfprep
