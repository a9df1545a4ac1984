package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	pdfprep "github.com/hleroy/pdfprep"
	"github.com/hleroy/pdfprep/internal/config"
	"github.com/hleroy/pdfprep/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidLimit       = errors.New("invalid limit")
)

// File permission constants.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// Preparer is the interface for the preparation service.
type Preparer interface {
	Prepare(ctx context.Context, inputPath, outputPath string) (*pdfprep.PrepareResult, error)
}

// Compile-time interface implementation check.
var _ Preparer = (*pdfprep.Preparer)(nil)

// Pool abstracts preparer pool operations for testability.
type Pool interface {
	Acquire() (Preparer, error)
	Release(Preparer)
	Size() int
	Close() error
}

// poolFactory creates a Pool of the given size. Production code uses
// newPreparerPool; tests substitute a fake.
type poolFactory func(size int, opts ...pdfprep.Option) Pool

// servicePool adapts pdfprep.PreparerPool to the Pool interface.
type servicePool struct {
	pool *pdfprep.PreparerPool
}

func newPreparerPool(size int, opts ...pdfprep.Option) Pool {
	return &servicePool{pool: pdfprep.NewPreparerPool(size, opts...)}
}

func (s *servicePool) Acquire() (Preparer, error) {
	return s.pool.Acquire()
}

func (s *servicePool) Release(p Preparer) {
	if prep, ok := p.(*pdfprep.Preparer); ok {
		s.pool.Release(prep)
	}
}

func (s *servicePool) Size() int { return s.pool.Size() }

func (s *servicePool) Close() error { return s.pool.Close() }

// FileToPrepare represents a single input to process.
type FileToPrepare struct {
	InputPath  string
	OutputPath string
}

// PrepareOutcome holds the outcome of a single preparation.
type PrepareOutcome struct {
	InputPath string
	Result    *pdfprep.PrepareResult
	Err       error
	Duration  time.Duration
}

// runPrepareCmd parses flags, configures the runtime, and runs the
// prepare command. Returns the process exit code.
func runPrepareCmd(args []string, deps *Dependencies) int {
	flags, positional, err := parsePrepareFlags(args)
	if err != nil {
		fmt.Fprintln(deps.Stderr, err)
		return ExitUsage
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.common.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(deps.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := signalContext()
	defer stop()

	if err := runPrepare(ctx, positional, flags, newPreparerPool, deps); err != nil {
		fmt.Fprintf(deps.Stderr, "%v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runPrepare orchestrates the preparation process.
func runPrepare(ctx context.Context, positionalArgs []string, flags *prepareFlags, newPool poolFactory, deps *Dependencies) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	// Load configuration
	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Resolve input path
	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	// Resolve output destination
	outputDir := resolveOutputDir(flags.output, cfg)

	// Discover files to prepare
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported documents found in %s", inputPath)
	}

	// Build service options from config and flags (CLI wins)
	opts, err := buildOptions(flags, cfg)
	if err != nil {
		return err
	}

	poolSize := pdfprep.ResolvePoolSize(flags.workers)
	if flags.common.verbose {
		fmt.Fprintf(deps.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := newPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	results := prepareBatch(ctx, pool, files)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, deps)
	if failedCount > 0 {
		return fmt.Errorf("%d preparation(s) failed", failedCount)
	}
	return nil
}

// buildOptions merges config and CLI flags into service options.
// CLI values override config values.
func buildOptions(flags *prepareFlags, cfg *config.Config) ([]pdfprep.Option, error) {
	var opts []pdfprep.Option

	maxSizeMB := cfg.Limits.MaxSizeMB
	if flags.limits.maxSizeMB != 0 {
		maxSizeMB = flags.limits.maxSizeMB
	}
	if maxSizeMB < 0 || maxSizeMB > config.MaxMaxSizeMB {
		return nil, fmt.Errorf("%w: --max-size-mb %d (must be 1-%d)", ErrInvalidLimit, maxSizeMB, config.MaxMaxSizeMB)
	}
	if maxSizeMB > 0 {
		opts = append(opts, pdfprep.WithMaxSize(int64(maxSizeMB)<<20))
	}

	margin := cfg.Limits.SafetyMargin
	if flags.limits.margin != 0 {
		margin = flags.limits.margin
	}
	if margin < 0 || margin > 1 {
		return nil, fmt.Errorf("%w: --margin %.2f (must be in (0, 1])", ErrInvalidLimit, margin)
	}
	if margin > 0 {
		opts = append(opts, pdfprep.WithSafetyMargin(margin))
	}

	maxAttempts := cfg.Limits.MaxAttempts
	if flags.limits.maxAttempts != 0 {
		maxAttempts = flags.limits.maxAttempts
	}
	if maxAttempts < 0 || maxAttempts > config.MaxMaxAttempts {
		return nil, fmt.Errorf("%w: --max-attempts %d (must be 1-%d)", ErrInvalidLimit, maxAttempts, config.MaxMaxAttempts)
	}
	if maxAttempts > 0 {
		opts = append(opts, pdfprep.WithMaxAttempts(maxAttempts))
	}

	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		opts = append(opts, pdfprep.WithTimeout(d))
	}

	if flags.validation.disabled || !cfg.Validation.Enabled {
		opts = append(opts, pdfprep.WithoutValidation())
	} else {
		opts = append(opts, pdfprep.WithComplianceRules(pdfprep.ComplianceRules{
			RequireEmbeddedFonts: cfg.Validation.RequireEmbeddedFonts,
			ForbidEncryption:     cfg.Validation.ForbidEncryption,
			MaxPageWidthPts:      cfg.Validation.MaxPageWidthPts,
			MaxPageHeightPts:     cfg.Validation.MaxPageHeightPts,
		}))
	}

	tools := mergeToolPaths(flags.tools, cfg.Tools)
	if tools != (pdfprep.ToolPaths{}) {
		opts = append(opts, pdfprep.WithToolPaths(tools))
	}

	return opts, nil
}

// mergeToolPaths merges CLI tool flags over config values.
func mergeToolPaths(flags toolFlags, cfg config.ToolsConfig) pdfprep.ToolPaths {
	pick := func(flag, conf string) string {
		if flag != "" {
			return flag
		}
		return conf
	}
	return pdfprep.ToolPaths{
		QPDF:        pick(flags.qpdf, cfg.QPDF),
		PDFInfo:     pick(flags.pdfinfo, cfg.PDFInfo),
		PDFFonts:    pick(flags.pdffonts, cfg.PDFFonts),
		Ghostscript: pick(flags.ghostscript, cfg.Ghostscript),
		Soffice:     pick(flags.soffice, cfg.Soffice),
		Magick:      pick(flags.magick, cfg.Magick),
	}
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// discoverFiles finds all supported documents to prepare.
func discoverFiles(inputPath, outputDir string) ([]FileToPrepare, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !pdfprep.IsSupportedExtension(filepath.Ext(inputPath)) {
			return nil, fmt.Errorf("%w: %q", pdfprep.ErrUnsupportedFormat, filepath.Ext(inputPath))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToPrepare{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToPrepare
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !pdfprep.IsSupportedExtension(filepath.Ext(path)) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToPrepare{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for an input file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if strings.HasSuffix(outputDir, ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > pdfprep.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, pdfprep.MaxPoolSize)
	}
	return nil
}

// prepareBatch processes files concurrently using the preparer pool.
func prepareBatch(ctx context.Context, pool Pool, files []FileToPrepare) []PrepareOutcome {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]PrepareOutcome, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc, err := pool.Acquire()
			if err != nil {
				for idx := range jobs {
					results[idx] = PrepareOutcome{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = PrepareOutcome{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = prepareFile(ctx, svc, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// prepareFile processes a single file and returns the outcome.
func prepareFile(ctx context.Context, service Preparer, f FileToPrepare) PrepareOutcome {
	start := time.Now()
	outcome := PrepareOutcome{InputPath: f.InputPath}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		outcome.Err = fmt.Errorf("creating output directory: %w", err)
		outcome.Duration = time.Since(start)
		return outcome
	}

	result, err := service.Prepare(ctx, f.InputPath, f.OutputPath)
	outcome.Result = result
	outcome.Err = err
	outcome.Duration = time.Since(start)
	return outcome
}

// printResults outputs preparation results and returns the failure count.
func printResults(results []PrepareOutcome, quiet, verbose bool, deps *Dependencies) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		for _, out := range r.Result.Outputs {
			if verbose {
				fmt.Fprintf(deps.Stdout, "%s -> %s (%v)\n", r.InputPath, out, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(deps.Stdout, "Created %s\n", out)
			}
		}
		if !quiet && r.Result.Parts > 1 {
			fmt.Fprintf(deps.Stdout, "%s split into %d parts (%d pages)\n",
				r.InputPath, r.Result.Parts, r.Result.PageCount)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(deps.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}

// hintFor returns an actionable hint for well-known failure modes.
func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, pdfprep.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, pdfprep.ErrUnsplittablePage):
		return hints.ForUnsplittable()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, os.ErrPermission):
		return hints.ForOutputDirectory()
	}
	return ""
}
