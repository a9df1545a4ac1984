package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	pdfprep "github.com/hleroy/pdfprep"
	"github.com/hleroy/pdfprep/internal/config"
)

// fakePreparer records inputs and replays a canned result.
type fakePreparer struct {
	mu     sync.Mutex
	inputs []string
	err    error
}

func (f *fakePreparer) Prepare(_ context.Context, inputPath, outputPath string) (*pdfprep.PrepareResult, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, inputPath)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &pdfprep.PrepareResult{
		Outputs:   []string{outputPath},
		Parts:     1,
		PageCount: 1,
	}, nil
}

// fakePool hands out a single shared fake preparer.
type fakePool struct {
	prep *fakePreparer
	size int
}

func (f *fakePool) Acquire() (Preparer, error) { return f.prep, nil }
func (f *fakePool) Release(Preparer)           {}
func (f *fakePool) Size() int                  { return f.size }
func (f *fakePool) Close() error               { return nil }

func testDeps() (*Dependencies, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	deps := DefaultDeps()
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	return deps, &stdout, &stderr
}

func TestValidateWorkers(t *testing.T) {
	tests := []struct {
		workers int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{pdfprep.MaxPoolSize, false},
		{-1, true},
		{pdfprep.MaxPoolSize + 1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.workers)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.workers, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d): expected ErrInvalidWorkerCount, got %v", tt.workers, err)
		}
	}
}

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		name         string
		inputPath    string
		outputDir    string
		baseInputDir string
		want         string
	}{
		{
			name:      "no output dir writes next to input",
			inputPath: "/docs/thesis.docx",
			want:      "/docs/thesis.pdf",
		},
		{
			name:      "explicit pdf path wins",
			inputPath: "/docs/thesis.docx",
			outputDir: "/out/final.pdf",
			want:      "/out/final.pdf",
		},
		{
			name:      "output directory",
			inputPath: "/docs/thesis.docx",
			outputDir: "/out",
			want:      "/out/thesis.pdf",
		},
		{
			name:         "directory input preserves structure",
			inputPath:    "/docs/sub/a.md",
			outputDir:    "/out",
			baseInputDir: "/docs",
			want:         "/out/sub/a.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveOutputPath(tt.inputPath, tt.outputDir, tt.baseInputDir)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiscoverFiles(t *testing.T) {
	tmpDir := t.TempDir()
	mustWrite := func(name string) {
		t.Helper()
		path := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("a.pdf")
	mustWrite("b.docx")
	mustWrite("notes.txt") // unsupported, skipped
	mustWrite("sub/c.md")

	files, err := discoverFiles(tmpDir, "")
	if err != nil {
		t.Fatalf("discoverFiles: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("found %d files, want 3: %+v", len(files), files)
	}

	t.Run("single file", func(t *testing.T) {
		files, err := discoverFiles(filepath.Join(tmpDir, "a.pdf"), "")
		if err != nil {
			t.Fatalf("discoverFiles: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("found %d files, want 1", len(files))
		}
	})

	t.Run("unsupported single file", func(t *testing.T) {
		_, err := discoverFiles(filepath.Join(tmpDir, "notes.txt"), "")
		if !errors.Is(err, pdfprep.ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := discoverFiles(filepath.Join(tmpDir, "ghost"), "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

func TestBuildOptions(t *testing.T) {
	tests := []struct {
		name    string
		flags   prepareFlags
		wantErr error
	}{
		{
			name:  "defaults are valid",
			flags: prepareFlags{},
		},
		{
			name:  "explicit limits",
			flags: prepareFlags{limits: limitFlags{maxSizeMB: 10, margin: 0.85, maxAttempts: 15}},
		},
		{
			name:    "negative max size",
			flags:   prepareFlags{limits: limitFlags{maxSizeMB: -1}},
			wantErr: ErrInvalidLimit,
		},
		{
			name:    "margin over one",
			flags:   prepareFlags{limits: limitFlags{margin: 1.5}},
			wantErr: ErrInvalidLimit,
		},
		{
			name:    "unparsable timeout",
			flags:   prepareFlags{timeout: "soon"},
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative timeout",
			flags:   prepareFlags{timeout: "-5s"},
			wantErr: ErrInvalidTimeout,
		},
		{
			name:  "valid timeout",
			flags: prepareFlags{timeout: "2m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildOptions(&tt.flags, config.DefaultConfig())
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMergeToolPaths(t *testing.T) {
	got := mergeToolPaths(
		toolFlags{qpdf: "/flag/qpdf"},
		config.ToolsConfig{QPDF: "/cfg/qpdf", Soffice: "/cfg/soffice"},
	)
	if got.QPDF != "/flag/qpdf" {
		t.Errorf("flag should win: QPDF = %q", got.QPDF)
	}
	if got.Soffice != "/cfg/soffice" {
		t.Errorf("config fallback: Soffice = %q", got.Soffice)
	}
	if got.Magick != "" {
		t.Errorf("unset tool: Magick = %q", got.Magick)
	}
}

func TestPrepareBatch(t *testing.T) {
	prep := &fakePreparer{}
	pool := &fakePool{prep: prep, size: 2}

	files := []FileToPrepare{
		{InputPath: "a.pdf", OutputPath: filepath.Join(t.TempDir(), "a.pdf")},
		{InputPath: "b.pdf", OutputPath: filepath.Join(t.TempDir(), "b.pdf")},
		{InputPath: "c.pdf", OutputPath: filepath.Join(t.TempDir(), "c.pdf")},
	}

	results := prepareBatch(context.Background(), pool, files)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d failed: %v", i, r.Err)
		}
	}
	if len(prep.inputs) != 3 {
		t.Errorf("preparer saw %d inputs, want 3", len(prep.inputs))
	}
}

func TestPrepareBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := &fakePool{prep: &fakePreparer{}, size: 1}
	results := prepareBatch(ctx, pool, []FileToPrepare{{InputPath: "a.pdf", OutputPath: "a.pdf"}})

	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", results[0].Err)
	}
}

func TestRunPrepare_EndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "report.pdf")
	if err := os.WriteFile(input, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(tmpDir, "out")

	prep := &fakePreparer{}
	factory := func(size int, opts ...pdfprep.Option) Pool {
		return &fakePool{prep: prep, size: size}
	}
	deps, stdout, _ := testDeps()

	flags := &prepareFlags{output: outDir}
	err := runPrepare(context.Background(), []string{input}, flags, factory, deps)
	if err != nil {
		t.Fatalf("runPrepare: %v", err)
	}

	if len(prep.inputs) != 1 || prep.inputs[0] != input {
		t.Errorf("preparer inputs = %v", prep.inputs)
	}
	if !strings.Contains(stdout.String(), "Created") {
		t.Errorf("stdout = %q, want a Created line", stdout.String())
	}
}

func TestRunPrepare_NoInput(t *testing.T) {
	deps, _, _ := testDeps()
	factory := func(size int, opts ...pdfprep.Option) Pool {
		return &fakePool{prep: &fakePreparer{}, size: size}
	}

	err := runPrepare(context.Background(), nil, &prepareFlags{}, factory, deps)
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestRunPrepare_FailureCounts(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "report.pdf")
	if err := os.WriteFile(input, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	prep := &fakePreparer{err: pdfprep.ErrUnsplittablePage}
	factory := func(size int, opts ...pdfprep.Option) Pool {
		return &fakePool{prep: prep, size: size}
	}
	deps, _, stderr := testDeps()

	err := runPrepare(context.Background(), []string{input}, &prepareFlags{}, factory, deps)
	if err == nil {
		t.Fatal("expected failure to propagate")
	}
	if !strings.Contains(stderr.String(), "FAILED") {
		t.Errorf("stderr = %q, want a FAILED line", stderr.String())
	}
	if !strings.Contains(stderr.String(), "hint:") {
		t.Errorf("stderr = %q, want an actionable hint", stderr.String())
	}
}

func TestPrintResults(t *testing.T) {
	outcome := func(in string, parts int, err error) PrepareOutcome {
		var res *pdfprep.PrepareResult
		if err == nil {
			outs := make([]string, parts)
			for i := range outs {
				outs[i] = in
			}
			res = &pdfprep.PrepareResult{Outputs: outs, Parts: parts, PageCount: 10}
		}
		return PrepareOutcome{InputPath: in, Result: res, Err: err}
	}

	t.Run("quiet only reports failures", func(t *testing.T) {
		deps, stdout, stderr := testDeps()
		failed := printResults([]PrepareOutcome{
			outcome("ok.pdf", 1, nil),
			outcome("bad.pdf", 0, errors.New("boom")),
		}, true, false, deps)

		if failed != 1 {
			t.Errorf("failed = %d, want 1", failed)
		}
		if stdout.Len() != 0 {
			t.Errorf("quiet stdout = %q", stdout.String())
		}
		if !strings.Contains(stderr.String(), "bad.pdf") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("split summary", func(t *testing.T) {
		deps, stdout, _ := testDeps()
		printResults([]PrepareOutcome{outcome("big.pdf", 3, nil)}, false, false, deps)
		if !strings.Contains(stdout.String(), "3 parts") {
			t.Errorf("stdout = %q, want split summary", stdout.String())
		}
	})
}

func TestHintFor(t *testing.T) {
	if hintFor(nil) != "" {
		t.Error("nil error must produce no hint")
	}
	if got := hintFor(pdfprep.ErrUnsplittablePage); !strings.Contains(got, "hint:") {
		t.Errorf("unsplittable hint = %q", got)
	}
	if got := hintFor(context.DeadlineExceeded); !strings.Contains(got, "timeout") {
		t.Errorf("timeout hint = %q", got)
	}
}
