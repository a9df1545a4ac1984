package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// limitFlags holds partitioning budget flags. Zero means "use config or
// library default".
type limitFlags struct {
	maxSizeMB   int
	margin      float64
	maxAttempts int
}

// validationFlags holds compliance check flags.
type validationFlags struct {
	disabled bool
}

// toolFlags holds external binary path overrides.
type toolFlags struct {
	qpdf        string
	pdfinfo     string
	pdffonts    string
	ghostscript string
	soffice     string
	magick      string
}

// prepareFlags holds all flags for the prepare command.
type prepareFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	limits     limitFlags
	validation validationFlags
	tools      toolFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addLimitFlags adds partitioning budget flags to a FlagSet.
func addLimitFlags(fs *flag.FlagSet, f *limitFlags) {
	fs.IntVar(&f.maxSizeMB, "max-size-mb", 0, "per-part size limit in MiB (0 = default 24)")
	fs.Float64Var(&f.margin, "margin", 0, "estimation safety margin (0 < m <= 1)")
	fs.IntVar(&f.maxAttempts, "max-attempts", 0, "per-segment probe limit (0 = default 20)")
}

// addValidationFlags adds compliance flags to a FlagSet.
func addValidationFlags(fs *flag.FlagSet, f *validationFlags) {
	fs.BoolVar(&f.disabled, "no-validate", false, "skip compliance checks")
}

// addToolFlags adds external tool path flags to a FlagSet.
func addToolFlags(fs *flag.FlagSet, f *toolFlags) {
	fs.StringVar(&f.qpdf, "qpdf", "", "qpdf binary path")
	fs.StringVar(&f.pdfinfo, "pdfinfo", "", "pdfinfo binary path")
	fs.StringVar(&f.pdffonts, "pdffonts", "", "pdffonts binary path")
	fs.StringVar(&f.ghostscript, "gs", "", "ghostscript binary path")
	fs.StringVar(&f.soffice, "soffice", "", "libreoffice binary path")
	fs.StringVar(&f.magick, "magick", "", "imagemagick binary path")
}

// parsePrepareFlags parses prepare command flags and returns positional args.
func parsePrepareFlags(args []string) (*prepareFlags, []string, error) {
	fs := flag.NewFlagSet("prepare", flag.ContinueOnError)
	f := &prepareFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addLimitFlags(fs, &f.limits)
	addValidationFlags(fs, &f.validation)
	addToolFlags(fs, &f.tools)

	fs.Usage = func() { printPrepareUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
