package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfprep <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  prepare    Convert, validate, and split documents to size-limited PDFs")
	fmt.Fprintln(w, "  doctor     Check external tool availability")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfprep help <command>' for details on a specific command.")
}

// printPrepareUsage prints usage for the prepare command.
func printPrepareUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfprep prepare <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert documents to PDF, check submission compliance, and split")
	fmt.Fprintln(w, "anything over the size limit into page-contiguous parts.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Document file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-document timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Limits:")
	fmt.Fprintln(w, "      --max-size-mb <n>     Per-part size limit in MiB (default 24)")
	fmt.Fprintln(w, "      --margin <f>          Estimation safety margin (default 0.90)")
	fmt.Fprintln(w, "      --max-attempts <n>    Per-segment probe limit (default 20)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validation:")
	fmt.Fprintln(w, "      --no-validate         Skip compliance checks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tools:")
	fmt.Fprintln(w, "      --qpdf <path>         qpdf binary path")
	fmt.Fprintln(w, "      --pdfinfo <path>      pdfinfo binary path")
	fmt.Fprintln(w, "      --pdffonts <path>     pdffonts binary path")
	fmt.Fprintln(w, "      --gs <path>           ghostscript binary path")
	fmt.Fprintln(w, "      --soffice <path>      libreoffice binary path")
	fmt.Fprintln(w, "      --magick <path>       imagemagick binary path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return
	}

	switch args[0] {
	case "prepare":
		printPrepareUsage(deps.Stdout)
	case "doctor":
		fmt.Fprintln(deps.Stdout, "Usage: pdfprep doctor [--json]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Check that the external tools pdfprep depends on are installed.")
	case "version":
		fmt.Fprintln(deps.Stdout, "Usage: pdfprep version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(deps.Stdout, "Usage: pdfprep help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
	}
}
