package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:], DefaultDeps()))
}

// realMain dispatches subcommands and returns the process exit code.
func realMain(args []string, deps *Dependencies) int {
	if len(args) == 0 {
		printUsage(deps.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "prepare":
		return runPrepareCmd(args[1:], deps)
	case "doctor":
		return runDoctorCmd(args[1:], deps)
	case "version":
		fmt.Fprintf(deps.Stdout, "pdfprep %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(args[1:], deps)
		return ExitSuccess
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
		return ExitUsage
	}
}
