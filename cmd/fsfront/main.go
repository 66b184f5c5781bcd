package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fsfront/internal/driver"
	"fsfront/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "fsfront",
	Short:         "F# compiler front-end: parse, directives and incremental checking",
	Long:          `fsfront parses F# sources in compilation order, executes their directives and type-checks them as a closed set or interactively`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)
	registerRootFlags(rootCmd)
}

func main() {
	rootCmd.Version = version.Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// registerRootFlags: глобальные флаги
func registerRootFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("format", "pretty", "diagnostics format (pretty|short|json|msgpack)")
	pf.String("path-mode", "auto", "how file paths are shown (auto|absolute|relative|basename)")
	pf.Bool("timings", false, "show timing information")
	pf.String("log-level", "off", "structured log level (off|trace|debug|info|warn|error)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for ring/both trace modes")
	pf.Int("max-errors", -1, "stop after this many errors (0 = unlimited, -1 = manifest or default)")
	pf.StringSlice("nowarn", nil, "warning numbers to suppress")
	pf.StringSlice("warnaserror", nil, "warning numbers to report as errors")
	pf.Bool("warnaserror-all", false, "report every warning as an error")
	pf.StringSlice("define", nil, "conditional compilation symbols")
	pf.StringSlice("include", nil, "extra search directories for #r and #load")
	pf.String("target", "", "target kind (library|exe)")
	pf.Bool("concurrent-build", false, "parse files in parallel")
	pf.Int("jobs", 0, "max parallel parse workers (0 = auto)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
	pf.String("simulate-fault", "", "inject a failure")
	_ = pf.MarkHidden("simulate-fault")
}

// exitCode prints err unless it only carries a status.
func exitCode(err error) int {
	var exitErr *driver.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, errDiagnostics) {
		return 1
	}
	fmt.Fprintf(os.Stderr, "fsfront: %v\n", err)
	return 2
}

// errDiagnostics means errors were reported and printed already.
var errDiagnostics = errors.New("errors reported")

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
