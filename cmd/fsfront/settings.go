package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fsfront/internal/config"
	"fsfront/internal/diag"
	"fsfront/internal/diagfmt"
	"fsfront/internal/logging"
	"fsfront/internal/source"
)

// settings are the root flags resolved once per command.
type settings struct {
	format  diagfmt.Format
	color   bool
	opts    diagfmt.Options
	timings bool
	logger  *slog.Logger
}

func readSettings(cmd *cobra.Command) (settings, error) {
	pf := cmd.Root().PersistentFlags()
	var s settings

	formatStr, err := pf.GetString("format")
	if err != nil {
		return s, fmt.Errorf("failed to get format flag: %w", err)
	}
	if s.format, err = diagfmt.ParseFormat(formatStr); err != nil {
		return s, err
	}

	colorStr, err := pf.GetString("color")
	if err != nil {
		return s, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorStr) {
	case "on":
		s.color = true
	case "off":
		s.color = false
	case "auto":
		s.color = isTerminal(os.Stdout)
	default:
		return s, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorStr)
	}

	pathModeStr, err := pf.GetString("path-mode")
	if err != nil {
		return s, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return s, err
	}
	s.opts = diagfmt.Options{
		Pretty: diagfmt.PrettyOpts{Color: s.color, PathMode: pathMode, ShowNotes: true},
		JSON:   diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode, IncludeNotes: true},
	}

	if s.timings, err = pf.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}

	levelStr, err := pf.GetString("log-level")
	if err != nil {
		return s, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if s.logger, err = logging.New(cmd.ErrOrStderr(), levelStr); err != nil {
		return s, err
	}
	return s, nil
}

// loadManifest looks for fsfront.toml from dir up. A missing manifest is
// not an error.
func loadManifest(dir string) (*config.Manifest, error) {
	path, ok, err := config.FindManifest(dir)
	if err != nil || !ok {
		return nil, err
	}
	return config.LoadManifest(path)
}

// buildConfig layers defaults, the manifest and the command line, in that
// order. Flag problems such as bad warning numbers are reported to rep.
func buildConfig(cmd *cobra.Command, m *config.Manifest, rep diag.Reporter) (config.Config, error) {
	pf := cmd.Root().PersistentFlags()
	b := config.NewBuilder()
	if m != nil {
		m.Apply(b, rep)
	}

	defines, err := pf.GetStringSlice("define")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get define flag: %w", err)
	}
	for _, d := range defines {
		b.AddDefine(d)
	}

	nowarn, err := pf.GetStringSlice("nowarn")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get nowarn flag: %w", err)
	}
	for _, w := range nowarn {
		b.TurnWarningOff(source.StartupSpan, w, rep)
	}

	warnAsError, err := pf.GetStringSlice("warnaserror")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get warnaserror flag: %w", err)
	}
	for _, w := range warnAsError {
		code, ok := diag.ParseCode(w)
		if !ok {
			diag.ReportWarning(rep, diag.BuildInvalidWarningNumber, source.StartupSpan,
				fmt.Sprintf("Invalid warning number '%s'", w)).Emit()
			continue
		}
		b.WarnAsError.Add(code)
	}
	if all, _ := pf.GetBool("warnaserror-all"); all {
		b.AllWarnAsError = true
	}

	includes, err := pf.GetStringSlice("include")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get include flag: %w", err)
	}
	cwd, _ := os.Getwd()
	for _, inc := range includes {
		b.AddIncludePath(inc, cwd)
	}

	if pf.Changed("target") {
		targetStr, _ := pf.GetString("target")
		if b.Target, err = config.ParseTarget(targetStr); err != nil {
			return config.Config{}, err
		}
	}
	if pf.Changed("concurrent-build") {
		b.ConcurrentBuild, _ = pf.GetBool("concurrent-build")
	}
	if pf.Changed("jobs") {
		b.Jobs, _ = pf.GetInt("jobs")
	}
	if maxErrors, _ := pf.GetInt("max-errors"); maxErrors >= 0 {
		b.MaxErrors = maxErrors
	}
	faultStr, _ := pf.GetString("simulate-fault")
	if b.SimulateFault, err = config.ParseFaultKind(faultStr); err != nil {
		return config.Config{}, err
	}
	return b.Freeze(), nil
}
