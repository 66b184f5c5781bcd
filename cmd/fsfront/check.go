package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"fsfront/internal/buildpipeline"
	"fsfront/internal/diag"
	"fsfront/internal/driver"
	"fsfront/internal/observ"
	"fsfront/internal/resolve"
	"fsfront/internal/source"
	"fsfront/internal/watch"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files...]",
	Short: "Parse and type-check files as one closed set",
	Long: `Check parses the given files in compilation order, applies their directives
and type-checks them. Without arguments the sources listed in fsfront.toml
are used.`,
	RunE: runCheck,
}

func init() {
	registerCheckFlags(checkCmd)
}

func registerCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("ui", "off", "show a progress view (auto|on|off)")
	cmd.Flags().Bool("watch", false, "re-check whenever a source file changes")
	cmd.Flags().Bool("print-sig", false, "print the checked signature")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, cleanup, err := startCommand(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	uiStr, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	watchMode, _ := cmd.Flags().GetBool("watch")
	printSig, _ := cmd.Flags().GetBool("print-sig")
	req := checkRequest{
		settings: s,
		args:     args,
		useUI:    !watchMode && shouldUseTUI(mode, machineReadable(s.format)),
		printSig: printSig,
	}
	if watchMode {
		return runWatch(cmd, req)
	}
	return checkOnce(cmd, req)
}

type checkRequest struct {
	settings
	args     []string
	useUI    bool
	printSig bool
}

// checkOnce runs one batch and prints its diagnostics. The manifest is read
// again every time so watch mode picks up edits to it.
func checkOnce(cmd *cobra.Command, req checkRequest) error {
	ctx := cmd.Context()
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	manifest, err := loadManifest(cwd)
	if err != nil {
		return err
	}

	bag := diag.NewBag(0)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	cfg, err := buildConfig(cmd, manifest, rep)
	if err != nil {
		return err
	}

	paths := req.args
	baseDir := cwd
	if len(paths) == 0 {
		if manifest == nil {
			return errors.New("no input files and no fsfront.toml found")
		}
		if paths, err = manifest.Sources(); err != nil {
			return err
		}
		baseDir = manifest.Root
	}

	fs := source.NewFileSetWithBase(baseDir)
	timer := observ.NewTimer()
	timings := &buildpipeline.Timings{}
	opts := driver.CompileOptions{
		Options: driver.Options{
			Logger:  req.logger,
			BaseDir: baseDir,
		},
		Resolver: resolve.New(),
		Timer:    timer,
	}
	compile := func(sink buildpipeline.ProgressSink) (driver.Result, error) {
		opts.Progress = sink
		return driver.Compile(ctx, fs, paths, cfg, rep, opts)
	}

	var res driver.Result
	var compileErr error
	recorder := buildpipeline.TimingSink{Timings: timings}
	if req.useUI {
		title := fmt.Sprintf("checking %d files", len(paths))
		res, compileErr = runWithUI(ctx, title, buildpipeline.DisplayNames(paths, baseDir), recorder, compile)
	} else {
		res, compileErr = compile(recorder)
	}

	if req.timings {
		driver.ReportTimings(rep, "check", baseDir, timer)
	}
	if err := writeDiagnostics(cmd.OutOrStdout(), req.settings, bag, fs); err != nil {
		return err
	}
	if req.timings && !machineReadable(req.format) {
		printStageTimings(cmd.ErrOrStderr(), timings)
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	var exitErr *driver.ExitError
	switch {
	case errors.As(compileErr, &exitErr):
		return compileErr
	case compileErr != nil:
		return fmt.Errorf("check failed: %w", compileErr)
	}
	if req.printSig && !bag.HasErrors() {
		if ccu := res.Check.State.Ccu(); ccu != nil && ccu.Contents() != nil {
			for _, entry := range ccu.Contents().Entries() {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
		}
	}
	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func runWatch(cmd *cobra.Command, req checkRequest) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	cmd.SetContext(ctx)

	roots := []string{"."}
	if len(req.args) > 0 {
		roots = roots[:0]
		seen := make(map[string]bool)
		for _, p := range req.args {
			dir := filepath.Dir(p)
			if !seen[dir] {
				seen[dir] = true
				roots = append(roots, dir)
			}
		}
	}

	changes := make(chan []string, 1)
	w, err := watch.New(watch.DefaultDebounce, []string{".git", "bin", "obj"}, req.logger, func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(roots...); err != nil {
		return err
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && req.logger != nil {
			req.logger.Warn("watcher stopped", slog.Any("err", err))
		}
	}()

	out := cmd.ErrOrStderr()
	for {
		if err := checkOnce(cmd, req); err != nil && !errors.Is(err, errDiagnostics) {
			var exitErr *driver.ExitError
			if !errors.As(err, &exitErr) {
				fmt.Fprintf(out, "fsfront: %v\n", err)
			}
		}
		fmt.Fprintln(out, "watching for changes...")
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			fmt.Fprintf(out, "%d file(s) changed, re-checking\n", len(paths))
		}
	}
}

func printStageTimings(out io.Writer, timings *buildpipeline.Timings) {
	for _, stage := range []buildpipeline.Stage{buildpipeline.StageParse, buildpipeline.StageDirectives, buildpipeline.StageCheck} {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%s %.1f ms\n", stage, float64(timings.Duration(stage).Microseconds())/1000)
		}
	}
}
