package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fsfront/internal/buildpipeline"
	"fsfront/internal/config"
	"fsfront/internal/diag"
	"fsfront/internal/directive"
	"fsfront/internal/logging"
	"fsfront/internal/observ"
	"fsfront/internal/resolve"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/tcstate"
	"fsfront/internal/types"
)

// CompileOptions extend the scheduler options with the batch collaborators.
type CompileOptions struct {
	Options
	// Resolver handles `#r`/`#i`. Nil records references unresolved.
	Resolver directive.ReferenceResolver
	// Imports receives the final references; a fresh table is used when nil.
	Imports *resolve.ImportTable
	Timer   *observ.Timer
}

// Result of a batch.
type Result struct {
	Files []ParsedFile
	// Config is the configuration after every file's directives were applied.
	Config config.Config
	Check  tcstate.Result
}

// Inputs returns the parsed inputs in compilation order.
func (r Result) Inputs() []syntax.ParsedInput {
	out := make([]syntax.ParsedInput, len(r.Files))
	for i, f := range r.Files {
		out[i] = f.Input
	}
	return out
}

// Compile runs the whole front-end over paths: parse, global #nowarn
// computation, directive application, closed-set check. Parse diagnostics
// are held back until the global warning settings are known.
func Compile(ctx context.Context, fs *source.FileSet, paths []string, cfg config.Config, rep diag.Reporter, opts CompileOptions) (Result, error) {
	if rep == nil {
		rep = diag.Nop
	}
	logger := logging.Component(opts.Logger, "driver")
	files := buildpipeline.DisplayNames(paths, opts.BaseDir)
	buildpipeline.EmitQueued(opts.Progress, files)

	res := Result{Config: cfg}
	parseDiags := diag.NewCapturingReporter(0)
	phase := opts.Timer.Begin("parse")
	parsed, err := ParseFiles(ctx, fs, paths, cfg, parseDiags, opts.Options)
	opts.Timer.End(phase, strconv.Itoa(len(paths))+" files")
	res.Files = parsed

	// Глобальные #nowarn: временная конфигурация только для фильтрации.
	phase = opts.Timer.Begin("directives")
	started := time.Now()
	buildpipeline.EmitStage(opts.Progress, files, buildpipeline.StageDirectives, buildpipeline.StatusWorking, nil)
	filterCfg := cfg
	for _, f := range parsed {
		filterCfg = directive.ApplyNoWarns(filterCfg, f.Input, f.Dir, diag.Nop)
	}
	parseDiags.CommitTo(diag.NewFilterReporter(rep, filterCfg.WarningOptions()))

	if err != nil {
		// error limit or missing input: the parse diagnostics are out,
		// nothing else runs
		opts.Timer.End(phase, "skipped")
		buildpipeline.EmitStage(opts.Progress, files, buildpipeline.StageDirectives, buildpipeline.StatusError, err)
		return res, err
	}

	dirRep := diag.NewFilterReporter(diag.WithPhase(rep, diag.PhaseDirectives), filterCfg.WarningOptions())
	final := cfg
	for _, f := range parsed {
		final = directive.ApplyToConfig(final, f.Input, f.Dir, opts.Resolver, dirRep)
	}
	res.Config = final
	imports := opts.Imports
	if imports == nil {
		imports = resolve.NewImportTable()
	}
	for _, ref := range final.References() {
		imports.AddReference(ref)
	}
	opts.Timer.End(phase, fmt.Sprintf("%d references", len(final.References())))
	buildpipeline.EmitStage(opts.Progress, files, buildpipeline.StageDirectives, buildpipeline.StatusDone, nil)
	buildpipeline.Emit(opts.Progress, "", buildpipeline.StageDirectives, buildpipeline.StatusDone, nil, time.Since(started))

	phase = opts.Timer.Begin("check")
	started = time.Now()
	buildpipeline.EmitStage(opts.Progress, files, buildpipeline.StageCheck, buildpipeline.StatusWorking, nil)
	checkRep := diag.NewFilterReporter(rep, final.WarningOptions())
	checker := tcstate.NewChecker(tcstate.OptionsFromConfig(final), checkRep, opts.Logger)
	st := tcstate.New(types.NewCcu(final.CcuName()), imports.InitialEnv())
	res.Check, err = checker.CheckClosedSet(ctx, st, res.Inputs())
	opts.Timer.End(phase, strconv.Itoa(len(res.Check.State.RootImpls()))+" implementations")
	if err != nil {
		buildpipeline.EmitStage(opts.Progress, files, buildpipeline.StageCheck, buildpipeline.StatusError, err)
		return res, err
	}
	buildpipeline.EmitStage(opts.Progress, files, buildpipeline.StageClose, buildpipeline.StatusDone, nil)
	buildpipeline.Emit(opts.Progress, "", buildpipeline.StageCheck, buildpipeline.StatusDone, nil, time.Since(started))

	if logging.Enabled(logger, slog.LevelDebug) {
		logger.LogAttrs(ctx, slog.LevelDebug, "batch finished",
			slog.Int("files", len(paths)),
			slog.Int("references", len(final.References())),
			slog.String("ccu", final.CcuName()))
	}
	return res, nil
}
