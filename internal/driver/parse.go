// Package driver schedules the front-end over a batch of files: parsing
// (sequential or parallel), the global and per-file directive folds and the
// closed-set check.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"fsfront/internal/buildpipeline"
	"fsfront/internal/config"
	"fsfront/internal/diag"
	"fsfront/internal/frontend"
	"fsfront/internal/logging"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/trace"
)

// CompiledDefine is always defined for batch compilation.
const CompiledDefine = "COMPILED"

// ParsedFile is one scheduler result.
type ParsedFile struct {
	Input syntax.ParsedInput
	// Dir is the directory the file was loaded from; relative directives
	// resolve against it.
	Dir string
}

// ExitError asks main to terminate with Code once everything already
// collected has been reported.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit requested with code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

var (
	// ErrMissingSource is wrapped by the ExitError of a parallel batch with
	// an input that does not exist.
	ErrMissingSource = errors.New("source file not found")
	// ErrErrorLimit is wrapped when the error limit stopped the batch.
	ErrErrorLimit = errors.New("error limit reached")

	// errStopProcessing unwinds the parallel region after a task asked for
	// exit; the caller turns it into an ExitError after committing.
	errStopProcessing = errors.New("stop processing")
)

// Options configure the scheduler's side channels. The zero value is silent.
type Options struct {
	Logger   *slog.Logger
	Progress buildpipeline.ProgressSink
	// BaseDir makes progress file names relative.
	BaseDir string
}

func (o Options) display(path string) string {
	return buildpipeline.DisplayName(path, o.BaseDir)
}

func parseOptions(cfg config.Config) frontend.Options {
	return frontend.Options{
		DefaultNamespace: cfg.DefaultNamespace(),
		Defines:          append(cfg.Defines(), CompiledDefine),
		FailParse:        cfg.SimulateFault() == config.FaultParseFail,
	}
}

func compiland(cfg config.Config, i, n int) frontend.Compiland {
	return frontend.Compiland{IsLast: i == n-1, IsExe: cfg.IsExe()}
}

func missingSource(rep diag.Reporter, path string) {
	diag.ReportError(rep, diag.BuildCouldNotFindSourceFile, source.StartupSpan,
		fmt.Sprintf("Source file '%s' could not be found", path)).Emit()
}

// ParseFiles parses paths in order into fs and returns one entry per path.
// Files that cannot be read or parsed become empty placeholders. The result
// is nil only together with an *ExitError for a missing input in parallel
// mode, or with a context error. An ExitError caused by the error limit
// still comes with a complete result.
func ParseFiles(ctx context.Context, fs *source.FileSet, paths []string, cfg config.Config, rep diag.Reporter, opts Options) ([]ParsedFile, error) {
	if rep == nil {
		rep = diag.Nop
	}
	logger := logging.Component(opts.Logger, "driver")
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, span)
	span.WithExtra("files", strconv.Itoa(len(paths)))

	start := time.Now()
	buildpipeline.Emit(opts.Progress, "", buildpipeline.StageParse, buildpipeline.StatusWorking, nil, 0)

	var (
		out []ParsedFile
		err error
	)
	parallel := cfg.ConcurrentBuild() && len(paths) > 1
	if parallel {
		span.WithExtra("mode", "parallel")
		out, err = parseParallel(ctx, fs, paths, cfg, rep, opts)
	} else {
		span.WithExtra("mode", "sequential")
		out, err = parseSequential(ctx, fs, paths, cfg, rep, opts)
	}

	elapsed := time.Since(start)
	status := buildpipeline.StatusDone
	if err != nil {
		status = buildpipeline.StatusError
	}
	buildpipeline.Emit(opts.Progress, "", buildpipeline.StageParse, status, err, elapsed)
	if logging.Enabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "parsed files",
			slog.Int("files", len(paths)),
			slog.Bool("parallel", parallel),
			slog.Duration("elapsed", elapsed),
			slog.Any("err", err))
	}
	if err != nil {
		span.End(err.Error())
	} else {
		span.End("")
	}
	return out, err
}

func parseOne(ctx context.Context, fs *source.FileSet, id source.FileID, path string, fopts frontend.Options, unit frontend.Compiland, rep diag.Reporter) ParsedFile {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file:"+path, trace.ParentFromContext(ctx))
	defer span.End("")
	file := fs.Get(id)
	return ParsedFile{Input: frontend.ParseInput(file, fopts, unit, rep), Dir: file.Dir()}
}

func parseSequential(ctx context.Context, fs *source.FileSet, paths []string, cfg config.Config, rep diag.Reporter, opts Options) ([]ParsedFile, error) {
	fopts := parseOptions(cfg)
	shared := diag.NewLimitReporter(rep, cfg.MaxErrors()).CountingAs(cfg.WarningOptions())
	out := make([]ParsedFile, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := opts.display(path)
		buildpipeline.Emit(opts.Progress, name, buildpipeline.StageParse, buildpipeline.StatusWorking, nil, 0)
		unit := compiland(cfg, i, len(paths))

		id, err := fs.Load(path)
		if err != nil {
			missingSource(shared, path)
			out = append(out, ParsedFile{Input: frontend.Placeholder(path, source.NoFileID, unit), Dir: source.Dir(path)})
			buildpipeline.Emit(opts.Progress, name, buildpipeline.StageParse, buildpipeline.StatusError, err, 0)
		} else {
			out = append(out, parseOne(ctx, fs, id, path, fopts, unit, shared))
			buildpipeline.Emit(opts.Progress, name, buildpipeline.StageParse, buildpipeline.StatusDone, nil, 0)
		}

		if code, ok := shared.ExitRequested(); ok {
			return fillPlaceholders(out, paths, cfg), &ExitError{Code: code, Err: ErrErrorLimit}
		}
	}
	return out, nil
}

// fillPlaceholders pads a batch interrupted by the error limit.
func fillPlaceholders(out []ParsedFile, paths []string, cfg config.Config) []ParsedFile {
	for i := len(out); i < len(paths); i++ {
		out = append(out, ParsedFile{
			Input: frontend.Placeholder(paths[i], source.NoFileID, compiland(cfg, i, len(paths))),
			Dir:   source.Dir(paths[i]),
		})
	}
	return out
}

func parseParallel(ctx context.Context, fs *source.FileSet, paths []string, cfg config.Config, rep diag.Reporter, opts Options) ([]ParsedFile, error) {
	// Все пути проверяются до старта: отсутствующий файл валит всю пачку.
	for _, path := range paths {
		if !source.Exists(path) {
			missingSource(rep, path)
			return nil, &ExitError{Code: 1, Err: fmt.Errorf("%w: %s", ErrMissingSource, path)}
		}
	}

	ids := make([]source.FileID, len(paths))
	for i, path := range paths {
		id, err := fs.Load(path)
		if err != nil {
			missingSource(rep, path)
			return nil, &ExitError{Code: 1, Err: fmt.Errorf("%w: %s: %w", ErrMissingSource, path, err)}
		}
		ids[i] = id
	}

	jobs := cfg.Jobs()
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	fopts := parseOptions(cfg)

	// Индексы уникальны для каждой горутины, мьютекс не нужен.
	results := make([]ParsedFile, len(paths))
	captures := make([]*diag.CapturingReporter, len(paths))
	for i, path := range paths {
		results[i] = ParsedFile{Input: frontend.Placeholder(path, ids[i], compiland(cfg, i, len(paths))), Dir: source.Dir(path)}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := opts.display(path)
			buildpipeline.Emit(opts.Progress, name, buildpipeline.StageParse, buildpipeline.StatusWorking, nil, 0)
			capture := diag.NewCapturingReporter(cfg.MaxErrors()).CountingAs(cfg.WarningOptions())
			captures[i] = capture
			results[i] = parseOne(gctx, fs, ids[i], path, fopts, compiland(cfg, i, len(paths)), capture)
			buildpipeline.Emit(opts.Progress, name, buildpipeline.StageParse, buildpipeline.StatusDone, nil, 0)
			if _, exit := capture.ExitRequested(); exit {
				return errStopProcessing
			}
			return nil
		})
	}
	waitErr := g.Wait()
	if waitErr != nil && !errors.Is(waitErr, errStopProcessing) {
		return nil, waitErr
	}

	// Коммит строго в порядке файлов, а не завершения. Лимит считается
	// по общему приёмнику, как в последовательном режиме.
	shared := diag.NewLimitReporter(rep, cfg.MaxErrors()).CountingAs(cfg.WarningOptions())
	for i, path := range paths {
		capture := captures[i]
		if capture == nil {
			// остановка задела файл до старта: дочитываем здесь
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			capture = diag.NewCapturingReporter(0)
			results[i] = parseOne(ctx, fs, ids[i], path, fopts, compiland(cfg, i, len(paths)), capture)
			buildpipeline.Emit(opts.Progress, opts.display(path), buildpipeline.StageParse, buildpipeline.StatusDone, nil, 0)
		}
		capture.CommitTo(shared)
		if code, ok := shared.ExitRequested(); ok {
			return fillPlaceholders(results[:i+1], paths, cfg), &ExitError{Code: code, Err: ErrErrorLimit}
		}
	}
	return results, nil
}
