// Package session hosts interactive and script checking: every submitted
// fragment or script is parsed, its directives are executed against the
// live configuration, `#load` targets are pulled in first and the result is
// checked on top of everything accepted before. A fragment that produces
// errors leaves the session as it was.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"fsfront/internal/config"
	"fsfront/internal/dedup"
	"fsfront/internal/diag"
	"fsfront/internal/directive"
	"fsfront/internal/frontend"
	"fsfront/internal/logging"
	"fsfront/internal/resolve"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/tcstate"
	"fsfront/internal/trace"
	"fsfront/internal/types"
)

// InteractiveDefine is defined for everything the session parses.
const InteractiveDefine = "INTERACTIVE"

// CcuName names the compilation unit of a session.
const CcuName = "FSI-ASSEMBLY"

type Options struct {
	Logger *slog.Logger
	// Resolver handles `#r`/`#i`; nil keeps references unresolved.
	Resolver directive.ReferenceResolver
	// WorkDir is where typed fragments live; defaults to the process cwd.
	WorkDir string
	Imports *resolve.ImportTable
}

// Outcome describes one submission.
type Outcome struct {
	// Name is the qualified name the submission was checked under.
	Name string
	// Entries lists the submission's contribution to the session signature.
	Entries []string
	// Loaded are the files pulled in by `#load`, in check order.
	Loaded []string
	// Committed is false when errors rolled the submission back.
	Committed bool
	Errors    int
}

// Session is safe for use from several goroutines; submissions are
// serialized.
type Session struct {
	mu       sync.Mutex
	fs       *source.FileSet
	cfg      config.Config
	st       tcstate.State
	names    dedup.Names
	loaded   map[string]bool
	counter  int
	rep      diag.Reporter
	logger   *slog.Logger
	resolver directive.ReferenceResolver
	imports  *resolve.ImportTable
	workDir  string
}

func New(cfg config.Config, rep diag.Reporter, opts Options) *Session {
	if rep == nil {
		rep = diag.Nop
	}
	workDir := opts.WorkDir
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}
	imports := opts.Imports
	if imports == nil {
		imports = resolve.NewImportTable()
	}
	b := cfg.ToBuilder()
	b.AddDefine(InteractiveDefine)
	return &Session{
		fs:       source.NewFileSetWithBase(workDir),
		cfg:      b.Freeze(),
		st:       tcstate.New(types.NewCcu(CcuName), imports.InitialEnv()),
		loaded:   make(map[string]bool),
		rep:      rep,
		logger:   logging.Component(opts.Logger, "session"),
		resolver: opts.Resolver,
		imports:  imports,
		workDir:  workDir,
	}
}

func (s *Session) FileSet() *source.FileSet { return s.fs }

func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Session) State() tcstate.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Eval checks a typed fragment. Fragments are named FSI_0001.fsx,
// FSI_0002.fsx, ... in the session's working directory.
func (s *Session) Eval(ctx context.Context, text string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	name := filepath.Join(s.workDir, fmt.Sprintf("FSI_%04d.fsx", s.counter))
	id := s.fs.AddVirtual(name, []byte(text))
	return s.submit(ctx, s.fs.Get(id))
}

// RunScript loads and checks a script file together with its `#load`s.
func (s *Session) RunScript(ctx context.Context, path string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	id, err := s.fs.Load(abs)
	if err != nil {
		diag.ReportError(s.rep, diag.BuildCouldNotFindSourceFile, source.StartupSpan,
			fmt.Sprintf("Source file '%s' could not be found", path)).Emit()
		return Outcome{Errors: 1}, nil
	}
	return s.submit(ctx, s.fs.Get(id))
}

func (s *Session) submit(ctx context.Context, file *source.File) (Outcome, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "interaction", trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, span)

	capture := diag.NewCapturingReporter(0)
	it := &interaction{
		s:      s,
		cfg:    s.cfg,
		st:     s.st,
		names:  s.names,
		loaded: make(map[string]bool),
		rep:    capture,
	}
	outcome, err := it.run(ctx, file)
	if err != nil {
		// cancelled: nothing of the submission is kept
		s.st.Ccu().SetContents(s.st.CcuSig())
		span.End("cancelled")
		return Outcome{}, err
	}
	outcome.Loaded = it.order
	outcome.Errors = capture.ErrorCount()
	capture.CommitTo(s.rep)

	if outcome.Errors > 0 {
		s.st.Ccu().SetContents(s.st.CcuSig())
		if logging.Enabled(s.logger, slog.LevelDebug) {
			s.logger.LogAttrs(ctx, slog.LevelDebug, "submission rolled back",
				slog.String("file", file.Path), slog.Int("errors", outcome.Errors))
		}
		span.End("rolled back")
		return outcome, nil
	}

	s.cfg, s.st, s.names = it.cfg, it.st, it.names
	for p := range it.loaded {
		s.loaded[p] = true
	}
	for _, ref := range s.cfg.References() {
		s.imports.AddReference(ref)
	}
	outcome.Committed = true
	if logging.Enabled(s.logger, slog.LevelInfo) {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "submission accepted",
			slog.String("file", file.Path),
			slog.String("name", outcome.Name),
			slog.Int("loaded", len(outcome.Loaded)))
	}
	span.End("")
	return outcome, nil
}

// interaction is the working copy a submission mutates; Session adopts it
// only when the submission is error free.
type interaction struct {
	s      *Session
	cfg    config.Config
	st     tcstate.State
	names  dedup.Names
	loaded map[string]bool
	order  []string
	stack  []string
	rep    diag.Reporter
}

func (it *interaction) parseOptions() frontend.Options {
	return frontend.Options{
		DefaultNamespace: it.cfg.DefaultNamespace(),
		Defines:          it.cfg.Defines(),
	}
}

func (it *interaction) run(ctx context.Context, file *source.File) (Outcome, error) {
	in := frontend.ParseInput(file, it.parseOptions(), frontend.Compiland{IsLast: true, IsExe: true}, it.rep)
	in, it.names = dedup.Input(it.names, in)

	before := len(it.cfg.LoadedSources())
	it.cfg = directive.ApplyToConfig(it.cfg, in, file.Dir(), it.s.resolver, diag.WithPhase(it.rep, diag.PhaseDirectives))
	it.stack = append(it.stack, file.Path)
	for _, ls := range it.cfg.LoadedSources()[before:] {
		if err := it.load(ctx, ls); err != nil {
			return Outcome{}, err
		}
	}
	it.stack = it.stack[:len(it.stack)-1]

	return it.check(ctx, in)
}

func (it *interaction) check(ctx context.Context, in syntax.ParsedInput) (Outcome, error) {
	opts := tcstate.OptionsFromConfig(it.cfg)
	opts.Interactive = true
	checker := tcstate.NewChecker(opts, diag.NewFilterReporter(it.rep, it.cfg.WarningOptions()), it.s.logger)
	out, next, err := checker.CheckOneAndFinish(ctx, it.st, in)
	if err != nil {
		return Outcome{}, err
	}
	it.st = next.NextStateAfterIncrementalFragment(out.Env)

	res := Outcome{Name: in.Header().QualName.Text}
	if out.Contribution != nil {
		res.Entries = out.Contribution.Entries()
	}
	return res, nil
}

func (it *interaction) load(ctx context.Context, ls config.LoadedSource) error {
	path := ls.Path
	switch {
	case slices.Contains(it.stack, path):
		diag.ReportWarning(it.rep, diag.BuildInvalidHashLoadDirective, ls.Span,
			fmt.Sprintf("'%s' is already being loaded; the recursive #load is ignored", path)).Emit()
		return nil
	case it.s.loaded[path] || it.loaded[path]:
		return nil
	}

	id, err := it.s.fs.Load(path)
	if err != nil {
		diag.ReportError(it.rep, diag.BuildCouldNotFindSourceFile, ls.Span,
			fmt.Sprintf("Source file '%s' could not be found", path)).Emit()
		return nil
	}
	it.loaded[path] = true
	_, err = it.run(ctx, it.s.fs.Get(id))
	if err == nil {
		it.order = append(it.order, path)
	}
	return err
}
