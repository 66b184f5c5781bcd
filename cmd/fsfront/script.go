package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fsfront/internal/diag"
	"fsfront/internal/resolve"
	"fsfront/internal/session"
)

var scriptCmd = &cobra.Command{
	Use:   "script [flags] <file.fsx>",
	Short: "Check a script and everything it loads",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Check interactions read from stdin, each terminated by ';;'",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

// bagSwitch collects the diagnostics of the current submission.
type bagSwitch struct {
	bag *diag.Bag
}

func (b *bagSwitch) Report(d diag.Diagnostic) {
	if b.bag != nil {
		b.bag.Add(d)
	}
}

func (b *bagSwitch) reset() *diag.Bag {
	b.bag = diag.NewBag(0)
	return b.bag
}

func newSession(cmd *cobra.Command, s settings, rep diag.Reporter) (*session.Session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, err := loadManifest(cwd)
	if err != nil {
		return nil, err
	}
	cfg, err := buildConfig(cmd, manifest, rep)
	if err != nil {
		return nil, err
	}
	return session.New(cfg, rep, session.Options{
		Logger:   s.logger,
		Resolver: resolve.New(),
		WorkDir:  cwd,
	}), nil
}

func runScript(cmd *cobra.Command, args []string) error {
	s, cleanup, err := startCommand(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rep := &bagSwitch{}
	bag := rep.reset()
	// each diagnostic once per run
	sess, err := newSession(cmd, s, diag.NewDedupReporter(rep))
	if err != nil {
		return err
	}
	outcome, err := sess.RunScript(cmd.Context(), args[0])
	if werr := writeDiagnostics(cmd.OutOrStdout(), s, bag, sess.FileSet()); werr != nil {
		return werr
	}
	if err != nil {
		return fmt.Errorf("script failed: %w", err)
	}
	if !machineReadable(s.format) {
		printOutcome(cmd.OutOrStdout(), outcome)
	}
	if outcome.Errors > 0 {
		return errDiagnostics
	}
	return nil
}

func runRepl(cmd *cobra.Command, _ []string) error {
	s, cleanup, err := startCommand(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rep := &bagSwitch{}
	bag := rep.reset()
	sess, err := newSession(cmd, s, rep)
	if err != nil {
		return err
	}
	// startup diagnostics, e.g. bad --nowarn values
	if err := writeDiagnostics(cmd.ErrOrStderr(), s, bag, sess.FileSet()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	prompt := isTerminal(os.Stdin)
	reader := session.NewReader(cmd.InOrStdin())
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		text, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		bag = rep.reset()
		outcome, err := sess.Eval(cmd.Context(), text)
		if werr := writeDiagnostics(out, s, bag, sess.FileSet()); werr != nil {
			return werr
		}
		if err != nil {
			return err
		}
		if !machineReadable(s.format) {
			printOutcome(out, outcome)
		}
	}
}

func printOutcome(w io.Writer, o session.Outcome) {
	for _, path := range o.Loaded {
		fmt.Fprintf(w, "[loading %s]\n", path)
	}
	if !o.Committed {
		fmt.Fprintf(w, "%s: %d error(s), nothing committed\n", o.Name, o.Errors)
		return
	}
	for _, entry := range o.Entries {
		fmt.Fprintf(w, "%s\n", entry)
	}
}
