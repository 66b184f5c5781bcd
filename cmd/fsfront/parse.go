package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fsfront/internal/diag"
	"fsfront/internal/driver"
	"fsfront/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <files...>",
	Short: "Parse files and list their qualified names and fragments",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	s, cleanup, err := startCommand(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

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

	fs := source.NewFileSetWithBase(cwd)
	files, parseErr := driver.ParseFiles(cmd.Context(), fs, args, cfg, rep, driver.Options{Logger: s.logger, BaseDir: cwd})
	if err := writeDiagnostics(cmd.OutOrStdout(), s, bag, fs); err != nil {
		return err
	}
	var exitErr *driver.ExitError
	if parseErr != nil && !errors.As(parseErr, &exitErr) {
		return fmt.Errorf("parse failed: %w", parseErr)
	}
	if !machineReadable(s.format) {
		printParsed(cmd.OutOrStdout(), files)
	}
	if parseErr != nil {
		return parseErr
	}
	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func printParsed(w io.Writer, files []driver.ParsedFile) {
	for _, f := range files {
		h := f.Input.Header()
		kind := "impl"
		if f.Input.IsSignature() {
			kind = "sig"
		}
		fmt.Fprintf(w, "%s %s  %s\n", kind, h.QualName, h.FileName)
		for _, frag := range f.Input.Fragments() {
			rec := ""
			if frag.IsRec {
				rec = " rec"
			}
			fmt.Fprintf(w, "    %s%s %s (%d decls)\n", frag.Kind, rec, frag.LongID.Text(), len(frag.Decls))
		}
		if n := len(h.HashDirectives); n > 0 {
			names := make([]string, 0, n)
			for _, d := range h.HashDirectives {
				names = append(names, "#"+d.Name)
			}
			fmt.Fprintf(w, "    directives: %s\n", strings.Join(names, " "))
		}
	}
}
