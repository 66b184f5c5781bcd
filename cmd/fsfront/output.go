package main

import (
	"fmt"
	"io"

	"fsfront/internal/diag"
	"fsfront/internal/diagfmt"
	"fsfront/internal/source"
)

// writeDiagnostics renders bag in the selected format. Pretty output ends
// with an error/warning count when anything was reported.
func writeDiagnostics(w io.Writer, s settings, bag *diag.Bag, fs *source.FileSet) error {
	if !machineReadable(s.format) && bag.Len() == 0 {
		return nil
	}
	if err := diagfmt.Write(w, s.format, bag, fs, s.opts); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	if s.format == diagfmt.FormatPretty {
		warnings := 0
		for _, d := range bag.Items() {
			if d.Severity == diag.SevWarning {
				warnings++
			}
		}
		_, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", bag.ErrorCount(), warnings)
		return err
	}
	return nil
}

func machineReadable(f diagfmt.Format) bool {
	return f == diagfmt.FormatJSON || f == diagfmt.FormatMsgpack
}
