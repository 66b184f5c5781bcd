package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"fsfront/internal/diag"
	"fsfront/internal/source"
)

type palette struct {
	err, warn, info, loc, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.loc, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <sev> <CODE>: <message>
//	   3 | let y = missing
//	     |         ^~~~~~~
//
// затем заметки в том же формате.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, p, d, fs, opts); err != nil {
			return err
		}
	}
	return nil
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) (string, source.LineCol, source.LineCol, *source.File) {
	origin := source.LineCol{Line: 1, Col: 1}
	if sp.IsStartup() || fs == nil {
		return diag.StartupPath, origin, origin, nil
	}
	f := fs.Get(sp.File)
	if f == nil {
		return diag.StartupPath, origin, origin, nil
	}
	start, end := fs.Resolve(sp)
	return f.FormatPath(mode.mode(), fs.BaseDir()), start, end, f
}

func prettyOne(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	path, start, end, f := location(fs, d.Primary, opts.PathMode)
	sev := p.severity(d.Severity)
	if _, err := fmt.Fprintf(w, "%s: %s %s\n",
		p.loc.Sprintf("%s:%d:%d", path, start.Line, start.Col),
		sev.Sprintf("%s %s:", diag.SeverityLabel(d.Severity), d.Code.ID()),
		d.Message); err != nil {
		return err
	}
	if f != nil {
		if err := snippet(w, p, f, start, end, opts.Width); err != nil {
			return err
		}
	}
	if !opts.ShowNotes && d.Code != diag.BuildTimingInfo {
		return nil
	}
	for _, n := range d.Notes {
		npath, nstart, _, _ := location(fs, n.Span, opts.PathMode)
		if _, err := fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"),
			p.loc.Sprintf("%s:%d:%d", npath, nstart.Line, nstart.Col), n.Msg); err != nil {
			return err
		}
	}
	return nil
}

// snippet prints the start line of the span with a caret underline. Columns
// are display cells, so wide runes and tabs stay aligned.
func snippet(w io.Writer, p palette, f *source.File, start, end source.LineCol, width int) error {
	line := strings.ReplaceAll(f.GetLine(start.Line), "\t", " ")
	if line == "" {
		return nil
	}
	startCol, err := safecast.Conv[int](start.Col)
	if err != nil {
		return err
	}
	startCol = min(max(startCol-1, 0), len(line))
	endCol := len(line)
	if end.Line == start.Line {
		if ec, err := safecast.Conv[int](end.Col); err == nil {
			endCol = min(max(ec-1, startCol), len(line))
		}
	}

	pad := runewidth.StringWidth(line[:startCol])
	mark := max(runewidth.StringWidth(line[startCol:endCol]), 1)
	if width > 0 && runewidth.StringWidth(line) > width {
		line = runewidth.Truncate(line, width, "...")
	}

	gutter := fmt.Sprintf("%4d", start.Line)
	blank := strings.Repeat(" ", len(gutter))
	underline := "^" + strings.Repeat("~", mark-1)
	_, err = fmt.Fprintf(w, "%s %s\n%s %s%s\n",
		p.gutter.Sprint(gutter+" |"), line,
		p.gutter.Sprint(blank+" |"), strings.Repeat(" ", pad), p.caret.Sprint(underline))
	return err
}
