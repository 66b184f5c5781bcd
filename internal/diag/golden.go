package diag

import (
	"fmt"
	"sort"
	"strings"

	"fsfront/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// StartupPath is printed in place of a file for diagnostics without location.
const StartupPath = "<startup>"

// FormatShortDiagnostics renders one line per diagnostic keeping input order:
// "error FS0237 A.fsi:1:1 message". The order the driver committed in is
// the order the user sees.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return render(flatten(diags, fs, includeNotes))
}

// FormatGoldenDiagnostics is FormatShortDiagnostics with a total order
// (path, line, column, severity, code, message) for golden comparisons.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	rendered := flatten(diags, fs, includeNotes)
	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})
	return render(rendered)
}

func flatten(diags []Diagnostic, fs *source.FileSet, includeNotes bool) []shortDiagnostic {
	out := make([]shortDiagnostic, 0, len(diags))
	for _, d := range diags {
		path, lc := Locate(fs, d.Primary)
		out = append(out, shortDiagnostic{
			Severity: SeverityLabel(d.Severity),
			Code:     d.Code.ID(),
			Path:     path,
			Line:     lc.Line,
			Column:   lc.Col,
			Message:  sanitizeMessage(d.Message),
		})
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			npath, nlc := Locate(fs, note.Span)
			out = append(out, shortDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				Path:     npath,
				Line:     nlc.Line,
				Column:   nlc.Col,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}
	return out
}

func render(rendered []shortDiagnostic) string {
	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Locate resolves a span into a display path and start position.
// Startup spans and unknown files map to StartupPath at 1:1.
func Locate(fs *source.FileSet, sp source.Span) (string, source.LineCol) {
	origin := source.LineCol{Line: 1, Col: 1}
	if sp.IsStartup() || fs == nil {
		return StartupPath, origin
	}
	f := fs.Get(sp.File)
	if f == nil {
		return StartupPath, origin
	}
	start, _ := fs.Resolve(sp)
	return f.FormatPath("relative", fs.BaseDir()), start
}

func SeverityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
