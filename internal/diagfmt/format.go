package diagfmt

import (
	"fmt"
	"io"

	"fsfront/internal/diag"
	"fsfront/internal/source"
)

// Format selects a renderer.
type Format string

const (
	FormatPretty  Format = "pretty"
	FormatShort   Format = "short"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPretty, FormatShort, FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unknown format %q (expected: pretty|short|json|msgpack)", s)
}

// Options bundle the settings of every renderer.
type Options struct {
	Pretty PrettyOpts
	JSON   JSONOpts
}

// Write renders bag in format f.
func Write(w io.Writer, f Format, bag *diag.Bag, fs *source.FileSet, opts Options) error {
	switch f {
	case FormatShort:
		_, err := io.WriteString(w, diag.FormatShortDiagnostics(bag.Items(), fs, opts.Pretty.ShowNotes))
		return err
	case FormatJSON:
		return JSON(w, bag, fs, opts.JSON)
	case FormatMsgpack:
		return Msgpack(w, bag, fs, opts.JSON)
	default:
		return Pretty(w, bag, fs, opts.Pretty)
	}
}
