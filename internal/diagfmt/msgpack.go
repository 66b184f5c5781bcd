package diagfmt

import (
	"errors"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"fsfront/internal/diag"
	"fsfront/internal/source"
)

// Msgpack writes one msgpack map per diagnostic, back to back, so an IDE
// host can decode the stream incrementally.
func Msgpack(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := msgpack.NewEncoder(w)
	for _, d := range limit(bag.Items(), opts.Max) {
		if err := enc.Encode(makeDiagnostic(d, fs, opts)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack reads a stream written by Msgpack.
func DecodeMsgpack(r io.Reader) ([]DiagnosticJSON, error) {
	dec := msgpack.NewDecoder(r)
	var out []DiagnosticJSON
	for {
		var d DiagnosticJSON
		if err := dec.Decode(&d); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, d)
	}
}
