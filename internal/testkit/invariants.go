// Package testkit holds checks shared by parser and front-end tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"fsfront/internal/source"
	"fsfront/internal/syntax"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed input:
// 1) every fragment span is non-empty and within the file content
// 2) every declaration span is non-empty and contained in its fragment
// 3) fragments follow each other without overlapping
func CheckSpanInvariants(in syntax.ParsedInput, sf *source.File) error {
	if in == nil || sf == nil {
		return fmt.Errorf("nil input or file")
	}
	if in.Header().FileID != sf.ID {
		return fmt.Errorf("input points to different file id: got=%d want=%d", in.Header().FileID, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for i, frag := range in.Fragments() {
		sp := frag.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("fragment %d span is empty: %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("fragment %d span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("fragment %d span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("fragment %d span %v overlaps the previous fragment", i, sp)
		}
		prevEnd = sp.End

		for _, d := range frag.Decls {
			ds := d.DeclSpan()
			if ds.End <= ds.Start {
				return fmt.Errorf("empty declaration span: %v", ds)
			}
			if ds.File != sf.ID {
				return fmt.Errorf("declaration span file mismatch: got=%d want=%d", ds.File, sf.ID)
			}
			// declaration inside fragment
			if ds.Start < sp.Start || ds.End > sp.End {
				return fmt.Errorf("declaration span %v is outside fragment span %v", ds, sp)
			}
		}
	}
	return nil
}
