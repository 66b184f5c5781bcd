package source

import (
	"fmt"
)

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// StartupSpan is the location used for diagnostics that are not tied to a
// file position: missing inputs, internal errors, closing checks.
var StartupSpan = Span{File: NoFileID}

// FileStart returns an empty span at offset zero of the given file.
func FileStart(id FileID) Span {
	return Span{File: id}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// IsStartup reports whether the span does not belong to a file.
func (s Span) IsStartup() bool {
	return s.File == NoFileID
}

// StartRange collapses the span to its first position.
func (s Span) StartRange() Span {
	s.End = s.Start
	return s
}

func (s Span) String() string {
	if s.IsStartup() {
		return "startup"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span that contains both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
