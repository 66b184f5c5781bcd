// Package directive interprets the hash directives embedded in a parsed file
// (#I, #r, #i, #load, #nowarn, #time) as a fold with pluggable handlers.
package directive

// Kind distinguishes the two reference-resolution directives.
type Kind uint8

const (
	// KindResolution is `#r` / `#reference`: resolve and reference.
	KindResolution Kind = iota
	// KindInclude is `#i`: add a package source.
	KindInclude
)

func (k Kind) String() string {
	if k == KindInclude {
		return "include"
	}
	return "resolution"
}
