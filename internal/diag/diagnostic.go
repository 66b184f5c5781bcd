package diag

import (
	"fsfront/internal/source"
)

// Phase names the pipeline stage that produced a diagnostic.
type Phase uint8

const (
	PhaseDefault Phase = iota
	PhaseParse
	PhaseDirectives
	PhaseTypeCheck
	PhaseClose
	PhaseStartup
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseDirectives:
		return "directives"
	case PhaseTypeCheck:
		return "typecheck"
	case PhaseClose:
		return "close"
	case PhaseStartup:
		return "startup"
	}
	return "default"
}

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Phase    Phase
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
