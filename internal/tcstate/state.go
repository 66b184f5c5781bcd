// Package tcstate threads the incremental type-check state through a
// sequence of parsed files or interactive fragments.
package tcstate

import (
	"maps"
	"slices"

	"fsfront/internal/source"
	"fsfront/internal/types"
)

type rootSig struct {
	sig  *types.ModuleType
	span source.Span
}

// State is immutable: every step returns a new State and the previous one
// stays usable, so an interactive host can discard a failed step.
type State struct {
	ccu           *types.Ccu
	ccuSig        *types.ModuleType
	rootSigs      map[string]rootSig
	rootImpls     map[string]struct{}
	sigEnv        types.TcEnv
	implEnv       types.TcEnv
	implicitOpens [][]string
}

// New starts a compilation of ccu from the imported environment.
func New(ccu *types.Ccu, env types.TcEnv) State {
	return State{
		ccu:       ccu,
		ccuSig:    types.NewRoot(),
		rootSigs:  map[string]rootSig{},
		rootImpls: map[string]struct{}{},
		sigEnv:    env,
		implEnv:   env,
	}
}

func (s State) Ccu() *types.Ccu { return s.ccu }

// CcuSig is the merge of every file's contribution so far.
func (s State) CcuSig() *types.ModuleType { return s.ccuSig }

// SigEnv sees files through their signatures.
func (s State) SigEnv() types.TcEnv { return s.sigEnv }

// ImplEnv sees files through their implementations.
func (s State) ImplEnv() types.TcEnv { return s.implEnv }

func (s State) HasRootSig(qual string) bool {
	_, ok := s.rootSigs[qual]
	return ok
}

func (s State) HasRootImpl(qual string) bool {
	_, ok := s.rootImpls[qual]
	return ok
}

// RootSig returns the recorded signature for qual.
func (s State) RootSig(qual string) (*types.ModuleType, bool) {
	r, ok := s.rootSigs[qual]
	return r.sig, ok
}

func (s State) RootSigs() []string {
	return slices.Sorted(maps.Keys(s.rootSigs))
}

func (s State) RootImpls() []string {
	return slices.Sorted(maps.Keys(s.rootImpls))
}

// ImplicitOpens lists the module paths opened for interactive fragments.
func (s State) ImplicitOpens() [][]string {
	return slices.Clone(s.implicitOpens)
}

// NextStateAfterIncrementalFragment makes env the environment for both views.
// Interactive hosts call it after each accepted fragment.
func (s State) NextStateAfterIncrementalFragment(env types.TcEnv) State {
	s.sigEnv = env
	s.implEnv = env
	return s
}

func (s State) withRootSig(qual string, sig *types.ModuleType, sp source.Span) State {
	s.rootSigs = maps.Clone(s.rootSigs)
	s.rootSigs[qual] = rootSig{sig: sig, span: sp}
	return s
}

func (s State) withRootImpl(qual string) State {
	s.rootImpls = maps.Clone(s.rootImpls)
	s.rootImpls[qual] = struct{}{}
	return s
}

func (s State) withImplicitOpens(paths [][]string) State {
	if len(paths) == 0 {
		return s
	}
	s.implicitOpens = append(slices.Clone(s.implicitOpens), paths...)
	return s
}
