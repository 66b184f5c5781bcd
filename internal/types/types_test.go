package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moduleWith(path []string, vals map[string]Type) *ModuleType {
	root := NewRoot()
	m := root.Ensure(path, ModuleKindModule)
	for k, v := range vals {
		m.AddVal(k, v)
	}
	return root
}

func TestCombineModuleTypesMergesRecursively(t *testing.T) {
	a := moduleWith([]string{"N", "A"}, map[string]Type{"x": Int})
	b := moduleWith([]string{"N", "B"}, map[string]Type{"y": String})
	c := moduleWith([]string{"N", "A"}, map[string]Type{"x": Bool, "z": Unit})

	out := CombineModuleTypes(CombineModuleTypes(a, b), c)
	assert.Equal(t, []string{"N.A.x : bool", "N.A.z : unit", "N.B.y : string"}, out.Entries())
	assert.Equal(t, []string{"N.A.x : int"}, a.Entries(), "inputs stay untouched")
	assert.Equal(t, ModuleKindNamespace, out.Modules["N"].Kind)
	assert.Equal(t, ModuleKindModule, out.Modules["N"].Modules["A"].Kind)
}

func TestCombineWithNil(t *testing.T) {
	a := moduleWith([]string{"A"}, map[string]Type{"x": Int})
	assert.Equal(t, a.Entries(), CombineModuleTypes(nil, a).Entries())
	assert.Equal(t, a.Entries(), CombineModuleTypes(a, nil).Entries())
}

func TestEnvLookupAndOpen(t *testing.T) {
	root := moduleWith([]string{"Lib", "Math"}, map[string]Type{"pi": Float})
	root.Modules["Lib"].Modules["Math"].Types["Angle"] = TypeDef{Name: "Angle", Abbrev: &Float}
	env := NewEnv(root)

	_, ok := env.LookupVal([]string{"pi"})
	assert.False(t, ok)
	ty, ok := env.LookupVal([]string{"Lib", "Math", "pi"})
	require.True(t, ok)
	assert.Equal(t, Float, ty)

	opened, ok := env.Open([]string{"Lib"})
	require.True(t, ok)
	_, ok = opened.LookupVal([]string{"Math", "pi"})
	assert.True(t, ok)

	opened2, ok := opened.Open([]string{"Math"})
	require.True(t, ok)
	_, ok = opened2.LookupVal([]string{"pi"})
	assert.True(t, ok)
	_, qual, ok := opened2.LookupType([]string{"Angle"})
	require.True(t, ok)
	assert.Equal(t, "Lib.Math.Angle", qual)

	assert.Len(t, opened.Opened(), 1, "earlier env is not affected by later opens")

	_, ok = env.Open([]string{"Nope"})
	assert.False(t, ok)
}

func TestEnvWithRoot(t *testing.T) {
	env := NewEnv(nil)
	next := env.WithRoot(moduleWith([]string{"A"}, map[string]Type{"x": Int}))
	_, ok := env.LookupVal([]string{"A", "x"})
	assert.False(t, ok)
	_, ok = next.LookupVal([]string{"A", "x"})
	assert.True(t, ok)
}
