package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnshah9/mayhem-lacc/symtab"
	"github.com/rnshah9/mayhem-lacc/types"
)

func TestPushPopScopeDiscardsInnerBindings(t *testing.T) {
	ns := symtab.NewIdentNamespace()
	_, err := ns.Add(&symtab.Symbol{Name: "x", Type: types.NewInteger(4, false)})
	require.NoError(t, err)

	ns.PushScope()
	_, err = ns.Add(&symtab.Symbol{Name: "y", Type: types.NewInteger(4, false)})
	require.NoError(t, err)
	_, ok := ns.Lookup("y")
	assert.True(t, ok)
	ns.PopScope()

	_, ok = ns.Lookup("y")
	assert.False(t, ok)
	_, ok = ns.Lookup("x")
	assert.True(t, ok)
}

func TestInnerScopeShadowsOuter(t *testing.T) {
	ns := symtab.NewIdentNamespace()
	intT := types.NewInteger(4, false)
	ns.Add(&symtab.Symbol{Name: "x", Type: intT})

	ns.PushScope()
	ns.Add(&symtab.Symbol{Name: "x", Type: types.NewReal(8)})
	inner, _ := ns.Lookup("x")
	assert.Equal(t, types.Real, inner.Type.Kind)
	ns.PopScope()

	outer, _ := ns.Lookup("x")
	assert.Equal(t, types.Integer, outer.Type.Kind)
}

func TestFileScopeTentativeMergesWithLaterDefinition(t *testing.T) {
	ns := symtab.NewIdentNamespace()
	intT := types.NewInteger(4, false)
	sym, err := ns.Add(&symtab.Symbol{Name: "g", Type: intT, SymType: symtab.Tentative, Linkage: symtab.LinkageExternal})
	require.NoError(t, err)
	assert.Equal(t, symtab.Tentative, sym.SymType)

	sym2, err := ns.Add(&symtab.Symbol{Name: "g", Type: intT, SymType: symtab.Definition, Linkage: symtab.LinkageExternal})
	require.NoError(t, err)
	assert.Equal(t, symtab.Definition, sym2.SymType)

	resolved, _ := ns.Lookup("g")
	assert.Equal(t, symtab.Definition, resolved.SymType)
}

func TestFileScopeDoubleDefinitionIsError(t *testing.T) {
	ns := symtab.NewIdentNamespace()
	intT := types.NewInteger(4, false)
	_, err := ns.Add(&symtab.Symbol{Name: "g", Type: intT, SymType: symtab.Definition})
	require.NoError(t, err)
	_, err = ns.Add(&symtab.Symbol{Name: "g", Type: intT, SymType: symtab.Definition})
	assert.Error(t, err)
}

func TestBlockScopeRedeclarationIsAlwaysAnError(t *testing.T) {
	ns := symtab.NewIdentNamespace()
	ns.PushScope()
	intT := types.NewInteger(4, false)
	_, err := ns.Add(&symtab.Symbol{Name: "x", Type: intT})
	require.NoError(t, err)
	_, err = ns.Add(&symtab.Symbol{Name: "x", Type: intT})
	assert.Error(t, err)
}

func TestTagAndLabelNamespacesRejectAnyRedeclaration(t *testing.T) {
	tags := symtab.NewTagNamespace()
	_, err := tags.Add(&symtab.Symbol{Name: "S"})
	require.NoError(t, err)
	_, err = tags.Add(&symtab.Symbol{Name: "S"})
	assert.Error(t, err)

	labels := symtab.NewLabelNamespace()
	_, err = labels.Add(&symtab.Symbol{Name: "L"})
	require.NoError(t, err)
	_, err = labels.Add(&symtab.Symbol{Name: "L"})
	assert.Error(t, err)
}

func TestTempAllocatesUniqueNames(t *testing.T) {
	ns := symtab.NewIdentNamespace()
	intT := types.NewInteger(4, false)
	a := ns.Temp(intT)
	b := ns.Temp(intT)
	assert.NotEqual(t, a.Name, b.Name)
	assert.Equal(t, symtab.Definition, a.SymType)
}

func TestAllIncludesSymbolsFromPoppedScopes(t *testing.T) {
	ns := symtab.NewIdentNamespace()
	ns.PushScope()
	ns.Add(&symtab.Symbol{Name: "local", Type: types.NewInteger(4, false)})
	ns.PopScope()

	found := false
	for _, s := range ns.All() {
		if s.Name == "local" {
			found = true
		}
	}
	assert.True(t, found)
}
