package sd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_EvalOrderFollowsDependencies(t *testing.T) {
	// shipments reads demand, so demand must evaluate first even though
	// auxiliaries and flows interleave in declaration order.
	cm := mustCompile(t, testInventoryModel())
	assert.Equal(t, []string{"demand", "production", "shipments"}, cm.EvalOrder())
}

func TestCompile_EvalOrderStableAcrossCompilations(t *testing.T) {
	m := testInventoryModel()
	first := mustCompile(t, m).EvalOrder()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, mustCompile(t, m).EvalOrder())
	}
}

func TestCompile_ChainedAuxiliaries(t *testing.T) {
	m := testInventoryModel()
	m.Auxiliaries = []Auxiliary{
		// declared out of dependency order on purpose
		{ID: "inventory_cover", Name: "Cover", Equation: "inventory / (demand + 1)"},
		{ID: "demand", Name: "Demand", Equation: "50"},
	}
	m.Flows[1].Equation = "min(demand, inventory / 5)"
	cm := mustCompile(t, m)
	assert.Equal(t, []string{"demand", "inventory_cover", "production", "shipments"}, cm.EvalOrder())
}

func TestCompile_StocksAreNotDependencyNodes(t *testing.T) {
	// A flow reading a stock is not a graph edge: stocks are snapshots
	// within a step, so this compiles without any ordering constraint.
	m := testInventoryModel()
	m.Flows[0].Equation = "inventory * 0.01"
	mustCompile(t, m)
}

func TestCompile_SyntaxError(t *testing.T) {
	m := testInventoryModel()
	m.Flows[0].Equation = "production_capacity * "
	_, err := Compile(m)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CompileSyntax, ce.Kind)
	assert.Equal(t, "production", ce.Owner)
	assert.Equal(t, "production_capacity * ", ce.Equation)
}

func TestCompile_UnresolvedReference(t *testing.T) {
	m := testInventoryModel()
	m.Auxiliaries[0].Equation = "base_demand * 2"
	_, err := Compile(m)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CompileUnresolved, ce.Kind)
	assert.Equal(t, "demand", ce.Owner)
	assert.Contains(t, ce.Detail, "base_demand")
}

func TestCompile_SelfReference(t *testing.T) {
	m := testInventoryModel()
	m.Auxiliaries[0].Equation = "demand + 1"
	_, err := Compile(m)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CompileCycle, ce.Kind)
	assert.Equal(t, []string{"demand", "demand"}, ce.Cycle)
}

func TestCompile_MutualCycle(t *testing.T) {
	m := testInventoryModel()
	m.Auxiliaries = []Auxiliary{
		{ID: "demand", Name: "Demand", Equation: "inventory_cover * 2"},
		{ID: "inventory_cover", Name: "Cover", Equation: "demand / 5"},
	}
	_, err := Compile(m)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CompileCycle, ce.Kind)
	assert.Equal(t, []string{"demand", "inventory_cover", "demand"}, ce.Cycle)
	assert.Contains(t, ce.Error(), "demand -> inventory_cover -> demand")
}

func TestCompile_DuplicateIdentifier(t *testing.T) {
	m := testInventoryModel()
	m.Auxiliaries = append(m.Auxiliaries, Auxiliary{ID: "inventory", Equation: "1"})
	_, err := Compile(m)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CompileDuplicate, ce.Kind)
	assert.Contains(t, ce.Detail, `"inventory"`)
}

func TestCompile_TimeSymbolShadowRejected(t *testing.T) {
	m := testInventoryModel()
	m.Parameters = append(m.Parameters, Parameter{ID: "t", Value: 0})
	_, err := Compile(m)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CompileDuplicate, ce.Kind)
}

func TestCompile_UnknownFlowEndpoint(t *testing.T) {
	m := testInventoryModel()
	m.Flows[0].To = "warehouse"
	_, err := Compile(m)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CompileUnresolved, ce.Kind)
	assert.Contains(t, ce.Detail, `"warehouse"`)
}

func TestCompile_EndpointMustBeStock(t *testing.T) {
	m := testInventoryModel()
	m.Flows[0].To = "utilization" // a parameter, not a stock
	_, err := Compile(m)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CompileUnresolved, ce.Kind)
	assert.Contains(t, ce.Detail, "not a declared stock")
}
