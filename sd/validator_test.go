package sd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/stockflow/sd/schema"
)

func euromotionSchema(t *testing.T) *schema.DomainSchema {
	t.Helper()
	ds, err := schema.Builtin().Lookup("euromotion")
	require.NoError(t, err)
	return ds
}

func aerodinSchema(t *testing.T) *schema.DomainSchema {
	t.Helper()
	ds, err := schema.Builtin().Lookup("aerodin")
	require.NoError(t, err)
	return ds
}

func asValidation(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve
}

func TestValidate_AcceptsExamples(t *testing.T) {
	for _, id := range ExampleIDs() {
		m, domain, err := ExampleModel(id)
		require.NoError(t, err)
		ds, err := schema.Builtin().Lookup(domain)
		require.NoError(t, err)
		assert.NoError(t, Validate(m, ds), "example %s", id)
	}
}

func TestValidate_UnknownDeclaredIdentifier(t *testing.T) {
	m := testInventoryModel()
	m.Stocks = append(m.Stocks, Stock{ID: "warp_core", Name: "Warp Core"})
	ve := asValidation(t, Validate(m, euromotionSchema(t)))
	require.Len(t, ve.Violations, 1)
	assert.Contains(t, ve.Violations[0], "unknown identifier")
	assert.Contains(t, ve.Violations[0], "warp_core")
	assert.Equal(t, "euromotion", ve.Domain)
}

func TestValidate_UnknownReferencedIdentifier(t *testing.T) {
	m := testInventoryModel()
	m.Auxiliaries[0].Equation = "50 + mystery_input"
	ve := asValidation(t, Validate(m, euromotionSchema(t)))
	require.Len(t, ve.Violations, 1)
	assert.Contains(t, ve.Violations[0], `"mystery_input"`)
	assert.Contains(t, ve.Violations[0], `auxiliary "demand"`)
}

func TestValidate_ReferencedButUndeclaredWhitelistedID(t *testing.T) {
	// base_demand is in the euromotion whitelist, so referencing it without
	// declaring it passes whole-model validation (compilation catches it).
	m := testInventoryModel()
	m.Auxiliaries[0].Equation = "base_demand"
	assert.NoError(t, Validate(m, euromotionSchema(t)))
}

func TestValidate_ForbiddenEdge(t *testing.T) {
	ds := aerodinSchema(t)
	m := &Model{
		Name: "direct monetization",
		Time: TimeConfig{Start: 0, End: 10, Dt: 1},
		Stocks: []Stock{
			{ID: "rd_knowledge", Name: "R&D Knowledge", InitialValue: 100},
			{ID: "cash_reserves", Name: "Cash", InitialValue: 1000},
		},
		Flows: []Flow{
			{ID: "revenue", Name: "Revenue", From: "rd_knowledge", To: "cash_reserves", Equation: "10"},
		},
	}
	ve := asValidation(t, Validate(m, ds))
	require.Len(t, ve.Violations, 1)
	assert.Contains(t, ve.Violations[0], "forbidden edge")
	assert.Contains(t, ve.Violations[0], "rd_knowledge -> cash_reserves")

	// The reverse direction is not forbidden.
	m.Flows[0].From, m.Flows[0].To = "cash_reserves", "rd_knowledge"
	m.Flows[0].ID = "rd_investment"
	assert.NoError(t, Validate(m, ds))
}

func TestValidate_UndeclaredEndpoints(t *testing.T) {
	m := testInventoryModel()
	m.Flows[0].To = "battery_inventory" // whitelisted but not declared
	ve := asValidation(t, Validate(m, euromotionSchema(t)))
	require.Len(t, ve.Violations, 1)
	assert.Contains(t, ve.Violations[0], "undeclared destination stock")
}

func TestValidate_FlowWithoutAnyStock(t *testing.T) {
	m := testInventoryModel()
	m.Flows[0].From = ""
	m.Flows[0].To = "none"
	ve := asValidation(t, Validate(m, euromotionSchema(t)))
	require.Len(t, ve.Violations, 1)
	assert.Contains(t, ve.Violations[0], "neither source nor destination")
}

func TestValidate_TimeConfig(t *testing.T) {
	m := testInventoryModel()
	m.Time = TimeConfig{Start: 5, End: 5, Dt: 0}
	ve := asValidation(t, Validate(m, euromotionSchema(t)))
	assert.Len(t, ve.Violations, 2) // dt and end/start
}

func TestValidate_DuplicateIdentifier(t *testing.T) {
	m := testInventoryModel()
	m.Auxiliaries = append(m.Auxiliaries, Auxiliary{ID: "inventory", Name: "Shadow", Equation: "1"})
	ve := asValidation(t, Validate(m, euromotionSchema(t)))
	assert.Contains(t, ve.Violations, `duplicate identifier "inventory"`)
}

func TestValidate_ReservedTimeSymbol(t *testing.T) {
	m := testInventoryModel()
	m.Parameters = append(m.Parameters, Parameter{ID: "time", Name: "Time", Value: 1})
	ve := asValidation(t, Validate(m, euromotionSchema(t)))
	require.NotEmpty(t, ve.Violations)
	assert.Contains(t, ve.Violations[0], "reserved time symbol")
}

func TestValidate_ParameterBounds(t *testing.T) {
	m := testInventoryModel()
	m.Parameters[1].Value = 1.5 // utilization bounds are [0, 1]
	ve := asValidation(t, Validate(m, euromotionSchema(t)))
	require.Len(t, ve.Violations, 1)
	assert.Contains(t, ve.Violations[0], `parameter "utilization" default 1.5 outside bounds [0, 1]`)

	m = testInventoryModel()
	m.Parameters[0].Min = f64(10)
	m.Parameters[0].Max = f64(5)
	ve = asValidation(t, Validate(m, euromotionSchema(t)))
	require.Len(t, ve.Violations, 1)
	assert.Contains(t, ve.Violations[0], "min 10 greater than max 5")
}

func TestValidate_AccumulatesAllViolations(t *testing.T) {
	m := testInventoryModel()
	m.Stocks = append(m.Stocks, Stock{ID: "warp_core"})
	m.Flows[1].From = "battery_inventory"
	m.Time.Dt = -1
	ve := asValidation(t, Validate(m, euromotionSchema(t)))
	assert.GreaterOrEqual(t, len(ve.Violations), 3)
}

func TestValidate_DoesNotMutateModel(t *testing.T) {
	m := testInventoryModel()
	m.Stocks = append(m.Stocks, Stock{ID: "warp_core"})
	before := len(m.Stocks)
	_ = Validate(m, euromotionSchema(t))
	assert.Equal(t, before, len(m.Stocks))
	assert.Equal(t, "warp_core", m.Stocks[before-1].ID)
}

func TestRegistry_UnknownDomain(t *testing.T) {
	_, err := schema.Builtin().Lookup("cryptids")
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrNotFound))
}
