package sd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModel_RoundTrip(t *testing.T) {
	src := `{
		"name": "Supply Chain Model",
		"description": "Basic inventory dynamics",
		"time": {"start": 0, "end": 10, "dt": 1, "unit": "days"},
		"stocks": [{"id": "inventory", "name": "Inventory", "initial_value": 1000, "unit": "units"}],
		"flows": [
			{"id": "production", "name": "Production", "to": "inventory", "equation": "production_rate"},
			{"id": "shipments", "name": "Shipments", "from": "inventory", "equation": "min(demand, inventory)"}
		],
		"parameters": [{"id": "production_rate", "name": "Production Rate", "value": 100, "min": 0, "max": 500}],
		"auxiliaries": [{"id": "demand", "name": "Demand", "equation": "80"}]
	}`
	m, err := ParseModel([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "Supply Chain Model", m.Name)
	require.Len(t, m.Flows, 2)
	assert.False(t, m.Flows[0].HasFrom())
	assert.True(t, m.Flows[0].HasTo())
	assert.True(t, m.Flows[1].HasFrom())
	assert.False(t, m.Flows[1].HasTo())
	require.NotNil(t, m.Parameters[0].Min)
	assert.Equal(t, 0.0, *m.Parameters[0].Min)
}

func TestParseModel_RejectsUnknownFields(t *testing.T) {
	src := `{"name": "x", "time": {"start": 0, "end": 1, "dt": 1}, "stocks": [], "flows": [], "bogus": 1}`
	_, err := ParseModel([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestParseModel_NullEndpointsMeanExternal(t *testing.T) {
	src := `{
		"name": "x",
		"time": {"start": 0, "end": 1, "dt": 1},
		"stocks": [{"id": "s", "name": "S", "initial_value": 0}],
		"flows": [{"id": "f", "name": "F", "from": null, "to": "s", "equation": "1"}]
	}`
	m, err := ParseModel([]byte(src))
	require.NoError(t, err)
	assert.False(t, m.Flows[0].HasFrom())
	assert.True(t, m.Flows[0].HasTo())
}

func TestFlow_NoneLiteralMeansExternal(t *testing.T) {
	f := Flow{ID: "f", From: "none", To: "s"}
	assert.False(t, f.HasFrom())
	assert.True(t, f.HasTo())
}

func TestTimeConfig_NumStepsExactMultiple(t *testing.T) {
	tc := TimeConfig{Start: 0, End: 10, Dt: 1}
	assert.Equal(t, 10, tc.NumSteps())
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, tc.Times())
}

func TestTimeConfig_NumStepsFloatNoise(t *testing.T) {
	// 0.3/0.1 is 2.9999999999999996 in floats; the epsilon must keep the
	// exact-multiple interpretation.
	tc := TimeConfig{Start: 0, End: 0.3, Dt: 0.1}
	assert.Equal(t, 3, tc.NumSteps())
}

func TestTimeConfig_TruncatesPartialStep(t *testing.T) {
	// (end-start)/dt = 2.5: the series truncates at t=2, no short final step.
	tc := TimeConfig{Start: 0, End: 2.5, Dt: 1}
	assert.Equal(t, 2, tc.NumSteps())
	assert.Equal(t, []float64{0, 1, 2}, tc.Times())
}

func TestTimeConfig_Issues(t *testing.T) {
	assert.Empty(t, TimeConfig{Start: 0, End: 10, Dt: 1}.Issues(0))

	assert.NotEmpty(t, TimeConfig{Start: 0, End: 10, Dt: 0}.Issues(0))
	assert.NotEmpty(t, TimeConfig{Start: 0, End: 10, Dt: -1}.Issues(0))
	assert.NotEmpty(t, TimeConfig{Start: 10, End: 10, Dt: 1}.Issues(0))
	assert.NotEmpty(t, TimeConfig{Start: 20, End: 10, Dt: 1}.Issues(0))

	// Sample-count guard.
	assert.NotEmpty(t, TimeConfig{Start: 0, End: 1e7, Dt: 1}.Issues(0))
	assert.Empty(t, TimeConfig{Start: 0, End: 99, Dt: 1}.Issues(100))
	assert.NotEmpty(t, TimeConfig{Start: 0, End: 100, Dt: 1}.Issues(100))
}

func TestParameter_InBounds(t *testing.T) {
	unbounded := Parameter{ID: "p", Value: 5}
	assert.True(t, unbounded.InBounds(-1e12))

	bounded := Parameter{ID: "p", Value: 5, Min: f64(0), Max: f64(10)}
	assert.True(t, bounded.InBounds(0))
	assert.True(t, bounded.InBounds(10))
	assert.False(t, bounded.InBounds(-0.001))
	assert.False(t, bounded.InBounds(10.001))
	assert.Equal(t, "[0, 10]", bounded.BoundsString())

	lowerOnly := Parameter{ID: "p", Value: 5, Min: f64(0)}
	assert.True(t, lowerOnly.InBounds(1e12))
	assert.False(t, lowerOnly.InBounds(-1))
}

func TestModel_JSONStableUnderRemarshal(t *testing.T) {
	m := ExampleSupplyChain()
	first, err := json.Marshal(m)
	require.NoError(t, err)
	var decoded Model
	require.NoError(t, json.Unmarshal(first, &decoded))
	second, err := json.Marshal(&decoded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
