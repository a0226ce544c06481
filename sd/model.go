package sd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/stockflow/stockflow/sd/schema"
)

// TimeSymbol is the reserved equation identifier for elapsed simulation
// time. The short alias "t" resolves to the same value. Neither may be
// declared as a model identifier.
const TimeSymbol = "time"

// timeAlias is the short form of TimeSymbol accepted in equations.
const timeAlias = "t"

// DefaultMaxSamples caps the number of samples a time configuration may
// request, guarding against runaway step counts.
const DefaultMaxSamples = 100000

// TimeConfig defines the fixed-step simulation window.
type TimeConfig struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Dt    float64 `json:"dt" yaml:"dt"`
	Unit  string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// NumSteps returns the number of whole dt steps between Start and End.
// When (End-Start) is not an exact multiple of dt the series truncates: the
// final sample is the last Start+n*dt inside the window and no short step is
// taken. A relative epsilon absorbs float error so an exact multiple is
// never truncated by representation noise.
func (tc TimeConfig) NumSteps() int {
	return int(math.Floor((tc.End-tc.Start)/tc.Dt + 1e-9))
}

// Times materializes the sample time vector: time[i] = Start + i*Dt.
func (tc TimeConfig) Times() []float64 {
	n := tc.NumSteps()
	times := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		times[i] = tc.Start + float64(i)*tc.Dt
	}
	return times
}

// Issues returns every invariant violation of the time configuration, empty
// when it is valid. maxSamples <= 0 selects DefaultMaxSamples.
func (tc TimeConfig) Issues(maxSamples int) []string {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	var issues []string
	if tc.Dt <= 0 {
		issues = append(issues, fmt.Sprintf("time config: dt must be > 0, got %v", tc.Dt))
	}
	if tc.End <= tc.Start {
		issues = append(issues, fmt.Sprintf("time config: end (%v) must be greater than start (%v)", tc.End, tc.Start))
	}
	if len(issues) == 0 && tc.NumSteps()+1 > maxSamples {
		issues = append(issues, fmt.Sprintf("time config: %d samples exceed the maximum of %d", tc.NumSteps()+1, maxSamples))
	}
	return issues
}

// Stock is an accumulation whose value changes only through flows during
// integration. The validator and compiler never mutate it.
type Stock struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	InitialValue float64 `json:"initial_value"`
	Unit         string  `json:"unit,omitempty"`
	Description  string  `json:"description,omitempty"`
}

// externalEndpoint is the literal accepted in From/To to mean an external
// source or sink, equivalent to omitting the field.
const externalEndpoint = "none"

// Flow is a rate of change moving quantity between stocks. An empty (or
// "none") endpoint denotes an external source or sink.
type Flow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Equation    string `json:"equation"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

// HasFrom reports whether the flow drains a declared stock.
func (f Flow) HasFrom() bool { return f.From != "" && f.From != externalEndpoint }

// HasTo reports whether the flow fills a declared stock.
func (f Flow) HasTo() bool { return f.To != "" && f.To != externalEndpoint }

// Parameter is a constant with optional bounds. Overrides supplied at run
// time must satisfy the bounds, as must the default value itself.
type Parameter struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Value       float64  `json:"value"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Description string   `json:"description,omitempty"`
}

// InBounds reports whether v satisfies the parameter's bounds.
func (p Parameter) InBounds(v float64) bool {
	if p.Min != nil && v < *p.Min {
		return false
	}
	if p.Max != nil && v > *p.Max {
		return false
	}
	return true
}

// BoundsString renders the bounds for error messages, e.g. "[0, 100]".
func (p Parameter) BoundsString() string {
	lo, hi := "-inf", "+inf"
	if p.Min != nil {
		lo = fmt.Sprintf("%v", *p.Min)
	}
	if p.Max != nil {
		hi = fmt.Sprintf("%v", *p.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

// Auxiliary is a stateless derived quantity recomputed every step from
// stocks, parameters, other auxiliaries, and time.
type Auxiliary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Equation    string `json:"equation"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

// Model is a complete stock-and-flow model as produced by an external
// caller. It is treated as immutable once handed to the engine.
type Model struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Time        TimeConfig  `json:"time"`
	Stocks      []Stock     `json:"stocks"`
	Flows       []Flow      `json:"flows"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Auxiliaries []Auxiliary `json:"auxiliaries,omitempty"`
}

// declaration pairs an identifier with its category, in declaration order.
type declaration struct {
	id  string
	cat schema.Category
}

// declarations lists every declared identifier in declaration order:
// stocks, then flows, then parameters, then auxiliaries.
func (m *Model) declarations() []declaration {
	decls := make([]declaration, 0, len(m.Stocks)+len(m.Flows)+len(m.Parameters)+len(m.Auxiliaries))
	for _, s := range m.Stocks {
		decls = append(decls, declaration{s.ID, schema.CategoryStock})
	}
	for _, f := range m.Flows {
		decls = append(decls, declaration{f.ID, schema.CategoryFlow})
	}
	for _, p := range m.Parameters {
		decls = append(decls, declaration{p.ID, schema.CategoryParameter})
	}
	for _, a := range m.Auxiliaries {
		decls = append(decls, declaration{a.ID, schema.CategoryAuxiliary})
	}
	return decls
}

// CategoryOf returns the declared category of id, if any.
func (m *Model) CategoryOf(id string) (schema.Category, bool) {
	for _, d := range m.declarations() {
		if d.id == id {
			return d.cat, true
		}
	}
	return "", false
}

// ParseModel decodes a model JSON document. Unknown fields are rejected:
// candidate models come from untrusted producers and a misspelled field must
// fail loudly rather than silently drop data.
func ParseModel(data []byte) (*Model, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing model JSON: %w", err)
	}
	return &m, nil
}

// LoadModel reads and decodes a model JSON file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	m, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("model file %s: %w", path, err)
	}
	return m, nil
}
