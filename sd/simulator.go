package sd

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/stockflow/stockflow/sd/schema"
)

// RunState tracks a simulation through its lifecycle.
type RunState int

const (
	StateIdle RunState = iota
	StateCompiling
	StateIntegrating
	StateCompleted
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCompiling:
		return "compiling"
	case StateIntegrating:
		return "integrating"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Simulator executes one fixed-step integration over a compiled model. It
// owns its entire mutable state (the value vector and the sample buffers),
// so any number of Simulators may share one CompiledModel concurrently.
//
// The integration scheme is forward Euler: each stock advances by
// (sum of inflows - sum of outflows) * dt. The loop is strictly sequential
// and reads neither the wall clock nor any randomness, which is what makes
// rerunning the same inputs byte-identical.
type Simulator struct {
	Compiled *CompiledModel
	State    RunState
	Clock    float64
	Step     int

	vals []float64
}

// NewSimulator creates an idle simulator for one run over cm.
func NewSimulator(cm *CompiledModel) *Simulator {
	return &Simulator{Compiled: cm, State: StateIdle}
}

// Run integrates the model with the given parameter overrides. The context
// bounds the run: cancellation or deadline expiry fails the run with
// *SimulationTimeoutError at a well-defined step boundary. On any failure
// no partial result is returned.
func (s *Simulator) Run(ctx context.Context, overrides map[string]float64) (*SimulationResult, error) {
	cm := s.Compiled
	m := cm.Model
	tc := m.Time

	if issues := tc.Issues(DefaultMaxSamples); len(issues) > 0 {
		s.State = StateFailed
		return nil, &ValidationError{Domain: "", Violations: issues}
	}

	params, err := effectiveParameters(m, overrides)
	if err != nil {
		s.State = StateFailed
		return nil, err
	}

	// Value vector: slot 0 is time, then stocks, parameters, auxiliaries,
	// flows. Stocks start at their initial values; parameters at their
	// effective values.
	vals := make([]float64, cm.nSlots)
	for i, ref := range cm.stocks {
		vals[ref.slot] = m.Stocks[i].InitialValue
	}
	for _, ref := range cm.params {
		vals[ref.slot] = params[ref.id]
	}
	s.vals = vals

	n := tc.NumSteps()
	result := &SimulationResult{
		Time:        make([]float64, n+1),
		Stocks:      make(map[string][]float64, len(cm.stocks)),
		Flows:       make(map[string][]float64, len(cm.flows)),
		Auxiliaries: make(map[string][]float64, len(cm.auxes)),
		Metadata: ResultMetadata{
			ModelName:  m.Name,
			Parameters: params,
			TimeConfig: tc,
		},
	}
	for _, ref := range cm.stocks {
		result.Stocks[ref.id] = make([]float64, n+1)
	}
	for _, ref := range cm.flows {
		result.Flows[ref.id] = make([]float64, n+1)
	}
	for _, ref := range cm.auxes {
		result.Auxiliaries[ref.id] = make([]float64, n+1)
	}

	s.State = StateIntegrating
	logrus.Debugf("simulating %q: %d steps, dt=%v", m.Name, n, tc.Dt)

	for i := 0; i <= n; i++ {
		select {
		case <-ctx.Done():
			s.State = StateFailed
			return nil, &SimulationTimeoutError{Step: i, Cause: ctx.Err()}
		default:
		}

		t := tc.Start + float64(i)*tc.Dt
		s.Clock = t
		s.Step = i
		vals[0] = t

		// Evaluate auxiliaries and flows in compiled topological order.
		for _, step := range cm.order {
			v := step.expr.Eval(vals)
			if !isFinite(v) {
				s.State = StateFailed
				return nil, &NumericalDivergenceError{Quantity: step.id, Step: i, Time: t}
			}
			vals[step.slot] = v
		}

		// Sample every quantity at this step.
		result.Time[i] = t
		for _, ref := range cm.stocks {
			result.Stocks[ref.id][i] = vals[ref.slot]
		}
		for _, ref := range cm.flows {
			result.Flows[ref.id][i] = vals[ref.slot]
		}
		for _, ref := range cm.auxes {
			result.Auxiliaries[ref.id][i] = vals[ref.slot]
		}

		if i == n {
			break
		}

		// Advance stocks by net flow (forward Euler).
		for _, ref := range cm.stocks {
			net := 0.0
			for _, fs := range cm.inflows[ref.slot] {
				net += vals[fs]
			}
			for _, fs := range cm.outflows[ref.slot] {
				net -= vals[fs]
			}
			next := vals[ref.slot] + net*tc.Dt
			if !isFinite(next) {
				s.State = StateFailed
				return nil, &NumericalDivergenceError{Quantity: ref.id, Step: i + 1, Time: t + tc.Dt}
			}
			vals[ref.slot] = next
		}
	}

	s.State = StateCompleted
	logrus.Debugf("simulation of %q completed at t=%v", m.Name, s.Clock)
	return result, nil
}

// Simulate is the pure-function entry point: validate nothing, compile
// nothing, just run cm once with overrides. Equivalent to
// NewSimulator(cm).Run(ctx, overrides).
func Simulate(ctx context.Context, cm *CompiledModel, overrides map[string]float64) (*SimulationResult, error) {
	return NewSimulator(cm).Run(ctx, overrides)
}

// Run is the full pipeline for a single candidate model: structural
// validation against the domain schema, compilation, then simulation.
// Each stage's failure halts the pipeline with its typed error.
func Run(ctx context.Context, m *Model, ds *schema.DomainSchema, overrides map[string]float64) (*SimulationResult, error) {
	if err := Validate(m, ds); err != nil {
		return nil, err
	}
	cm, err := Compile(m)
	if err != nil {
		return nil, err
	}
	return Simulate(ctx, cm, overrides)
}

// effectiveParameters merges overrides into the declared parameter values,
// re-checking bounds. Override keys are visited in sorted order so the
// first reported error is deterministic.
func effectiveParameters(m *Model, overrides map[string]float64) (map[string]float64, error) {
	params := make(map[string]float64, len(m.Parameters))
	byID := make(map[string]Parameter, len(m.Parameters))
	for _, p := range m.Parameters {
		params[p.ID] = p.Value
		byID[p.ID] = p
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, id := range keys {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("override references unknown parameter %q", id)
		}
		v := overrides[id]
		if !p.InBounds(v) {
			return nil, &ParameterBoundsError{Parameter: id, Value: v, Bounds: p.BoundsString()}
		}
		params[id] = v
	}
	return params, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
