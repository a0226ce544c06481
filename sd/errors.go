package sd

import (
	"fmt"
	"strings"
)

// ValidationError carries the full accumulated violation list for a rejected
// model. A model with any violation is rejected as a whole; there is no
// partial acceptance.
type ValidationError struct {
	Domain     string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("model rejected by domain %q with %d violation(s): %s",
		e.Domain, len(e.Violations), strings.Join(e.Violations, "; "))
}

// CompileErrorKind distinguishes the equation compiler failure modes.
type CompileErrorKind string

const (
	CompileSyntax     CompileErrorKind = "syntax_error"
	CompileUnresolved CompileErrorKind = "unresolved_reference"
	CompileCycle      CompileErrorKind = "cyclic_dependency"
	CompileDuplicate  CompileErrorKind = "duplicate_identifier"
)

// CompileError reports a failure to compile a model into an evaluation plan.
// Owner names the flow or auxiliary whose equation failed; Cycle is set only
// for CompileCycle and lists the minimal cycle, first node repeated at the
// end.
type CompileError struct {
	Kind     CompileErrorKind
	Owner    string
	Equation string
	Detail   string
	Cycle    []string
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case CompileCycle:
		return fmt.Sprintf("compile failed (%s): %s", e.Kind, strings.Join(e.Cycle, " -> "))
	case CompileDuplicate:
		return fmt.Sprintf("compile failed (%s): %s", e.Kind, e.Detail)
	default:
		return fmt.Sprintf("compile failed (%s) in %q: %s", e.Kind, e.Owner, e.Detail)
	}
}

// ParameterBoundsError reports an override (or default) outside a
// parameter's declared bounds. Out-of-bounds values are fatal for the run,
// never clamped.
type ParameterBoundsError struct {
	Parameter string
	Value     float64
	Bounds    string
}

func (e *ParameterBoundsError) Error() string {
	return fmt.Sprintf("parameter %q value %v outside bounds %s", e.Parameter, e.Value, e.Bounds)
}

// NumericalDivergenceError reports a non-finite value (overflow, division by
// zero, NaN) produced during integration. No partial result accompanies it.
type NumericalDivergenceError struct {
	Quantity string
	Step     int
	Time     float64
}

func (e *NumericalDivergenceError) Error() string {
	return fmt.Sprintf("numerical divergence: %q became non-finite at step %d (t=%v)", e.Quantity, e.Step, e.Time)
}

// SimulationTimeoutError reports a run aborted by its context before
// completing. The abort is deterministic in terms of the step reached.
type SimulationTimeoutError struct {
	Step  int
	Cause error
}

func (e *SimulationTimeoutError) Error() string {
	return fmt.Sprintf("simulation aborted at step %d: %v", e.Step, e.Cause)
}

func (e *SimulationTimeoutError) Unwrap() error { return e.Cause }
