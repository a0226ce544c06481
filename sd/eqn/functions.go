package eqn

import (
	"math"
	"sort"
	"strings"
)

// Function is a whitelisted pure numeric builtin callable from equations.
// The whitelist is data: extending the grammar means adding a table entry,
// never touching the parser or evaluator.
type Function struct {
	Name  string
	Arity int // -1 means variadic with at least two arguments
	apply func(args []float64) float64
}

// builtins is the closed set of callable functions. Every entry is
// deterministic and side-effect free; there is deliberately no way to reach
// randomness, I/O, or the clock from an equation.
var builtins = map[string]*Function{
	"min": {Name: "min", Arity: -1, apply: func(a []float64) float64 {
		v := a[0]
		for _, x := range a[1:] {
			v = math.Min(v, x)
		}
		return v
	}},
	"max": {Name: "max", Arity: -1, apply: func(a []float64) float64 {
		v := a[0]
		for _, x := range a[1:] {
			v = math.Max(v, x)
		}
		return v
	}},
	"abs":   {Name: "abs", Arity: 1, apply: func(a []float64) float64 { return math.Abs(a[0]) }},
	"sqrt":  {Name: "sqrt", Arity: 1, apply: func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"exp":   {Name: "exp", Arity: 1, apply: func(a []float64) float64 { return math.Exp(a[0]) }},
	"log":   {Name: "log", Arity: 1, apply: func(a []float64) float64 { return math.Log(a[0]) }},
	"log10": {Name: "log10", Arity: 1, apply: func(a []float64) float64 { return math.Log10(a[0]) }},
	"pow":   {Name: "pow", Arity: 2, apply: func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"floor": {Name: "floor", Arity: 1, apply: func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {Name: "ceil", Arity: 1, apply: func(a []float64) float64 { return math.Ceil(a[0]) }},
	// clamp(x, lo, hi) pins x into [lo, hi].
	"clamp": {Name: "clamp", Arity: 3, apply: func(a []float64) float64 {
		return math.Max(a[1], math.Min(a[2], a[0]))
	}},
	// step(t, at, height) is 0 before `at` and `height` from `at` onward.
	"step": {Name: "step", Arity: 3, apply: func(a []float64) float64 {
		if a[0] >= a[1] {
			return a[2]
		}
		return 0
	}},
	// pulse(t, start, duration, height) is `height` on [start, start+duration).
	"pulse": {Name: "pulse", Arity: 4, apply: func(a []float64) float64 {
		if a[0] >= a[1] && a[0] < a[1]+a[2] {
			return a[3]
		}
		return 0
	}},
	// ramp(t, start, slope) rises linearly from 0 starting at `start`.
	"ramp": {Name: "ramp", Arity: 3, apply: func(a []float64) float64 {
		return a[2] * math.Max(0, a[0]-a[1])
	}},
}

// LookupFunction returns the builtin with the given (case-insensitive) name.
func LookupFunction(name string) (*Function, bool) {
	f, ok := builtins[strings.ToLower(name)]
	return f, ok
}

// FunctionNames returns the sorted names of all whitelisted functions.
func FunctionNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
