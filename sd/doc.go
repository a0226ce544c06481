// Package sd is the deterministic stock-and-flow simulation core.
//
// # Reading Guide
//
// Start with these three files to understand the pipeline:
//   - model.go: Model, TimeConfig, Stock/Flow/Parameter/Auxiliary, JSON codec
//   - compile.go: symbol table, dependency graph, topological evaluation order
//   - simulator.go: the fixed-step forward Euler loop and the Run pipeline
//
// # Architecture
//
// A candidate model flows through four stages, each halting the pipeline on
// failure with a typed error and never emitting partial results:
//
//	Model -> Validate (sd/schema) -> Compile (sd/eqn) -> Simulate -> SimulationResult
//
// Sub-packages:
//   - sd/schema: closed-world domain schemas (identifier whitelists and
//     forbidden stock edges) as pure data, loadable from YAML
//   - sd/eqn: the equation lexer, parser, and AST evaluator. A fixed
//     grammar over a whitelisted function table, never code execution.
//
// # Determinism
//
// Simulating byte-identical inputs produces byte-identical results: the
// evaluation order is a stable topological sort (declaration-order
// tie-breaking), the integrator is fixed-step forward Euler, and the loop
// touches no randomness, no wall clock, and no unordered-container
// iteration. Scenario sweeps (scenario.go) share the immutable
// CompiledModel across workers while each run owns its own state vector.
package sd
