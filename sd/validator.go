package sd

import (
	"fmt"

	"github.com/stockflow/stockflow/sd/eqn"
	"github.com/stockflow/stockflow/sd/schema"
)

// Validate checks a candidate model against a domain schema. It returns nil
// on acceptance or a *ValidationError carrying every violation found; it
// never stops at the first problem, never mutates the model, and never
// repairs it. Closed-world semantics: any identifier outside the domain's
// whitelist is a violation, with no best-effort matching.
func Validate(m *Model, ds *schema.DomainSchema) error {
	var violations []string

	// Model-level invariants: unique identifiers, reserved time symbol.
	seen := map[string]bool{}
	for _, d := range m.declarations() {
		if d.id == TimeSymbol || d.id == timeAlias {
			violations = append(violations, fmt.Sprintf("%s %q shadows the reserved time symbol", d.cat, d.id))
			continue
		}
		if seen[d.id] {
			violations = append(violations, fmt.Sprintf("duplicate identifier %q", d.id))
		}
		seen[d.id] = true
	}

	// Check 1: every identifier, declared or referenced, is whitelisted.
	for _, d := range m.declarations() {
		if !ds.Allows(d.cat, d.id) {
			violations = append(violations, fmt.Sprintf("unknown identifier: %s %q is not permitted in domain %q", d.cat, d.id, ds.Name))
		}
	}
	checkRefs := func(ownerKind, ownerID, equation string) {
		for _, ref := range eqn.Identifiers(equation) {
			if ref == TimeSymbol || ref == timeAlias {
				continue
			}
			if _, declared := m.CategoryOf(ref); declared {
				continue // declaration already checked above
			}
			if !ds.Known(ref) {
				violations = append(violations, fmt.Sprintf("unknown identifier: %q referenced by %s %q", ref, ownerKind, ownerID))
			}
		}
	}
	for _, f := range m.Flows {
		checkRefs("flow", f.ID, f.Equation)
	}
	for _, a := range m.Auxiliaries {
		checkRefs("auxiliary", a.ID, a.Equation)
	}

	// Check 2: forbidden stock-to-stock edges.
	for _, f := range m.Flows {
		if f.HasFrom() && f.HasTo() && ds.Forbids(f.From, f.To) {
			violations = append(violations, fmt.Sprintf("forbidden edge: flow %q transfers %s -> %s", f.ID, f.From, f.To))
		}
	}

	// Check 3: flow endpoints reference declared stocks, and at least one
	// endpoint is a stock.
	stockDeclared := map[string]bool{}
	for _, s := range m.Stocks {
		stockDeclared[s.ID] = true
	}
	for _, f := range m.Flows {
		if f.HasFrom() && !stockDeclared[f.From] {
			violations = append(violations, fmt.Sprintf("flow %q references undeclared source stock %q", f.ID, f.From))
		}
		if f.HasTo() && !stockDeclared[f.To] {
			violations = append(violations, fmt.Sprintf("flow %q references undeclared destination stock %q", f.ID, f.To))
		}
		if !f.HasFrom() && !f.HasTo() {
			violations = append(violations, fmt.Sprintf("flow %q has neither source nor destination stock", f.ID))
		}
	}

	// Check 4: time configuration invariants.
	violations = append(violations, m.Time.Issues(DefaultMaxSamples)...)

	// Parameter defaults must lie within their own bounds.
	for _, p := range m.Parameters {
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			violations = append(violations, fmt.Sprintf("parameter %q has min %v greater than max %v", p.ID, *p.Min, *p.Max))
			continue
		}
		if !p.InBounds(p.Value) {
			violations = append(violations, fmt.Sprintf("parameter %q default %v outside bounds %s", p.ID, p.Value, p.BoundsString()))
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Domain: ds.Name, Violations: violations}
	}
	return nil
}
