package sd

import (
	"fmt"
	"sort"

	"github.com/stockflow/stockflow/sd/eqn"
)

// slotRef pairs a model identifier with its slot in the value vector.
type slotRef struct {
	id   string
	slot int
}

// evalStep is one entry of the topologically ordered evaluation sequence.
type evalStep struct {
	id     string
	slot   int
	expr   *eqn.Expr
	isFlow bool
}

// CompiledModel is a validated model plus resolved expression trees, the
// topological evaluation order for auxiliaries and flows, and per-stock flow
// wiring. A CompiledModel is immutable after Compile returns: simulation
// runs read it concurrently but keep all mutable state in their own vectors.
type CompiledModel struct {
	Model *Model

	nSlots  int
	symbols map[string]int

	// slot references in declaration order, per category
	stocks []slotRef
	params []slotRef
	auxes  []slotRef
	flows  []slotRef

	// order is the evaluation sequence for auxiliaries and flows. Two
	// compilations of the same model always produce the identical order:
	// ties are broken by slot number, which follows declaration order.
	order []evalStep

	// inflows/outflows map a stock slot to the flow slots filling/draining it.
	inflows  map[int][]int
	outflows map[int][]int
}

// Compile parses and resolves every equation of m, builds the dependency
// graph among auxiliaries and flows, and topologically sorts it. Stocks and
// parameters are snapshot values within a step, so they are never dependency
// graph nodes. Any failure is reported as a *CompileError.
func Compile(m *Model) (*CompiledModel, error) {
	cm := &CompiledModel{
		Model:    m,
		symbols:  map[string]int{},
		inflows:  map[int][]int{},
		outflows: map[int][]int{},
	}

	// Slot 0 is reserved for elapsed time; the alias resolves to the same slot.
	cm.symbols[TimeSymbol] = 0
	cm.symbols[timeAlias] = 0
	next := 1
	assign := func(id string) (int, error) {
		if _, exists := cm.symbols[id]; exists {
			return 0, &CompileError{
				Kind:   CompileDuplicate,
				Detail: fmt.Sprintf("identifier %q declared more than once (or shadows the time symbol)", id),
			}
		}
		cm.symbols[id] = next
		next++
		return next - 1, nil
	}

	for _, s := range m.Stocks {
		slot, err := assign(s.ID)
		if err != nil {
			return nil, err
		}
		cm.stocks = append(cm.stocks, slotRef{s.ID, slot})
	}
	for _, p := range m.Parameters {
		slot, err := assign(p.ID)
		if err != nil {
			return nil, err
		}
		cm.params = append(cm.params, slotRef{p.ID, slot})
	}
	for _, a := range m.Auxiliaries {
		slot, err := assign(a.ID)
		if err != nil {
			return nil, err
		}
		cm.auxes = append(cm.auxes, slotRef{a.ID, slot})
	}
	for _, f := range m.Flows {
		slot, err := assign(f.ID)
		if err != nil {
			return nil, err
		}
		cm.flows = append(cm.flows, slotRef{f.ID, slot})
	}
	cm.nSlots = next

	// Parse and bind every equation; collect the unsorted evaluation steps.
	steps := map[int]*evalStep{}
	addStep := func(ownerID, equation string, slot int, isFlow bool) error {
		expr, err := eqn.Parse(equation)
		if err != nil {
			return &CompileError{Kind: CompileSyntax, Owner: ownerID, Equation: equation, Detail: err.Error()}
		}
		if err := expr.Bind(cm.symbols); err != nil {
			return &CompileError{Kind: CompileUnresolved, Owner: ownerID, Equation: equation, Detail: err.Error()}
		}
		steps[slot] = &evalStep{id: ownerID, slot: slot, expr: expr, isFlow: isFlow}
		return nil
	}
	for i, a := range m.Auxiliaries {
		if err := addStep(a.ID, a.Equation, cm.auxes[i].slot, false); err != nil {
			return nil, err
		}
	}
	for i, f := range m.Flows {
		if err := addStep(f.ID, f.Equation, cm.flows[i].slot, true); err != nil {
			return nil, err
		}
	}

	// Wire flows to their stocks. The validator reports these as structural
	// violations too; compilation re-checks so it is safe standalone.
	for i, f := range m.Flows {
		slot := cm.flows[i].slot
		if f.HasFrom() {
			s, ok := cm.symbols[f.From]
			if !ok || !cm.isStockSlot(s) {
				return nil, &CompileError{
					Kind: CompileUnresolved, Owner: f.ID, Equation: f.Equation,
					Detail: fmt.Sprintf("source %q is not a declared stock", f.From),
				}
			}
			cm.outflows[s] = append(cm.outflows[s], slot)
		}
		if f.HasTo() {
			s, ok := cm.symbols[f.To]
			if !ok || !cm.isStockSlot(s) {
				return nil, &CompileError{
					Kind: CompileUnresolved, Owner: f.ID, Equation: f.Equation,
					Detail: fmt.Sprintf("destination %q is not a declared stock", f.To),
				}
			}
			cm.inflows[s] = append(cm.inflows[s], slot)
		}
	}

	order, err := cm.sortSteps(steps)
	if err != nil {
		return nil, err
	}
	cm.order = order
	return cm, nil
}

func (cm *CompiledModel) isStockSlot(slot int) bool {
	for _, s := range cm.stocks {
		if s.slot == slot {
			return true
		}
	}
	return false
}

// sortSteps topologically sorts the auxiliary/flow evaluation steps with a
// stable Kahn scheme: among ready nodes the lowest slot (declaration order,
// auxiliaries before flows) always goes first, so the evaluation order is
// identical across compilations of the same model.
func (cm *CompiledModel) sortSteps(steps map[int]*evalStep) ([]evalStep, error) {
	slots := make([]int, 0, len(steps))
	for slot := range steps {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	// deps[x] lists the aux/flow slots x's equation references.
	deps := map[int][]int{}
	dependents := map[int][]int{}
	indeg := map[int]int{}
	for _, slot := range slots {
		indeg[slot] = 0
	}
	for _, slot := range slots {
		for _, name := range steps[slot].expr.Vars() {
			ref := cm.symbols[name]
			if _, isNode := steps[ref]; !isNode {
				continue // stocks, parameters, and time are step-level snapshots
			}
			if ref == slot {
				id := steps[slot].id
				return nil, &CompileError{Kind: CompileCycle, Cycle: []string{id, id}}
			}
			deps[slot] = append(deps[slot], ref)
			dependents[ref] = append(dependents[ref], slot)
			indeg[slot]++
		}
	}

	order := make([]evalStep, 0, len(slots))
	done := map[int]bool{}
	for len(order) < len(slots) {
		picked := -1
		for _, slot := range slots {
			if !done[slot] && indeg[slot] == 0 {
				picked = slot
				break
			}
		}
		if picked == -1 {
			return nil, cm.cycleError(slots, deps, done, steps)
		}
		done[picked] = true
		order = append(order, *steps[picked])
		for _, dep := range dependents[picked] {
			indeg[dep]--
		}
	}
	return order, nil
}

// cycleError extracts a minimal dependency cycle among the unsorted nodes
// and packages it as a CompileError. Walking always follows the
// lowest-slot unresolved dependency, so the reported cycle is deterministic.
func (cm *CompiledModel) cycleError(slots []int, deps map[int][]int, done map[int]bool, steps map[int]*evalStep) error {
	remaining := map[int]bool{}
	start := -1
	for _, slot := range slots {
		if !done[slot] {
			remaining[slot] = true
			if start == -1 {
				start = slot
			}
		}
	}

	path := []int{}
	index := map[int]int{}
	cur := start
	for {
		if at, seen := index[cur]; seen {
			cycle := append([]int{}, path[at:]...)
			cycle = append(cycle, cur)
			names := make([]string, len(cycle))
			for i, slot := range cycle {
				names[i] = steps[slot].id
			}
			return &CompileError{Kind: CompileCycle, Cycle: names}
		}
		index[cur] = len(path)
		path = append(path, cur)

		next := -1
		candidates := append([]int{}, deps[cur]...)
		sort.Ints(candidates)
		for _, d := range candidates {
			if remaining[d] {
				next = d
				break
			}
		}
		if next == -1 {
			// cur's unresolved deps were all visited; restart from one of them
			// cannot happen with indegree bookkeeping, but guard anyway
			return &CompileError{Kind: CompileCycle, Cycle: []string{steps[cur].id}}
		}
		cur = next
	}
}

// EvalOrder returns the identifiers of the auxiliary/flow evaluation
// sequence, primarily for tests and diagnostics.
func (cm *CompiledModel) EvalOrder() []string {
	ids := make([]string, len(cm.order))
	for i, s := range cm.order {
		ids[i] = s.id
	}
	return ids
}
