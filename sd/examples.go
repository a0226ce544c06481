package sd

// Built-in example models, resolvable by id from the CLI and the scenario
// runner. Each validates against its builtin domain and simulates cleanly
// with default parameters.

import (
	"fmt"
	"sort"
)

// exampleEntry binds a preset model constructor to its domain.
type exampleEntry struct {
	domain string
	build  func() *Model
}

var exampleModels = map[string]exampleEntry{
	"aerodin_workforce":       {domain: "aerodin", build: ExampleWorkforceDynamics},
	"euromotion_supply_chain": {domain: "euromotion", build: ExampleSupplyChain},
}

// ExampleIDs returns the sorted ids of the built-in example models.
func ExampleIDs() []string {
	ids := make([]string, 0, len(exampleModels))
	for id := range exampleModels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExampleModel resolves a built-in example by id, returning the model and
// the name of the domain it belongs to.
func ExampleModel(id string) (*Model, string, error) {
	entry, ok := exampleModels[id]
	if !ok {
		return nil, "", fmt.Errorf("unknown example model %q (available: %v)", id, ExampleIDs())
	}
	return entry.build(), entry.domain, nil
}

func f64(v float64) *float64 { return &v }

// ExampleWorkforceDynamics models hiring, attrition, and backlog burn-down
// at a defense contractor (aerodin domain).
func ExampleWorkforceDynamics() *Model {
	return &Model{
		Name:        "Aerodin Systems - Workforce Dynamics",
		Description: "Defense contractor workforce planning and project delivery",
		Time:        TimeConfig{Start: 0, End: 60, Dt: 1, Unit: "months"},
		Stocks: []Stock{
			{ID: "skilled_engineers", Name: "Skilled Engineers", InitialValue: 500, Unit: "people"},
			{ID: "backlog", Name: "Project Backlog", InitialValue: 200, Unit: "work_units"},
		},
		Flows: []Flow{
			{ID: "hiring_rate", Name: "Hiring Rate", To: "skilled_engineers",
				Equation: "max(0, hiring_target * (1 - skilled_engineers / max_workforce))", Unit: "people/month"},
			{ID: "attrition_rate", Name: "Attrition Rate", From: "skilled_engineers",
				Equation: "skilled_engineers * attrition_fraction", Unit: "people/month"},
			{ID: "work_generation", Name: "Work Generation", To: "backlog",
				Equation: "contract_load", Unit: "work_units/month"},
			{ID: "work_completion", Name: "Work Completion", From: "backlog",
				Equation: "min(backlog, skilled_engineers * productivity)", Unit: "work_units/month"},
		},
		Parameters: []Parameter{
			{ID: "hiring_target", Name: "Hiring Target", Value: 20, Min: f64(0), Max: f64(100), Unit: "people/month"},
			{ID: "max_workforce", Name: "Max Workforce", Value: 800, Min: f64(1), Max: f64(5000), Unit: "people"},
			{ID: "attrition_fraction", Name: "Attrition Fraction", Value: 0.02, Min: f64(0), Max: f64(1), Unit: "1/month"},
			{ID: "productivity", Name: "Productivity", Value: 0.8, Min: f64(0), Max: f64(10), Unit: "work_units/person/month"},
			{ID: "contract_load", Name: "Contract Load", Value: 25, Min: f64(0), Max: f64(1000), Unit: "work_units/month"},
		},
		Auxiliaries: []Auxiliary{
			{ID: "workforce_gap", Name: "Workforce Gap",
				Equation: "max_workforce - skilled_engineers", Unit: "people"},
			{ID: "delivery_pressure", Name: "Delivery Pressure",
				Equation: "backlog / (skilled_engineers * productivity + 1)", Unit: "months"},
		},
	}
}

// ExampleSupplyChain models EV component production against growing demand
// (euromotion domain).
func ExampleSupplyChain() *Model {
	return &Model{
		Name:        "Euromotion - Supply Chain Dynamics",
		Description: "EV component inventory, capacity, and demand growth",
		Time:        TimeConfig{Start: 0, End: 48, Dt: 1, Unit: "months"},
		Stocks: []Stock{
			{ID: "inventory", Name: "Inventory", InitialValue: 1000, Unit: "units"},
			{ID: "installed_capacity", Name: "Installed Capacity", InitialValue: 100, Unit: "units/month"},
		},
		Flows: []Flow{
			{ID: "production", Name: "Production", To: "inventory",
				Equation: "min(installed_capacity, production_capacity * utilization)", Unit: "units/month"},
			{ID: "shipments", Name: "Shipments", From: "inventory",
				Equation: "min(demand, inventory / 5)", Unit: "units/month"},
			{ID: "capacity_expansion", Name: "Capacity Expansion", To: "installed_capacity",
				Equation: "capacity_investment", Unit: "units/month/month"},
			{ID: "capacity_depreciation", Name: "Capacity Depreciation", From: "installed_capacity",
				Equation: "installed_capacity * capacity_depreciation_rate", Unit: "units/month/month"},
		},
		Parameters: []Parameter{
			{ID: "production_capacity", Name: "Production Capacity", Value: 100, Min: f64(0), Max: f64(500), Unit: "units/month"},
			{ID: "utilization", Name: "Utilization", Value: 0.8, Min: f64(0), Max: f64(1)},
			{ID: "base_demand", Name: "Base Demand", Value: 50, Min: f64(0), Max: f64(300), Unit: "units/month"},
			{ID: "demand_growth", Name: "Demand Growth", Value: 0.01, Min: f64(0), Max: f64(1), Unit: "1/month"},
			{ID: "capacity_investment", Name: "Capacity Investment", Value: 2, Min: f64(0), Max: f64(50), Unit: "units/month/month"},
			{ID: "capacity_depreciation_rate", Name: "Capacity Depreciation Rate", Value: 0.01, Min: f64(0), Max: f64(1), Unit: "1/month"},
		},
		Auxiliaries: []Auxiliary{
			{ID: "demand", Name: "Demand",
				Equation: "base_demand * (1 + demand_growth * time)", Unit: "units/month"},
			{ID: "inventory_cover", Name: "Inventory Cover",
				Equation: "inventory / (demand + 1)", Unit: "months"},
		},
	}
}
