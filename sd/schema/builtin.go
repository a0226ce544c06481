package schema

// Builtin returns the registry preloaded with the two shipped domains:
// aerodin (defense contractor) and euromotion (EV component manufacturer).
// Further domains come from configuration via LoadFile.
func Builtin() *Registry {
	r, err := NewRegistry(Aerodin(), Euromotion())
	if err != nil {
		// Both schemas are static data; a construction failure is a bug.
		panic(err)
	}
	return r
}

// Aerodin is the closed-world schema for Aerodin Systems, a defense
// contractor. Hard rule: no direct capability-to-revenue transfers; value
// must pass through deployment and regulatory stocks.
func Aerodin() *DomainSchema {
	return &DomainSchema{
		Name:        "aerodin",
		Description: "Defense contractor - regulatory, ethical constraints, certification",
		Stocks: []string{
			"skilled_engineers",
			"junior_engineers",
			"active_defense_programs",
			"active_contracts",
			"backlog",
			"regulatory_backlog",
			"rd_knowledge",
			"certification_level",
			"public_trust_level",
			"cash_reserves",
			"certified_ai_modules",
		},
		Flows: []string{
			"hiring_rate",
			"attrition_rate",
			"promotion_rate",
			"training_completion",
			"program_approval_rate",
			"program_completion",
			"contract_acquisition",
			"contract_completion",
			"work_generation",
			"work_completion",
			"ethical_clearance_rate",
			"regulatory_submission_rate",
			"rd_investment",
			"knowledge_depreciation",
			"certification_progress",
			"trust_gain",
			"trust_loss",
			"revenue",
			"expenses",
		},
		Parameters: []string{
			"max_workforce",
			"hiring_target",
			"attrition_fraction",
			"training_time",
			"productivity",
			"productivity_per_engineer",
			"contract_load",
			"base_contract_rate",
			"completion_rate",
			"work_per_contract",
			"ethical_review_time",
			"certification_requirement",
			"revenue_per_program",
			"cost_per_engineer",
			"overhead_rate",
			"regulatory_capacity",
			"political_sensitivity",
		},
		Auxiliaries: []string{
			"total_workforce",
			"workforce_gap",
			"delivery_capacity",
			"delivery_pressure",
			"ethical_pressure",
			"regulatory_delay",
			"deployment_readiness_index",
			"program_risk_score",
			"profit_margin",
		},
		ForbiddenEdges: []Edge{
			// Capability must not convert to cash directly.
			{From: "certified_ai_modules", To: "cash_reserves"},
			{From: "rd_knowledge", To: "cash_reserves"},
		},
	}
}

// Euromotion is the closed-world schema for Euromotion Automotive, an EV
// component manufacturer. Hard rule: demand must not expand capacity
// directly; expansion goes through investment.
func Euromotion() *DomainSchema {
	return &DomainSchema{
		Name:        "euromotion",
		Description: "EV manufacturer - supply chain, capacity, inventory",
		Stocks: []string{
			"inventory",
			"battery_inventory",
			"semiconductor_inventory",
			"installed_capacity",
			"installed_production_capacity",
			"software_platform_stability",
			"market_share",
			"customer_base",
			"customer_satisfaction",
			"rd_knowledge",
			"brand_equity",
			"supplier_relationships",
		},
		Flows: []string{
			"production",
			"shipments",
			"vehicle_output_rate",
			"capacity_expansion",
			"capacity_depreciation",
			"battery_procurement",
			"battery_consumption",
			"semiconductor_procurement",
			"semiconductor_consumption",
			"market_growth",
			"market_loss",
			"customer_acquisition",
			"customer_churn",
			"satisfaction_improvement",
			"satisfaction_decline",
			"rd_investment",
			"innovation_rate",
			"brand_building",
			"brand_erosion",
		},
		Parameters: []string{
			"production_capacity",
			"utilization",
			"base_demand",
			"demand_growth",
			"capacity_investment",
			"capacity_depreciation_rate",
			"total_market_size",
			"base_growth_rate",
			"churn_rate",
			"capacity_investment_rate",
			"production_efficiency",
			"bom_battery_ratio",
			"bom_semiconductor_ratio",
			"supplier_lead_time",
			"target_inventory_days",
			"rd_budget",
			"marketing_budget",
			"innovation_factor",
		},
		Auxiliaries: []string{
			"demand",
			"delivery_ratio",
			"supply_gap",
			"competitive_position",
			"capacity_utilization",
			"inventory_days",
			"inventory_cover",
			"growth_momentum",
			"production_constraint",
		},
		ForbiddenEdges: []Edge{
			// Customer demand cannot create capacity without investment.
			{From: "customer_base", To: "installed_capacity"},
			{From: "customer_base", To: "installed_production_capacity"},
		},
	}
}
