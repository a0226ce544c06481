package sd

// ResultMetadata records the context a result was produced under: the model
// name, the effective parameter values (defaults with overrides applied),
// and the time configuration.
type ResultMetadata struct {
	ModelName  string             `json:"model_name"`
	Parameters map[string]float64 `json:"parameters"`
	TimeConfig TimeConfig         `json:"time_config"`
}

// SimulationResult is the immutable sampled output of one run. Every series
// has exactly len(Time) samples. JSON field names follow the external
// result contract.
type SimulationResult struct {
	Time        []float64            `json:"time"`
	Stocks      map[string][]float64 `json:"stocks"`
	Flows       map[string][]float64 `json:"flows"`
	Auxiliaries map[string][]float64 `json:"auxiliaries"`
	Metadata    ResultMetadata       `json:"metadata"`
}

// Steps returns the number of sampled steps.
func (r *SimulationResult) Steps() int { return len(r.Time) }

// Series looks up a sampled series by id across all three categories.
func (r *SimulationResult) Series(id string) ([]float64, bool) {
	if s, ok := r.Stocks[id]; ok {
		return s, true
	}
	if s, ok := r.Flows[id]; ok {
		return s, true
	}
	if s, ok := r.Auxiliaries[id]; ok {
		return s, true
	}
	return nil, false
}
