package sd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/stockflow/stockflow/sd/schema"
)

// Scenario names one parameter-override set for a sweep.
type Scenario struct {
	Name      string             `yaml:"name" json:"name"`
	Overrides map[string]float64 `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// ScenarioResult is one scenario's outcome. Exactly one of Result and Err is
// set; a failed scenario never suppresses its siblings.
type ScenarioResult struct {
	Name   string
	Result *SimulationResult
	Err    error
}

// ScenarioSpec is the YAML document consumed by the scenarios CLI command.
// Model is either a path to a model JSON file or a built-in example id.
type ScenarioSpec struct {
	Model     string     `yaml:"model"`
	Domain    string     `yaml:"domain"`
	Workers   int        `yaml:"workers,omitempty"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarioSpec reads and parses a scenario sweep YAML file.
func LoadScenarioSpec(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario spec: %w", err)
	}
	var spec ScenarioSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing scenario spec %s: %w", path, err)
	}
	if len(spec.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario spec %s declares no scenarios", path)
	}
	return &spec, nil
}

// RunScenarios validates and compiles the model once, then simulates every
// scenario independently on a bounded worker pool. The CompiledModel is
// shared read-only; each run owns a disjoint state vector, so workers need
// no locking and the per-scenario results are identical to sequential runs.
//
// A validation or compilation failure fails the whole call (the model
// structure is common to all scenarios). Per-scenario failures land in the
// corresponding ScenarioResult.
func RunScenarios(ctx context.Context, m *Model, ds *schema.DomainSchema, scenarios []Scenario, workers int) ([]ScenarioResult, error) {
	if err := Validate(m, ds); err != nil {
		return nil, err
	}
	cm, err := Compile(m)
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(scenarios) {
		workers = len(scenarios)
	}

	results := make([]ScenarioResult, len(scenarios))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sc := scenarios[i]
				logrus.Debugf("running scenario %q", sc.Name)
				res, err := Simulate(ctx, cm, sc.Overrides)
				results[i] = ScenarioResult{Name: sc.Name, Result: res, Err: err}
			}
		}()
	}
	for i := range scenarios {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

// SensitivityScenarios builds an evenly spaced single-parameter sweep from
// min to max inclusive, one scenario per value.
func SensitivityScenarios(parameter string, min, max float64, steps int) []Scenario {
	if steps < 1 {
		steps = 1
	}
	stepSize := 0.0
	if steps > 1 {
		stepSize = (max - min) / float64(steps-1)
	}
	scenarios := make([]Scenario, steps)
	for i := 0; i < steps; i++ {
		v := min + float64(i)*stepSize
		scenarios[i] = Scenario{
			Name:      fmt.Sprintf("%s=%g", parameter, v),
			Overrides: map[string]float64{parameter: v},
		}
	}
	return scenarios
}
