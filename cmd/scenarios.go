package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stockflow/stockflow/sd"
)

var (
	scenariosSpecPath string // Path to a scenario sweep YAML spec
	scenariosOutPath  string // Output file for the results JSON
	scenariosWorkers  int    // Parallel worker count (overrides the spec)
)

// scenarioOutput is the JSON shape for one scenario in the sweep output.
type scenarioOutput struct {
	Name   string               `json:"name"`
	Error  string               `json:"error,omitempty"`
	Result *sd.SimulationResult `json:"result,omitempty"`
}

// scenariosCmd runs a parameter sweep from a YAML spec
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Run a scenario sweep from a YAML spec",
	Long:  "Validate and compile the model once, then simulate every scenario independently on parallel workers. One failing scenario never aborts the others.",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec, err := sd.LoadScenarioSpec(scenariosSpecPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario spec: %v", err)
		}

		model, domain := resolveSpecModel(spec)
		registry := loadRegistry()
		ds, err := registry.Lookup(domain)
		if err != nil {
			logrus.Fatalf("Unknown domain: %v", err)
		}

		workers := spec.Workers
		if scenariosWorkers > 0 {
			workers = scenariosWorkers
		}

		results, err := sd.RunScenarios(context.Background(), model, ds, spec.Scenarios, workers)
		if err != nil {
			logrus.Fatalf("Scenario sweep failed: %v", err)
		}

		out := make([]scenarioOutput, len(results))
		failed := 0
		for i, r := range results {
			out[i] = scenarioOutput{Name: r.Name, Result: r.Result}
			if r.Err != nil {
				out[i].Error = r.Err.Error()
				failed++
			}
		}
		if failed > 0 {
			logrus.Warnf("%d of %d scenario(s) failed", failed, len(results))
		}
		writeJSON(out, scenariosOutPath)
	},
}

// resolveSpecModel interprets the spec's model field as a built-in example
// id first, then as a file path.
func resolveSpecModel(spec *sd.ScenarioSpec) (*sd.Model, string) {
	if model, domain, err := sd.ExampleModel(spec.Model); err == nil {
		if spec.Domain != "" {
			domain = spec.Domain
		}
		return model, domain
	}
	if spec.Domain == "" {
		logrus.Fatalf("Scenario spec needs a domain for model file %q", spec.Model)
	}
	model, err := sd.LoadModel(spec.Model)
	if err != nil {
		logrus.Fatalf("Failed to load model from spec: %v", err)
	}
	return model, spec.Domain
}

func init() {
	scenariosCmd.Flags().StringVar(&scenariosSpecPath, "spec", "", "Path to a scenario sweep YAML spec")
	scenariosCmd.Flags().StringVar(&scenariosOutPath, "out", "", "Write the results JSON to this file instead of stdout")
	scenariosCmd.Flags().IntVar(&scenariosWorkers, "workers", 0, "Parallel worker count (0 = spec value or GOMAXPROCS)")
	_ = scenariosCmd.MarkFlagRequired("spec")

	rootCmd.AddCommand(scenariosCmd)
}
