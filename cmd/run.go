package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stockflow/stockflow/sd"
)

var (
	// CLI flags for the run command
	runModelPath string   // Path to a model JSON file
	runExampleID string   // Built-in example model id
	runDomain    string   // Domain schema name
	runOverrides []string // Parameter overrides as id=value
	runTimeout   int      // Wall-clock budget in seconds (0 = none)
	runOutPath   string   // Output file for the result JSON ("" = stdout)
)

// runCmd validates, compiles, and simulates a single model
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a deterministic simulation",
	Long:  "Validate a model against its domain schema, compile its equations, and integrate it over the configured time window. The result JSON is written to stdout (or --out).",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		model, domain := resolveModel(runModelPath, runExampleID, runDomain)
		registry := loadRegistry()
		ds, err := registry.Lookup(domain)
		if err != nil {
			logrus.Fatalf("Unknown domain: %v", err)
		}

		overrides, err := parseOverrides(runOverrides)
		if err != nil {
			logrus.Fatalf("Invalid override: %v", err)
		}

		ctx := context.Background()
		if runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(runTimeout)*time.Second)
			defer cancel()
		}

		logrus.Infof("Simulating %q in domain %q over [%v, %v] dt=%v",
			model.Name, domain, model.Time.Start, model.Time.End, model.Time.Dt)

		result, err := sd.Run(ctx, model, ds, overrides)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		for _, s := range sd.Summarize(result) {
			logrus.Infof("%-10s %-28s min=%-12g max=%-12g mean=%-12g final=%g",
				s.Category, s.ID, s.Min, s.Max, s.Mean, s.Final)
		}
		writeJSON(result, runOutPath)
	},
}

// resolveModel loads the model from a file or resolves a built-in example.
// The example's own domain applies unless --domain overrides it.
func resolveModel(path, exampleID, domain string) (*sd.Model, string) {
	switch {
	case path != "" && exampleID != "":
		logrus.Fatalf("Provide either --model or --example, not both")
	case path != "":
		if domain == "" {
			logrus.Fatalf("--domain is required with --model")
		}
		model, err := sd.LoadModel(path)
		if err != nil {
			logrus.Fatalf("Failed to load model: %v", err)
		}
		return model, domain
	case exampleID != "":
		model, exampleDomain, err := sd.ExampleModel(exampleID)
		if err != nil {
			logrus.Fatalf("Failed to resolve example: %v", err)
		}
		if domain != "" {
			exampleDomain = domain
		}
		return model, exampleDomain
	}
	logrus.Fatalf("A model is required: --model FILE or --example ID (available examples: %s)",
		strings.Join(sd.ExampleIDs(), ", "))
	return nil, ""
}

// parseOverrides converts repeated id=value flags into an override map.
func parseOverrides(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		id, raw, found := strings.Cut(pair, "=")
		if !found || id == "" {
			return nil, fmt.Errorf("expected id=value, got %q", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("value for %q is not a number: %q", id, raw)
		}
		overrides[id] = v
	}
	return overrides, nil
}

// writeJSON marshals v with indentation to path, or stdout when path is "".
func writeJSON(v any, path string) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.Fatalf("Failed to encode result: %v", err)
	}
	data = append(data, '\n')
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			logrus.Fatalf("Failed to write result: %v", err)
		}
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logrus.Fatalf("Failed to write %s: %v", path, err)
	}
	logrus.Infof("Result written to %s", path)
}

// init sets up run command flags
func init() {
	runCmd.Flags().StringVar(&runModelPath, "model", "", "Path to a model JSON file")
	runCmd.Flags().StringVar(&runExampleID, "example", "", "Built-in example model id")
	runCmd.Flags().StringVar(&runDomain, "domain", "", "Domain schema to validate against")
	runCmd.Flags().StringArrayVar(&runOverrides, "override", nil, "Parameter override as id=value (can be repeated)")
	runCmd.Flags().IntVar(&runTimeout, "timeout", 0, "Wall-clock budget in seconds (0 = unbounded)")
	runCmd.Flags().StringVar(&runOutPath, "out", "", "Write the result JSON to this file instead of stdout")

	rootCmd.AddCommand(runCmd)
}
