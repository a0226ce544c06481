package cmd

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stockflow/stockflow/sd"
)

var (
	validateModelPath string // Path to a model JSON file
	validateExampleID string // Built-in example model id
	validateDomain    string // Domain schema name
)

// validateCmd runs structural validation and compilation without simulating
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a model against a domain schema",
	Long:  "Check every identifier against the domain whitelist, every flow against the forbidden-edge set, and compile every equation. Prints each violation; exits non-zero if the model is rejected.",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		model, domain := resolveModel(validateModelPath, validateExampleID, validateDomain)
		registry := loadRegistry()
		ds, err := registry.Lookup(domain)
		if err != nil {
			logrus.Fatalf("Unknown domain: %v", err)
		}

		if err := sd.Validate(model, ds); err != nil {
			var verr *sd.ValidationError
			if errors.As(err, &verr) {
				for _, v := range verr.Violations {
					fmt.Printf("violation: %s\n", v)
				}
			}
			logrus.Fatalf("Model %q rejected by domain %q", model.Name, domain)
		}
		if _, err := sd.Compile(model); err != nil {
			logrus.Fatalf("Model %q failed to compile: %v", model.Name, err)
		}
		fmt.Printf("model %q is valid for domain %q\n", model.Name, domain)
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateModelPath, "model", "", "Path to a model JSON file")
	validateCmd.Flags().StringVar(&validateExampleID, "example", "", "Built-in example model id")
	validateCmd.Flags().StringVar(&validateDomain, "domain", "", "Domain schema to validate against")

	rootCmd.AddCommand(validateCmd)
}
