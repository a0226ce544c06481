package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// domainsCmd lists the registered domain schemas
var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List registered domain schemas",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		registry := loadRegistry()
		for _, name := range registry.Names() {
			ds, err := registry.Lookup(name)
			if err != nil {
				logrus.Fatalf("Registry lookup failed: %v", err)
			}
			fmt.Printf("%s: %s\n", ds.Name, ds.Description)
			fmt.Printf("  stocks=%d flows=%d parameters=%d auxiliaries=%d forbidden_edges=%d\n",
				len(ds.Stocks), len(ds.Flows), len(ds.Parameters), len(ds.Auxiliaries), len(ds.ForbiddenEdges))
		}
	},
}

func init() {
	rootCmd.AddCommand(domainsCmd)
}
