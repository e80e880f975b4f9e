// Command intake is the operator tool for the intake wizard tables: list the
// document types and their steps, check a values file against them, and
// compute draft keys.
package main

import (
	"fmt"
	"os"

	"legalaid-intake-be/pkg/wizard"

	"github.com/spf13/cobra"
)

var schemasDir string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "intake",
		Short:         "Inspect and check legal-aid intake wizard tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&schemasDir, "schemas", "", "directory of schema *.yaml files (default: bundled tables)")

	root.AddCommand(
		newTypesCmd(),
		newStepsCmd(),
		newValidateCmd(),
		newDraftKeyCmd(),
		newTemplatesCmd(),
	)
	return root
}

// loadRegistry reads --schemas when given, the bundled tables otherwise.
func loadRegistry() (*wizard.Registry, error) {
	if schemasDir == "" {
		return wizard.MustLoadRegistry(), nil
	}
	return wizard.LoadRegistry(os.DirFS(schemasDir))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
