package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"legalaid-intake-be/pkg/wizard"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errInvalidValues = errors.New("values are not valid")

func newValidateCmd() *cobra.Command {
	var step int
	cmd := &cobra.Command{
		Use:   "validate <document-type> <values-file>",
		Short: "Check a YAML or JSON values file against a document type",
		Long: `Checks field ids and select options, then required fields: of one step
with --step, or of the whole form (reporting the first incomplete step).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := schemaFor(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(args[1])
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), schema, values, step)
		},
	}
	cmd.Flags().IntVar(&step, "step", -1, "check only this step index")
	return cmd
}

// readValues accepts YAML or JSON; JSON objects are valid YAML.
func readValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func runValidate(out io.Writer, schema *wizard.Schema, values map[string]string, step int) error {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	var problems []string
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		f, known := schema.Field(id)
		switch {
		case !known:
			problems = append(problems, fmt.Sprintf("unknown field %q", id))
		case !f.AllowsValue(values[id]):
			problems = append(problems, fmt.Sprintf("%s: %q is not one of %v", id, values[id], f.Options))
		}
	}

	var missing []string
	failedStep := -1
	if step >= 0 {
		def, err := schema.Step(step)
		if err != nil {
			return err
		}
		if missing = wizard.MissingFields(def, schema, values); len(missing) > 0 {
			failedStep = step
		}
	} else {
		failedStep, missing = wizard.FirstInvalidStep(schema, values)
	}
	if failedStep >= 0 {
		def, _ := schema.Step(failedStep)
		problems = append(problems, fmt.Sprintf("step %d (%s) is missing %v", failedStep, def.Label, missing))
	}

	if len(problems) == 0 {
		ok.Fprintf(out, "OK: %s values are complete\n", schema.DocumentType())
		return nil
	}
	for _, p := range problems {
		bad.Fprintf(out, "FAIL: %s\n", p)
	}
	return errInvalidValues
}
