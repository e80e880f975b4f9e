package main

import (
	"fmt"
	"strings"

	"legalaid-intake-be/pkg/wizard"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List document types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range reg.DocumentTypes() {
				s, err := reg.Schema(d)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-14s %-28s %d steps, submit=%s\n", d, s.Label(), s.StepCount(), s.Submit())
			}
			return nil
		},
	}
}

func newStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps <document-type>",
		Short: "Show the steps and fields of a document type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := schemaFor(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			heading := color.New(color.FgCyan, color.Bold)
			for _, step := range schema.Steps() {
				title := fmt.Sprintf("%d. %s", step.Index, step.Label)
				if step.Gate != wizard.GateNone {
					title += fmt.Sprintf(" [gate: %s]", step.Gate)
				}
				if step.IsReview() {
					title += " [review]"
				}
				heading.Fprintln(out, title)
				for _, id := range step.FieldIDs {
					f, _ := schema.Field(id)
					marker := " "
					if f.Required {
						marker = "*"
					}
					line := fmt.Sprintf("   %s %-20s %-9s %s", marker, f.ID, f.Kind, f.Label)
					if len(f.Options) > 0 {
						line += " (" + strings.Join(f.Options, "|") + ")"
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
}

func newDraftKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft-key <owner> <document-type>",
		Short: "Print the key a user's draft is stored under",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := wizard.ParseDocumentType(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), wizard.DraftKey(args[0], d))
			return nil
		},
	}
}

func schemaFor(raw string) (*wizard.Schema, error) {
	d, err := wizard.ParseDocumentType(raw)
	if err != nil {
		return nil, err
	}
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	return reg.Schema(d)
}
