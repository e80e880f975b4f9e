package main

import (
	"context"
	"fmt"
	"time"

	"legalaid-intake-be/internal/config"
	"legalaid-intake-be/pkg/legalapi"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the templates the legal backend offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if baseURL == "" {
				baseURL = cfg.LegalAPI.BaseURL
			}
			client := legalapi.NewClient(legalapi.Config{
				BaseURL: baseURL,
				Token:   cfg.LegalAPI.Token,
				Timeout: cfg.LegalAPI.Timeout,
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			templates, err := client.FetchTemplates(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range templates {
				state := color.GreenString("available")
				if !t.Available {
					state = color.YellowString("unavailable")
				}
				fmt.Fprintf(out, "%-12s %-14s %-30s %s\n", t.ID, t.DocumentType, t.Name, state)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "legal backend base URL (default: LEGAL_API_BASE_URL)")
	return cmd
}
