package main

import (
	"fmt"
	"net/url"

	"github.com/jpalmerr/statuswatch/config"
	"github.com/spf13/cobra"
)

// validateCmd validates configuration without polling anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate statuswatch configuration without starting to watch.

This command parses the YAML (if given), expands environment variables,
validates all fields and compiles the extractor. It's useful for CI/CD
pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  statuswatch validate
  statuswatch validate -c statuswatch.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// catches selectors and patterns that only fail to compile
	if _, err := config.BuildTarget(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Target:        %s\n", cfg.Target.Name)
	fmt.Fprintf(out, "  URL:           %s\n", cfg.Target.URL)
	fmt.Fprintf(out, "  Extractor:     %s\n", cfg.Target.Extractor.Type)
	fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Fprintf(out, "  Webhook host:  %s\n", webhookHost(cfg.Webhook.URL))
	if cfg.Log.File != "" {
		fmt.Fprintf(out, "  Log file:      %s\n", cfg.Log.File)
	} else {
		fmt.Fprintf(out, "  Log file:      (console only)\n")
	}

	return nil
}

// webhookHost returns only the host of the webhook URL; the query carries the
// robot key.
func webhookHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid)"
	}
	return u.Host
}
