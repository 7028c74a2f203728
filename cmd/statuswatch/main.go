// Package main is the entry point for the statuswatch CLI.
//
// statuswatch can be used as a library (SDK) or run as this binary, which
// watches one server on a status page and sends a single WeCom alert when its
// status changes.
//
// Usage:
//
//	statuswatch watch                    # Watch with built-in defaults
//	statuswatch watch -c statuswatch.yaml
//	statuswatch validate -c statuswatch.yaml
//	statuswatch version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "statuswatch",
	Short: "Alert once when a game server's status changes",
	Long: `statuswatch polls a server status page, reads one server's status label,
and posts a WeCom group-robot alert the first time that label changes.
It then exits.

Quick start:
  1. export WECOM_WEBHOOK_URL='https://qyapi.weixin.qq.com/cgi-bin/webhook/send?key=...'
  2. Run: statuswatch watch

Example config (every field is optional):
  poll_interval: 6s
  target:
    name: Sunstorm
    extractor:
      class_contains: server-item-label
      label_contains: Sunstorm
  webhook:
    url: ${WECOM_WEBHOOK_URL}`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this statuswatch binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "statuswatch %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
