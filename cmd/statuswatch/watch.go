package main

import (
	"bufio"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jpalmerr/statuswatch"
	"github.com/jpalmerr/statuswatch/config"
	"github.com/jpalmerr/statuswatch/internal/logging"
	"github.com/jpalmerr/statuswatch/wecom"
	"github.com/spf13/cobra"
)

const testAlertPrompt = "Send a test alert before monitoring? (y/n): "

// watchCmd polls the status page until the watched server changes status.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the server status and alert on the first change",
	Long: `Watch the configured server on its status page.

The command will:
  - Load the configuration (built-in defaults if no file is given)
  - Offer to send a test alert to the webhook
  - Poll the page until the server's status label changes
  - Send one alert describing the change, then exit

Press Ctrl+C to stop watching early.

Example:
  statuswatch watch
  statuswatch watch -c statuswatch.yaml --no-prompt`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
	watchCmd.Flags().Bool("test-alert", false, "send a test alert without prompting")
	watchCmd.Flags().Bool("no-prompt", false, "skip the test alert prompt")
}

func runWatch(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer := logging.New(logging.Options{
		Level:      logging.ParseLevel(cfg.Log.Level),
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    cmd.ErrOrStderr(),
	})
	defer closer.Close()

	target, err := config.BuildTarget(cfg)
	if err != nil {
		return fmt.Errorf("failed to build target: %w", err)
	}

	notifierOpts := []wecom.Option{wecom.WithTimeout(cfg.Webhook.Timeout.Duration())}
	if len(cfg.Webhook.Mentions) > 0 {
		notifierOpts = append(notifierOpts, wecom.WithMentions(cfg.Webhook.Mentions...))
	}
	notifier := wecom.New(cfg.Webhook.URL, notifierOpts...)

	w, err := statuswatch.New(
		statuswatch.WithTarget(target),
		statuswatch.WithNotifier(notifier),
		statuswatch.WithInterval(cfg.PollInterval.Duration()),
		statuswatch.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if wantTestAlert(cmd) {
		// a failed test alert is logged by the watcher; monitoring still starts
		_ = w.SendTestAlert(ctx)
	}

	result, err := w.Run(ctx)
	if err != nil {
		logger.Error("monitoring stopped on error", "error", err, "polls", result.Polls)
		return fmt.Errorf("watch failed: %w", err)
	}

	switch {
	case result.Transition == nil:
		logger.Info("monitoring stopped manually", "polls", result.Polls)
	case result.Alerted:
		logger.Info("status change alerted, exiting",
			"from", result.Transition.From,
			"to", result.Transition.To,
			"polls", result.Polls,
		)
	default:
		logger.Warn("status change detected but alert was not delivered, exiting",
			"from", result.Transition.From,
			"to", result.Transition.To,
			"error", result.AlertErr,
		)
	}
	return nil
}

// wantTestAlert resolves the --test-alert and --no-prompt flags, falling
// back to asking on the command's input.
func wantTestAlert(cmd *cobra.Command) bool {
	if yes, _ := cmd.Flags().GetBool("test-alert"); yes {
		return true
	}
	if skip, _ := cmd.Flags().GetBool("no-prompt"); skip {
		return false
	}
	return confirm(cmd.InOrStdin(), cmd.OutOrStdout(), testAlertPrompt)
}

// confirm writes prompt and reports whether the first line read is "y",
// ignoring case and surrounding space. EOF counts as no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

// ensure the wecom client satisfies the SDK notifier contract
var _ statuswatch.Notifier = (*wecom.Client)(nil)
