package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/statuswatch"
	"github.com/jpalmerr/statuswatch/wecom"
)

func main() {
	// start mock page and webhook (see mock_server.go)
	go StartMockStatusServer(":9999")
	time.Sleep(100 * time.Millisecond)

	target, err := statuswatch.NewTarget("Sunstorm", "http://localhost:9999/status",
		statuswatch.AriaLabelExtractor("server-item-label", "Sunstorm"),
		statuswatch.WithTimeout(5*time.Second),
	)
	if err != nil {
		slog.Error("failed to create target", "error", err)
		os.Exit(1)
	}

	w, err := statuswatch.New(
		statuswatch.WithTarget(target),
		statuswatch.WithNotifier(wecom.New("http://localhost:9999/webhook")),
		statuswatch.WithInterval(2*time.Second),
		statuswatch.WithObservationCallback(func(obs statuswatch.Observation) {
			if obs.OK() {
				fmt.Printf("  %s  %-12s %s\n", obs.CheckedAt.Format("15:04:05"), obs.Status, obs.Latency.Round(time.Millisecond))
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  statuswatch demo")
	fmt.Println()
	fmt.Println("  Watching Sunstorm on http://localhost:9999/status")
	fmt.Println("  The mock flips Maintenance → Good within 30 seconds")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.SendTestAlert(ctx); err != nil {
		slog.Error("test alert failed", "error", err)
		os.Exit(1)
	}

	result, err := w.Run(ctx)
	if err != nil {
		slog.Error("watch failed", "error", err)
		os.Exit(1)
	}
	if result.Transition != nil {
		fmt.Printf("\n  Alert sent after %d polls: %s → %s\n", result.Polls, result.Transition.From, result.Transition.To)
	}
}
