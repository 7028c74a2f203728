// Standalone mock status page and webhook for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/statuswatch watch -c example/statuswatch.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

func main() {
	addr := flag.String("addr", ":9999", "listen address")
	after := flag.Duration("after", 20*time.Second, "time before Sunstorm leaves maintenance")
	flag.Parse()

	fmt.Printf("Mock status server starting on %s\n", *addr)
	fmt.Printf("Sunstorm: Maintenance → Good after %s\n", *after)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	var changed atomic.Bool
	changeAt := time.Now().Add(*after)

	http.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		status := "Maintenance"
		if time.Now().After(changeAt) {
			status = "Good"
			if changed.CompareAndSwap(false, true) {
				slog.Info("status change", "server", "Sunstorm", "from", "Maintenance", "to", status)
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><body><span class="server-item-label" aria-label="Sunstorm %s"></span></body></html>`, status)
	})

	http.HandleFunc("POST /webhook", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		slog.Info("webhook received", "body", string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	})

	if err := http.ListenAndServe(*addr, nil); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
