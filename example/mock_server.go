package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const statusPageTemplate = `<!DOCTYPE html>
<html><body>
<div class="server-list">
  <div class="server-item"><span class="server-item-label" aria-label="Lunaris %s"></span></div>
  <div class="server-item"><span class="server-item-label" aria-label="Sunstorm %s"></span></div>
</div>
</body></html>`

// mockPage holds the server statuses shown on the mock status page.
type mockPage struct {
	mu       sync.Mutex
	sunstorm string
	changeAt time.Time
}

// StartMockStatusServer runs a mock status page and a mock webhook on addr.
//
// GET /status renders Sunstorm as "Maintenance" for 15-30 seconds, then as
// "Good". POST /webhook logs the delivered message and answers like a WeCom
// group robot. Call this in a goroutine before creating the watcher.
func StartMockStatusServer(addr string) {
	page := &mockPage{
		sunstorm: "Maintenance",
		changeAt: time.Now().Add(time.Duration(15+rand.Intn(16)) * time.Second),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		page.mu.Lock()
		if page.sunstorm == "Maintenance" && time.Now().After(page.changeAt) {
			page.sunstorm = "Good"
			slog.Info("mock status change", "server", "Sunstorm", "from", "Maintenance", "to", "Good")
		}
		status := page.sunstorm
		page.mu.Unlock()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, statusPageTemplate, "Good", status)
	})

	mux.HandleFunc("POST /webhook", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text struct {
				Content string `json:"content"`
			} `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"errcode":40008,"errmsg":"invalid message type"}`))
			return
		}
		slog.Info("mock webhook received", "content", payload.Text.Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
