package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jpalmerr/statuswatch"
	"github.com/jpalmerr/statuswatch/wecom"
)

// executeCmd runs the root command with args, feeding input to stdin, and
// returns captured stdout and stderr.
func executeCmd(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)

	// flag values survive between Execute calls on the shared command tree
	t.Cleanup(func() {
		_ = watchCmd.Flags().Set("config", "")
		_ = watchCmd.Flags().Set("test-alert", "false")
		_ = watchCmd.Flags().Set("no-prompt", "false")
		_ = validateCmd.Flags().Set("config", "")
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statuswatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// flippingPage serves a status page whose Sunstorm label reads Maintenance
// on the first request and Online afterwards.
func flippingPage(t *testing.T) *httptest.Server {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := "Online"
		if hits.Add(1) == 1 {
			status = "Maintenance"
		}
		fmt.Fprintf(w, `<html><body><span class="server-item-label" aria-label="Sunstorm %s"></span></body></html>`, status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// webhook records every delivered message content.
func webhook(t *testing.T) (*httptest.Server, <-chan string) {
	t.Helper()
	messages := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p wecom.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err == nil {
			messages <- p.Text.Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, messages
}

func watchConfig(t *testing.T, pageURL, hookURL string) (string, string) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "server_monitor.log")
	path := writeConfig(t, fmt.Sprintf(`
poll_interval: 1s
target:
  name: Sunstorm
  url: %s
  timeout: 2s
webhook:
  url: %s
  timeout: 2s
log:
  file: %s
`, pageURL, hookURL, logFile))
	return path, logFile
}

func drain(ch <-chan string) []string {
	var out []string
	for {
		select {
		case m := <-ch:
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestRunWatch_AlertsOnceAndExits(t *testing.T) {
	page := flippingPage(t)
	hook, messages := webhook(t)
	configPath, logFile := watchConfig(t, page.URL, hook.URL)

	_, stderr, err := executeCmd(t, "", "watch", "-c", configPath, "--no-prompt")
	if err != nil {
		t.Fatalf("watch command error = %v\nstderr: %s", err, stderr)
	}

	got := drain(messages)
	if len(got) != 1 {
		t.Fatalf("delivered %d messages, want 1: %v", len(got), got)
	}
	if !strings.Contains(got[0], "Status: Sunstorm Maintenance → Sunstorm Online") {
		t.Errorf("alert = %q, want the Maintenance → Online transition", got[0])
	}
	if !strings.Contains(got[0], "Server: Sunstorm") {
		t.Errorf("alert = %q, want server name", got[0])
	}

	if !strings.Contains(stderr, "component=ServerMonitor") {
		t.Errorf("console log missing component attribute:\n%s", stderr)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "status changed") {
		t.Errorf("log file missing transition line:\n%s", data)
	}
}

func TestRunWatch_TestAlertPrompt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		args      []string
		wantTest  bool
		wantTotal int
	}{
		{"answer y", "y\n", nil, true, 2},
		{"answer Y", "Y\n", nil, true, 2},
		{"answer n", "n\n", nil, false, 1},
		{"no input", "", nil, false, 1},
		{"flag", "", []string{"--test-alert"}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := flippingPage(t)
			hook, messages := webhook(t)
			configPath, _ := watchConfig(t, page.URL, hook.URL)

			args := append([]string{"watch", "-c", configPath}, tt.args...)
			stdout, stderr, err := executeCmd(t, tt.input, args...)
			if err != nil {
				t.Fatalf("watch command error = %v\nstderr: %s", err, stderr)
			}

			got := drain(messages)
			if len(got) != tt.wantTotal {
				t.Fatalf("delivered %d messages, want %d: %v", len(got), tt.wantTotal, got)
			}
			if tt.wantTest && got[0] != statuswatch.TestAlertMessage {
				t.Errorf("first message = %q, want test alert", got[0])
			}

			prompted := strings.Contains(stdout, testAlertPrompt)
			if wantPrompt := len(tt.args) == 0; prompted != wantPrompt {
				t.Errorf("prompted = %v, want %v", prompted, wantPrompt)
			}
		})
	}
}

func TestRunWatch_InvalidConfig(t *testing.T) {
	configPath := writeConfig(t, "poll_interval: 10ms\nwebhook:\n  url: https://hooks.example.com\n")

	_, _, err := executeCmd(t, "", "watch", "-c", configPath, "--no-prompt")
	if err == nil {
		t.Fatal("watch command expected error for invalid config, got nil")
	}
	if !strings.Contains(err.Error(), "failed to load config") {
		t.Errorf("error = %v, want 'failed to load config'", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"  y  \n", true},
		{"y", true},
		{"yes\n", false},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := confirm(strings.NewReader(tt.input), &out, testAlertPrompt)
		if got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if out.String() != testAlertPrompt {
			t.Errorf("prompt = %q, want %q", out.String(), testAlertPrompt)
		}
	}
}

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
poll_interval: 10s
target:
  name: Lunaris
  url: https://status.example.com
  extractor: text:h1.status
webhook:
  url: https://hooks.example.com/send?key=secret
log:
  file: ""
`)

	output, _, err := executeCmd(t, "", "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Target:        Lunaris",
		"Extractor:     text",
		"Poll interval: 10s",
		"Webhook host:  hooks.example.com",
		"(console only)",
	}
	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
	if strings.Contains(output, "secret") {
		t.Errorf("output leaks webhook key:\n%s", output)
	}
}

func TestRunValidate_Defaults(t *testing.T) {
	t.Setenv("WECOM_WEBHOOK_URL", "https://qyapi.weixin.qq.com/cgi-bin/webhook/send?key=k")

	output, _, err := executeCmd(t, "", "validate")
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	for _, phrase := range []string{"Target:        Sunstorm", "Extractor:     aria", "Poll interval: 6s"} {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty name", "target:\n  name: \"\"\nwebhook:\n  url: https://h.example.com\n", "name is required"},
		{"bad selector", "target:\n  extractor:\n    selector: \"span[\"\n    attr: title\nwebhook:\n  url: https://h.example.com\n", "invalid selector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, tt.content)
			_, _, err := executeCmd(t, "", "validate", "-c", configPath)
			if err == nil {
				t.Fatal("validate command expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, _, err := executeCmd(t, "", "validate", "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error = %v, want 'failed to read'", err)
	}
}

func TestVersionCmd(t *testing.T) {
	output, _, err := executeCmd(t, "", "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.Contains(output, "statuswatch dev") {
		t.Errorf("output = %q, want version line", output)
	}
}
