// Package statuswatch watches a public server-status page and sends a chat
// alert the first time a server's status label changes.
//
// statuswatch is a small SDK with a CLI on top. A [Target] names the page and
// the [StatusExtractor] that reads the label out of it; a [Watcher] polls the
// target on a fixed interval, compares each label against the previous one
// with a [Detector], and hands a formatted message to a [Notifier] when they
// differ. The watcher then stops: it is a one-shot detector, not a
// continuous monitor.
//
// # Quick Start
//
//	target, _ := statuswatch.NewTarget("Sunstorm",
//	    "https://www.playthroneandliberty.com/en-us/support/server-status",
//	    statuswatch.AriaLabelExtractor("server-item-label", "Sunstorm"),
//	)
//	w, _ := statuswatch.New(
//	    statuswatch.WithTarget(target),
//	    statuswatch.WithNotifier(wecom.New(webhookURL)),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	result, err := w.Run(ctx) // blocks until the status changes or ctx is cancelled
//
// # Status Extractors
//
//   - [AriaLabelExtractor]: class and aria-label substring match, reads aria-label
//   - [SelectorExtractor]: any CSS selector, reads an attribute or the text
//   - [TextExtractor]: any CSS selector, reads the text
//   - [RegexExtractor]: first capture group of a regular expression
//   - [JSONFieldExtractor]: a dot-notation field of a JSON body
//   - [FirstMatch]: tries extractors in order until one finds an element
//
// # Detection
//
// The first successful poll seeds the detector and never alerts. Failed
// fetches and missing elements are logged and skipped; they neither seed nor
// reset the detector. Labels are compared by exact string equality.
//
// # Architecture
//
//   - internal/fetcher: page GET with per-request timeout and size limit
//   - wecom: WeCom group-robot webhook client (implements [Notifier])
//   - internal/logging: console plus size-rotated file logging
//   - config: optional YAML configuration for the CLI
package statuswatch
