package statuswatch

import (
	"context"
	"fmt"
)

// alertTimeLayout is the timestamp format used in alert messages.
const alertTimeLayout = "2006-01-02 15:04:05"

// TestAlertMessage is sent by [Watcher.SendTestAlert].
const TestAlertMessage = "This is a test message from statuswatch to verify that server status alerts are delivered."

// Notifier delivers an alert message to a chat channel.
//
// Notify is called at most once per detected transition and is never
// retried. It returns nil only when the channel confirmed delivery.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NotifierFunc adapts an ordinary function to the [Notifier] interface.
type NotifierFunc func(ctx context.Context, message string) error

// Notify calls f(ctx, message).
func (f NotifierFunc) Notify(ctx context.Context, message string) error {
	return f(ctx, message)
}

// FormatAlert builds the alert message for a transition on the named target.
//
// The message names the time of the check, the target, and the change as
// "<from> → <to>".
func FormatAlert(targetName string, t Transition) string {
	return fmt.Sprintf("[Server status change]\nChecked at: %s\nServer: %s\nStatus: %s → %s",
		t.At.Format(alertTimeLayout), targetName, t.From, t.To)
}
