// Package notify delivers benchmark completion messages to configured
// channels. Delivery is best-effort: a failed notification is logged and
// never fails the benchmark that triggered it.
package notify

import "context"

// Notifier delivers one message to a single destination.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, message string) error
}
