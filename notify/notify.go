// Package notify carries short human-readable messages ("toasts") from the marker core to whatever
// surface the user is looking at.
package notify

import (
	"context"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"
)

type Notifier interface {
	Toast(ctx context.Context, msg string)
}

// Adapts a plain func into a Notifier.
type Func func(ctx context.Context, msg string)

func (f Func) Toast(ctx context.Context, msg string) {
	f(ctx, msg)
}

// Drops every message.
var Discard Notifier = Func(func(context.Context, string) {})

// Writes every toast to the logger at info level.
type LogNotifier struct {
	Logger log.FieldLogger // Defaults to the standard logrus logger.
}

func (n LogNotifier) Toast(_ context.Context, msg string) {
	logger := n.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	logger.WithField("toast", true).Info(msg)
}

// Keeps every toast it receives. Safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Toast(_ context.Context, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, msg)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.messages)
}

// The most recent message, or "" if nothing was received yet.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.messages) == 0 {
		return ""
	}

	return r.messages[len(r.messages)-1]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = nil
}
