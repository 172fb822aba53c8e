package common

import (
	"context"
	"strings"
	"sync"

	"mapmarkers/notify"

	dgo "github.com/bwmarrin/discordgo"
)

type responseKey struct{}

// Collects what handling a single interaction produced. Toasts raised by the marker core
// end up in the reply content, and a map click leaves the context menu it opened.
type Response struct {
	notify.Recorder

	mu   sync.Mutex
	menu *dgo.InteractionResponseData
}

// Attaches a fresh Response to ctx.
func WithResponse(ctx context.Context) (context.Context, *Response) {
	r := &Response{}
	return context.WithValue(ctx, responseKey{}, r), r
}

// The Response attached to ctx, or nil outside of an interaction.
func ResponseFrom(ctx context.Context) *Response {
	r, _ := ctx.Value(responseKey{}).(*Response)
	return r
}

func (r *Response) SetMenu(data *dgo.InteractionResponseData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.menu = data
}

func (r *Response) Menu() *dgo.InteractionResponseData {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.menu
}

// Every toast on its own line.
func (r *Response) Content() string {
	msgs := r.Messages()
	for i, msg := range msgs {
		msgs[i] = "› " + msg
	}

	return strings.Join(msgs, "\n")
}

// Routes toasts into the Response of the interaction being handled.
// Toasts raised outside of one (startup, background refreshes) go to Fallback.
type InteractionNotifier struct {
	Fallback notify.Notifier
}

func (n InteractionNotifier) Toast(ctx context.Context, msg string) {
	if r := ResponseFrom(ctx); r != nil {
		r.Toast(ctx, msg)
		return
	}

	if n.Fallback != nil {
		n.Fallback.Toast(ctx, msg)
	}
}
