package notifications

import (
	"context"
	"log/slog"
)

// Notifier is the fire-and-forget emitter used by other domains. A failed
// insert is logged and swallowed: a missing notification must never fail the
// business operation that triggered it.
type Notifier struct {
	Store *Store
}

func NewNotifier(store *Store) *Notifier {
	return &Notifier{Store: store}
}

func (n *Notifier) Notify(ctx context.Context, profileID, ntype, title, body string) {
	if n == nil || n.Store == nil || profileID == "" {
		return
	}
	if err := n.Store.Create(ctx, profileID, ntype, title, body); err != nil {
		slog.Warn("failed to create notification", "type", ntype, "profileId", profileID, "error", err)
	}
}
