package recognition

import (
	"context"
	"time"
)

type StoreAPI interface {
	RecipientActive(ctx context.Context, profileID string) (bool, error)
	QuotaUsed(ctx context.Context, giverID, kind string, month time.Time) (int, error)
	CreateAwarded(ctx context.Context, kind, giverID, recipientID, reason, message string, month time.Time) (Event, error)
	ListGiven(ctx context.Context, giverID string, from, to time.Time) ([]Event, error)
	ListReceived(ctx context.Context, recipientID string, from, to time.Time) ([]Event, error)
	Leaderboard(ctx context.Context, kind string, from, to time.Time, limit int) ([]LeaderboardRow, error)
}
