package recognition

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrSelfRecognition   = errors.New("cannot recognize yourself")
	ErrRecipientNotFound = errors.New("recipient not found or inactive")
	ErrMissingFields     = errors.New("reason and message are required")
	ErrQuotaExceeded     = errors.New("monthly recognition quota exceeded")
)

type Service struct {
	Store StoreAPI

	// Now is replaceable in tests; quota windows are computed in server time.
	Now func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) Quota(ctx context.Context, userID, kind string) (Quota, error) {
	now := s.Now()
	month, _ := MonthWindow(now)
	used, err := s.Store.QuotaUsed(ctx, userID, kind, month)
	if err != nil {
		return Quota{}, err
	}
	return Quota{
		Kind:      kind,
		Used:      used,
		Available: Remaining(used),
		ResetDate: NextReset(now),
	}, nil
}

type AwardResult struct {
	Event     Event `json:"event"`
	Remaining int   `json:"remaining"`
}

func (s *Service) Award(ctx context.Context, giverID, recipientID, kind, reason, message string) (AwardResult, error) {
	if giverID == recipientID {
		return AwardResult{}, ErrSelfRecognition
	}
	if strings.TrimSpace(reason) == "" || strings.TrimSpace(message) == "" {
		return AwardResult{}, ErrMissingFields
	}

	active, err := s.Store.RecipientActive(ctx, recipientID)
	if err != nil {
		return AwardResult{}, err
	}
	if !active {
		return AwardResult{}, ErrRecipientNotFound
	}

	month, _ := MonthWindow(s.Now())
	event, err := s.Store.CreateAwarded(ctx, kind, giverID, recipientID, reason, message, month)
	if err != nil {
		return AwardResult{}, err
	}

	used, err := s.Store.QuotaUsed(ctx, giverID, kind, month)
	if err != nil {
		return AwardResult{}, err
	}
	return AwardResult{Event: event, Remaining: Remaining(used)}, nil
}

func (s *Service) Given(ctx context.Context, giverID string) ([]Event, error) {
	from, to := MonthWindow(s.Now())
	return s.Store.ListGiven(ctx, giverID, from, to)
}

func (s *Service) Received(ctx context.Context, recipientID string) ([]Event, error) {
	from, to := MonthWindow(s.Now())
	return s.Store.ListReceived(ctx, recipientID, from, to)
}

func (s *Service) Leaderboard(ctx context.Context, kind string, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	from, to := MonthWindow(s.Now())
	return s.Store.Leaderboard(ctx, kind, from, to, limit)
}
