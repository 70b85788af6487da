package session

import (
	"context"

	"gorodskoybaton/bot/internal/domain"
)

// Store keeps per-chat sessions. Get never fails on a missing chat: it
// returns a fresh idle session, created lazily on first interaction.
type Store interface {
	Get(ctx context.Context, chatID int64) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
}
