package app

import (
	"context"

	"mathsticks/internal/game"
	"mathsticks/internal/state"
)

// Store is what the app needs from persistence.
type Store interface {
	game.KV
	game.Recorder
	Delete(ctx context.Context, keys ...string) error
	GetSummary(ctx context.Context) (state.Summary, error)
	Close() error
}

// Logger is satisfied by *telemetry.Logger.
type Logger interface {
	game.Logger
	Close() error
}
