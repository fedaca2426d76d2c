package interfaces

import (
	"context"

	"shirokane/domain/entities"
)

// UserProgressRepository defines the interface for leveling data access.
type UserProgressRepository interface {
	// GetOrCreate retrieves a user's progress, creating a zero row on first access.
	GetOrCreate(ctx context.Context, discordID int64) (*entities.UserProgress, error)

	// AddXP atomically adds XP to a user's total and recomputes the stored
	// level, creating the row if absent. Concurrent calls for the same user
	// must not lose updates. Returns the updated row.
	AddXP(ctx context.Context, discordID int64, amount int64) (*entities.UserProgress, error)

	// SetLevel overrides a user's level, setting XP to the exact threshold
	// for that level. Returns the updated row.
	SetLevel(ctx context.Context, discordID int64, level int) (*entities.UserProgress, error)

	// Top returns the n highest-XP users in descending XP order.
	Top(ctx context.Context, n int) ([]*entities.UserProgress, error)
}
