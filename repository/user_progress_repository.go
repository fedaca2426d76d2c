package repository

import (
	"context"
	"fmt"

	"shirokane/database"
	"shirokane/domain/entities"
)

// UserProgressRepository implements leveling persistence on Postgres.
// XP mutations run in a transaction that locks the user's row, so
// concurrent grants for the same user serialize instead of losing
// updates; xp and level always change together.
type UserProgressRepository struct {
	db *database.DB
}

// NewUserProgressRepository creates a new user progress repository.
func NewUserProgressRepository(db *database.DB) *UserProgressRepository {
	return &UserProgressRepository{db: db}
}

// GetOrCreate retrieves a user's progress row, creating a zero row on
// first access.
func (r *UserProgressRepository) GetOrCreate(ctx context.Context, discordID int64) (*entities.UserProgress, error) {
	insert := `
		INSERT INTO user_progress (discord_id)
		VALUES ($1)
		ON CONFLICT (discord_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, insert, discordID); err != nil {
		return nil, fmt.Errorf("failed to ensure progress row for user %d: %w", discordID, err)
	}

	query := `
		SELECT discord_id, xp, level, created_at, updated_at
		FROM user_progress
		WHERE discord_id = $1
	`
	var progress entities.UserProgress
	err := r.db.QueryRow(ctx, query, discordID).Scan(
		&progress.DiscordID,
		&progress.XP,
		&progress.Level,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for user %d: %w", discordID, err)
	}

	return &progress, nil
}

// AddXP atomically adds XP and recomputes the stored level inside a
// row-locked transaction. The row is created if absent.
func (r *UserProgressRepository) AddXP(ctx context.Context, discordID int64, amount int64) (*entities.UserProgress, error) {
	progress, err := r.mutate(ctx, discordID, func(xp int64, _ int) (int64, int) {
		newXP := xp + amount
		return newXP, entities.LevelForXP(newXP)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add %d xp for user %d: %w", amount, discordID, err)
	}
	return progress, nil
}

// SetLevel overrides a user's level, setting XP to the exact threshold.
func (r *UserProgressRepository) SetLevel(ctx context.Context, discordID int64, level int) (*entities.UserProgress, error) {
	progress, err := r.mutate(ctx, discordID, func(int64, int) (int64, int) {
		return entities.Threshold(level), level
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set level %d for user %d: %w", level, discordID, err)
	}
	return progress, nil
}

// mutate runs a read-modify-write of a user's row under FOR UPDATE.
func (r *UserProgressRepository) mutate(ctx context.Context, discordID int64, apply func(xp int64, level int) (int64, int)) (*entities.UserProgress, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO user_progress (discord_id)
		VALUES ($1)
		ON CONFLICT (discord_id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, insert, discordID); err != nil {
		return nil, fmt.Errorf("failed to ensure progress row: %w", err)
	}

	var progress entities.UserProgress
	lock := `
		SELECT discord_id, xp, level, created_at
		FROM user_progress
		WHERE discord_id = $1
		FOR UPDATE
	`
	err = tx.QueryRow(ctx, lock, discordID).Scan(
		&progress.DiscordID,
		&progress.XP,
		&progress.Level,
		&progress.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock progress row: %w", err)
	}

	progress.XP, progress.Level = apply(progress.XP, progress.Level)

	update := `
		UPDATE user_progress
		SET xp = $1, level = $2, updated_at = NOW()
		WHERE discord_id = $3
		RETURNING updated_at
	`
	if err := tx.QueryRow(ctx, update, progress.XP, progress.Level, discordID).Scan(&progress.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to update progress row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &progress, nil
}

// Top returns the n highest-XP users in descending XP order, ties broken
// by row creation order.
func (r *UserProgressRepository) Top(ctx context.Context, n int) ([]*entities.UserProgress, error) {
	query := `
		SELECT discord_id, xp, level, created_at, updated_at
		FROM user_progress
		ORDER BY xp DESC, created_at ASC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	defer rows.Close()

	var users []*entities.UserProgress
	for rows.Next() {
		var progress entities.UserProgress
		err := rows.Scan(
			&progress.DiscordID,
			&progress.XP,
			&progress.Level,
			&progress.CreatedAt,
			&progress.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		users = append(users, &progress)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress rows: %w", err)
	}

	return users, nil
}
