package services

import (
	"context"
	"errors"
	"fmt"

	"shirokane/domain/entities"
	"shirokane/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// LevelingService tracks cumulative experience per user, derives level via
// the quadratic curve in entities, and requests role rewards when a level
// boundary is crossed. It performs no rate limiting of its own; the caller
// owns the passive-grant cooldown.
type LevelingService struct {
	repo    interfaces.UserProgressRepository
	granter interfaces.RoleGranter
	rewards map[int]int64 // milestone level -> role ID
}

// NewLevelingService creates a new LevelingService. rewards maps milestone
// levels to the role granted when that level is reached.
func NewLevelingService(repo interfaces.UserProgressRepository, granter interfaces.RoleGranter, rewards map[int]int64) *LevelingService {
	return &LevelingService{
		repo:    repo,
		granter: granter,
		rewards: rewards,
	}
}

// GrantResult captures the outcome of an XP mutation so the caller can
// produce user-facing messages. The service itself renders no text.
type GrantResult struct {
	Progress      *entities.UserProgress
	PreviousLevel int
	LeveledUp     bool
	RewardRoleID  int64 // 0 when the new level has no mapped reward
	RewardGranted bool
}

// GrantXP adds amount XP to a user and recomputes their level. A grant that
// crosses one or more thresholds produces a single result carrying the final
// level; reward evaluation happens at that final level only. XP and level
// are updated together by the repository or not at all.
func (s *LevelingService) GrantXP(ctx context.Context, guildID, discordID, amount int64) (*GrantResult, error) {
	if amount <= 0 {
		return nil, errors.New("xp amount must be positive")
	}

	progress, err := s.repo.AddXP(ctx, discordID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to add xp for user %d: %w", discordID, err)
	}

	// XP is monotonic under AddXP, so the pre-grant level is derivable
	// from the post-grant total without a second read.
	previousLevel := entities.LevelForXP(progress.XP - amount)

	result := &GrantResult{
		Progress:      progress,
		PreviousLevel: previousLevel,
		LeveledUp:     progress.Level > previousLevel,
	}

	if result.LeveledUp {
		s.evaluateReward(ctx, guildID, discordID, progress.Level, result)
	}

	return result, nil
}

// SetLevel is the administrative override: it sets XP to exactly the
// threshold of the target level and always evaluates the reward mapping
// for that level, regardless of the user's prior state.
func (s *LevelingService) SetLevel(ctx context.Context, guildID, discordID int64, level int) (*GrantResult, error) {
	if level < 0 {
		return nil, errors.New("level must be non-negative")
	}

	progress, err := s.repo.SetLevel(ctx, discordID, level)
	if err != nil {
		return nil, fmt.Errorf("failed to set level for user %d: %w", discordID, err)
	}

	result := &GrantResult{
		Progress:  progress,
		LeveledUp: true,
	}
	s.evaluateReward(ctx, guildID, discordID, level, result)

	return result, nil
}

// GetProgress returns a read-only snapshot, creating a zero row on first access.
func (s *LevelingService) GetProgress(ctx context.Context, discordID int64) (*entities.UserProgress, error) {
	progress, err := s.repo.GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for user %d: %w", discordID, err)
	}
	return progress, nil
}

// Top returns the n highest-XP users, descending by XP.
func (s *LevelingService) Top(ctx context.Context, n int) ([]*entities.UserProgress, error) {
	users, err := s.repo.Top(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	return users, nil
}

// evaluateReward requests the role mapped to level, if any. Grant failures
// are logged and swallowed; they never fail the triggering operation and
// are never retried.
func (s *LevelingService) evaluateReward(ctx context.Context, guildID, discordID int64, level int, result *GrantResult) {
	roleID, ok := s.rewards[level]
	if !ok || roleID == 0 {
		return
	}

	result.RewardRoleID = roleID
	if err := s.granter.GrantRole(ctx, guildID, discordID, roleID); err != nil {
		log.WithFields(log.Fields{
			"user_id": discordID,
			"role_id": roleID,
			"level":   level,
		}).Warnf("Failed to grant level reward role: %v", err)
		return
	}
	result.RewardGranted = true
}
