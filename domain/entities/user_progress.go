package entities

import (
	"math"
	"time"
)

// UserProgress represents a user's accumulated experience and derived level.
// Level is stored redundantly for fast reads but is always derivable from XP.
type UserProgress struct {
	DiscordID int64     `db:"discord_id"`
	XP        int64     `db:"xp"`
	Level     int       `db:"level"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Threshold returns the total XP required to reach a level.
// Level 1: 100, level 2: 400, level 5: 2500.
func Threshold(level int) int64 {
	return 100 * int64(level) * int64(level)
}

// LevelForXP returns the level a user with the given total XP holds.
// It is the exact inverse of Threshold at boundaries:
// LevelForXP(Threshold(n)) == n for all n >= 0. The float sqrt is only
// a starting guess; the result is corrected with integer comparisons so
// boundary values never round the wrong way.
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 0
	}
	level := int(math.Sqrt(float64(xp) / 100))
	for Threshold(level+1) <= xp {
		level++
	}
	for level > 0 && Threshold(level) > xp {
		level--
	}
	return level
}

// XPIntoLevel returns how far into the current level the user's XP is.
func (p *UserProgress) XPIntoLevel() int64 {
	return p.XP - Threshold(p.Level)
}

// XPForNextLevel returns the XP span of the current level.
func (p *UserProgress) XPForNextLevel() int64 {
	return Threshold(p.Level+1) - Threshold(p.Level)
}

// ProgressPercent returns progress through the current level, clamped to [0, 100].
func (p *UserProgress) ProgressPercent() float64 {
	span := p.XPForNextLevel()
	if span <= 0 {
		return 0
	}
	pct := float64(p.XPIntoLevel()) / float64(span) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
