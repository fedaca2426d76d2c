package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  int64
	}{
		{0, 0},
		{1, 100},
		{2, 400},
		{5, 2500},
		{10, 10000},
		{50, 250000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Threshold(tt.level), "threshold(%d)", tt.level)
	}
}

func TestLevelForXP_InvertsThresholdAtBoundaries(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 200; n++ {
		assert.Equal(t, n, LevelForXP(Threshold(n)), "level_for_xp(threshold(%d))", n)
		if n >= 1 {
			assert.Equal(t, n-1, LevelForXP(Threshold(n)-1), "level_for_xp(threshold(%d)-1)", n)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		xp   int64
		want int
	}{
		{"zero", 0, 0},
		{"negative clamps to zero", -50, 0},
		{"below first threshold", 99, 0},
		{"exactly first threshold", 100, 1},
		{"just above first threshold", 105, 1},
		{"mid level", 2499, 4},
		{"exact level five", 2500, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, LevelForXP(tt.xp))
		})
	}
}

func TestUserProgress_ProgressPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		xp   int64
		lvl  int
		want float64
	}{
		{"fresh user", 0, 0, 0},
		{"halfway through level zero", 50, 0, 50},
		{"start of level one", 100, 1, 0},
		{"halfway through level one", 250, 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &UserProgress{XP: tt.xp, Level: tt.lvl}
			assert.InDelta(t, tt.want, p.ProgressPercent(), 0.001)
		})
	}
}
