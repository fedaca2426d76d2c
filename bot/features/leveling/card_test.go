package leveling

import (
	"image/png"
	"testing"

	"shirokane/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardCardGenerator_Generate(t *testing.T) {
	generator := NewLeaderboardCardGenerator()

	users := []*entities.UserProgress{
		{DiscordID: 1, XP: 2605, Level: 5},
		{DiscordID: 2, XP: 1200, Level: 3},
		{DiscordID: 3, XP: 105, Level: 1},
		{DiscordID: 4, XP: 40, Level: 0},
	}
	usernames := map[int64]string{
		1: "alpha",
		2: "a-very-long-username-indeed",
		3: "gamma",
	}

	card, err := generator.Generate(users, usernames)
	require.NoError(t, err)

	img, err := png.Decode(card)
	require.NoError(t, err)
	assert.Equal(t, cardWidth, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 100)
}

func TestLeaderboardCardGenerator_Empty(t *testing.T) {
	generator := NewLeaderboardCardGenerator()

	card, err := generator.Generate(nil, nil)
	require.NoError(t, err)

	_, err = png.Decode(card)
	assert.NoError(t, err)
}
