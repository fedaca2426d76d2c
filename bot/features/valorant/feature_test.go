package valorant

import (
	"testing"

	"shirokane/infrastructure/henrikdev"

	"github.com/stretchr/testify/assert"
)

func TestSplitRiotID(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		tag      string
		expectOK bool
	}{
		{"Rinko#4869", "Rinko", "4869", true},
		{"  Rinko#4869  ", "Rinko", "4869", true},
		{"Name With Spaces#EUW", "Name With Spaces", "EUW", true},
		{"Rinko", "", "", false},
		{"#4869", "", "", false},
		{"Rinko#", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, tag, ok := splitRiotID(tt.input)
			assert.Equal(t, tt.expectOK, ok)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.tag, tag)
		})
	}
}

func TestBuildStatsEmbed_Unranked(t *testing.T) {
	stats := &henrikdev.PlayerStats{
		Account: henrikdev.Account{Name: "Rinko", Tag: "4869", Region: "ap", AccountLevel: 42},
		MMR:     henrikdev.MMR{CurrentTier: "Unranked"},
	}

	embed := BuildStatsEmbed(stats)
	assert.Equal(t, "Rinko#4869", embed.Title)
	assert.Equal(t, "Unranked", embed.Fields[0].Value)
	assert.Equal(t, "—", embed.Fields[1].Value)
	assert.Nil(t, embed.Thumbnail)
}

func TestBuildStatsEmbed_Ranked(t *testing.T) {
	stats := &henrikdev.PlayerStats{
		Account: henrikdev.Account{Name: "Rinko", Tag: "4869", Region: "ap", AccountLevel: 42},
		MMR: henrikdev.MMR{
			CurrentTier:   "Diamond 2",
			RankingInTier: 63,
			Elo:           1863,
			LastChange:    -17,
			RankIconURL:   "https://example.com/diamond2.png",
		},
	}

	embed := BuildStatsEmbed(stats)
	assert.Equal(t, "Diamond 2", embed.Fields[0].Value)
	assert.Equal(t, "63/100", embed.Fields[1].Value)
	assert.Equal(t, "1863", embed.Fields[2].Value)
	assert.Equal(t, "🔴 -17 RR", embed.Fields[3].Value)
	assert.Equal(t, "https://example.com/diamond2.png", embed.Thumbnail.URL)
}
