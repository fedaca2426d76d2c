package valorant

import (
	"fmt"
	"strconv"
	"strings"

	"shirokane/infrastructure/henrikdev"

	"github.com/bwmarrin/discordgo"
)

const colorCrimson = 0xfa4454

// BuildStatsEmbed renders account and competitive data for one player.
func BuildStatsEmbed(stats *henrikdev.PlayerStats) *discordgo.MessageEmbed {
	account := stats.Account
	mmr := stats.MMR

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s#%s", account.Name, account.Tag),
		Color: colorCrimson,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rank", Value: mmr.CurrentTier, Inline: true},
			{Name: "RR", Value: formatRR(mmr), Inline: true},
			{Name: "ELO", Value: formatElo(mmr.Elo), Inline: true},
			{Name: "Last Match", Value: formatLastChange(mmr.LastChange), Inline: true},
			{Name: "Level", Value: strconv.Itoa(account.AccountLevel), Inline: true},
			{Name: "Region", Value: strings.ToUpper(account.Region), Inline: true},
		},
	}

	if mmr.RankIconURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: mmr.RankIconURL}
	}
	if account.Card.Wide != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: account.Card.Wide}
	}

	return embed
}

func formatRR(mmr henrikdev.MMR) string {
	if mmr.CurrentTier == "Unranked" {
		return "—"
	}
	return fmt.Sprintf("%d/100", mmr.RankingInTier)
}

func formatElo(elo int) string {
	if elo == 0 {
		return "—"
	}
	return strconv.Itoa(elo)
}

func formatLastChange(change int) string {
	switch {
	case change > 0:
		return fmt.Sprintf("🟢 +%d RR", change)
	case change < 0:
		return fmt.Sprintf("🔴 %d RR", change)
	default:
		return "⚪ ±0 RR"
	}
}
