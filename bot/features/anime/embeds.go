package anime

import (
	"fmt"
	"strconv"

	"shirokane/bot/common"
	"shirokane/infrastructure/jikan"

	"github.com/bwmarrin/discordgo"
)

const colorPink = 0xe91e63

// BuildAnimeEmbed renders an anime entry with its cover, score and
// airing details.
func BuildAnimeEmbed(a *jikan.Anime, header string) *discordgo.MessageEmbed {
	title := a.Title
	if a.TitleEnglish != "" && a.TitleEnglish != a.Title {
		title = fmt.Sprintf("%s (%s)", a.Title, a.TitleEnglish)
	}

	synopsis := a.Synopsis
	if synopsis == "" {
		synopsis = "Tidak ada sinopsis."
	}

	embed := &discordgo.MessageEmbed{
		Author:      &discordgo.MessageEmbedAuthor{Name: header},
		Title:       common.TruncateText(title, 250),
		URL:         a.URL,
		Description: common.TruncateText(synopsis, 800),
		Color:       colorPink,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Score", Value: formatScore(a.Score), Inline: true},
			{Name: "Rank", Value: formatRank(a.Rank), Inline: true},
			{Name: "Episodes", Value: formatEpisodes(a.Episodes), Inline: true},
			{Name: "Status", Value: orDash(a.Status), Inline: true},
			{Name: "Rating", Value: orDash(a.Rating), Inline: true},
		},
	}

	if img := a.ImageURL(); img != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: img}
	}
	if a.TitleJapanese != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: a.TitleJapanese}
	}

	return embed
}

func formatScore(score float64) string {
	if score == 0 {
		return "—"
	}
	return fmt.Sprintf("⭐ %.2f", score)
}

func formatRank(rank int) string {
	if rank == 0 {
		return "—"
	}
	return "#" + strconv.Itoa(rank)
}

func formatEpisodes(episodes int) string {
	if episodes == 0 {
		return "?"
	}
	return strconv.Itoa(episodes)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
