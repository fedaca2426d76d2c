package leveling

import (
	"fmt"
	"strings"

	"shirokane/bot/common"
	"shirokane/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const (
	colorBlue = 0x3498db
	colorGold = 0xf1c40f
	colorGreen = 0x2ecc71
	colorRed   = 0xe74c3c
)

// BuildRankEmbed renders a user's level, xp and progress toward the next
// threshold.
func BuildRankEmbed(displayName, avatarURL string, progress *entities.UserProgress) *discordgo.MessageEmbed {
	percent := progress.ProgressPercent()

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 Rank: %s", displayName),
		Color: colorBlue,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: avatarURL,
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: fmt.Sprintf("%d", progress.Level), Inline: true},
			{Name: "Total XP", Value: common.FormatXP(progress.XP), Inline: true},
			{
				Name:   "Progress",
				Value:  fmt.Sprintf("%s %d%%", common.ProgressBar(percent, 10), int(percent)),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Next level at %s XP", common.FormatXP(entities.Threshold(progress.Level+1))),
		},
	}
}

// BuildLevelUpEmbed announces a level-up in the channel.
func BuildLevelUpEmbed(userID string, level int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎉 Level Up!",
		Description: fmt.Sprintf("Selamat <@%s>, kamu naik ke **Level %d**!", userID, level),
		Color:       colorGold,
	}
}

// BuildRewardEmbed announces an unlocked milestone role.
func BuildRewardEmbed(roleName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🏅 Role Reward Unlocked!",
		Description: fmt.Sprintf("Kamu mendapatkan role baru: **%s**!", roleName),
		Color:       colorGreen,
	}
}

// BuildLeaderboardEmbed renders the top users as a medal-decorated list.
// usernames maps Discord IDs to display names; missing entries fall back
// to a mention.
func BuildLeaderboardEmbed(users []*entities.UserProgress, usernames map[int64]string) *discordgo.MessageEmbed {
	medals := []string{"🥇", "🥈", "🥉"}

	var desc strings.Builder
	for i, user := range users {
		name := usernames[user.DiscordID]
		if name == "" {
			name = fmt.Sprintf("<@%d>", user.DiscordID)
		}

		medal := fmt.Sprintf("#%d", i+1)
		if i < len(medals) {
			medal = medals[i]
		}

		fmt.Fprintf(&desc, "**%s %s** — Lvl %d (%s XP)\n", medal, name, user.Level, common.FormatXP(user.XP))
	}

	return &discordgo.MessageEmbed{
		Title:       "🏆 Global Leaderboard",
		Description: desc.String(),
		Color:       colorGold,
	}
}

// BuildAdminSetEmbed confirms an administrative level override.
func BuildAdminSetEmbed(displayName string, level int, xp int64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🛠️ Admin Level Set",
		Description: fmt.Sprintf("Set level **%s** ke **Level %d** (XP: %s).", displayName, level, common.FormatXP(xp)),
		Color:       colorRed,
	}
}

// BuildAdminXPEmbed confirms an administrative xp grant.
func BuildAdminXPEmbed(displayName string, amount int64, progress *entities.UserProgress) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🛠️ Admin XP Gift",
		Description: fmt.Sprintf("Berikan **%s XP** ke %s.\nTotal XP: %s (Lvl %d)",
			common.FormatXP(amount), displayName, common.FormatXP(progress.XP), progress.Level),
		Color: colorRed,
	}
}
