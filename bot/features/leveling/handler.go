package leveling

import (
	"context"
	"strconv"

	"shirokane/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleRank shows a user's level card. Defaults to the command issuer.
func (f *Feature) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	target := i.Member.User
	if len(options) > 0 && options[0].Name == "user" {
		target = options[0].UserValue(s)
	}

	targetID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	progress, err := f.service.GetProgress(ctx, targetID)
	if err != nil {
		log.Errorf("Error getting progress for %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to retrieve rank. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, target.ID)
	embed := BuildRankEmbed(displayName, target.AvatarURL("128"), progress)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to rank command: %v", err)
	}
}

// handleLeaderboard shows the top 10 users, with a rendered card image
// when generation succeeds and a plain embed otherwise.
func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	top, err := f.service.Top(ctx, 10)
	if err != nil {
		log.Errorf("Error getting leaderboard: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve leaderboard. Please try again.")
		return
	}

	if len(top) == 0 {
		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Belum ada data leaderboard.",
			},
		})
		if err != nil {
			log.Errorf("Error responding to leaderboard command: %v", err)
		}
		return
	}

	usernames := make(map[int64]string, len(top))
	for _, user := range top {
		usernames[user.DiscordID] = common.GetDisplayNameInt64(s, i.GuildID, user.DiscordID)
	}

	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{BuildLeaderboardEmbed(top, usernames)},
	}

	if card, err := f.cardGenerator.Generate(top, usernames); err == nil {
		data.Files = []*discordgo.File{
			{Name: "leaderboard.png", ContentType: "image/png", Reader: card},
		}
	} else {
		log.WithError(err).Warn("Leaderboard card generation failed, sending text only")
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

// handleSetLevel is the admin override: xp snaps to the level threshold
// and the reward mapping for that level is always evaluated.
func (f *Feature) handleSetLevel(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !isAdmin(i) {
		common.RespondWithError(s, i, "⛔ Akses Ditolak! Command ini khusus admin.")
		return
	}

	var target *discordgo.User
	var level int
	for _, opt := range options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "level":
			level = int(opt.IntValue())
		}
	}
	if target == nil || level < 0 {
		common.RespondWithError(s, i, "Please provide a user and a non-negative level.")
		return
	}

	targetID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.service.SetLevel(ctx, guildID, targetID, level)
	if err != nil {
		log.Errorf("Error setting level for %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to set level. Please try again.")
		return
	}

	embeds := []*discordgo.MessageEmbed{
		BuildAdminSetEmbed(common.GetDisplayName(s, i.GuildID, target.ID), level, result.Progress.XP),
	}
	if result.RewardGranted {
		embeds = append(embeds, BuildRewardEmbed(f.roleName(s, i.GuildID, result.RewardRoleID)))
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: embeds},
	})
	if err != nil {
		log.Errorf("Error responding to set level command: %v", err)
	}
}

// handleAddXP is the admin xp grant. A grant crossing several thresholds
// announces only the final level.
func (f *Feature) handleAddXP(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !isAdmin(i) {
		common.RespondWithError(s, i, "⛔ Akses Ditolak! Command ini khusus admin.")
		return
	}

	var target *discordgo.User
	var amount int64
	for _, opt := range options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		}
	}
	if target == nil || amount <= 0 {
		common.RespondWithError(s, i, "Please provide a user and a positive amount.")
		return
	}

	targetID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.service.GrantXP(ctx, guildID, targetID, amount)
	if err != nil {
		log.Errorf("Error granting xp to %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to grant XP. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, target.ID)
	embeds := []*discordgo.MessageEmbed{BuildAdminXPEmbed(displayName, amount, result.Progress)}
	if result.LeveledUp {
		embeds = append(embeds, BuildLevelUpEmbed(target.ID, result.Progress.Level))
	}
	if result.RewardGranted {
		embeds = append(embeds, BuildRewardEmbed(f.roleName(s, i.GuildID, result.RewardRoleID)))
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: embeds},
	})
	if err != nil {
		log.Errorf("Error responding to addxp command: %v", err)
	}
}

func (f *Feature) roleName(s *discordgo.Session, guildID string, roleID int64) string {
	if role, err := s.State.Role(guildID, strconv.FormatInt(roleID, 10)); err == nil {
		return role.Name
	}
	return "a new role"
}

// isAdmin gates the override commands on the Manage Server permission.
func isAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionManageServer != 0
}
