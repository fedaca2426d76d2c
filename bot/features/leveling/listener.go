package leveling

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleMessageCreate awards passive XP for guild messages. At most one
// grant per user per cooldown window; bots never earn XP.
func (f *Feature) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot || m.GuildID == "" {
		return
	}

	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return
	}
	guildID, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		return
	}

	if !f.cooldowns.Allow(userID) {
		return
	}

	amount := f.xpMin + rand.Int63n(f.xpMax-f.xpMin+1)

	result, err := f.service.GrantXP(context.Background(), guildID, userID, amount)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id":  userID,
			"guild_id": guildID,
		}).Error("Failed to grant passive xp")
		return
	}

	if !result.LeveledUp {
		return
	}

	channelID := f.levelUpChannelID
	if channelID == "" {
		channelID = m.ChannelID
	}

	if _, err := s.ChannelMessageSendEmbed(channelID, BuildLevelUpEmbed(m.Author.ID, result.Progress.Level)); err != nil {
		log.WithError(err).Warn("Failed to send level-up announcement")
	}

	if result.RewardGranted {
		f.announceReward(s, channelID, guildID, result.RewardRoleID)
	}
}

// announceReward posts the role-unlock embed, resolving the role name
// when the guild state has it.
func (f *Feature) announceReward(s *discordgo.Session, channelID string, guildID, roleID int64) {
	roleName := "a new role"
	if role, err := s.State.Role(strconv.FormatInt(guildID, 10), strconv.FormatInt(roleID, 10)); err == nil {
		roleName = role.Name
	}

	if _, err := s.ChannelMessageSendEmbed(channelID, BuildRewardEmbed(roleName)); err != nil {
		log.WithError(err).Warn("Failed to send reward announcement")
	}
}
