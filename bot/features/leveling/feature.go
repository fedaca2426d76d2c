package leveling

import (
	"shirokane/bot/common"
	"shirokane/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature wires the leveling engine to Discord: passive XP on messages,
// rank and leaderboard commands, and admin overrides.
type Feature struct {
	session          *discordgo.Session
	service          *services.LevelingService
	cooldowns        *cooldownTracker
	xpMin            int64
	xpMax            int64
	levelUpChannelID string // empty means announce in the triggering channel
	cardGenerator    *LeaderboardCardGenerator
}

// NewFeature creates the leveling feature.
func NewFeature(session *discordgo.Session, service *services.LevelingService, cooldowns *cooldownTracker, xpMin, xpMax int64, levelUpChannelID string) *Feature {
	return &Feature{
		session:          session,
		service:          service,
		cooldowns:        cooldowns,
		xpMin:            xpMin,
		xpMax:            xpMax,
		levelUpChannelID: levelUpChannelID,
		cardGenerator:    NewLeaderboardCardGenerator(),
	}
}

// HandleCommand handles the /level command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: rank, leaderboard, set or addxp")
		return
	}

	switch options[0].Name {
	case "rank":
		f.handleRank(s, i, options[0].Options)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "set":
		f.handleSetLevel(s, i, options[0].Options)
	case "addxp":
		f.handleAddXP(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}
