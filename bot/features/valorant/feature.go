package valorant

import (
	"context"
	"fmt"
	"strings"

	"shirokane/bot/common"
	"shirokane/infrastructure/henrikdev"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature looks up Valorant competitive stats for a Riot ID via the
// /val command.
type Feature struct {
	client *henrikdev.Client
}

// NewFeature creates the Valorant stats feature.
func NewFeature(client *henrikdev.Client) *Feature {
	return &Feature{client: client}
}

// HandleCommand handles the /val command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var riotID string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "riot_id" {
			riotID = opt.StringValue()
		}
	}

	name, tag, ok := splitRiotID(riotID)
	if !ok {
		common.RespondWithError(s, i, "Format Riot ID salah. Gunakan `Nama#Tag`, contoh: `Rinko#4869`.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Errorf("Error deferring val response: %v", err)
		return
	}

	stats, err := f.client.Lookup(context.Background(), name, tag)
	if err != nil {
		log.WithError(err).WithField("riot_id", riotID).Warn("Valorant lookup failed")
		common.FollowUpWithError(s, i, fmt.Sprintf("Tidak menemukan pemain `%s#%s`.", name, tag))
		return
	}

	_, err = s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{BuildStatsEmbed(stats)},
	})
	if err != nil {
		log.Errorf("Error sending val follow-up: %v", err)
	}
}

// splitRiotID parses "Name#Tag". Both halves must be non-empty.
func splitRiotID(riotID string) (string, string, bool) {
	name, tag, found := strings.Cut(strings.TrimSpace(riotID), "#")
	if !found || name == "" || tag == "" {
		return "", "", false
	}
	return name, tag, true
}
