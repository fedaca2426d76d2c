package anime

import (
	"context"
	"fmt"
	"math/rand"

	"shirokane/bot/common"
	"shirokane/infrastructure/jikan"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature looks up anime metadata: /anime searches by title and
// /recommend suggests a title, mixing top-rated picks with fully random
// ones.
type Feature struct {
	client *jikan.Client
}

// NewFeature creates the anime lookup feature.
func NewFeature(client *jikan.Client) *Feature {
	return &Feature{client: client}
}

// HandleSearchCommand handles the /anime command
func (f *Feature) HandleSearchCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "title" {
			query = opt.StringValue()
		}
	}
	if query == "" {
		common.RespondWithError(s, i, "Please provide an anime title.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Errorf("Error deferring anime response: %v", err)
		return
	}

	result, err := f.client.Search(context.Background(), query)
	if err != nil {
		log.WithError(err).WithField("query", query).Warn("Anime search failed")
		common.FollowUpWithError(s, i, "Gagal mencari anime. Coba lagi nanti.")
		return
	}
	if result == nil {
		common.FollowUpWithError(s, i, fmt.Sprintf("Tidak menemukan anime dengan judul `%s`.", query))
		return
	}

	f.followUp(s, i, BuildAnimeEmbed(result, "🔍 Hasil Pencarian"))
}

// HandleRecommendCommand handles the /recommend command
func (f *Feature) HandleRecommendCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Errorf("Error deferring recommend response: %v", err)
		return
	}

	// Half the time a top-rated pick, half the time a wildcard.
	var result *jikan.Anime
	if rand.Intn(2) == 0 {
		result, err = f.client.TopPick(context.Background())
	} else {
		result, err = f.client.Random(context.Background())
	}
	if err != nil || result == nil {
		log.WithError(err).Warn("Anime recommendation failed")
		common.FollowUpWithError(s, i, "Gagal mengambil rekomendasi. Coba lagi nanti.")
		return
	}

	f.followUp(s, i, BuildAnimeEmbed(result, "✨ Rekomendasi Anime"))
}

func (f *Feature) followUp(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.Errorf("Error sending anime follow-up: %v", err)
	}
}
