package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"shirokane/bot/common"
	"shirokane/infrastructure/stablehorde"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// generateCooldown throttles per-user generation requests. Horde jobs
// are expensive and anonymous keys have low priority.
const generateCooldown = 10 * time.Minute

// Feature exposes image generation as the /gen command: submit, show
// queue progress while polling, then attach the result.
type Feature struct {
	client *stablehorde.Client

	mu      sync.Mutex
	nextUse map[int64]time.Time
}

// NewFeature creates the image generation feature.
func NewFeature(client *stablehorde.Client) *Feature {
	return &Feature{
		client:  client,
		nextUse: make(map[int64]time.Time),
	}
}

// HandleCommand handles the /gen command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var description string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "description" {
			description = opt.StringValue()
		}
	}
	if description == "" {
		common.RespondWithError(s, i, "Please describe the image you want.")
		return
	}

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if remaining, ok := f.checkCooldown(userID); !ok {
		common.RespondWithError(s, i, fmt.Sprintf("⏳ Tunggu **%s** lagi sebelum membuat gambar baru.", common.FormatCooldown(remaining)))
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Errorf("Error deferring gen response: %v", err)
		return
	}

	// Edit the deferred response in place as the job moves through the
	// worker queue.
	onProgress := func(p stablehorde.Progress) {
		content := fmt.Sprintf("🎨 Sedang membuat gambar... posisi antrian: **%d**, perkiraan: **%ds**", p.QueuePosition, p.WaitTime)
		_, editErr := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		if editErr != nil {
			log.WithError(editErr).Debug("Failed to edit generation progress")
		}
	}

	image, err := f.client.Generate(context.Background(), description, onProgress)
	if err != nil {
		f.clearCooldown(userID)
		if errors.Is(err, stablehorde.ErrGenerationTimeout) {
			common.FollowUpWithError(s, i, "⌛ Pembuatan gambar memakan waktu terlalu lama. Server sedang sibuk, coba lagi nanti.")
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Image generation failed")
		common.FollowUpWithError(s, i, "Gagal membuat gambar. Coba lagi nanti.")
		return
	}

	content := fmt.Sprintf("🖼️ **%s**\nRequested by %s", common.TruncateText(description, 150), common.GetUserMention(userID))
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
		Files: []*discordgo.File{
			{
				Name:        "generated.png",
				ContentType: "image/png",
				Reader:      bytes.NewReader(image),
			},
		},
	})
	if err != nil {
		log.Errorf("Error attaching generated image: %v", err)
	}
}

// checkCooldown reports whether the user may generate now and starts a
// new cooldown window when they may.
func (f *Feature) checkCooldown(userID int64) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if next, ok := f.nextUse[userID]; ok && now.Before(next) {
		return next.Sub(now), false
	}
	f.nextUse[userID] = now.Add(generateCooldown)
	return 0, true
}

// clearCooldown refunds the window after a failed generation.
func (f *Feature) clearCooldown(userID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.nextUse, userID)
}
