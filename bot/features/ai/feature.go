package ai

import (
	"context"
	"strconv"
	"sync"

	"shirokane/bot/common"
	"shirokane/domain/entities"
	"shirokane/infrastructure/blackbox"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature answers questions through the chat proxy. Users can enable
// auto mode, where every message they send gets an in-character reply
// with bounded conversation memory.
type Feature struct {
	client *blackbox.Client
	memory *blackbox.ConversationMemory

	mu        sync.Mutex
	autoUsers map[int64]bool
}

// NewFeature creates the AI chat feature.
func NewFeature(client *blackbox.Client, memory *blackbox.ConversationMemory) *Feature {
	return &Feature{
		client:    client,
		memory:    memory,
		autoUsers: make(map[int64]bool),
	}
}

// HandleCommand handles the /ai command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: ask or auto")
		return
	}

	switch options[0].Name {
	case "ask":
		f.handleAsk(s, i, options[0].Options)
	case "auto":
		f.handleAuto(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// handleAsk answers a one-shot question without memory.
func (f *Feature) handleAsk(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	var query string
	for _, opt := range options {
		if opt.Name == "question" {
			query = opt.StringValue()
		}
	}
	if query == "" {
		common.RespondWithError(s, i, "Please provide a question.")
		return
	}

	// The proxy is slow; defer the reply.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Errorf("Error deferring ai response: %v", err)
		return
	}

	reply, err := f.client.Ask(context.Background(), query, nil)
	if err != nil {
		log.WithError(err).Warn("Chat proxy request failed")
		common.FollowUpWithError(s, i, "Gagal mendapatkan respons dari AI. Coba lagi nanti.")
		return
	}

	f.followUpReply(s, i, reply)
}

// handleAuto toggles auto mode. Turning it off resets the conversation
// memory.
func (f *Feature) handleAuto(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var enabled bool
	for _, opt := range options {
		if opt.Name == "enabled" {
			enabled = opt.BoolValue()
		}
	}

	f.mu.Lock()
	if enabled {
		f.autoUsers[userID] = true
	} else {
		delete(f.autoUsers, userID)
	}
	f.mu.Unlock()

	content := "✅ **Auto-AI aktif!** Semua pesanmu akan dijawab. Matikan dengan `/ai auto enabled:false`."
	if !enabled {
		f.memory.Reset(userID)
		content = "❌ **Auto-AI nonaktif.** Memori percakapan telah direset."
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to ai auto command: %v", err)
	}
}

// HandleMessageCreate replies to messages from users with auto mode on,
// carrying their conversation history.
func (f *Feature) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot || m.GuildID == "" || m.Content == "" {
		return
	}

	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return
	}

	f.mu.Lock()
	auto := f.autoUsers[userID]
	f.mu.Unlock()
	if !auto {
		return
	}

	history := f.memory.History(userID)
	f.memory.RecordUser(userID, m.Content)

	reply, err := f.client.Ask(context.Background(), m.Content, history)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Auto-AI request failed")
		return
	}

	if reply.Kind == entities.ChatReplyEmpty {
		return
	}
	f.memory.RecordReply(userID, reply.Text)

	msg := &discordgo.MessageSend{
		Content:   reply.Text,
		Reference: m.Reference(),
	}
	if reply.Kind == entities.ChatReplyTextAndImage {
		msg.Embeds = []*discordgo.MessageEmbed{
			{Image: &discordgo.MessageEmbedImage{URL: reply.ImageURL}},
		}
	}

	if _, err := s.ChannelMessageSendComplex(m.ChannelID, msg); err != nil {
		log.WithError(err).Warn("Failed to send auto-AI reply")
	}
}

// followUpReply renders a tagged reply as a follow-up message.
func (f *Feature) followUpReply(s *discordgo.Session, i *discordgo.InteractionCreate, reply entities.ChatReply) {
	params := &discordgo.WebhookParams{}

	switch reply.Kind {
	case entities.ChatReplyEmpty:
		params.Content = "..."
	case entities.ChatReplyText:
		params.Content = reply.Text
	case entities.ChatReplyTextAndImage:
		params.Content = reply.Text
		params.Embeds = []*discordgo.MessageEmbed{
			{Image: &discordgo.MessageEmbedImage{URL: reply.ImageURL}},
		}
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, false, params); err != nil {
		log.Errorf("Error sending ai follow-up: %v", err)
	}
}
