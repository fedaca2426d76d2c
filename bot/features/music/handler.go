package music

import (
	"context"
	"fmt"
	"strconv"

	"shirokane/bot/common"
	"shirokane/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handlePlay enumerates the query, joins the requester's voice channel
// and starts playback when the queue was idle.
func (f *Feature) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	var query string
	for _, opt := range options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}
	if query == "" {
		common.RespondWithError(s, i, "Please provide a song name, URL or playlist URL.")
		return
	}

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	requesterID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	voiceChannelID, ok := f.memberVoiceChannel(s, i.GuildID, i.Member.User.ID)
	if !ok {
		common.RespondWithError(s, i, "Kamu harus berada di voice channel dulu!")
		return
	}

	// Enumeration hits the network; defer the reply.
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Errorf("Error deferring play response: %v", err)
		return
	}

	ctx := context.Background()
	tracks, err := f.enumerator.Enumerate(ctx, query)
	if err != nil {
		log.WithError(err).WithField("query", query).Warn("Track enumeration failed")
		common.FollowUpWithError(s, i, fmt.Sprintf("Tidak menemukan hasil untuk `%s`.", query))
		return
	}
	for _, track := range tracks {
		track.RequesterID = requesterID
	}

	if err := f.sink.Join(guildID, voiceChannelID); err != nil {
		log.WithError(err).WithField("guild_id", guildID).Error("Voice join failed")
		common.FollowUpWithError(s, i, "Gagal bergabung ke voice channel.")
		return
	}

	wasIdle := f.playback.NowPlaying(guildID) == nil
	f.playback.EnqueueMany(guildID, tracks)

	_, err = s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{BuildEnqueuedEmbed(tracks)},
	})
	if err != nil {
		log.Errorf("Error sending enqueue follow-up: %v", err)
	}

	if wasIdle {
		f.advance(guildID, i.ChannelID)
	}
}

// advance plays the next queue item and posts the outcome. The sink's
// completion callback re-enters advance, forming the playback loop.
func (f *Feature) advance(guildID int64, textChannelID string) {
	result, err := f.playback.Advance(context.Background(), guildID, func() {
		f.advance(guildID, textChannelID)
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Error("Queue advance failed")
		return
	}

	for _, skipped := range result.Skipped {
		f.post(textChannelID, BuildSkippedEmbed(skipped))
	}

	switch result.Outcome {
	case services.AdvanceNowPlaying:
		f.post(textChannelID, BuildNowPlayingEmbed(result.Track))
	case services.AdvanceQueueEmpty:
		if len(result.Skipped) > 0 {
			f.post(textChannelID, BuildQueueDrainedEmbed())
		}
	case services.AdvanceCancelled:
		// Session was stopped while resolving; nothing to report.
	}
}

func (f *Feature) post(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := f.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Warn("Failed to post queue notification")
	}
}

// handleSkip stops the current track; the completion callback advances.
func (f *Feature) handleSkip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	current := f.playback.NowPlaying(guildID)
	if !f.playback.Skip(guildID) {
		common.RespondWithError(s, i, "Tidak ada lagu yang sedang diputar.")
		return
	}

	content := "⏭️ Lagu dilewati."
	if current != nil {
		content = fmt.Sprintf("⏭️ Melewati **%s**.", current.Title)
	}
	f.respond(s, i, content)
}

// handleStop clears the queue and stops playback.
func (f *Feature) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	f.playback.Stop(guildID)
	f.respond(s, i, "⏹️ Playback dihentikan dan antrian dikosongkan.")
}

// handleQueue shows one page of the queue. Out-of-range pages clamp.
func (f *Feature) handleQueue(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	page := 1
	for _, opt := range options {
		if opt.Name == "page" {
			page = int(opt.IntValue())
		}
	}

	view, err := f.playback.PeekPage(guildID, page, 10)
	if err != nil {
		log.Errorf("Error peeking queue for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to show the queue. Please try again.")
		return
	}

	embed := BuildQueueEmbed(view, f.playback.NowPlaying(guildID))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to queue command: %v", err)
	}
}

// handleLeave stops playback and disconnects from voice.
func (f *Feature) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	f.playback.Stop(guildID)
	f.sink.Leave(guildID)
	f.respond(s, i, "👋 Keluar dari voice channel.")
}

func (f *Feature) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		log.Errorf("Error responding to music command: %v", err)
	}
}

// memberVoiceChannel finds the voice channel the user currently occupies.
func (f *Feature) memberVoiceChannel(s *discordgo.Session, guildID, userID string) (int64, bool) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return 0, false
	}
	for _, state := range guild.VoiceStates {
		if state.UserID == userID {
			channelID, err := strconv.ParseInt(state.ChannelID, 10, 64)
			if err != nil {
				return 0, false
			}
			return channelID, true
		}
	}
	return 0, false
}
