package music

import (
	"shirokane/bot/common"
	"shirokane/bot/voice"
	"shirokane/domain/interfaces"
	"shirokane/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature wires the playback queue to Discord voice: enumerating
// requests, driving the advance loop off sink completions, and posting
// queue notifications.
type Feature struct {
	session    *discordgo.Session
	playback   *services.PlaybackService
	enumerator interfaces.TrackEnumerator
	sink       *voice.Sink
}

// NewFeature creates the music feature.
func NewFeature(session *discordgo.Session, playback *services.PlaybackService, enumerator interfaces.TrackEnumerator, sink *voice.Sink) *Feature {
	return &Feature{
		session:    session,
		playback:   playback,
		enumerator: enumerator,
		sink:       sink,
	}
}

// HandleCommand handles the /music command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: play, skip, stop, queue or leave")
		return
	}

	switch options[0].Name {
	case "play":
		f.handlePlay(s, i, options[0].Options)
	case "skip":
		f.handleSkip(s, i)
	case "stop":
		f.handleStop(s, i)
	case "queue":
		f.handleQueue(s, i, options[0].Options)
	case "leave":
		f.handleLeave(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}
