package music

import (
	"fmt"
	"strings"

	"shirokane/bot/common"
	"shirokane/domain/entities"
	"shirokane/domain/services"

	"github.com/bwmarrin/discordgo"
)

const (
	colorPurple = 0x9b59b6
	colorOrange = 0xe67e22
	colorTeal   = 0x1abc9c
)

// BuildEnqueuedEmbed confirms what was added to the queue.
func BuildEnqueuedEmbed(tracks []*entities.Track) *discordgo.MessageEmbed {
	if len(tracks) == 1 {
		title := tracks[0].Title
		if title == "" {
			title = tracks[0].PageURL
		}
		return &discordgo.MessageEmbed{
			Title:       "🎵 Ditambahkan ke Antrian",
			Description: common.TruncateText(title, 200),
			Color:       colorTeal,
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "🎵 Playlist Ditambahkan",
		Description: fmt.Sprintf("**%d lagu** masuk antrian.", len(tracks)),
		Color:       colorTeal,
	}
}

// BuildNowPlayingEmbed announces the track handed to the sink.
func BuildNowPlayingEmbed(track *entities.Track) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "▶️ Now Playing",
		Description: fmt.Sprintf("**%s**", common.TruncateText(track.Title, 200)),
		Color:       colorPurple,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Requested by %s", common.GetUserMention(track.RequesterID)),
		},
	}
}

// BuildSkippedEmbed reports an item discarded because it could not be
// resolved to a playable stream.
func BuildSkippedEmbed(track *entities.Track) *discordgo.MessageEmbed {
	title := track.Title
	if title == "" {
		title = track.PageURL
	}
	return &discordgo.MessageEmbed{
		Title:       "⚠️ Lagu Dilewati",
		Description: fmt.Sprintf("**%s** tidak bisa diputar dan dilewati.", common.TruncateText(title, 200)),
		Color:       colorOrange,
	}
}

// BuildQueueDrainedEmbed reports that skipping exhausted the queue.
func BuildQueueDrainedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📭 Antrian Kosong",
		Description: "Semua lagu yang tersisa gagal diputar.",
		Color:       colorOrange,
	}
}

// BuildQueueEmbed renders one page of the queue plus the current track.
func BuildQueueEmbed(view *services.QueuePage, nowPlaying *entities.Track) *discordgo.MessageEmbed {
	var desc strings.Builder

	if nowPlaying != nil {
		fmt.Fprintf(&desc, "▶️ **%s**\n\n", common.TruncateText(nowPlaying.Title, 150))
	}

	if view.TotalItems == 0 {
		desc.WriteString("Antrian kosong.")
	} else {
		offset := (view.Page - 1) * 10
		for idx, track := range view.Tracks {
			title := track.Title
			if title == "" {
				title = track.PageURL
			}
			fmt.Fprintf(&desc, "`%d.` %s\n", offset+idx+1, common.TruncateText(title, 100))
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "🎶 Music Queue",
		Description: desc.String(),
		Color:       colorPurple,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d • %d lagu dalam antrian", view.Page, view.TotalPages, view.TotalItems),
		},
	}
}
