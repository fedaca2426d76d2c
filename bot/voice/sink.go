package voice

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"layeh.com/gopus"
)

const (
	channels  = 2
	frameRate = 48000
	frameSize = 960 // 20ms at 48kHz
	maxBytes  = 4000
)

// Sink plays audio streams into Discord voice channels. One connection
// and at most one active stream per guild; starting a new stream
// replaces the current one without firing its completion callback.
type Sink struct {
	session *discordgo.Session

	mu          sync.Mutex
	connections map[int64]*discordgo.VoiceConnection
	streams     map[int64]*stream
}

type stream struct {
	cancel   context.CancelFunc
	done     func()
	doneOnce sync.Once
	// replaced suppresses the completion callback when a newer stream
	// or a disconnect superseded this one.
	replaced bool
}

// NewSink creates an audio sink bound to the Discord session.
func NewSink(session *discordgo.Session) *Sink {
	return &Sink{
		session:     session,
		connections: make(map[int64]*discordgo.VoiceConnection),
		streams:     make(map[int64]*stream),
	}
}

// Join connects to a voice channel, moving if already connected elsewhere.
func (s *Sink) Join(guildID, channelID int64) error {
	s.mu.Lock()
	existing := s.connections[guildID]
	s.mu.Unlock()

	channelStr := strconv.FormatInt(channelID, 10)
	if existing != nil {
		if existing.ChannelID == channelStr {
			return nil
		}
		if err := existing.ChangeChannel(channelStr, false, true); err != nil {
			return fmt.Errorf("failed to move voice channel: %w", err)
		}
		return nil
	}

	// The join handshake is slow; never hold the lock across it.
	vc, err := s.session.ChannelVoiceJoin(strconv.FormatInt(guildID, 10), channelStr, false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.connections[guildID]; ok {
		// Another goroutine connected while we were joining.
		vc.Disconnect()
		return nil
	}
	s.connections[guildID] = vc
	return nil
}

// Connected reports whether the sink has a voice connection in the guild.
func (s *Sink) Connected(guildID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections[guildID] != nil
}

// Leave stops playback and disconnects from the guild's voice channel.
func (s *Sink) Leave(guildID int64) {
	s.mu.Lock()
	if active := s.streams[guildID]; active != nil {
		active.replaced = true
		active.cancel()
		delete(s.streams, guildID)
	}
	vc := s.connections[guildID]
	delete(s.connections, guildID)
	s.mu.Unlock()

	if vc != nil {
		if err := vc.Disconnect(); err != nil {
			log.WithError(err).WithField("guildID", guildID).Warn("Voice disconnect failed")
		}
	}
}

// LeaveAll disconnects from every guild, used during shutdown.
func (s *Sink) LeaveAll() {
	s.mu.Lock()
	guildIDs := make([]int64, 0, len(s.connections))
	for guildID := range s.connections {
		guildIDs = append(guildIDs, guildID)
	}
	s.mu.Unlock()

	for _, guildID := range guildIDs {
		s.Leave(guildID)
	}
}

// Play streams the URL into the guild's voice channel. done fires once
// on natural end or explicit Stop, never when replaced by a newer Play.
func (s *Sink) Play(guildID int64, streamURL string, done func()) error {
	s.mu.Lock()
	vc := s.connections[guildID]
	if vc == nil {
		s.mu.Unlock()
		return fmt.Errorf("not connected to a voice channel in guild %d", guildID)
	}

	if active := s.streams[guildID]; active != nil {
		active.replaced = true
		active.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	current := &stream{cancel: cancel, done: done}
	s.streams[guildID] = current
	s.mu.Unlock()

	go func() {
		err := s.stream(ctx, vc, streamURL)
		if err != nil && ctx.Err() == nil {
			log.WithError(err).WithFields(log.Fields{
				"guildID": guildID,
				"url":     streamURL,
			}).Error("Audio stream failed")
		}

		s.mu.Lock()
		suppress := current.replaced
		if s.streams[guildID] == current {
			delete(s.streams, guildID)
		}
		s.mu.Unlock()

		if !suppress && current.done != nil {
			current.doneOnce.Do(current.done)
		}
	}()

	return nil
}

// Stop ends the guild's current stream. The stream's completion
// callback still fires so the caller can advance.
func (s *Sink) Stop(guildID int64) {
	s.mu.Lock()
	active := s.streams[guildID]
	s.mu.Unlock()

	if active != nil {
		active.cancel()
	}
}

// stream decodes the source with ffmpeg and pushes 20ms opus frames.
func (s *Sink) stream(ctx context.Context, vc *discordgo.VoiceConnection, streamURL string) error {
	if err := waitReady(ctx, vc); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", streamURL,
		"-f", "s16le",
		"-ar", strconv.Itoa(frameRate),
		"-ac", strconv.Itoa(channels),
		"pipe:1")
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open ffmpeg pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	defer cmd.Wait()

	encoder, err := gopus.NewEncoder(frameRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("failed to create opus encoder: %w", err)
	}

	vc.Speaking(true)
	defer func() {
		if vc.Ready {
			vc.Speaking(false)
		}
	}()
	sendSilence(vc)

	reader := bufio.NewReaderSize(out, 16384)
	pcm := make([]int16, frameSize*channels)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := binary.Read(reader, binary.LittleEndian, &pcm); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return fmt.Errorf("failed to read pcm frame: %w", err)
		}

		opus, err := encoder.Encode(pcm, frameSize, maxBytes)
		if err != nil {
			continue
		}

		if vc.Ready && vc.OpusSend != nil {
			vc.OpusSend <- opus
		}
	}
}

// waitReady blocks until the voice handshake completes.
func waitReady(ctx context.Context, vc *discordgo.VoiceConnection) error {
	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			return fmt.Errorf("timed out waiting for voice connection")
		case <-ticker.C:
			if vc.Ready {
				return nil
			}
		}
	}
}

// sendSilence pre-rolls a few silence frames to settle the RTP stream.
func sendSilence(vc *discordgo.VoiceConnection) {
	for i := 0; i < 5; i++ {
		if !vc.Ready || vc.OpusSend == nil {
			return
		}
		vc.OpusSend <- []byte{0xF8, 0xFF, 0xFE}
		time.Sleep(20 * time.Millisecond)
	}
}
