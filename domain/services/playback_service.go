package services

import (
	"context"
	"fmt"
	"sync"

	"shirokane/domain/entities"
	"shirokane/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// AdvanceOutcome describes what Advance did with the head of the queue.
type AdvanceOutcome int

const (
	// AdvanceNowPlaying means a track was handed to the audio sink.
	AdvanceNowPlaying AdvanceOutcome = iota
	// AdvanceQueueEmpty means there was nothing left to play.
	AdvanceQueueEmpty
	// AdvanceCancelled means the session was cleared while a resolution
	// was in flight; the result was discarded.
	AdvanceCancelled
)

// AdvanceResult captures an Advance call so the caller can notify the
// channel. Skipped lists items discarded because resolution failed, in
// the order they were discarded.
type AdvanceResult struct {
	Outcome AdvanceOutcome
	Track   *entities.Track
	Skipped []*entities.Track
}

// PlaybackService maintains one FIFO queue of tracks per guild and
// produces a playable stream for the head item, resolving lazily
// enumerated items just before playback. Mutation of a guild's queue is
// serialized per guild; the network-bound resolution call never holds a
// queue lock, so a slow upstream cannot stall other guilds.
//
// The service does not self-drive: when the sink signals completion the
// caller must invoke Advance again.
type PlaybackService struct {
	mu       sync.Mutex
	queues   map[int64]*guildQueue
	resolver interfaces.TrackResolver
	sink     interfaces.AudioSink
}

type guildQueue struct {
	mu      sync.Mutex
	items   []*entities.Track
	playing *entities.Track
	// gen increments on Clear/Stop; an in-flight resolution whose
	// generation no longer matches is discarded.
	gen uint64
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(resolver interfaces.TrackResolver, sink interfaces.AudioSink) *PlaybackService {
	return &PlaybackService{
		queues:   make(map[int64]*guildQueue),
		resolver: resolver,
		sink:     sink,
	}
}

func (s *PlaybackService) queue(guildID int64) *guildQueue {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[guildID]
	if !ok {
		q = &guildQueue{}
		s.queues[guildID] = q
	}
	return q
}

// EnqueueMany appends a batch of tracks to the guild's queue, preserving
// input order.
func (s *PlaybackService) EnqueueMany(guildID int64, tracks []*entities.Track) {
	q := s.queue(guildID)
	q.mu.Lock()
	q.items = append(q.items, tracks...)
	q.mu.Unlock()
}

// Advance pops the head of the guild's queue, resolving it first if it was
// lazily enumerated, and hands the stream to the audio sink with onDone as
// the completion callback. Items that fail to resolve are discarded and
// collected in the result's Skipped list; the loop then tries the next
// item. An empty queue yields AdvanceQueueEmpty, never an error.
func (s *PlaybackService) Advance(ctx context.Context, guildID int64, onDone func()) (*AdvanceResult, error) {
	q := s.queue(guildID)
	result := &AdvanceResult{}

	// Bound the skip drain to the queue length observed at entry so a
	// long run of unresolvable items cannot loop past items enqueued
	// concurrently with this call.
	q.mu.Lock()
	q.playing = nil
	maxVisits := len(q.items)
	q.mu.Unlock()

	for visits := 0; visits <= maxVisits; visits++ {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			result.Outcome = AdvanceQueueEmpty
			return result, nil
		}
		track := q.items[0]
		q.items = q.items[1:]
		gen := q.gen
		q.mu.Unlock()

		if !track.Resolved() {
			streamURL, title, err := s.resolver.Resolve(ctx, track.PageURL)

			if err != nil {
				log.WithFields(log.Fields{
					"guild_id": guildID,
					"track_id": track.ID,
					"title":    track.Title,
				}).Warnf("Skipping unresolvable track: %v", err)
				result.Skipped = append(result.Skipped, track)
				continue
			}
			track.StreamURL = streamURL
			if title != "" {
				track.Title = title
			}
		}

		q.mu.Lock()
		stale := q.gen != gen
		q.mu.Unlock()
		if stale {
			// The session was cleared while this item was being
			// resolved; the queue it belonged to no longer exists.
			result.Outcome = AdvanceCancelled
			return result, nil
		}

		if err := s.sink.Play(guildID, track.StreamURL, onDone); err != nil {
			log.WithFields(log.Fields{
				"guild_id": guildID,
				"track_id": track.ID,
				"title":    track.Title,
			}).Warnf("Audio sink rejected track, skipping: %v", err)
			result.Skipped = append(result.Skipped, track)
			continue
		}

		q.mu.Lock()
		q.playing = track
		q.mu.Unlock()

		result.Outcome = AdvanceNowPlaying
		result.Track = track
		return result, nil
	}

	result.Outcome = AdvanceQueueEmpty
	return result, nil
}

// QueuePage is a read-only view of one page of a guild's queue.
type QueuePage struct {
	Tracks     []*entities.Track
	Page       int // 1-indexed, clamped
	TotalPages int
	TotalItems int
}

// PeekPage returns one page of the queue for display. Pages are 1-indexed;
// out-of-range pages clamp to the nearest valid page rather than erroring.
func (s *PlaybackService) PeekPage(guildID int64, page, pageSize int) (*QueuePage, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	q := s.queue(guildID)
	q.mu.Lock()
	defer q.mu.Unlock()

	total := len(q.items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	tracks := make([]*entities.Track, end-start)
	copy(tracks, q.items[start:end])

	return &QueuePage{
		Tracks:     tracks,
		Page:       page,
		TotalPages: totalPages,
		TotalItems: total,
	}, nil
}

// NowPlaying returns the track currently handed to the sink, or nil.
func (s *PlaybackService) NowPlaying(guildID int64) *entities.Track {
	q := s.queue(guildID)
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.playing
}

// Clear discards the guild's queue and invalidates any in-flight
// resolution for it.
func (s *PlaybackService) Clear(guildID int64) {
	q := s.queue(guildID)
	q.mu.Lock()
	q.items = nil
	q.playing = nil
	q.gen++
	q.mu.Unlock()
}

// Stop clears the guild's queue and stops the sink. The sink's completion
// callback may still fire for the interrupted track; the resulting Advance
// finds an empty queue and is harmless.
func (s *PlaybackService) Stop(guildID int64) {
	s.Clear(guildID)
	s.sink.Stop(guildID)
}

// Skip stops the current track only; the sink's completion callback drives
// the advance to the next item.
func (s *PlaybackService) Skip(guildID int64) bool {
	q := s.queue(guildID)
	q.mu.Lock()
	playing := q.playing != nil
	q.mu.Unlock()
	if playing {
		s.sink.Stop(guildID)
	}
	return playing
}
