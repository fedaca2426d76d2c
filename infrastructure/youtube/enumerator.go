package youtube

import (
	"context"
	"fmt"
	"strings"

	"shirokane/domain/entities"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"
	"github.com/ppalone/ytsearch"
	"github.com/raitonoberu/ytmusic"
	log "github.com/sirupsen/logrus"
)

const maxPlaylistItems = 100

// Enumerator turns a query or URL into an ordered list of playable
// references. Playlist entries stay lightweight; resolution to a stream
// URL is deferred until playback reaches them.
type Enumerator struct {
	searchClient *ytsearch.Client
}

// NewEnumerator creates a track enumerator.
func NewEnumerator() *Enumerator {
	return &Enumerator{
		searchClient: ytsearch.NewClient(nil),
	}
}

// Enumerate maps the input onto track references:
// playlist URLs expand to their entries, plain URLs pass through
// unresolved, and free-text queries resolve to the best search match.
func (e *Enumerator) Enumerate(ctx context.Context, query string) ([]*entities.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	if isURL(query) {
		if isPlaylistURL(query) {
			return e.expandPlaylist(ctx, query)
		}
		return []*entities.Track{newTrack("", query)}, nil
	}

	return e.search(ctx, query)
}

// expandPlaylist lists playlist entries without touching the individual
// videos. Entries the extractor omits (private, deleted) are skipped
// silently.
func (e *Enumerator) expandPlaylist(ctx context.Context, playlistURL string) ([]*entities.Track, error) {
	res, err := ytdlp.New().
		FlatPlaylist().
		Print("%(url)s\t%(title)s").
		PlaylistItems(fmt.Sprintf("1-%d", maxPlaylistItems)).
		NoWarnings().
		IgnoreConfig().
		Run(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("failed to expand playlist: %w", err)
	}

	var tracks []*entities.Track
	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		tracks = append(tracks, newTrack(parts[1], parts[0]))
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("playlist contained no playable entries")
	}
	return tracks, nil
}

// search tries the music catalog first and falls back to general video
// search, returning the single best match.
func (e *Enumerator) search(ctx context.Context, query string) ([]*entities.Track, error) {
	if track := e.searchMusic(query); track != nil {
		return []*entities.Track{track}, nil
	}

	result, err := e.searchClient.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed for %q: %w", query, err)
	}
	for _, video := range result.Results {
		if video.VideoID == "" {
			continue
		}
		return []*entities.Track{
			newTrack(video.Title, "https://www.youtube.com/watch?v="+video.VideoID),
		}, nil
	}

	return nil, fmt.Errorf("no results for %q", query)
}

func (e *Enumerator) searchMusic(query string) *entities.Track {
	result, err := ytmusic.TrackSearch(query).Next()
	if err != nil {
		log.WithError(err).WithField("query", query).Debug("Music catalog search failed")
		return nil
	}
	for _, track := range result.Tracks {
		if track.VideoID == "" {
			continue
		}
		title := track.Title
		if len(track.Artists) > 0 {
			title = track.Artists[0].Name + " - " + title
		}
		return newTrack(title, "https://music.youtube.com/watch?v="+track.VideoID)
	}
	return nil
}

func newTrack(title, pageURL string) *entities.Track {
	return &entities.Track{
		ID:      uuid.NewString(),
		Title:   title,
		PageURL: pageURL,
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isPlaylistURL(s string) bool {
	return strings.Contains(s, "list=") || strings.Contains(s, "/playlist")
}
