package interfaces

import (
	"context"

	"shirokane/domain/entities"
)

// RoleGranter grants a privilege role to a guild member. Granting a role
// the member already holds is not an error.
type RoleGranter interface {
	GrantRole(ctx context.Context, guildID, userID, roleID int64) error
}

// TrackEnumerator turns a query or URL into an ordered list of tracks.
// Playlist entries may arrive unresolved (page URL only); unavailable
// entries are omitted silently.
type TrackEnumerator interface {
	Enumerate(ctx context.Context, query string) ([]*entities.Track, error)
}

// TrackResolver turns a lightweight page reference into a playable stream
// URL and canonical title. It fails when the content is unavailable.
type TrackResolver interface {
	Resolve(ctx context.Context, pageURL string) (streamURL, title string, err error)
}

// AudioSink plays a stream locator for a guild and invokes done exactly
// once when playback ends, whether naturally or by an explicit stop.
type AudioSink interface {
	Play(guildID int64, streamURL string, done func()) error
	Stop(guildID int64)
}
