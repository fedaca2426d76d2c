package entities

// Track is a single queued audio item. Items enumerated from a playlist
// carry only a page URL and must be resolved to a stream URL before
// playback; items from a direct lookup arrive fully resolved.
type Track struct {
	ID          string // correlation ID for logging
	Title       string
	PageURL     string // lightweight reference, set for unresolved items
	StreamURL   string // ready-to-play locator, empty until resolved
	RequesterID int64
}

// Resolved reports whether the track already carries a playable stream URL.
func (t *Track) Resolved() bool {
	return t.StreamURL != ""
}
