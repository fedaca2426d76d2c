package youtube

import (
	"context"
	"fmt"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// Resolver turns a page URL into a direct audio stream URL and the
// canonical title. Failures are expected for removed or region-locked
// content; the queue skips such items.
type Resolver struct{}

// NewResolver creates a track resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve extracts the best audio stream locator for the page.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (string, string, error) {
	res, err := ytdlp.New().
		Print("%(urls)s\t%(title)s").
		Format("bestaudio[ext=webm]/bestaudio").
		NoPlaylist().
		NoCheckFormats().
		NoWarnings().
		IgnoreConfig().
		Run(ctx, "--skip-download", pageURL)
	if err != nil {
		return "", "", fmt.Errorf("content unavailable: %w", err)
	}

	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		return parts[0], parts[1], nil
	}

	return "", "", fmt.Errorf("content unavailable: no stream found for %s", pageURL)
}
