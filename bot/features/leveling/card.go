package leveling

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"

	"shirokane/bot/common"
	"shirokane/domain/entities"
)

const (
	cardWidth     = 380
	cardPadding   = 15
	cardRowHeight = 26
)

// LeaderboardCardGenerator renders the top-XP table as a PNG.
type LeaderboardCardGenerator struct{}

// NewLeaderboardCardGenerator creates a card generator.
func NewLeaderboardCardGenerator() *LeaderboardCardGenerator {
	return &LeaderboardCardGenerator{}
}

// Generate renders users in rank order. usernames maps Discord IDs to
// display names.
func (g *LeaderboardCardGenerator) Generate(users []*entities.UserProgress, usernames map[int64]string) (*bytes.Reader, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("row_count", len(users)).
			Debug("Leaderboard card generation completed")
	}()

	height := 25 + 30 + len(users)*cardRowHeight + 15

	dc := gg.NewContext(cardWidth, height)
	dc.SetFillRule(gg.FillRuleWinding)

	// Dark vertical gradient background.
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		dc.SetRGB(0.02+t*0.03, 0.02+t*0.05, 0.05+t*0.1)
		dc.DrawLine(0, float64(y), cardWidth, float64(y))
		dc.Stroke()
	}

	face, err := loadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetFontFace(face)

	headerXs := []float64{cardPadding, cardPadding + 26, cardPadding + 160, cardPadding + 205, cardPadding + 280}
	headers := []string{"#", "User", "Lvl", "XP", "Progress"}

	y := 25.0
	dc.SetRGBA(0.3, 0.3, 0.4, 0.4)
	dc.DrawRectangle(0, y-15, cardWidth, 20)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for i, header := range headers {
		drawSharpText(dc, header, headerXs[i], y)
	}

	dc.SetRGBA(0.6, 0.6, 0.7, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, cardWidth, y+8)
	dc.Stroke()

	y += 30
	for i, user := range users {
		drawRowBackground(dc, i, y)
		drawRankMarker(dc, face, i, y)

		name := usernames[user.DiscordID]
		if name == "" {
			name = fmt.Sprintf("User%d", user.DiscordID)
		}
		if len(name) > 15 {
			name = name[:14] + "…"
		}

		dc.SetRGB(1, 1, 1)
		drawSharpText(dc, name, headerXs[1], y)

		dc.SetRGB(0.85, 1.0, 0.85)
		drawSharpText(dc, fmt.Sprintf("%d", user.Level), headerXs[2], y)

		dc.SetRGB(0.85, 0.85, 1.0)
		drawSharpText(dc, common.FormatXP(user.XP), headerXs[3], y)

		drawProgressBar(dc, headerXs[4], y-9, 80, 8, user.ProgressPercent())

		y += cardRowHeight
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return bytes.NewReader(buf.Bytes()), nil
}

// drawRowBackground paints the medal tint for the top three and a
// subtle stripe for everyone else.
func drawRowBackground(dc *gg.Context, index int, y float64) {
	switch index {
	case 0:
		dc.SetRGBA(1, 0.84, 0, 0.1)
	case 1:
		dc.SetRGBA(0.8, 0.8, 0.8, 0.08)
	case 2:
		dc.SetRGBA(0.8, 0.5, 0.2, 0.06)
	default:
		dc.SetRGBA(0.5, 0.5, 0.6, 0.02)
	}
	dc.DrawRectangle(0, y-15, cardWidth, cardRowHeight)
	dc.Fill()
}

// drawRankMarker draws a medal circle for the top three and a plain
// number otherwise.
func drawRankMarker(dc *gg.Context, face font.Face, index int, y float64) {
	if index < 3 {
		var red, green, blue float64
		switch index {
		case 0:
			red, green, blue = 1, 0.84, 0
		case 1:
			red, green, blue = 0.75, 0.75, 0.75
		case 2:
			red, green, blue = 0.8, 0.5, 0.2
		}
		dc.SetRGB(red, green, blue)
		dc.DrawCircle(cardPadding+3, y-4, 5)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		rankFace, _ := loadFont(gobold.TTF, 9)
		dc.SetFontFace(rankFace)
		dc.DrawStringAnchored(fmt.Sprintf("%d", index+1), cardPadding+3, y-5, 0.5, 0.4)
		dc.SetFontFace(face)
		return
	}

	dc.SetRGB(0.85, 0.85, 0.9)
	drawSharpText(dc, fmt.Sprintf("%d", index+1), cardPadding, y)
}

// drawProgressBar renders the xp progress toward the next level.
func drawProgressBar(dc *gg.Context, x, y, width, height, percent float64) {
	dc.SetRGBA(0.3, 0.3, 0.4, 0.6)
	dc.DrawRoundedRectangle(x, y, width, height, 3)
	dc.Fill()

	if percent > 0 {
		filled := width * percent / 100
		if filled < height {
			filled = height // keep the rounded ends visible
		}
		dc.SetRGB(0.2, 0.6, 0.95)
		dc.DrawRoundedRectangle(x, y, filled, height, 3)
		dc.Fill()
	}
}

// drawSharpText draws text with a subtle shadow for perceived sharpness.
func drawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()

	dc.DrawString(text, x, y)
}

// loadFont loads a font face from embedded TTF data.
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	}), nil
}
