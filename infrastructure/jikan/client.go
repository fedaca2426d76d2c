package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
)

// Anime holds the fields rendered in lookup embeds.
type Anime struct {
	Title         string `json:"title"`
	TitleEnglish  string `json:"title_english"`
	TitleJapanese string `json:"title_japanese"`
	URL           string `json:"url"`
	Synopsis      string `json:"synopsis"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank"`
	Episodes      int     `json:"episodes"`
	Status        string  `json:"status"`
	Rating        string  `json:"rating"`
	Images        struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

// ImageURL returns the best available cover image.
func (a *Anime) ImageURL() string {
	if a.Images.JPG.LargeImageURL != "" {
		return a.Images.JPG.LargeImageURL
	}
	return a.Images.JPG.ImageURL
}

// Client queries the Jikan (MyAnimeList) REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an anime lookup client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type listResponse struct {
	Data []*Anime `json:"data"`
}

type singleResponse struct {
	Data *Anime `json:"data"`
}

// Search returns the best match for a title query, or nil when nothing
// matched.
func (c *Client) Search(ctx context.Context, query string) (*Anime, error) {
	endpoint := fmt.Sprintf("%s/anime?q=%s&limit=1", c.baseURL, url.QueryEscape(query))

	var parsed listResponse
	if err := c.get(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, nil
	}
	return parsed.Data[0], nil
}

// Random returns an arbitrary anime from the full catalog.
func (c *Client) Random(ctx context.Context) (*Anime, error) {
	var parsed singleResponse
	if err := c.get(ctx, c.baseURL+"/random/anime", &parsed); err != nil {
		return nil, err
	}
	return parsed.Data, nil
}

// TopPick returns a random entry from one of the first few pages of the
// top-rated list. Mixes quality with variety for recommendations.
func (c *Client) TopPick(ctx context.Context) (*Anime, error) {
	page := rand.Intn(4) + 1
	endpoint := fmt.Sprintf("%s/top/anime?page=%d", c.baseURL, page)

	var parsed listResponse
	if err := c.get(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, nil
	}
	return parsed.Data[rand.Intn(len(parsed.Data))], nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("anime lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anime lookup returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode anime lookup response: %w", err)
	}
	return nil
}
