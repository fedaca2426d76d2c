package henrikdev

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Account is the profile portion of a player lookup.
type Account struct {
	Name         string `json:"name"`
	Tag          string `json:"tag"`
	Region       string `json:"region"`
	AccountLevel int    `json:"account_level"`
	Card         struct {
		Small string `json:"small"`
		Wide  string `json:"wide"`
	} `json:"card"`
}

// MMR is the competitive portion of a player lookup. Zero values mean
// the player is unranked or inactive.
type MMR struct {
	CurrentTier   string
	RankingInTier int
	Elo           int
	LastChange    int
	RankIconURL   string
}

// PlayerStats bundles both lookups for one Riot ID.
type PlayerStats struct {
	Account Account
	MMR     MMR
}

// Client queries the HenrikDev Valorant API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a player stats client.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type accountResponse struct {
	Data Account `json:"data"`
}

type mmrResponse struct {
	Status int `json:"status"`
	Data   struct {
		CurrentData struct {
			CurrentTierPatched string `json:"currenttierpatched"`
			RankingInTier      int    `json:"ranking_in_tier"`
			Elo                int    `json:"elo"`
			MMRChangeToLast    int    `json:"mmr_change_to_last_game"`
			Images             struct {
				Small string `json:"small"`
			} `json:"images"`
		} `json:"current_data"`
	} `json:"data"`
}

// Lookup fetches account and rank data for a Name#Tag pair. A missing
// MMR record is not an error; the player is reported as unranked.
func (c *Client) Lookup(ctx context.Context, name, tag string) (*PlayerStats, error) {
	account, err := c.account(ctx, name, tag)
	if err != nil {
		return nil, err
	}

	region := account.Region
	if region == "" {
		region = "ap"
	}

	stats := &PlayerStats{
		Account: *account,
		MMR:     MMR{CurrentTier: "Unranked"},
	}

	mmr, err := c.mmr(ctx, region, name, tag)
	if err == nil && mmr != nil {
		stats.MMR = *mmr
	}

	return stats, nil
}

func (c *Client) account(ctx context.Context, name, tag string) (*Account, error) {
	endpoint := fmt.Sprintf("%s/valorant/v1/account/%s/%s",
		c.baseURL, url.PathEscape(name), url.PathEscape(tag))

	var parsed accountResponse
	if err := c.get(ctx, endpoint, &parsed); err != nil {
		return nil, fmt.Errorf("failed to look up account %s#%s: %w", name, tag, err)
	}
	return &parsed.Data, nil
}

func (c *Client) mmr(ctx context.Context, region, name, tag string) (*MMR, error) {
	endpoint := fmt.Sprintf("%s/valorant/v2/mmr/%s/%s/%s",
		c.baseURL, url.PathEscape(region), url.PathEscape(name), url.PathEscape(tag))

	var parsed mmrResponse
	if err := c.get(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	current := parsed.Data.CurrentData
	if current.CurrentTierPatched == "" {
		return nil, nil
	}

	return &MMR{
		CurrentTier:   current.CurrentTierPatched,
		RankingInTier: current.RankingInTier,
		Elo:           current.Elo,
		LastChange:    current.MMRChangeToLast,
		RankIconURL:   current.Images.Small,
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lookup returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
