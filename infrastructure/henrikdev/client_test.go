package henrikdev

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Lookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/valorant/v1/account/Ezra/123", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"data": {
			"name": "Ezra", "tag": "123", "region": "ap", "account_level": 87,
			"card": {"small": "s.png", "wide": "w.png"}
		}}`)
	})
	mux.HandleFunc("/valorant/v2/mmr/ap/Ezra/123", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": 200, "data": {"current_data": {
			"currenttierpatched": "Diamond 2",
			"ranking_in_tier": 44,
			"elo": 1844,
			"mmr_change_to_last_game": -12,
			"images": {"small": "rank.png"}
		}}}`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "secret", server.Client())
	stats, err := client.Lookup(context.Background(), "Ezra", "123")
	require.NoError(t, err)
	assert.Equal(t, 87, stats.Account.AccountLevel)
	assert.Equal(t, "Diamond 2", stats.MMR.CurrentTier)
	assert.Equal(t, -12, stats.MMR.LastChange)
	assert.Equal(t, "rank.png", stats.MMR.RankIconURL)
}

func TestClient_Lookup_Unranked(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/valorant/v1/account/New/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"name": "New", "tag": "1", "region": "eu", "account_level": 3,
			"card": {"small": "s.png", "wide": "w.png"}}}`)
	})
	mux.HandleFunc("/valorant/v2/mmr/eu/New/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "secret", server.Client())
	stats, err := client.Lookup(context.Background(), "New", "1")
	require.NoError(t, err)
	assert.Equal(t, "Unranked", stats.MMR.CurrentTier)
	assert.Zero(t, stats.MMR.Elo)
}

func TestClient_Lookup_AccountNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", server.Client())
	_, err := client.Lookup(context.Background(), "Ghost", "404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ghost#404")
}
