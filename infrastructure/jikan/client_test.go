package jikan

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime", r.URL.Path)
		assert.Equal(t, "bang dream", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"data": [{
			"title": "BanG Dream!",
			"title_japanese": "バンドリ！",
			"url": "https://myanimelist.net/anime/33593",
			"synopsis": "A band story.",
			"score": 7.1,
			"rank": 2000,
			"episodes": 13,
			"status": "Finished Airing",
			"rating": "PG-13",
			"images": {"jpg": {"image_url": "small.jpg", "large_image_url": "large.jpg"}}
		}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	anime, err := client.Search(context.Background(), "bang dream")
	require.NoError(t, err)
	require.NotNil(t, anime)
	assert.Equal(t, "BanG Dream!", anime.Title)
	assert.Equal(t, 13, anime.Episodes)
	assert.Equal(t, "large.jpg", anime.ImageURL())
}

func TestClient_Search_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	anime, err := client.Search(context.Background(), "no such show")
	require.NoError(t, err)
	assert.Nil(t, anime)
}

func TestClient_Random(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/random/anime", r.URL.Path)
		fmt.Fprint(w, `{"data": {"title": "Some Show", "images": {"jpg": {"image_url": "x.jpg"}}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	anime, err := client.Random(context.Background())
	require.NoError(t, err)
	require.NotNil(t, anime)
	assert.Equal(t, "Some Show", anime.Title)
	assert.Equal(t, "x.jpg", anime.ImageURL())
}

func TestClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
