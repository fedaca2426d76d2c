package blackbox

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shirokane/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Ask_TextReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("text"))
		assert.Equal(t, "key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{"status": true, "message": "Rinko: ano... halo!"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", server.Client())
	reply, err := client.Ask(context.Background(), "halo", nil)
	require.NoError(t, err)
	assert.Equal(t, entities.ChatReplyText, reply.Kind)
	assert.Equal(t, "ano... halo!", reply.Text)
}

func TestClient_Ask_TextAndImageReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": true, "message": "ini dia", "image": "https://img.example/x.png"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", server.Client())
	reply, err := client.Ask(context.Background(), "gambar dong", nil)
	require.NoError(t, err)
	assert.Equal(t, entities.ChatReplyTextAndImage, reply.Kind)
	assert.Equal(t, "ini dia", reply.Text)
	assert.Equal(t, "https://img.example/x.png", reply.ImageURL)
}

func TestClient_Ask_EmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": true, "message": ""}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", server.Client())
	reply, err := client.Ask(context.Background(), "...", nil)
	require.NoError(t, err)
	assert.Equal(t, entities.ChatReplyEmpty, reply.Kind)
}

func TestClient_Ask_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": false, "message": ""}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", server.Client())
	_, err := client.Ask(context.Background(), "halo", nil)
	assert.Error(t, err)
}

func TestConversationMemory_Bounded(t *testing.T) {
	memory := NewConversationMemory(4)

	for i := 0; i < 10; i++ {
		memory.RecordUser(1, fmt.Sprintf("msg %d", i))
	}

	history := memory.History(1)
	require.Len(t, history, 4)
	assert.Equal(t, "User: msg 6", history[0])
	assert.Equal(t, "User: msg 9", history[3])
}

func TestConversationMemory_ResetAndIsolation(t *testing.T) {
	memory := NewConversationMemory(10)
	memory.RecordUser(1, "hi")
	memory.RecordReply(1, "hello")
	memory.RecordUser(2, "yo")

	require.Len(t, memory.History(1), 2)

	memory.Reset(1)
	assert.Empty(t, memory.History(1))
	assert.Len(t, memory.History(2), 1)
}
