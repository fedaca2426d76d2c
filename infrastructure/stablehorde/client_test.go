package stablehorde

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", server.Client(), timeout)
	client.pollInterval = 10 * time.Millisecond
	return client, server
}

func TestClient_Generate_Success(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()

	var serverURL string
	mux.HandleFunc("/generate/async", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"id": "job-1"}`)
	})
	mux.HandleFunc("/generate/status/job-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			fmt.Fprint(w, `{"done": false, "queue_position": 2, "wait_time": 10}`)
			return
		}
		fmt.Fprintf(w, `{"done": true, "generations": [{"img": "%s/image.png"}]}`, serverURL)
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	})

	client, server := newTestClient(t, mux, 5*time.Second)
	serverURL = server.URL

	var progressSeen atomic.Int32
	data, err := client.Generate(context.Background(), "girl with silver hair", func(p Progress) {
		progressSeen.Add(1)
		assert.Equal(t, 2, p.QueuePosition)
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.GreaterOrEqual(t, progressSeen.Load(), int32(1))
}

func TestClient_Generate_Timeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate/async", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"id": "job-2"}`)
	})
	mux.HandleFunc("/generate/status/job-2", func(w http.ResponseWriter, r *http.Request) {
		// Never finishes.
		fmt.Fprint(w, `{"done": false, "queue_position": 99, "wait_time": 600}`)
	})

	client, _ := newTestClient(t, mux, 100*time.Millisecond)

	_, err := client.Generate(context.Background(), "anything", nil)
	assert.ErrorIs(t, err, ErrGenerationTimeout)
}

func TestClient_Generate_SubmitRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate/async", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "invalid api key"}`)
	})

	client, _ := newTestClient(t, mux, time.Second)

	_, err := client.Generate(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGenerationTimeout)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_Generate_FaultedJob(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate/async", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"id": "job-3"}`)
	})
	mux.HandleFunc("/generate/status/job-3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"done": false, "faulted": true}`)
	})

	client, _ := newTestClient(t, mux, time.Second)

	_, err := client.Generate(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGenerationTimeout)
	assert.Contains(t, err.Error(), "faulted")
}
