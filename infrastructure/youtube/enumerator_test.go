package youtube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPlaylistURL(t *testing.T) {
	assert.True(t, isPlaylistURL("https://www.youtube.com/playlist?list=PL123"))
	assert.True(t, isPlaylistURL("https://www.youtube.com/watch?v=abc&list=PL123"))
	assert.False(t, isPlaylistURL("https://www.youtube.com/watch?v=abc"))
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://youtu.be/abc"))
	assert.True(t, isURL("http://example.com"))
	assert.False(t, isURL("lorelei night tales"))
}

func TestEnumerate_DirectURLPassesThroughUnresolved(t *testing.T) {
	enumerator := NewEnumerator()

	tracks, err := enumerator.Enumerate(context.Background(), "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", tracks[0].PageURL)
	assert.False(t, tracks[0].Resolved())
	assert.NotEmpty(t, tracks[0].ID)
}

func TestEnumerate_EmptyQuery(t *testing.T) {
	enumerator := NewEnumerator()

	_, err := enumerator.Enumerate(context.Background(), "   ")
	assert.Error(t, err)
}
