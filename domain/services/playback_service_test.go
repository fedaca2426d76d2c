package services

import (
	"context"
	"errors"
	"testing"

	"shirokane/domain/entities"
	"shirokane/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testGuild = int64(777)

func resolvedTrack(id, title string) *entities.Track {
	return &entities.Track{ID: id, Title: title, StreamURL: "https://stream.example/" + id}
}

func pendingTrack(id, title string) *entities.Track {
	return &entities.Track{ID: id, Title: title, PageURL: "https://page.example/" + id}
}

func TestPlaybackService_Advance_EmptyQueue(t *testing.T) {
	t.Parallel()

	resolver := new(testhelpers.MockTrackResolver)
	sink := new(testhelpers.MockAudioSink)
	service := NewPlaybackService(resolver, sink)

	result, err := service.Advance(context.Background(), testGuild, func() {})

	require.NoError(t, err)
	assert.Equal(t, AdvanceQueueEmpty, result.Outcome)
	assert.Nil(t, result.Track)
	assert.Empty(t, result.Skipped)

	// No mutation: a second call behaves identically.
	result, err = service.Advance(context.Background(), testGuild, func() {})
	require.NoError(t, err)
	assert.Equal(t, AdvanceQueueEmpty, result.Outcome)

	resolver.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestPlaybackService_Advance_ResolvedHead(t *testing.T) {
	t.Parallel()

	resolver := new(testhelpers.MockTrackResolver)
	sink := new(testhelpers.MockAudioSink)
	sink.On("Play", testGuild, "https://stream.example/a", mock.Anything).Return(nil)

	service := NewPlaybackService(resolver, sink)
	service.EnqueueMany(testGuild, []*entities.Track{resolvedTrack("a", "Song A")})

	result, err := service.Advance(context.Background(), testGuild, func() {})

	require.NoError(t, err)
	assert.Equal(t, AdvanceNowPlaying, result.Outcome)
	assert.Equal(t, "Song A", result.Track.Title)
	assert.Equal(t, result.Track, service.NowPlaying(testGuild))

	sink.AssertExpectations(t)
}

func TestPlaybackService_Advance_LazyResolution(t *testing.T) {
	t.Parallel()

	resolver := new(testhelpers.MockTrackResolver)
	resolver.On("Resolve", mock.Anything, "https://page.example/a").
		Return("https://stream.example/a", "Canonical Title", nil)
	sink := new(testhelpers.MockAudioSink)
	sink.On("Play", testGuild, "https://stream.example/a", mock.Anything).Return(nil)

	service := NewPlaybackService(resolver, sink)
	service.EnqueueMany(testGuild, []*entities.Track{pendingTrack("a", "flat title")})

	result, err := service.Advance(context.Background(), testGuild, func() {})

	require.NoError(t, err)
	assert.Equal(t, AdvanceNowPlaying, result.Outcome)
	assert.Equal(t, "Canonical Title", result.Track.Title)
	assert.True(t, result.Track.Resolved())

	resolver.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestPlaybackService_Advance_SkipsFailingItems(t *testing.T) {
	t.Parallel()

	// A and B fail resolution, C succeeds: one drain produces
	// skip A, skip B, now playing C, and an empty queue afterward.
	resolver := new(testhelpers.MockTrackResolver)
	resolver.On("Resolve", mock.Anything, "https://page.example/a").
		Return("", "", errors.New("video unavailable"))
	resolver.On("Resolve", mock.Anything, "https://page.example/b").
		Return("", "", errors.New("video unavailable"))
	resolver.On("Resolve", mock.Anything, "https://page.example/c").
		Return("https://stream.example/c", "Song C", nil)
	sink := new(testhelpers.MockAudioSink)
	sink.On("Play", testGuild, "https://stream.example/c", mock.Anything).Return(nil)

	service := NewPlaybackService(resolver, sink)
	service.EnqueueMany(testGuild, []*entities.Track{
		pendingTrack("a", "Song A"),
		pendingTrack("b", "Song B"),
		pendingTrack("c", "Song C"),
	})

	result, err := service.Advance(context.Background(), testGuild, func() {})

	require.NoError(t, err)
	assert.Equal(t, AdvanceNowPlaying, result.Outcome)
	assert.Equal(t, "Song C", result.Track.Title)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "Song A", result.Skipped[0].Title)
	assert.Equal(t, "Song B", result.Skipped[1].Title)

	page, err := service.PeekPage(testGuild, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalItems)
}

func TestPlaybackService_Advance_EntireQueueFails(t *testing.T) {
	t.Parallel()

	resolver := new(testhelpers.MockTrackResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).
		Return("", "", errors.New("video unavailable"))
	sink := new(testhelpers.MockAudioSink)

	service := NewPlaybackService(resolver, sink)
	service.EnqueueMany(testGuild, []*entities.Track{
		pendingTrack("a", "Song A"),
		pendingTrack("b", "Song B"),
	})

	result, err := service.Advance(context.Background(), testGuild, func() {})

	require.NoError(t, err)
	assert.Equal(t, AdvanceQueueEmpty, result.Outcome)
	assert.Len(t, result.Skipped, 2)
	sink.AssertNotCalled(t, "Play", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaybackService_Advance_StaleResolutionDiscarded(t *testing.T) {
	t.Parallel()

	service := &PlaybackService{queues: make(map[int64]*guildQueue)}
	resolver := new(testhelpers.MockTrackResolver)
	resolver.On("Resolve", mock.Anything, "https://page.example/a").
		Run(func(mock.Arguments) {
			// The session is torn down while the resolution is in flight.
			service.Clear(testGuild)
		}).
		Return("https://stream.example/a", "Song A", nil)
	sink := new(testhelpers.MockAudioSink)
	service.resolver = resolver
	service.sink = sink

	service.EnqueueMany(testGuild, []*entities.Track{pendingTrack("a", "Song A")})

	result, err := service.Advance(context.Background(), testGuild, func() {})

	require.NoError(t, err)
	assert.Equal(t, AdvanceCancelled, result.Outcome)
	sink.AssertNotCalled(t, "Play", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaybackService_EnqueuePreservesOrder(t *testing.T) {
	t.Parallel()

	service := NewPlaybackService(new(testhelpers.MockTrackResolver), new(testhelpers.MockAudioSink))
	service.EnqueueMany(testGuild, []*entities.Track{
		resolvedTrack("a", "Song A"),
		resolvedTrack("b", "Song B"),
	})
	service.EnqueueMany(testGuild, []*entities.Track{resolvedTrack("c", "Song C")})

	page, err := service.PeekPage(testGuild, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Tracks, 3)
	assert.Equal(t, "Song A", page.Tracks[0].Title)
	assert.Equal(t, "Song B", page.Tracks[1].Title)
	assert.Equal(t, "Song C", page.Tracks[2].Title)
}

func TestPlaybackService_PeekPage(t *testing.T) {
	t.Parallel()

	service := NewPlaybackService(new(testhelpers.MockTrackResolver), new(testhelpers.MockAudioSink))
	tracks := make([]*entities.Track, 0, 25)
	for i := 0; i < 25; i++ {
		tracks = append(tracks, resolvedTrack(string(rune('a'+i)), "Song"))
	}
	service.EnqueueMany(testGuild, tracks)

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantCount int
	}{
		{"first page", 1, 1, 10},
		{"middle page", 2, 2, 10},
		{"last partial page", 3, 3, 5},
		{"out of range clamps to last", 99, 3, 5},
		{"zero clamps to first", 0, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page, err := service.PeekPage(testGuild, tt.page, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Len(t, page.Tracks, tt.wantCount)
			assert.Equal(t, 3, page.TotalPages)
			assert.Equal(t, 25, page.TotalItems)
		})
	}
}

func TestPlaybackService_PeekPage_ClampOnShortQueue(t *testing.T) {
	t.Parallel()

	service := NewPlaybackService(new(testhelpers.MockTrackResolver), new(testhelpers.MockAudioSink))
	service.EnqueueMany(testGuild, []*entities.Track{
		resolvedTrack("a", "Song A"),
		resolvedTrack("b", "Song B"),
		resolvedTrack("c", "Song C"),
	})

	first, err := service.PeekPage(testGuild, 1, 10)
	require.NoError(t, err)
	clamped, err := service.PeekPage(testGuild, 99, 10)
	require.NoError(t, err)

	assert.Equal(t, first.Page, clamped.Page)
	assert.Equal(t, first.Tracks, clamped.Tracks)
	assert.Len(t, clamped.Tracks, 3)
}

func TestPlaybackService_StopClearsQueue(t *testing.T) {
	t.Parallel()

	sink := new(testhelpers.MockAudioSink)
	sink.On("Play", testGuild, mock.Anything, mock.Anything).Return(nil)
	sink.On("Stop", testGuild).Return()

	service := NewPlaybackService(new(testhelpers.MockTrackResolver), sink)
	service.EnqueueMany(testGuild, []*entities.Track{
		resolvedTrack("a", "Song A"),
		resolvedTrack("b", "Song B"),
	})

	_, err := service.Advance(context.Background(), testGuild, func() {})
	require.NoError(t, err)

	service.Stop(testGuild)

	assert.Nil(t, service.NowPlaying(testGuild))
	page, err := service.PeekPage(testGuild, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalItems)
	sink.AssertCalled(t, "Stop", testGuild)
}

func TestPlaybackService_SkipOnlyWhenPlaying(t *testing.T) {
	t.Parallel()

	sink := new(testhelpers.MockAudioSink)
	sink.On("Play", testGuild, mock.Anything, mock.Anything).Return(nil)
	sink.On("Stop", testGuild).Return()

	service := NewPlaybackService(new(testhelpers.MockTrackResolver), sink)

	assert.False(t, service.Skip(testGuild), "skip with nothing playing")

	service.EnqueueMany(testGuild, []*entities.Track{resolvedTrack("a", "Song A")})
	_, err := service.Advance(context.Background(), testGuild, func() {})
	require.NoError(t, err)

	assert.True(t, service.Skip(testGuild))
}
