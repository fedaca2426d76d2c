package testhelpers

import (
	"context"

	"shirokane/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockUserProgressRepository is a mock implementation of UserProgressRepository
type MockUserProgressRepository struct {
	mock.Mock
}

func (m *MockUserProgressRepository) GetOrCreate(ctx context.Context, discordID int64) (*entities.UserProgress, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProgress), args.Error(1)
}

func (m *MockUserProgressRepository) AddXP(ctx context.Context, discordID int64, amount int64) (*entities.UserProgress, error) {
	args := m.Called(ctx, discordID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProgress), args.Error(1)
}

func (m *MockUserProgressRepository) SetLevel(ctx context.Context, discordID int64, level int) (*entities.UserProgress, error) {
	args := m.Called(ctx, discordID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProgress), args.Error(1)
}

func (m *MockUserProgressRepository) Top(ctx context.Context, n int) ([]*entities.UserProgress, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.UserProgress), args.Error(1)
}

// MockRoleGranter is a mock implementation of RoleGranter
type MockRoleGranter struct {
	mock.Mock
}

func (m *MockRoleGranter) GrantRole(ctx context.Context, guildID, userID, roleID int64) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

// MockTrackEnumerator is a mock implementation of TrackEnumerator
type MockTrackEnumerator struct {
	mock.Mock
}

func (m *MockTrackEnumerator) Enumerate(ctx context.Context, query string) ([]*entities.Track, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Track), args.Error(1)
}

// MockTrackResolver is a mock implementation of TrackResolver
type MockTrackResolver struct {
	mock.Mock
}

func (m *MockTrackResolver) Resolve(ctx context.Context, pageURL string) (string, string, error) {
	args := m.Called(ctx, pageURL)
	return args.String(0), args.String(1), args.Error(2)
}

// MockAudioSink is a mock implementation of AudioSink
type MockAudioSink struct {
	mock.Mock
}

func (m *MockAudioSink) Play(guildID int64, streamURL string, done func()) error {
	args := m.Called(guildID, streamURL, done)
	return args.Error(0)
}

func (m *MockAudioSink) Stop(guildID int64) {
	m.Called(guildID)
}
