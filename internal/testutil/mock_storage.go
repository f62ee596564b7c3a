//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/pinochle/internal/server/storage"
)

// MockStore 牌局存储 mock，实现 room.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveGame(ctx context.Context, rec *storage.GameRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) LoadGame(ctx context.Context, code string) (*storage.GameRecord, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.GameRecord), args.Error(1)
}

func (m *MockStore) DeleteGame(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// MockLeaderboard 排行榜 mock，实现 room.Recorder
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) RecordBid(ctx context.Context, name string, made bool) error {
	args := m.Called(ctx, name, made)
	return args.Error(0)
}

func (m *MockLeaderboard) RecordGameResult(ctx context.Context, name string, isWinner bool) error {
	args := m.Called(ctx, name, isWinner)
	return args.Error(0)
}
