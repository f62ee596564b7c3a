package storage

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeaderboard(t *testing.T) (*LeaderboardManager, *quartz.Mock) {
	t.Helper()
	client, _ := newTestClient(t)
	clock := quartz.NewMock(t)
	return NewLeaderboardManager(client, clock), clock
}

func TestLeaderboard_RecordGameResult(t *testing.T) {
	t.Parallel()

	lm, _ := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lm.RecordGameResult(ctx, "Ann", true))
	require.NoError(t, lm.RecordGameResult(ctx, "Ann", true))
	require.NoError(t, lm.RecordGameResult(ctx, "Ann", false))

	stats, err := lm.GetPlayerStats(ctx, "Ann")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.TotalGames)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, -1, stats.CurrentStreak)
	assert.Equal(t, 2, stats.MaxWinStreak)
	assert.Equal(t, WinGame*2+LoseGame, stats.Score)
	assert.InDelta(t, 66.67, stats.WinRate(), 0.01)
}

func TestLeaderboard_ScoreNeverNegative(t *testing.T) {
	t.Parallel()

	lm, _ := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lm.RecordGameResult(ctx, "Bo", false))
	stats, err := lm.GetPlayerStats(ctx, "Bo")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Score)
	assert.Equal(t, -1, stats.CurrentStreak)
}

func TestLeaderboard_StreakBonus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		streak int
		want   int
	}{
		{1, 0}, {2, 0}, {3, StreakBonus3}, {4, StreakBonus3},
		{5, StreakBonus5}, {9, StreakBonus5}, {10, StreakBonus10}, {15, StreakBonus10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, streakBonus(tt.streak), "streak %d", tt.streak)
	}
}

func TestLeaderboard_SkipsUnnamed(t *testing.T) {
	t.Parallel()

	lm, _ := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lm.RecordGameResult(ctx, "", true))
	require.NoError(t, lm.RecordBid(ctx, "", true))
	entries, err := lm.GetLeaderboard(ctx, BoardTotal, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboard_RecordBid(t *testing.T) {
	t.Parallel()

	lm, _ := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lm.RecordBid(ctx, "Cy", true))
	require.NoError(t, lm.RecordBid(ctx, "Cy", false))
	require.NoError(t, lm.RecordBid(ctx, "Cy", true))

	stats, err := lm.GetPlayerStats(ctx, "Cy")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.BidsWon)
	assert.Equal(t, 2, stats.BidsMade)
	assert.Equal(t, 1, stats.BidsSet)
	assert.Zero(t, stats.TotalGames)
}

func TestLeaderboard_Ranking(t *testing.T) {
	t.Parallel()

	lm, _ := newTestLeaderboard(t)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, lm.RecordGameResult(ctx, "Ann", true))
	}
	require.NoError(t, lm.RecordGameResult(ctx, "Bo", true))
	require.NoError(t, lm.RecordGameResult(ctx, "Cy", false))

	for _, board := range []string{BoardTotal, BoardDaily, BoardWeekly} {
		entries, err := lm.GetLeaderboard(ctx, board, 2)
		require.NoError(t, err, board)
		require.Len(t, entries, 2, board)
		assert.Equal(t, "Ann", entries[0].Stats.Name)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, WinGame*3+StreakBonus3, entries[0].Score)
		assert.Equal(t, "Bo", entries[1].Stats.Name)
	}

	rank, err := lm.GetPlayerRank(ctx, "Cy")
	require.NoError(t, err)
	assert.Equal(t, int64(3), rank)

	rank, err = lm.GetPlayerRank(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rank)

	entries, err := lm.GetLeaderboard(ctx, BoardTotal, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboard_DailyBoardRollsOver(t *testing.T) {
	t.Parallel()

	lm, clock := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lm.RecordGameResult(ctx, "Di", true))
	today := lm.boardKey(BoardDaily)

	clock.Advance(25 * time.Hour)
	assert.NotEqual(t, today, lm.boardKey(BoardDaily))

	entries, err := lm.GetLeaderboard(ctx, BoardDaily, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = lm.GetLeaderboard(ctx, BoardTotal, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
