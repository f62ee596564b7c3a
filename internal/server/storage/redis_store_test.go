package storage

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/bot"
	"github.com/palemoky/pinochle/internal/game/seat"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func playedGame(t *testing.T, rules game.Rules, steps int) *game.Game {
	t.Helper()
	g := game.New(77, [seat.Count]string{"Ann", "Bo", "Cy", "Di"}, rules)
	for range steps {
		s, action, ok := bot.Choose(g)
		require.True(t, ok)
		_, err := g.Apply(s, action)
		require.NoError(t, err)
	}
	return g
}

func TestRedisStore_SaveLoadDeleteGame(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	rules := game.ClassicRules()
	g := playedGame(t, rules, 40)
	rec := &GameRecord{Code: "T1", Rules: rules, FullState: g.FullState(), UpdatedAt: 42}

	require.NoError(t, store.SaveGame(ctx, rec))
	assert.True(t, mr.Exists("game:T1"))
	assert.Equal(t, gameExpiration, mr.TTL("game:T1"))

	loaded, err := store.LoadGame(ctx, "T1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, rules, loaded.Rules)
	assert.Equal(t, int64(42), loaded.UpdatedAt)

	replayed, err := game.FromFullState(loaded.FullState, loaded.Rules)
	require.NoError(t, err)
	assert.NoError(t, game.Equal(g, replayed))

	require.NoError(t, store.DeleteGame(ctx, "T1"))
	loaded, err = store.LoadGame(ctx, "T1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_SaveNil(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	assert.NoError(t, NewRedisStore(client).SaveGame(context.Background(), nil))
}

func TestRedisStore_LoadCorrupt(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	require.NoError(t, mr.Set("game:bad", "{not json"))

	_, err := NewRedisStore(client).LoadGame(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRedisStore_ListGameCodes(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	for _, code := range []string{"a", "b", "c"} {
		require.NoError(t, store.SaveGame(ctx, &GameRecord{Code: code, Rules: game.DefaultRules()}))
	}
	require.NoError(t, mr.Set("player:stats:x", "{}"))

	codes, err := store.ListGameCodes(ctx)
	require.NoError(t, err)
	slices.Sort(codes)
	assert.Equal(t, []string{"a", "b", "c"}, codes)
}

func TestRedisStore_Expiration(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.SaveGame(ctx, &GameRecord{Code: "live"}))
	assert.Equal(t, gameExpiration, mr.TTL("game:live"))

	require.NoError(t, store.SaveGame(ctx, &GameRecord{Code: "done", Finished: true}))
	assert.Equal(t, finishedExpiration, mr.TTL("game:done"))

	// 再次保存已结束的牌局不会把保留时间恢复为 24 小时
	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.SaveGame(ctx, &GameRecord{Code: "done", Finished: true}))
	assert.Equal(t, finishedExpiration, mr.TTL("game:done"))

	mr.FastForward(2 * time.Hour)
	loaded, err := store.LoadGame(ctx, "done")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	loaded, err = store.LoadGame(ctx, "live")
	assert.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	store := NewRedisStore(client)
	mr.Close()

	ctx := context.Background()
	assert.Error(t, store.SaveGame(ctx, &GameRecord{Code: "x"}))
	_, err := store.LoadGame(ctx, "x")
	assert.Error(t, err)
	_, err = store.ListGameCodes(ctx)
	assert.Error(t, err)
}
