package game_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/bot"
	"github.com/palemoky/pinochle/internal/game/seat"
)

var names = [seat.Count]string{"Ann", "Bo", "Cy", "Di"}

// drive 用机器人推进最多 steps 个动作
func drive(t *testing.T, g *game.Game, steps int) {
	t.Helper()
	for range steps {
		s, action, ok := bot.Choose(g)
		if !ok {
			return
		}
		_, err := g.Apply(s, action)
		require.NoError(t, err, "bot chose an illegal action: %s %+v", s, action)
	}
}

func TestReplay_ReproducesState(t *testing.T) {
	t.Parallel()

	for _, steps := range []int{0, 1, 5, 13, 30, 60, 200} {
		g := game.New(2024, names, game.DefaultRules())
		drive(t, g, steps)

		replayed, err := game.FromFullState(g.FullState(), game.DefaultRules())
		require.NoError(t, err)
		assert.NoError(t, game.Equal(g, replayed), "steps=%d", steps)
		assert.NoError(t, g.Verify())
	}
}

func TestReplay_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	g := game.New(99, names, game.DefaultRules())
	drive(t, g, 80)

	data, err := json.Marshal(g.FullState())
	require.NoError(t, err)

	var fs game.FullState
	require.NoError(t, json.Unmarshal(data, &fs))
	assert.Equal(t, int64(99), fs.Seed)
	assert.Equal(t, names, fs.PlayerNames)
	assert.Len(t, fs.Actions, g.Snapshot().ActionCount)

	replayed, err := game.FromFullState(fs, game.DefaultRules())
	require.NoError(t, err)
	assert.NoError(t, game.Equal(g, replayed))
}

func TestReplay_Mismatch(t *testing.T) {
	t.Parallel()

	g := game.New(5, names, game.DefaultRules())
	drive(t, g, 20)

	fs := g.FullState()
	fs.Actions[3].Seat = fs.Actions[3].Seat.Next()

	_, err := game.FromFullState(fs, game.DefaultRules())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrReplayMismatch)

	var gameErr *apperrors.GameError
	require.ErrorAs(t, err, &gameErr)
	assert.Equal(t, apperrors.KindReplayMismatch, gameErr.Kind)
}

func TestReplay_DifferentSeedDiverges(t *testing.T) {
	t.Parallel()

	g := game.New(5, names, game.DefaultRules())
	drive(t, g, 40)

	fs := g.FullState()
	fs.Seed = 6
	replayed, err := game.FromFullState(fs, game.DefaultRules())
	if err == nil {
		assert.ErrorIs(t, game.Equal(g, replayed), apperrors.ErrReplayMismatch)
		return
	}
	assert.ErrorIs(t, err, apperrors.ErrReplayMismatch)
}

func TestFullGame_ToTarget(t *testing.T) {
	t.Parallel()

	for name, rules := range map[string]game.Rules{
		"default": game.DefaultRules(),
		"classic": game.ClassicRules(),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rules.Scoring.TargetScore = 500
			rules.Bidding = game.UntilThreePasses

			g := game.New(31337, names, rules)
			drive(t, g, 5000)

			snap := g.Snapshot()
			require.True(t, snap.Over(), "game should reach the target: %s", g)

			totals := [2]int{}
			for _, r := range snap.History {
				scores := r.Result.Scores()
				totals[0] += scores[0]
				totals[1] += scores[1]
				assert.Equal(t, totals, r.Totals)
			}
			assert.Equal(t, totals, snap.Scores)

			finished := snap.Phase.(*game.FinishedPhase)
			assert.GreaterOrEqual(t, snap.Scores[finished.Winner], 500)

			replayed, err := game.FromFullState(g.FullState(), rules)
			require.NoError(t, err)
			assert.NoError(t, game.Equal(g, replayed))
		})
	}
}
