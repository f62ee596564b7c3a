package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/bot"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/rule"
	"github.com/palemoky/pinochle/internal/game/seat"
)

var testNames = [seat.Count]string{"Ann", "Bo", "Cy", "Di"}

func TestRenderCards(t *testing.T) {
	t.Parallel()

	cards := card.MustParseCards("AS 10H")
	out := RenderCards(cards, true)
	assert.Contains(t, out, cards[0].String())
	assert.Contains(t, out, cards[1].String())
	assert.Contains(t, out, "1")

	assert.Contains(t, RenderCards(nil, false), "无")
}

func TestRenderMeld(t *testing.T) {
	t.Parallel()

	assert.Contains(t, RenderMeld(rule.MeldResult{}), "无牌组")

	hand := card.MustParseCards("KS QS")
	result := rule.EvaluateMeld(hand, card.Spades, rule.MeldOptions{})
	require.NotEmpty(t, result.Melds)
	out := RenderMeld(result)
	assert.Contains(t, out, result.Melds[0].String())
}

// TestRenderSnapshot_AllPhases 用机器人推进一整局，每个阶段都能渲染
func TestRenderSnapshot_AllPhases(t *testing.T) {
	t.Parallel()

	rules := game.DefaultRules()
	rules.Scoring.TargetScore = 1
	g := game.New(3, testNames, rules)

	seen := map[game.PhaseKind]bool{}
	for range 1000 {
		snap := g.Snapshot()
		seen[snap.Phase.Kind()] = true
		out := RenderSnapshot(snap)
		assert.Contains(t, out, "Ann")
		assert.Contains(t, out, phaseName(snap.Phase))

		s, action, ok := bot.Choose(g)
		if !ok {
			break
		}
		_, err := g.Apply(s, action)
		require.NoError(t, err)
	}

	final := g.Snapshot()
	require.True(t, final.Over())
	out := RenderSnapshot(final)
	assert.Contains(t, out, "获胜")
	assert.Contains(t, out, "累计")
	for _, kind := range []game.PhaseKind{game.KindBidding, game.KindPlay, game.KindFinished} {
		assert.True(t, seen[kind], "phase %s rendered", kind)
	}
}

func TestRenderHandsAndDeal(t *testing.T) {
	t.Parallel()

	g := game.New(9, testNames, game.DefaultRules())
	var hands [seat.Count][]card.Card
	for _, s := range seat.All {
		hands[s] = g.Hand(s)
	}

	out := RenderHands(testNames, hands)
	for _, s := range seat.All {
		assert.Contains(t, out, testNames[s])
	}

	deal := RenderDeal(9, hands, rule.MeldOptions{})
	assert.Contains(t, deal, "种子 9")
	for _, suit := range card.Suits {
		assert.Contains(t, deal, suit.String())
	}
}
