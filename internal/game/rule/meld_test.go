package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/pinochle/internal/game/card"
)

func kinds(melds []Meld) []Kind {
	out := make([]Kind, len(melds))
	for i, m := range melds {
		out[i] = m.Kind
	}
	return out
}

func TestEvaluateMeld_Exclusive(t *testing.T) {
	t.Parallel()

	opts := MeldOptions{Overlap: Exclusive}
	tests := []struct {
		name     string
		cards    string
		trump    card.Suit
		expected int
	}{
		{name: "Nothing", cards: "9C TH AS", trump: card.Hearts, expected: 0},
		{name: "Single pinochle", cards: "JD QS", trump: card.Clubs, expected: 40},
		{name: "Double pinochle", cards: "JD QS JD QS", trump: card.Clubs, expected: 300},
		{name: "Marriage", cards: "KD QD", trump: card.Clubs, expected: 20},
		{name: "Trump marriage", cards: "KD QD", trump: card.Diamonds, expected: 40},
		{name: "Two marriages same suit", cards: "KH QH KH QH", trump: card.Clubs, expected: 40},
		{name: "Round of aces", cards: "AS AD AH AC", trump: card.Clubs, expected: 100},
		{name: "Round of kings", cards: "KS KD KH KC", trump: card.Clubs, expected: 80},
		{name: "Round of queens", cards: "QS QD QH QC", trump: card.Clubs, expected: 60},
		{name: "Round of jacks", cards: "JS JD JH JC", trump: card.Clubs, expected: 40},
		{name: "Two rounds of aces count twice", cards: "AS AD AH AC AS AD AH AC", trump: card.Clubs, expected: 200},
		{name: "Nine of trump", cards: "9D", trump: card.Diamonds, expected: 10},
		{name: "Two nines of trump", cards: "9D 9D", trump: card.Diamonds, expected: 20},
		{name: "Nine off trump", cards: "9D", trump: card.Spades, expected: 0},
		{name: "Run includes its marriage", cards: "AD TD KD QD JD", trump: card.Diamonds, expected: 150},
		{name: "Run cards without trump", cards: "AD TD KD QD JD", trump: card.Clubs, expected: 20},
		{name: "Run and nine", cards: "KD QD TD AD JD 9D", trump: card.Diamonds, expected: 160},
		{name: "Double run and nines", cards: "KD QD TD AD JD 9D KD QD TD AD JD 9D", trump: card.Diamonds, expected: 1520},
		{name: "Run and extra trump marriage", cards: "KD QD KD QD TD AD JD 9D", trump: card.Diamonds, expected: 200},
		{name: "Marriages versus rounds", cards: "KD QD KS QS KH QH KC QC", trump: card.Diamonds, expected: 140},
		{name: "Run versus round of aces", cards: "AC AH AS KD QD TD AD JD 9D", trump: card.Diamonds, expected: 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := EvaluateMeld(card.MustParseCards(tt.cards), tt.trump, opts)
			assert.Equal(t, tt.expected, result.Total)

			sum := 0
			for _, m := range result.Melds {
				sum += m.Points
			}
			assert.Equal(t, result.Total, sum, "total equals the sum of matched melds")
		})
	}
}

func TestEvaluateMeld_AdditiveMatchesClassicScoring(t *testing.T) {
	t.Parallel()

	opts := MeldOptions{Overlap: Additive, DoubleRounds: true}
	tests := []struct {
		cards    string
		trump    card.Suit
		expected int
	}{
		{"AS AD AH AC", card.Diamonds, 100},
		{"AS AD AH AC AS AD AH AC", card.Diamonds, 1000},
		{"JD QS", card.Diamonds, 40},
		{"JD QS JD QS", card.Diamonds, 300},
		{"KD QD", card.Diamonds, 40},
		{"KD QD", card.Clubs, 20},
		{"KD QD TD AD JD", card.Diamonds, 150},
		{"KD QD TD AD JD", card.Clubs, 20},
		{"KD QD TD AD JD 9D", card.Diamonds, 160},
		{"KD QD TD AD JD 9D KD QD TD AD JD 9D", card.Diamonds, 1520},
		{"KD QD KD QD TD AD JD 9D", card.Diamonds, 200},
		{"KD QD KS QS KH QH KC QC", card.Diamonds, 240},
		{"AC AH AS KD QD TD AD JD 9D", card.Diamonds, 260},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			t.Parallel()
			result := EvaluateMeld(card.MustParseCards(tt.cards), tt.trump, opts)
			assert.Equal(t, tt.expected, result.Total)
		})
	}
}

func TestEvaluateMeld_DoublePinochleIsNotTwoSingles(t *testing.T) {
	t.Parallel()

	for _, policy := range []OverlapPolicy{Exclusive, Additive} {
		result := EvaluateMeld(card.MustParseCards("JD QS JD QS"), card.Hearts, MeldOptions{Overlap: policy})
		require.Len(t, result.Melds, 1, policy.String())
		assert.Equal(t, DoublePinochle, result.Melds[0].Kind)
		assert.Equal(t, 300, result.Total)
	}
}

func TestEvaluateMeld_RunIsNotAlsoTrumpMarriage(t *testing.T) {
	t.Parallel()

	for _, policy := range []OverlapPolicy{Exclusive, Additive} {
		result := EvaluateMeld(card.MustParseCards("AH TH KH QH JH"), card.Hearts, MeldOptions{Overlap: policy})
		assert.Equal(t, []Kind{Run}, kinds(result.Melds), policy.String())
		assert.Equal(t, 150, result.Total)
		assert.Empty(t, result.Overlaps)
	}
}

func TestEvaluateMeld_RoundOfAcesIndependentOfFaceCards(t *testing.T) {
	t.Parallel()

	cards := card.MustParseCards("AS AD AH AC KS QH JC 9S")
	result := EvaluateMeld(cards, card.Clubs, MeldOptions{})

	assert.Contains(t, kinds(result.Melds), Round)
	assert.Equal(t, 100, result.Total)
}

func TestEvaluateMeld_OverlapIsFlagged(t *testing.T) {
	t.Parallel()

	cards := card.MustParseCards("KD QD KS QS KH QH KC QC")

	exclusive := EvaluateMeld(cards, card.Diamonds, MeldOptions{Overlap: Exclusive})
	additive := EvaluateMeld(cards, card.Diamonds, MeldOptions{Overlap: Additive})

	assert.Equal(t, 140, exclusive.Total)
	assert.Equal(t, 240, additive.Total)
	assert.Len(t, exclusive.Overlaps, 8, "every king and queen is claimed twice")
	assert.Equal(t, exclusive.Overlaps, additive.Overlaps, "diagnostic does not depend on the policy")
	assert.Contains(t, exclusive.Overlaps[0].Kinds, Round)
}

func TestEvaluateMeld_IgnoresOrder(t *testing.T) {
	t.Parallel()

	a := EvaluateMeld(card.MustParseCards("AC AH AS KD QD TD AD JD 9D"), card.Diamonds, MeldOptions{})
	b := EvaluateMeld(card.MustParseCards("9D JD AD TD QD KD AS AH AC"), card.Diamonds, MeldOptions{})
	assert.Equal(t, a, b)
}

func TestParseOverlapPolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseOverlapPolicy("Additive")
	require.NoError(t, err)
	assert.Equal(t, Additive, p)

	p, err = ParseOverlapPolicy("")
	require.NoError(t, err)
	assert.Equal(t, Exclusive, p)

	_, err = ParseOverlapPolicy("sum")
	assert.Error(t, err)
}
