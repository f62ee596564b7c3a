package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
)

func TestWinningIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		played   string
		trump    card.Suit
		expected int
	}{
		{name: "Highest of led suit", played: "KH AH 9H QH", trump: card.Spades, expected: 1},
		{name: "Ten beats king", played: "KH TH", trump: card.Spades, expected: 1},
		{name: "Trump beats led ace", played: "AH 9S KH TH", trump: card.Spades, expected: 1},
		{name: "Higher trump wins", played: "AH 9S TS KS", trump: card.Spades, expected: 2},
		{name: "Off-suit ace never wins", played: "9H AC AD JH", trump: card.Spades, expected: 3},
		{name: "Identical cards first played wins", played: "AH AH 9H 9H", trump: card.Spades, expected: 0},
		{name: "Identical trumps first played wins", played: "9H TS TS 9H", trump: card.Spades, expected: 1},
		{name: "Led trump", played: "JS AS AH QS", trump: card.Spades, expected: 1},
		{name: "Lone trump beats led ace", played: "9S AS KH QS", trump: card.Hearts, expected: 2},
		{name: "No trump played, led ace wins", played: "9S AS QS KS", trump: card.Hearts, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, WinningIndex(tt.trump, card.MustParseCards(tt.played)))
		})
	}

	assert.Equal(t, -1, WinningIndex(card.Spades, nil))
}

func TestResolveTrick_LeaderA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		played string
		winner seat.Seat
	}{
		{played: "9S AS KH QS", winner: seat.C},
		{played: "9S AS QS KS", winner: seat.B},
	}
	for _, tt := range tests {
		t.Run(tt.played, func(t *testing.T) {
			t.Parallel()
			winner, _, err := ResolveTrick(card.Hearts, seat.A, card.MustParseCards(tt.played))
			require.NoError(t, err)
			assert.Equal(t, tt.winner, winner)
		})
	}
}

func TestResolveTrick(t *testing.T) {
	t.Parallel()

	played := card.MustParseCards("AH 9S KH TH")
	winner, captured, err := ResolveTrick(card.Spades, seat.C, played)
	require.NoError(t, err)

	// C leads, D trumps with 9S
	assert.Equal(t, seat.D, winner)
	assert.Equal(t, played, captured)
	assert.Equal(t, seat.TeamBD, winner.Team())

	_, _, err = ResolveTrick(card.Spades, seat.A, nil)
	assert.Error(t, err)
}

func TestCheckPlay(t *testing.T) {
	t.Parallel()

	all := DefaultPlayRules()
	followOnly := PlayRules{}

	tests := []struct {
		name   string
		hand   string
		card   string
		played string
		trump  card.Suit
		rules  PlayRules
		legal  bool
	}{
		{name: "Leading anything", hand: "9C AH", card: "9C", played: "", trump: card.Spades, rules: all, legal: true},
		{name: "Must follow suit", hand: "9H AC", card: "AC", played: "KH", trump: card.Spades, rules: followOnly, legal: false},
		{name: "Following suit", hand: "9H AC", card: "9H", played: "KH", trump: card.Spades, rules: followOnly, legal: true},
		{name: "Void may slough without must-trump", hand: "AC 9S", card: "AC", played: "KH", trump: card.Spades, rules: followOnly, legal: true},
		{name: "Void must trump", hand: "AC 9S", card: "AC", played: "KH", trump: card.Spades, rules: all, legal: false},
		{name: "Void trumping", hand: "AC 9S", card: "9S", played: "KH", trump: card.Spades, rules: all, legal: true},
		{name: "Void without trump may slough", hand: "AC 9D", card: "AC", played: "KH", trump: card.Spades, rules: all, legal: true},
		{name: "Must head led suit", hand: "9H AH", card: "9H", played: "KH", trump: card.Spades, rules: all, legal: false},
		{name: "Heading led suit", hand: "9H AH", card: "AH", played: "KH", trump: card.Spades, rules: all, legal: true},
		{name: "Cannot head so any of suit", hand: "9H JH", card: "9H", played: "KH", trump: card.Spades, rules: all, legal: true},
		{name: "Head against best of led suit even when trumped", hand: "9H AH", card: "9H", played: "KH 9S", trump: card.Spades, rules: all, legal: false},
		{name: "Must overtrump", hand: "9S AS", card: "9S", played: "KH JS", trump: card.Spades, rules: all, legal: false},
		{name: "Overtrumping", hand: "9S AS", card: "AS", played: "KH JS", trump: card.Spades, rules: all, legal: true},
		{name: "Cannot overtrump", hand: "9S JS", card: "9S", played: "KH AS", trump: card.Spades, rules: all, legal: true},
		{name: "Heading not required when disabled", hand: "9H AH", card: "9H", played: "KH", trump: card.Spades, rules: PlayRules{MustTrump: true}, legal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hand := card.MustParseCards(tt.hand)
			played := card.MustParseCards(tt.played)
			err := CheckPlay(hand, card.MustParse(tt.card), played, tt.trump, tt.rules)
			if tt.legal {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLegalPlays_NeverEmpty(t *testing.T) {
	t.Parallel()

	deck := card.ShuffledDeck(99)
	hands := deck.Deal()
	played := card.MustParseCards("AH TS")
	for _, hand := range hands {
		for _, trump := range card.Suits {
			legal := LegalPlays(hand, played, trump, DefaultPlayRules())
			assert.NotEmpty(t, legal)
			for _, idx := range legal {
				assert.NoError(t, CheckPlay(hand, hand[idx], played, trump, DefaultPlayRules()))
			}
		}
	}
}
