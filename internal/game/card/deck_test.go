package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	assert.Len(t, deck, DeckSize)

	counts := CountCards(deck)
	for i, n := range counts {
		assert.Equal(t, 2, n, "card index %d should appear twice", i)
	}
	assert.Equal(t, Card{Suit: Diamonds, Rank: Nine}, deck[0])
	assert.Equal(t, Card{Suit: Spades, Rank: Ace}, deck[23])
}

func TestShuffledDeck_Deterministic(t *testing.T) {
	t.Parallel()

	a := ShuffledDeck(42)
	b := ShuffledDeck(42)
	c := ShuffledDeck(43)

	assert.Equal(t, a, b, "same seed yields same order")
	assert.NotEqual(t, a, c, "different seeds yield different orders")
	assert.Equal(t, CountCards(NewDeck()), CountCards(a), "shuffle keeps every card")
}

func TestDeal_Block(t *testing.T) {
	t.Parallel()

	deck := ShuffledDeck(7)
	hands := deck.Deal()

	for seat := range Seats {
		assert.Len(t, hands[seat], HandSize)
		assert.Equal(t, []Card(deck[seat*HandSize:(seat+1)*HandSize]), hands[seat])
	}

	// hands do not alias the deck
	first := hands[0][0]
	deck[0] = Card{Suit: first.Suit, Rank: (first.Rank + 1) % Rank(len(Ranks))}
	assert.Equal(t, first, hands[0][0])
}
