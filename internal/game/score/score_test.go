package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
)

func TestPointTables(t *testing.T) {
	t.Parallel()

	cards := card.MustParseCards("AS TS KS QS JS 9S")
	assert.Equal(t, 30, Conventional().Points(cards))
	assert.Equal(t, 30, Counters().Points(cards))

	// A full deck always holds the same number of points
	assert.Equal(t, 240, Conventional().Points(card.NewDeck()))
	assert.Equal(t, 240, Counters().Points(card.NewDeck()))

	table, err := ParsePointTable("counters")
	require.NoError(t, err)
	assert.Equal(t, 5, table[card.King])

	_, err = ParsePointTable("golf")
	assert.Error(t, err)
}

func TestRound_SetBack(t *testing.T) {
	t.Parallel()

	rules := Rules{Table: Conventional()}
	// bidder's team (A+C) earns 300 against a bid of 350
	in := RoundInput{
		Meld:          [2]int{300, 50},
		BidWinnerTeam: seat.TeamAC,
		HighestBid:    350,
		LastTrick:     seat.TeamBD,
	}
	result := rules.Round(in)

	assert.Equal(t, 300, result.Teams[seat.TeamAC].Earned)
	assert.Equal(t, -350, result.Teams[seat.TeamAC].Score)
	assert.True(t, result.Teams[seat.TeamAC].SetBack)
	assert.Equal(t, 50, result.Teams[seat.TeamBD].Score, "other team keeps what it earned")
	assert.False(t, result.Teams[seat.TeamBD].SetBack)
	assert.Equal(t, [2]int{-350, 50}, result.Scores())
}

func TestRound_MadeBid(t *testing.T) {
	t.Parallel()

	rules := Rules{Table: Conventional(), LastTrickBonus: 10}
	in := RoundInput{
		Piles: [2][]card.Card{
			card.MustParseCards("AS TS KH"),
			card.MustParseCards("9D JD"),
		},
		Meld:          [2]int{20, 0},
		BidWinnerTeam: seat.TeamAC,
		HighestBid:    55,
		LastTrick:     seat.TeamAC,
	}
	result := rules.Round(in)

	// 11 + 10 + 4 + last trick 10 + meld 20
	assert.Equal(t, 55, result.Teams[seat.TeamAC].Score)
	assert.False(t, result.Teams[seat.TeamAC].SetBack)
	assert.Equal(t, 2, result.Teams[seat.TeamBD].Score)
}

func TestWinner(t *testing.T) {
	t.Parallel()

	unlimited := Rules{}
	_, over := unlimited.Winner([2]int{10000, 0}, seat.TeamAC)
	assert.False(t, over)

	rules := Rules{TargetScore: 300}
	tests := []struct {
		name   string
		totals [2]int
		bidder seat.Team
		winner seat.Team
		over   bool
	}{
		{name: "Nobody there", totals: [2]int{299, 120}, bidder: seat.TeamAC, over: false},
		{name: "A+C reaches", totals: [2]int{300, 120}, bidder: seat.TeamBD, winner: seat.TeamAC, over: true},
		{name: "B+D reaches", totals: [2]int{-40, 310}, bidder: seat.TeamAC, winner: seat.TeamBD, over: true},
		{name: "Both reach, higher wins", totals: [2]int{320, 350}, bidder: seat.TeamAC, winner: seat.TeamBD, over: true},
		{name: "Both reach tied, bidder wins", totals: [2]int{330, 330}, bidder: seat.TeamBD, winner: seat.TeamBD, over: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			winner, over := rules.Winner(tt.totals, tt.bidder)
			assert.Equal(t, tt.over, over)
			if tt.over {
				assert.Equal(t, tt.winner, winner)
			}
		})
	}
}
