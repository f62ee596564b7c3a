package card

import (
	"math/rand/v2"

	"github.com/palemoky/pinochle/internal/randutil"
)

const (
	// DeckSize 两副 24 张牌共 48 张
	DeckSize = 48
	// HandSize 每位玩家 12 张
	HandSize = 12
	// Seats 座位数
	Seats = 4
)

// Deck 定义一副牌
type Deck []Card

// NewDeck 返回规范顺序的双副牌：24 种牌按花色、点数排列后重复两次
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for range 2 {
		for _, s := range Suits {
			for _, r := range Ranks {
				deck = append(deck, Card{Suit: s, Rank: r})
			}
		}
	}
	return deck
}

func (d Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// ShuffledDeck 用种子确定性地洗牌，相同种子得到相同顺序
func ShuffledDeck(seed int64) Deck {
	d := NewDeck()
	d.Shuffle(randutil.New(seed))
	return d
}

// Deal 分块发牌：A 得 deck[0:12]，B 得 deck[12:24]，依此类推
func (d Deck) Deal() [Seats][]Card {
	var hands [Seats][]Card
	for seat := range Seats {
		hand := make([]Card, HandSize)
		copy(hand, d[seat*HandSize:(seat+1)*HandSize])
		hands[seat] = hand
	}
	return hands
}
