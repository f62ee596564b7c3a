package rule

import (
	"errors"

	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// PlayRules 出牌合法性规则
type PlayRules struct {
	MustTrump bool // 没有首引花色时必须出将牌
	MustHead  bool // 能压过当前最大同花色牌时必须压
}

// DefaultPlayRules 默认同时要求跟花色、垫将、压牌
func DefaultPlayRules() PlayRules {
	return PlayRules{MustTrump: true, MustHead: true}
}

var (
	errMustFollow = errors.New("必须跟首引花色")
	errMustTrump  = errors.New("没有首引花色时必须出将牌")
	errMustHead   = errors.New("必须出能压过当前最大牌的牌")
)

// beats 报告 challenger 是否压过当前最大牌 best
func beats(challenger, best card.Card, trump card.Suit) bool {
	if challenger.Suit == best.Suit {
		return challenger.Rank > best.Rank
	}
	return challenger.Suit == trump
}

// WinningIndex 返回已出牌中当前最大牌的位置，空时返回 -1
// 完全相同的两张牌先出者为大
func WinningIndex(trump card.Suit, played []card.Card) int {
	if len(played) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(played); i++ {
		if beats(played[i], played[best], trump) {
			best = i
		}
	}
	return best
}

// ResolveTrick 结算一墩牌，返回赢家与被收走的牌
func ResolveTrick(trump card.Suit, leader seat.Seat, played []card.Card) (seat.Seat, []card.Card, error) {
	if len(played) == 0 {
		return leader, nil, errors.New("空的一墩无法结算")
	}
	idx := WinningIndex(trump, played)
	captured := make([]card.Card, len(played))
	copy(captured, played)
	return leader.Offset(idx), captured, nil
}

// highestOfSuit 返回已出牌中某花色的最大牌
func highestOfSuit(played []card.Card, suit card.Suit) (card.Card, bool) {
	var (
		best  card.Card
		found bool
	)
	for _, c := range played {
		if c.Suit == suit && (!found || c.Rank > best.Rank) {
			best, found = c, true
		}
	}
	return best, found
}

func canHead(hand []card.Card, over card.Card) bool {
	for _, c := range hand {
		if c.Beats(over) {
			return true
		}
	}
	return false
}

// CheckPlay 校验在当前一墩中打出 c 是否合法，c 必须来自 hand
func CheckPlay(hand []card.Card, c card.Card, played []card.Card, trump card.Suit, rules PlayRules) error {
	if len(played) == 0 {
		return nil
	}
	led := played[0].Suit

	if c.Suit != led {
		if card.HasSuit(hand, led) {
			return errMustFollow
		}
		if rules.MustTrump && c.Suit != trump && card.HasSuit(hand, trump) {
			return errMustTrump
		}
	}

	if !rules.MustHead {
		return nil
	}
	switch {
	case c.Suit == led:
		best, _ := highestOfSuit(played, led)
		if !c.Beats(best) && canHead(hand, best) {
			return errMustHead
		}
	case c.Suit == trump:
		if best, ok := highestOfSuit(played, trump); ok && !c.Beats(best) && canHead(hand, best) {
			return errMustHead
		}
	}
	return nil
}

// LegalPlays 返回手牌中可以合法打出的下标
func LegalPlays(hand []card.Card, played []card.Card, trump card.Suit, rules PlayRules) []int {
	legal := make([]int, 0, len(hand))
	for i, c := range hand {
		if CheckPlay(hand, c, played, trump, rules) == nil {
			legal = append(legal, i)
		}
	}
	return legal
}
