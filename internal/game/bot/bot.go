// Package bot 为当前应行动的座位挑选一个合法动作。策略很朴素，只用于托管与测试驱动整局。
package bot

import (
	"slices"

	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/rule"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// View 机器人决策所需的只读视图，*game.Game 满足该接口
type View interface {
	Phase() game.Phase
	Hand(s seat.Seat) []card.Card
	CurrentPlayer() seat.Seat
	Rules() game.Rules
}

const (
	bidStep     = 10
	minBid      = 150
	trumpWeight = 10
)

// Choose 返回应行动的座位及其动作；游戏结束时 ok 为 false
func Choose(v View) (s seat.Seat, action game.Action, ok bool) {
	s = v.CurrentPlayer()
	hand := v.Hand(s)
	rules := v.Rules()

	switch p := v.Phase().(type) {
	case *game.BiddingPhase:
		return s, chooseBid(p, hand, rules), true
	case *game.DeclareTrumpPhase:
		return s, game.DeclareSuit{Suit: bestTrump(hand, rules.Meld)}, true
	case *game.PassingToPhase:
		return s, game.Pass{Indices: passToBidder(hand, p.Trump)}, true
	case *game.PassingBackPhase:
		return s, game.Pass{Indices: passBack(hand, p.Trump)}, true
	case *game.RevealingPhase:
		return s, game.ShowPoints{Indices: meldIndices(hand, p.Trump, rules.Meld)}, true
	case *game.ReviewingPhase:
		if rules.Review == game.ReviewAll {
			for _, other := range seat.All {
				if !p.Confirmed[other] {
					return other, game.Continue{}, true
				}
			}
		}
		return s, game.Continue{}, true
	case *game.PlayPhase:
		return s, game.Play{Index: choosePlay(hand, p, rules.Play)}, true
	}
	return s, nil, false
}

// handValue 估算手牌在某将牌下的价值：牌组分加将牌张数
func handValue(hand []card.Card, trump card.Suit, opts rule.MeldOptions) int {
	value := rule.EvaluateMeld(hand, trump, opts).Total
	for _, c := range hand {
		if c.Suit == trump {
			value += trumpWeight
		}
	}
	return value
}

func bestTrump(hand []card.Card, opts rule.MeldOptions) card.Suit {
	best, bestValue := card.Suits[0], -1
	for _, s := range card.Suits {
		if v := handValue(hand, s, opts); v > bestValue {
			best, bestValue = s, v
		}
	}
	return best
}

func chooseBid(p *game.BiddingPhase, hand []card.Card, rules game.Rules) game.Action {
	trump := bestTrump(hand, rules.Meld)
	limit := handValue(hand, trump, rules.Meld) + minBid
	limit -= limit % bidStep

	highest := 0
	for _, b := range p.Bids {
		highest = max(highest, b.Amount)
	}
	next := max(highest+bidStep, minBid)
	if next > limit {
		return game.Bid{Amount: 0}
	}
	if rules.Bidding == game.SingleRound {
		return game.Bid{Amount: limit}
	}
	return game.Bid{Amount: next}
}

// passToBidder 搭档优先传将牌，其次传大牌
func passToBidder(hand []card.Card, trump card.Suit) []int {
	return pick(hand, func(a, b card.Card) int {
		if (a.Suit == trump) != (b.Suit == trump) {
			if a.Suit == trump {
				return -1
			}
			return 1
		}
		return int(b.Rank) - int(a.Rank)
	})
}

// passBack 叫分赢家回传最小的非将牌
func passBack(hand []card.Card, trump card.Suit) []int {
	return pick(hand, func(a, b card.Card) int {
		if (a.Suit == trump) != (b.Suit == trump) {
			if a.Suit == trump {
				return 1
			}
			return -1
		}
		return int(a.Rank) - int(b.Rank)
	})
}

// pick 按偏好排序后取前 4 张牌的下标
func pick(hand []card.Card, prefer func(a, b card.Card) int) []int {
	order := make([]int, len(hand))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int { return prefer(hand[i], hand[j]) })
	return order[:min(game.PassSize, len(order))]
}

// meldIndices 返回组成最优牌组的手牌下标
func meldIndices(hand []card.Card, trump card.Suit, opts rule.MeldOptions) []int {
	result := rule.EvaluateMeld(hand, trump, opts)
	perKind := make(map[rule.Kind]map[card.Card]int)
	for _, m := range result.Melds {
		if perKind[m.Kind] == nil {
			perKind[m.Kind] = make(map[card.Card]int)
		}
		for _, c := range m.Cards {
			perKind[m.Kind][c]++
		}
	}

	// 独立计分时同一张牌可被不同种类共用
	need := make(map[card.Card]int)
	for _, counts := range perKind {
		for c, n := range counts {
			if opts.Overlap == rule.Additive {
				need[c] = max(need[c], n)
			} else {
				need[c] += n
			}
		}
	}

	indices := []int{}
	for i, c := range hand {
		if need[c] > 0 {
			need[c]--
			indices = append(indices, i)
		}
	}
	return indices
}

// choosePlay 能赢就用最小的赢牌，否则出最小的合法牌
func choosePlay(hand []card.Card, p *game.PlayPhase, rules rule.PlayRules) int {
	legal := rule.LegalPlays(hand, p.Trick.Cards, p.Trump, rules)
	if len(legal) == 0 {
		return 0
	}
	lowest := func(candidates []int) int {
		best := candidates[0]
		for _, i := range candidates[1:] {
			if weight(hand[i], p.Trump) < weight(hand[best], p.Trump) {
				best = i
			}
		}
		return best
	}

	var winners []int
	for _, i := range legal {
		played := append(slices.Clone(p.Trick.Cards), hand[i])
		if rule.WinningIndex(p.Trump, played) == len(played)-1 {
			winners = append(winners, i)
		}
	}
	if len(winners) > 0 {
		return lowest(winners)
	}
	return lowest(legal)
}

// weight 将牌总是比非将牌重
func weight(c card.Card, trump card.Suit) int {
	w := int(c.Rank)
	if c.Suit == trump {
		w += len(card.Ranks)
	}
	return w
}
