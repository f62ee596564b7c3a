package rule

import (
	"fmt"
	"strings"

	"github.com/palemoky/pinochle/internal/game/card"
)

// Kind 定义牌组（meld）种类
type Kind int

const (
	InvalidKind    Kind = iota
	Pinochle            // J♦ + Q♠
	DoublePinochle      // 两组 Pinochle
	Marriage            // 非将牌花色 K+Q
	TrumpMarriage       // 将牌 K+Q
	Round               // 同点数四种花色各一张
	DoubleRound         // 同点数四种花色各两张（需开启 DoubleRounds）
	NineOfTrump         // 将牌 9
	Run                 // 将牌 A T K Q J
	DoubleRun           // 两组 Run
)

// kindNames 牌组名称映射表
var kindNames = map[Kind]string{
	Pinochle:       "Pinochle",
	DoublePinochle: "Double Pinochle",
	Marriage:       "Marriage",
	TrumpMarriage:  "Trump Marriage",
	Round:          "Round",
	DoubleRound:    "Double Round",
	NineOfTrump:    "Nine of Trump",
	Run:            "Run of Trump",
	DoubleRun:      "Double Run",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Invalid"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// roundPoints 各点数 Round 的分值，未列出的点数不构成 Round
var roundPoints = map[card.Rank]int{
	card.Ace:   100,
	card.King:  80,
	card.Queen: 60,
	card.Jack:  40,
}

// 固定分值
const (
	pinochlePoints       = 40
	doublePinochlePoints = 300
	marriagePoints       = 20
	trumpMarriagePoints  = 40
	nineOfTrumpPoints    = 10
	runPoints            = 150
	doubleRunPoints      = 1500
	doubleRoundFactor    = 10
)

var (
	jackOfDiamonds = card.Card{Suit: card.Diamonds, Rank: card.Jack}
	queenOfSpades  = card.Card{Suit: card.Spades, Rank: card.Queen}
	runRanks       = []card.Rank{card.Ace, card.Ten, card.King, card.Queen, card.Jack}
)

// OverlapPolicy 决定同一张牌能否同时计入多个牌组
type OverlapPolicy int

const (
	// Exclusive 每张实体牌最多计入一个牌组，取总分最大的组合
	Exclusive OverlapPolicy = iota
	// Additive 各类牌组独立计分，仅 Run 吸收其中的将牌 Marriage
	Additive
)

func (p OverlapPolicy) String() string {
	switch p {
	case Exclusive:
		return "exclusive"
	case Additive:
		return "additive"
	}
	return fmt.Sprintf("OverlapPolicy(%d)", int(p))
}

// ParseOverlapPolicy 解析配置中的策略名
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclusive":
		return Exclusive, nil
	case "additive":
		return Additive, nil
	}
	return 0, fmt.Errorf("未知的牌组重叠策略: %q", s)
}

// MeldOptions 计分选项
type MeldOptions struct {
	Overlap      OverlapPolicy
	DoubleRounds bool // 两组同点 Round 按十倍计分
}

// Meld 一个被计分的牌组
type Meld struct {
	Kind   Kind        `json:"kind"`
	Suit   card.Suit   `json:"suit"`           // Marriage、Run 的花色
	Rank   card.Rank   `json:"rank,omitempty"` // Round 的点数
	Cards  []card.Card `json:"cards"`
	Points int         `json:"points"`
}

func (m Meld) String() string {
	switch m.Kind {
	case Round, DoubleRound:
		return fmt.Sprintf("%s of %s (%d)", m.Kind, m.Rank, m.Points)
	case Marriage:
		return fmt.Sprintf("%s %s (%d)", m.Kind, m.Suit, m.Points)
	}
	return fmt.Sprintf("%s (%d)", m.Kind, m.Points)
}

// Overlap 同一张牌被多类牌组争用，说明计分存在歧义
type Overlap struct {
	Card  card.Card `json:"card"`
	Kinds []Kind    `json:"kinds"`
}

// MeldResult 计分结果
type MeldResult struct {
	Melds    []Meld    `json:"melds"`
	Total    int       `json:"total"`
	Overlaps []Overlap `json:"overlaps,omitempty"`
}

// template 可匹配的牌组模板
type template struct {
	meld Meld
	need card.Counts
}

func newTemplate(kind Kind, suit card.Suit, rank card.Rank, points int, copies int, cards ...card.Card) template {
	t := template{meld: Meld{Kind: kind, Suit: suit, Rank: rank, Points: points}}
	for range copies {
		for _, c := range cards {
			t.need[c.Index()]++
			t.meld.Cards = append(t.meld.Cards, c)
		}
	}
	return t
}

func runCards(trump card.Suit) []card.Card {
	cards := make([]card.Card, len(runRanks))
	for i, r := range runRanks {
		cards[i] = card.Card{Suit: trump, Rank: r}
	}
	return cards
}

func roundCards(rank card.Rank) []card.Card {
	cards := make([]card.Card, 0, len(card.Suits))
	for _, s := range card.Suits {
		cards = append(cards, card.Card{Suit: s, Rank: rank})
	}
	return cards
}

func marriageCards(suit card.Suit) []card.Card {
	return []card.Card{{Suit: suit, Rank: card.King}, {Suit: suit, Rank: card.Queen}}
}

// templates 按优先级列出可能的牌组，双倍牌组排在单倍之前
func templates(trump card.Suit, opts MeldOptions) []template {
	ts := []template{
		newTemplate(DoubleRun, trump, 0, doubleRunPoints, 2, runCards(trump)...),
		newTemplate(Run, trump, 0, runPoints, 1, runCards(trump)...),
		newTemplate(DoublePinochle, 0, 0, doublePinochlePoints, 2, jackOfDiamonds, queenOfSpades),
		newTemplate(Pinochle, 0, 0, pinochlePoints, 1, jackOfDiamonds, queenOfSpades),
	}
	for _, r := range []card.Rank{card.Ace, card.King, card.Queen, card.Jack} {
		if opts.DoubleRounds {
			ts = append(ts, newTemplate(DoubleRound, 0, r, roundPoints[r]*doubleRoundFactor, 2, roundCards(r)...))
		}
		ts = append(ts, newTemplate(Round, 0, r, roundPoints[r], 1, roundCards(r)...))
	}
	ts = append(ts, newTemplate(TrumpMarriage, trump, 0, trumpMarriagePoints, 1, marriageCards(trump)...))
	for _, s := range card.Suits {
		if s != trump {
			ts = append(ts, newTemplate(Marriage, s, 0, marriagePoints, 1, marriageCards(s)...))
		}
	}
	ts = append(ts, newTemplate(NineOfTrump, trump, 0, nineOfTrumpPoints, 1, card.Card{Suit: trump, Rank: card.Nine}))
	return ts
}

// fits 返回模板在剩余牌中最多可匹配的次数
func (t template) fits(remaining *card.Counts) int {
	best := -1
	for i, n := range t.need {
		if n == 0 {
			continue
		}
		k := remaining[i] / n
		if best < 0 || k < best {
			best = k
		}
	}
	return max(best, 0)
}

// EvaluateMeld 计算一组牌在指定将牌下的最大牌组分
func EvaluateMeld(cards []card.Card, trump card.Suit, opts MeldOptions) MeldResult {
	counts := card.CountCards(cards)
	ts := templates(trump, opts)

	additive := evaluateAdditive(counts, ts, opts)
	var result MeldResult
	switch opts.Overlap {
	case Additive:
		result = additive
	default:
		result = evaluateExclusive(counts, ts)
	}
	result.Overlaps = findOverlaps(counts, additive.Melds)
	return result
}

// evaluateExclusive 深度优先搜索不重叠的最优组合
func evaluateExclusive(counts card.Counts, ts []template) MeldResult {
	var (
		best     MeldResult
		chosen   []Meld
		search   func(i int, remaining card.Counts, total int)
		bestSeen = -1
	)
	search = func(i int, remaining card.Counts, total int) {
		if i == len(ts) {
			if total > bestSeen {
				bestSeen = total
				best = MeldResult{Melds: append([]Meld(nil), chosen...), Total: total}
			}
			return
		}
		t := ts[i]
		for k := t.fits(&remaining); k >= 0; k-- {
			next := remaining
			for j, n := range t.need {
				next[j] -= n * k
			}
			mark := len(chosen)
			for range k {
				chosen = append(chosen, t.meld)
			}
			search(i+1, next, total+k*t.meld.Points)
			chosen = chosen[:mark]
		}
	}
	search(0, counts, 0)
	if best.Melds == nil {
		best.Melds = []Meld{}
	}
	return best
}

// evaluateAdditive 每类牌组独立计分，每个 Run 吸收一个将牌 Marriage
func evaluateAdditive(counts card.Counts, ts []template, opts MeldOptions) MeldResult {
	result := MeldResult{Melds: []Meld{}}
	add := func(m Meld) {
		result.Melds = append(result.Melds, m)
		result.Total += m.Points
	}
	byKind := func(kind Kind, rank card.Rank, suit card.Suit) template {
		for _, t := range ts {
			if t.meld.Kind == kind && t.meld.Rank == rank && t.meld.Suit == suit {
				return t
			}
		}
		return template{}
	}

	runs := 0
	for _, t := range ts {
		m := t.meld
		n := t.fits(&counts)
		switch m.Kind {
		case DoubleRun, DoublePinochle, DoubleRound:
			if n >= 1 {
				add(m)
			}
			if m.Kind == DoubleRun && n >= 1 {
				runs = 2
			}
		case Run:
			if n == 1 {
				add(m)
				runs = 1
			}
		case Pinochle:
			if n == 1 {
				add(m)
			}
		case Round:
			if opts.DoubleRounds && byKind(DoubleRound, m.Rank, 0).fits(&counts) >= 1 {
				continue
			}
			for range n {
				add(m)
			}
		case TrumpMarriage:
			for range max(n-runs, 0) {
				add(m)
			}
		case Marriage, NineOfTrump:
			for range n {
				add(m)
			}
		}
	}
	return result
}

// findOverlaps 找出在独立计分下被多类牌组争用、张数不足的牌
func findOverlaps(counts card.Counts, melds []Meld) []Overlap {
	var demand card.Counts
	kinds := make(map[int][]Kind)
	for _, m := range melds {
		for _, c := range m.Cards {
			idx := c.Index()
			demand[idx]++
			if ks := kinds[idx]; len(ks) == 0 || ks[len(ks)-1] != m.Kind {
				kinds[idx] = append(ks, m.Kind)
			}
		}
	}
	var overlaps []Overlap
	for _, s := range card.Suits {
		for _, r := range card.Ranks {
			c := card.Card{Suit: s, Rank: r}
			idx := c.Index()
			if demand[idx] > counts[idx] {
				overlaps = append(overlaps, Overlap{Card: c, Kinds: kinds[idx]})
			}
		}
	}
	return overlaps
}
