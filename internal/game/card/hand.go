package card

import (
	"fmt"
	"slices"
	"strings"
)

// Counts 按规范序号统计的牌张数
type Counts [24]int

// CountCards 统计牌组中每种牌的数量
func CountCards(cards []Card) Counts {
	var counts Counts
	for _, c := range cards {
		counts[c.Index()]++
	}
	return counts
}

// Of 返回指定牌的张数
func (c *Counts) Of(card Card) int {
	return c[card.Index()]
}

// ParseCards 解析以空格或逗号分隔的牌，如 "AS TD 9H"
func ParseCards(input string) ([]Card, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards 解析牌组，失败时 panic，仅用于测试
func MustParseCards(input string) []Card {
	cards, err := ParseCards(input)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards 以符号形式格式化牌组
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// HasSuit 报告牌组中是否有指定花色
func HasSuit(cards []Card, suit Suit) bool {
	return slices.ContainsFunc(cards, func(c Card) bool { return c.Suit == suit })
}

// ResolveIndices 将手牌下标解析为牌，下标必须在范围内且互不重复
func ResolveIndices(hand []Card, indices []int) ([]Card, error) {
	seen := make(map[int]bool, len(indices))
	cards := make([]Card, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(hand) {
			return nil, fmt.Errorf("下标 %d 超出手牌范围 [0,%d)", idx, len(hand))
		}
		if seen[idx] {
			return nil, fmt.Errorf("下标 %d 重复", idx)
		}
		seen[idx] = true
		cards = append(cards, hand[idx])
	}
	return cards, nil
}

// RemoveIndices 返回移除指定下标后的新手牌，原切片不变
func RemoveIndices(hand []Card, indices []int) []Card {
	drop := make(map[int]bool, len(indices))
	for _, idx := range indices {
		drop[idx] = true
	}
	rest := make([]Card, 0, len(hand))
	for i, c := range hand {
		if !drop[i] {
			rest = append(rest, c)
		}
	}
	return rest
}

// SortHand 按花色、点数排序手牌（点数从大到小）
func SortHand(hand []Card) {
	slices.SortStableFunc(hand, func(a, b Card) int {
		if a.Suit != b.Suit {
			return int(a.Suit) - int(b.Suit)
		}
		return int(b.Rank) - int(a.Rank)
	})
}
