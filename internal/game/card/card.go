package card

import (
	"fmt"
	"strings"
)

// Suit 定义花色
type Suit int

// Rank 定义点数，按吃墩大小升序排列
type Rank int

// Card 定义一张牌，两副牌中同花色同点数的牌没有区别
type Card struct {
	Suit Suit
	Rank Rank
}

const (
	Diamonds Suit = iota // 方块
	Clubs                // 梅花
	Hearts               // 红心
	Spades               // 黑桃
)

// Suits 按规范顺序列出全部花色
var Suits = [...]Suit{Diamonds, Clubs, Hearts, Spades}

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Diamonds: "♦",
	Clubs:    "♣",
	Hearts:   "♥",
	Spades:   "♠",
}

// suitLetters 花色字母映射表
var suitLetters = map[Suit]string{
	Diamonds: "D",
	Clubs:    "C",
	Hearts:   "H",
	Spades:   "S",
}

// charToSuit 用于快速查找字符对应的 Suit
var charToSuit = map[rune]Suit{
	'D': Diamonds,
	'C': Clubs,
	'H': Hearts,
	'S': Spades,
	'♦': Diamonds,
	'♣': Clubs,
	'♥': Hearts,
	'♠': Spades,
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return "?"
}

// Letter 返回花色的单字母编码
func (s Suit) Letter() string {
	if letter, ok := suitLetters[s]; ok {
		return letter
	}
	return "?"
}

// Valid 报告花色是否合法
func (s Suit) Valid() bool {
	return s >= Diamonds && s <= Spades
}

func SuitFromChar(char rune) (Suit, error) {
	if suit, ok := charToSuit[char]; ok {
		return suit, nil
	}
	return -1, fmt.Errorf("无法识别的花色: %c", char)
}

// ParseSuit 解析花色，接受字母、符号或英文名
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "diamonds", "diamond":
		return Diamonds, nil
	case "clubs", "club":
		return Clubs, nil
	case "hearts", "heart":
		return Hearts, nil
	case "spades", "spade":
		return Spades, nil
	}
	runes := []rune(strings.ToUpper(strings.TrimSpace(s)))
	if len(runes) != 1 {
		return -1, fmt.Errorf("无法识别的花色: %q", s)
	}
	return SuitFromChar(runes[0])
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("无效的花色: %d", int(s))
	}
	return []byte(s.Letter()), nil
}

func (s *Suit) UnmarshalText(text []byte) error {
	suit, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = suit
	return nil
}

const (
	Nine  Rank = iota // 9
	Jack              // J
	Queen             // Q
	King              // K
	Ten               // 10
	Ace               // A
)

// Ranks 按吃墩大小升序列出全部点数
var Ranks = [...]Rank{Nine, Jack, Queen, King, Ten, Ace}

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	Nine:  "9",
	Jack:  "J",
	Queen: "Q",
	King:  "K",
	Ten:   "T",
	Ace:   "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "?"
}

// Valid 报告点数是否合法
func (r Rank) Valid() bool {
	return r >= Nine && r <= Ace
}

func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("无效的点数: %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	runes := []rune(strings.ToUpper(strings.TrimSpace(string(text))))
	if len(runes) != 1 {
		return fmt.Errorf("无法识别的点数: %q", text)
	}
	rank, err := RankFromChar(runes[0])
	if err != nil {
		return err
	}
	*r = rank
	return nil
}

// charToRank 用于快速查找字符对应的 Rank
var charToRank = map[rune]Rank{
	'9': Nine,
	'J': Jack,
	'Q': Queen,
	'K': King,
	'T': Ten,
	'A': Ace,
}

func RankFromChar(char rune) (Rank, error) {
	if rank, ok := charToRank[char]; ok {
		return rank, nil
	}
	return -1, fmt.Errorf("无法识别的点数: %c", char)
}

// Beats 报告同花色下 c 是否大于 other
func (c Card) Beats(other Card) bool {
	return c.Suit == other.Suit && c.Rank > other.Rank
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Code 返回两字符编码，如 "AS"、"TD"
func (c Card) Code() string {
	return c.Rank.String() + c.Suit.Letter()
}

// Index 返回 0..23 的规范序号（花色为主序，点数为次序）
func (c Card) Index() int {
	return int(c.Suit)*len(Ranks) + int(c.Rank)
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Suit.Valid() || !c.Rank.Valid() {
		return nil, fmt.Errorf("无效的牌: %d/%d", int(c.Rank), int(c.Suit))
	}
	return []byte(c.Code()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse 解析单张牌，如 "AS"、"10H"、"Q♠"
func Parse(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.Replace(s, "10", "T", 1)
	runes := []rune(s)
	if len(runes) != 2 {
		return Card{}, fmt.Errorf("无法识别的牌: %q", s)
	}
	rank, err := RankFromChar(runes[0])
	if err != nil {
		return Card{}, err
	}
	suit, err := SuitFromChar(runes[1])
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// MustParse 解析牌，失败时 panic，仅用于测试与常量
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}
