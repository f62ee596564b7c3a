package game

import (
	"fmt"
	"strings"

	"github.com/palemoky/pinochle/internal/game/rule"
	"github.com/palemoky/pinochle/internal/game/score"
)

// BiddingPolicy 叫分结束方式
type BiddingPolicy int

const (
	// SingleRound 每个座位恰好叫一次
	SingleRound BiddingPolicy = iota
	// UntilThreePasses 已 pass 的座位不再叫，非零叫分必须高于当前最高分，
	// 三家 pass 且有人叫过分、或四家全 pass 时结束
	UntilThreePasses
)

func (p BiddingPolicy) String() string {
	switch p {
	case SingleRound:
		return "single_round"
	case UntilThreePasses:
		return "until_three_passes"
	}
	return fmt.Sprintf("BiddingPolicy(%d)", int(p))
}

// ParseBiddingPolicy 解析配置中的叫分策略
func ParseBiddingPolicy(s string) (BiddingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single_round":
		return SingleRound, nil
	case "until_three_passes":
		return UntilThreePasses, nil
	}
	return 0, fmt.Errorf("未知的叫分策略: %q", s)
}

// ReviewPolicy 亮牌确认方式
type ReviewPolicy int

const (
	// ReviewAny 任一座位确认即进入出牌
	ReviewAny ReviewPolicy = iota
	// ReviewAll 四个座位都确认后进入出牌
	ReviewAll
)

func (p ReviewPolicy) String() string {
	switch p {
	case ReviewAny:
		return "any"
	case ReviewAll:
		return "all"
	}
	return fmt.Sprintf("ReviewPolicy(%d)", int(p))
}

// ParseReviewPolicy 解析配置中的确认策略
func ParseReviewPolicy(s string) (ReviewPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return ReviewAny, nil
	case "all":
		return ReviewAll, nil
	}
	return 0, fmt.Errorf("未知的确认策略: %q", s)
}

// Rules 一局游戏的全部可配置规则，重放必须使用相同规则
type Rules struct {
	Bidding BiddingPolicy
	Review  ReviewPolicy
	MaxBid  int // 叫分上限，0 表示 DefaultMaxBid
	Meld    rule.MeldOptions
	Play    rule.PlayRules
	Scoring score.Rules
}

// DefaultMaxBid 默认叫分上限，远高于一局可能得到的分数
const DefaultMaxBid = 10000

// maxBid 旧记录中没有上限时按默认值处理
func (r Rules) maxBid() int {
	if r.MaxBid <= 0 {
		return DefaultMaxBid
	}
	return r.MaxBid
}

// DefaultRules 默认规则
func DefaultRules() Rules {
	return Rules{
		Bidding: SingleRound,
		Review:  ReviewAny,
		MaxBid:  DefaultMaxBid,
		Meld:    rule.MeldOptions{Overlap: rule.Exclusive},
		Play:    rule.DefaultPlayRules(),
		Scoring: score.Rules{Table: score.Conventional()},
	}
}

// ClassicRules 与最初的联网版本一致的规则
func ClassicRules() Rules {
	return Rules{
		Bidding: SingleRound,
		Review:  ReviewAll,
		MaxBid:  DefaultMaxBid,
		Meld:    rule.MeldOptions{Overlap: rule.Additive, DoubleRounds: true},
		Play:    rule.DefaultPlayRules(),
		Scoring: score.Rules{Table: score.Counters(), LastTrickBonus: 10},
	}
}
