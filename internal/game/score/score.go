// Package score 负责一局结束时的计分：墩分、牌组分、叫分未达成的扣分以及目标分判定。
package score

import (
	"fmt"
	"strings"

	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// PointTable 每个点数的墩分
type PointTable map[card.Rank]int

// Conventional 默认分值表：A 11, T 10, K 4, Q 3, J 2, 9 0
func Conventional() PointTable {
	return PointTable{
		card.Ace:   11,
		card.Ten:   10,
		card.King:  4,
		card.Queen: 3,
		card.Jack:  2,
		card.Nine:  0,
	}
}

// Counters 计数牌分值表：A 与 T 各 10，K 与 Q 各 5，其余 0
func Counters() PointTable {
	return PointTable{
		card.Ace:   10,
		card.Ten:   10,
		card.King:  5,
		card.Queen: 5,
		card.Jack:  0,
		card.Nine:  0,
	}
}

// ParsePointTable 按名称返回分值表
func ParsePointTable(name string) (PointTable, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "conventional":
		return Conventional(), nil
	case "counters":
		return Counters(), nil
	}
	return nil, fmt.Errorf("未知的分值表: %q", name)
}

// Points 统计一组牌的墩分
func (t PointTable) Points(cards []card.Card) int {
	total := 0
	for _, c := range cards {
		total += t[c.Rank]
	}
	return total
}

// Rules 计分规则
type Rules struct {
	Table          PointTable
	LastTrickBonus int // 赢得最后一墩的队伍额外得分
	TargetScore    int // 任一队累计达到该分时游戏结束，0 表示不限
}

// RoundInput 一局结束时的原始数据
type RoundInput struct {
	Piles         [2][]card.Card
	Meld          [2]int
	LastTrick     seat.Team
	BidWinnerTeam seat.Team
	HighestBid    int
}

// TeamRound 一支队伍在一局中的得分明细
type TeamRound struct {
	TrickPoints int  `json:"trick_points"`
	Meld        int  `json:"meld"`
	Earned      int  `json:"earned"` // 墩分 + 牌组分
	Score       int  `json:"score"`  // 计入累计分的最终得分
	SetBack     bool `json:"set_back"`
}

// RoundResult 一局的计分结果
type RoundResult struct {
	Teams      [2]TeamRound `json:"teams"`
	BidWinner  seat.Team    `json:"bid_winner_team"`
	HighestBid int          `json:"highest_bid"`
}

// Scores 返回两队本局最终得分
func (r RoundResult) Scores() [2]int {
	return [2]int{r.Teams[0].Score, r.Teams[1].Score}
}

// Round 计算一局得分；叫分方得分不足叫分时改记为负的叫分
func (r Rules) Round(in RoundInput) RoundResult {
	result := RoundResult{BidWinner: in.BidWinnerTeam, HighestBid: in.HighestBid}
	for team := range 2 {
		tr := TeamRound{
			TrickPoints: r.Table.Points(in.Piles[team]),
			Meld:        in.Meld[team],
		}
		if seat.Team(team) == in.LastTrick {
			tr.TrickPoints += r.LastTrickBonus
		}
		tr.Earned = tr.TrickPoints + tr.Meld
		tr.Score = tr.Earned
		if seat.Team(team) == in.BidWinnerTeam && tr.Earned < in.HighestBid {
			tr.Score = -in.HighestBid
			tr.SetBack = true
		}
		result.Teams[team] = tr
	}
	return result
}

// Winner 判定游戏是否结束；双方同时达标时分高者胜，平分时叫分方胜
func (r Rules) Winner(totals [2]int, bidWinnerTeam seat.Team) (seat.Team, bool) {
	if r.TargetScore <= 0 {
		return 0, false
	}
	reachedAC := totals[seat.TeamAC] >= r.TargetScore
	reachedBD := totals[seat.TeamBD] >= r.TargetScore
	switch {
	case reachedAC && reachedBD:
		if totals[seat.TeamAC] == totals[seat.TeamBD] {
			return bidWinnerTeam, true
		}
		if totals[seat.TeamAC] > totals[seat.TeamBD] {
			return seat.TeamAC, true
		}
		return seat.TeamBD, true
	case reachedAC:
		return seat.TeamAC, true
	case reachedBD:
		return seat.TeamBD, true
	}
	return 0, false
}
