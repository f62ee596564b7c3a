package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/rule"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// RenderCard 渲染单张牌
func RenderCard(c card.Card) string {
	return suitStyle(c.Suit).Render(" " + c.String() + " ")
}

// RenderCards 渲染一组牌，带下标以便输入动作
func RenderCards(cards []card.Card, withIndex bool) string {
	if len(cards) == 0 {
		return LabelStyle.Render("（无）")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		if withIndex {
			parts[i] = lipgloss.JoinVertical(lipgloss.Center, RenderCard(c), LabelStyle.Render(fmt.Sprint(i)))
		} else {
			parts[i] = RenderCard(c)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderHands 渲染四个座位的手牌
func RenderHands(names [seat.Count]string, hands [seat.Count][]card.Card) string {
	var sb strings.Builder
	for _, s := range seat.All {
		fmt.Fprintf(&sb, "%s\n%s\n", seatLabel(s, names), RenderCards(hands[s], true))
	}
	return BoxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderMeld 渲染牌组计分结果
func RenderMeld(result rule.MeldResult) string {
	if len(result.Melds) == 0 {
		return LabelStyle.Render("无牌组")
	}
	names := make([]string, len(result.Melds))
	for i, m := range result.Melds {
		names[i] = m.String()
	}
	line := fmt.Sprintf("%d 分: %s", result.Total, strings.Join(names, ", "))
	if len(result.Overlaps) > 0 {
		line += LabelStyle.Render(fmt.Sprintf("（%d 张牌被多个牌组共用）", len(result.Overlaps)))
	}
	return line
}

// RenderSnapshot 渲染公开快照：比分、座位、当前阶段与历史
func RenderSnapshot(snap game.Snapshot) string {
	header := TitleStyle(fmt.Sprintf("🃏 第 %d 局 · %s", snap.Round, phaseName(snap.Phase)))
	score := fmt.Sprintf("%s %d    %s %d",
		seat.TeamAC, snap.Scores[seat.TeamAC], seat.TeamBD, snap.Scores[seat.TeamBD])

	sections := []string{header, BoxStyle.Render(score), renderSeats(snap)}
	if detail := renderPhase(snap); detail != "" {
		sections = append(sections, BoxStyle.Render(detail))
	}
	if len(snap.History) > 0 {
		sections = append(sections, renderHistory(snap.History))
	}
	return DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func renderSeats(snap game.Snapshot) string {
	bidder, hasBidder := contractOf(snap.Phase)
	var rows []string
	for _, s := range seat.All {
		marker := "  "
		if !snap.Over() && s == snap.CurrentPlayer {
			marker = CurrentIcon
		}
		row := fmt.Sprintf("%s %s  %d 张", marker, seatLabel(s, snap.PlayerNames), snap.HandSizes[s])
		if hasBidder && s == bidder.BidWinner {
			row += fmt.Sprintf("  %s %d", BidderIcon, bidder.HighestBid)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func renderPhase(snap game.Snapshot) string {
	switch p := snap.Phase.(type) {
	case *game.BiddingPhase:
		if len(p.Bids) == 0 {
			return "等待叫分"
		}
		bids := make([]string, len(p.Bids))
		for i, b := range p.Bids {
			if b.Amount == 0 {
				bids[i] = fmt.Sprintf("%s pass", b.Seat)
			} else {
				bids[i] = fmt.Sprintf("%s %d", b.Seat, b.Amount)
			}
		}
		return "叫分: " + strings.Join(bids, ", ")
	case *game.DeclareTrumpPhase:
		return fmt.Sprintf("等待 %s 选择将牌", p.BidWinner)
	case *game.PassingToPhase:
		return fmt.Sprintf("将牌 %s · %s 向 %s 传牌", trump(p.Trump), p.BidWinner.Partner(), p.BidWinner)
	case *game.PassingBackPhase:
		return fmt.Sprintf("将牌 %s · %s 回传", trump(p.Trump), p.BidWinner)
	case *game.RevealingPhase:
		return fmt.Sprintf("将牌 %s · 亮牌\n%s", trump(p.Trump), renderReveals(p.Reveals, snap.PlayerNames))
	case *game.ReviewingPhase:
		return fmt.Sprintf("将牌 %s · 确认亮牌  牌组分 %v\n%s", trump(p.Trump), p.ExtraPoints, renderReveals(p.Reveals, snap.PlayerNames))
	case *game.PlayPhase:
		lines := []string{fmt.Sprintf("将牌 %s · 已出 %d 墩  牌组分 %v", trump(p.Trump), p.TricksPlayed, p.ExtraPoints)}
		if len(p.Trick.Cards) > 0 {
			lines = append(lines, fmt.Sprintf("本墩（%s 先出）: %s", p.Trick.Leader, RenderCards(p.Trick.Cards, false)))
		}
		if p.LastTrick != nil {
			lines = append(lines, fmt.Sprintf("上一墩 %s 赢: %s", p.LastTrick.Winner, RenderCards(p.LastTrick.Cards, false)))
		}
		return strings.Join(lines, "\n")
	case *game.FinishedPhase:
		return WinnerStyle.Render(fmt.Sprintf("🏆 %s 获胜", p.Winner))
	}
	return ""
}

func renderReveals(reveals [4]*game.Reveal, names [seat.Count]string) string {
	var rows []string
	for _, s := range seat.All {
		r := reveals[s]
		if r == nil {
			rows = append(rows, fmt.Sprintf("%s  …", seatLabel(s, names)))
			continue
		}
		rows = append(rows, fmt.Sprintf("%s  %s  %s", seatLabel(s, names), RenderCards(r.Cards, false), RenderMeld(r.Meld)))
	}
	return strings.Join(rows, "\n")
}

func renderHistory(history []game.RoundSummary) string {
	rows := []string{LabelStyle.Render("局  叫分        将牌  A+C          B+D          累计")}
	for _, h := range history {
		teams := h.Result.Teams
		rows = append(rows, fmt.Sprintf("%-3d %s %-4d  %s    %-12s %-12s %d:%d",
			h.Round, h.BidWinner, h.HighestBid, trump(h.Trump),
			teamCell(teams[seat.TeamAC].Earned, teams[seat.TeamAC].Score, teams[seat.TeamAC].SetBack),
			teamCell(teams[seat.TeamBD].Earned, teams[seat.TeamBD].Score, teams[seat.TeamBD].SetBack),
			h.Totals[seat.TeamAC], h.Totals[seat.TeamBD]))
	}
	return BoxStyle.Render(strings.Join(rows, "\n"))
}

func teamCell(earned, score int, setBack bool) string {
	if setBack {
		return fmt.Sprintf("%d→%d ✗", earned, score)
	}
	return fmt.Sprintf("%d", score)
}

func contractOf(p game.Phase) (game.Contract, bool) {
	switch p := p.(type) {
	case *game.DeclareTrumpPhase:
		return p.Contract, true
	case *game.PassingToPhase:
		return p.Contract, true
	case *game.PassingBackPhase:
		return p.Contract, true
	case *game.RevealingPhase:
		return p.Contract, true
	case *game.ReviewingPhase:
		return p.Contract, true
	case *game.PlayPhase:
		return p.Contract, true
	}
	return game.Contract{}, false
}

func phaseName(p game.Phase) string {
	if p == nil {
		return "-"
	}
	switch p.Kind() {
	case game.KindBidding:
		return "叫分"
	case game.KindDeclareTrump:
		return "定将"
	case game.KindPassingTo:
		return "传牌"
	case game.KindPassingBack:
		return "回传"
	case game.KindRevealing:
		return "亮牌"
	case game.KindReviewing:
		return "确认亮牌"
	case game.KindPlay:
		return "出牌"
	case game.KindFinished:
		return "结束"
	}
	return string(p.Kind())
}

func trump(s card.Suit) string {
	return suitStyle(s).Render(s.String())
}

func seatLabel(s seat.Seat, names [seat.Count]string) string {
	if names[s] == "" {
		return s.String()
	}
	return fmt.Sprintf("%s %s", s, names[s])
}

// RenderDeal 渲染发出的四手牌，以及每手牌在各花色做将时的牌组分
func RenderDeal(seed int64, hands [seat.Count][]card.Card, opts rule.MeldOptions) string {
	sections := []string{TitleStyle(fmt.Sprintf("🎲 种子 %d", seed))}
	for _, s := range seat.All {
		lines := []string{s.String(), RenderCards(hands[s], true)}
		for _, suit := range card.Suits {
			lines = append(lines, fmt.Sprintf("%s %s", trump(suit), RenderMeld(rule.EvaluateMeld(hands[s], suit, opts))))
		}
		sections = append(sections, BoxStyle.Render(strings.Join(lines, "\n")))
	}
	return DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
