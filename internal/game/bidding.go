package game

import (
	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// highestBid 返回最高叫分及其座位，同分时取最早的叫分
func (p *BiddingPhase) highestBid() (seat.Seat, int) {
	winner, highest := p.FirstBidder, 0
	for i, b := range p.Bids {
		if i == 0 || b.Amount > highest {
			winner, highest = b.Seat, b.Amount
		}
	}
	return winner, highest
}

// passed 报告座位是否已经 pass
func (p *BiddingPhase) passed(s seat.Seat) bool {
	for _, b := range p.Bids {
		if b.Seat == s && b.Amount == 0 {
			return true
		}
	}
	return false
}

func (p *BiddingPhase) passCount() int {
	n := 0
	for _, s := range seat.All {
		if p.passed(s) {
			n++
		}
	}
	return n
}

// finished 按策略判断叫分是否结束
func (p *BiddingPhase) finished(policy BiddingPolicy) bool {
	switch policy {
	case UntilThreePasses:
		passes := p.passCount()
		_, highest := p.highestBid()
		return passes == seat.Count || (passes == seat.Count-1 && highest > 0)
	default:
		return len(p.Bids) == seat.Count
	}
}

// nextBidder 下一个仍可叫分的座位
func (p *BiddingPhase) nextBidder(from seat.Seat, policy BiddingPolicy) seat.Seat {
	next := from.Next()
	if policy != UntilThreePasses {
		return next
	}
	for range seat.Count {
		if !p.passed(next) {
			return next
		}
		next = next.Next()
	}
	return next
}

func (g *Game) handleBidding(p *BiddingPhase, s seat.Seat, a Action) error {
	bid, err := expect[Bid](g, s, a)
	if err != nil {
		return err
	}
	if bid.Amount < 0 {
		return apperrors.ErrInvalidBid.WithDetail("叫分不能为负: %d", bid.Amount)
	}
	if limit := g.rules.maxBid(); bid.Amount > limit {
		return apperrors.ErrInvalidBid.WithDetail("叫分不能超过 %d: %d", limit, bid.Amount)
	}
	if g.rules.Bidding == UntilThreePasses && bid.Amount > 0 {
		if _, highest := p.highestBid(); len(p.Bids) > 0 && bid.Amount <= highest {
			return apperrors.ErrInvalidBid.WithDetail("叫分必须高于 %d", highest)
		}
	}

	p.Bids = append(p.Bids, BidEntry{Seat: s, Amount: bid.Amount})
	if !p.finished(g.rules.Bidding) {
		g.current = p.nextBidder(s, g.rules.Bidding)
		return nil
	}

	winner, highest := p.highestBid()
	g.phase = &DeclareTrumpPhase{Contract: Contract{BidWinner: winner, HighestBid: highest}}
	g.current = winner
	return nil
}
