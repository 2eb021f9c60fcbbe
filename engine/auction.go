package engine

// The auction is a strict total order:
// pass < game 2 < game 3 < game 4 < game 5 < in_hand < betl < sans.
// Each special bid (in_hand, betl, sans) may be used once per round by the
// table as a whole. A seat that passes is out for the rest of the auction.

const (
	minGameValue uint8 = 2
	maxGameValue uint8 = 5
)

func specialBit(t BidType) uint8 { return 1 << uint8(t) }

// LegalBids returns the bids seat may make right now, lowest first. Pass is
// always available.
func (r *RoundState) LegalBids(seat uint8) []Bid {
	bids := []Bid{{Type: BidPass}}
	if r.Phase != PhaseAuction || seat != r.Turn || r.Seats[seat].Passed {
		return bids
	}

	// The single smallest game value that outranks the current high bid.
	for v := minGameValue; v <= maxGameValue; v++ {
		b := Bid{Type: BidGame, Value: v}
		if r.HighBidder < 0 || b.Outranks(r.HighBid) {
			bids = append(bids, b)
			break
		}
	}

	for _, t := range [3]BidType{BidInHand, BidBetl, BidSans} {
		if r.SpecialsBid&specialBit(t) != 0 {
			continue
		}
		b := Bid{Type: t}
		if r.HighBidder < 0 || b.Outranks(r.HighBid) {
			bids = append(bids, b)
		}
	}
	return bids
}

// ApplyBid records seat's bid and advances or resolves the auction.
func (r *RoundState) ApplyBid(seat uint8, bid Bid) error {
	if r.Phase != PhaseAuction {
		return &InvalidGameStateError{Op: "bid", Phase: r.Phase}
	}
	if seat >= NumSeats || seat != r.Turn || r.Seats[seat].Passed {
		return &NotPlayerTurnError{Seat: seat, Acting: r.Turn}
	}
	if err := r.checkBid(seat, bid); err != nil {
		return err
	}

	r.Seats[seat].LastBid = bid
	if bid.Type == BidPass {
		r.Seats[seat].Passed = true
	} else {
		r.Seats[seat].HasBid = true
		r.HighBid = bid
		r.HighBidder = int8(seat)
		if bid.Type != BidGame {
			r.SpecialsBid |= specialBit(bid.Type)
		}
	}

	// Termination: nobody left, or a sole surviving bidder.
	remaining := int8(-1)
	count := 0
	for s := uint8(0); s < NumSeats; s++ {
		if !r.Seats[s].Passed {
			remaining = int8(s)
			count++
		}
	}
	switch {
	case count == 0:
		r.Outcome = OutcomeAllPassed
		r.Phase = PhaseComplete
		return nil
	case count == 1 && remaining == r.HighBidder:
		r.finishAuction(uint8(remaining))
		return nil
	}

	// Next unpassed seat.
	next := nextSeat(r.Turn)
	for r.Seats[next].Passed {
		next = nextSeat(next)
	}
	r.Turn = next
	return nil
}

func (r *RoundState) checkBid(seat uint8, bid Bid) error {
	switch bid.Type {
	case BidPass:
		return nil
	case BidGame:
		if bid.Value < minGameValue || bid.Value > maxGameValue {
			return &IllegalBidError{Bid: bid, Reason: "game value out of range"}
		}
		if r.HighBidder >= 0 && !bid.Outranks(r.HighBid) {
			return &IllegalBidError{Bid: bid, Reason: "does not outrank " + r.HighBid.String()}
		}
		// Only the smallest legal raise is permitted.
		if r.HighBidder >= 0 && r.HighBid.Type == BidGame && bid.Value != r.HighBid.Value+1 {
			return &IllegalBidError{Bid: bid, Reason: "must raise by the smallest step"}
		}
		if r.HighBidder < 0 && bid.Value != minGameValue {
			return &IllegalBidError{Bid: bid, Reason: "opening game bid must be the minimum"}
		}
	case BidInHand, BidBetl, BidSans:
		if r.SpecialsBid&specialBit(bid.Type) != 0 {
			return &IllegalBidError{Bid: bid, Reason: "already bid this round"}
		}
		if r.HighBidder >= 0 && !bid.Outranks(r.HighBid) {
			return &IllegalBidError{Bid: bid, Reason: "does not outrank " + r.HighBid.String()}
		}
	default:
		return &IllegalBidError{Bid: bid, Reason: "unknown bid type"}
	}
	return nil
}

// finishAuction transitions to the exchange (plain game bids) or straight to
// declaration (in-hand, betl and sans play without the talon).
func (r *RoundState) finishAuction(winner uint8) {
	r.Declarer = int8(winner)
	r.Turn = winner
	if r.HighBid.Type == BidGame {
		r.Phase = PhaseExchangePickup
	} else {
		r.Phase = PhaseDeclaring
	}
}
