package engine

// LegalActions enumerates every action the acting seat may take in the
// current phase. Returns nil when the round is complete.
func (r *RoundState) LegalActions() []Action {
	seat := r.Turn
	switch r.Phase {
	case PhaseAuction:
		bids := r.LegalBids(seat)
		out := make([]Action, len(bids))
		for i, b := range bids {
			out[i] = Action{Type: ActionBid, Seat: seat, Bid: b}
		}
		return out

	case PhaseExchangePickup:
		return []Action{{Type: ActionPickUpTalon, Seat: seat}}

	case PhaseExchangeDiscard:
		s := &r.Seats[seat]
		var out []Action
		for i := uint8(0); i < s.HandLen; i++ {
			for j := i + 1; j < s.HandLen; j++ {
				out = append(out, Action{
					Type:    ActionDiscard,
					Seat:    seat,
					Discard: [2]Card{s.Hand[i], s.Hand[j]},
				})
			}
		}
		return out

	case PhaseDeclaring:
		contracts := r.LegalContracts()
		out := make([]Action, len(contracts))
		for i, c := range contracts {
			out[i] = Action{Type: ActionDeclare, Seat: seat, Contract: c}
		}
		return out

	case PhaseWhisting:
		return []Action{
			{Type: ActionWhist, Seat: seat, Whist: WhistHold},
			{Type: ActionWhist, Seat: seat, Whist: WhistPass},
		}

	case PhasePlaying:
		cards := r.LegalCards(seat)
		out := make([]Action, len(cards))
		for i, c := range cards {
			out[i] = Action{Type: ActionPlayCard, Seat: seat, Card: c}
		}
		return out
	}
	return nil
}

// Apply routes an action to the matching operation.
func (r *RoundState) Apply(a Action) error {
	switch a.Type {
	case ActionBid:
		return r.ApplyBid(a.Seat, a.Bid)
	case ActionPickUpTalon:
		return r.PickUpTalon(a.Seat)
	case ActionDiscard:
		return r.Discard(a.Seat, a.Discard)
	case ActionDeclare:
		return r.DeclareContract(a.Seat, a.Contract)
	case ActionWhist:
		return r.WhistDecision(a.Seat, a.Whist)
	case ActionPlayCard:
		return r.PlayCard(a.Seat, a.Card)
	}
	return &InvalidGameStateError{Op: "apply", Phase: r.Phase}
}
