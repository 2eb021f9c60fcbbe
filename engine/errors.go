package engine

import "fmt"

// NotPlayerTurnError is returned when a seat acts out of turn.
type NotPlayerTurnError struct {
	Seat   uint8
	Acting uint8
}

func (e *NotPlayerTurnError) Error() string {
	return fmt.Sprintf("seat %d acted out of turn (seat %d to act)", e.Seat, e.Acting)
}

// IllegalBidError is returned for a bid outside the legal set.
type IllegalBidError struct {
	Bid    Bid
	Reason string
}

func (e *IllegalBidError) Error() string {
	return fmt.Sprintf("illegal bid %s: %s", e.Bid, e.Reason)
}

// IllegalCardError is returned for a card play that violates follow or trump
// obligations, or for a card the seat does not hold.
type IllegalCardError struct {
	Card   Card
	Reason string
}

func (e *IllegalCardError) Error() string {
	return fmt.Sprintf("illegal card %s: %s", e.Card, e.Reason)
}

// InvalidDiscardError is returned when the exchange discard is malformed.
type InvalidDiscardError struct {
	Reason string
}

func (e *InvalidDiscardError) Error() string {
	return fmt.Sprintf("invalid discard: %s", e.Reason)
}

// InvalidContractError is returned for an undeclarable contract.
type InvalidContractError struct {
	Contract Contract
	Reason   string
}

func (e *InvalidContractError) Error() string {
	return fmt.Sprintf("invalid contract %s: %s", e.Contract, e.Reason)
}

// InvalidGameStateError is returned when an operation does not match the
// current phase.
type InvalidGameStateError struct {
	Op    string
	Phase Phase
}

func (e *InvalidGameStateError) Error() string {
	return fmt.Sprintf("%s not legal in phase %s", e.Op, e.Phase)
}
