package engine

import "testing"

// TestMarshalRoundTrip: a serialized round restores to an identical state at
// several points of the round lifecycle.
func TestMarshalRoundTrip(t *testing.T) {
	r := NewRound(123, DefaultHouseRules(), 0)

	checkpoints := []func() error{
		func() error { return nil },
		func() error { return r.ApplyBid(1, Bid{Type: BidGame, Value: 2}) },
		func() error { return r.ApplyBid(2, Bid{Type: BidPass}) },
		func() error { return r.ApplyBid(0, Bid{Type: BidPass}) },
		func() error { return r.PickUpTalon(1) },
		func() error { return r.Discard(1, [2]Card{r.Seats[1].Hand[0], r.Seats[1].Hand[1]}) },
	}

	for i, step := range checkpoints {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		data, err := r.Marshal()
		if err != nil {
			t.Fatalf("step %d marshal: %v", i, err)
		}
		restored, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("step %d unmarshal: %v", i, err)
		}
		if restored != r {
			t.Fatalf("step %d: restored state differs from original", i)
		}
	}
}

// TestRestoredStateKeepsPlaying: a deserialized round accepts the same legal
// actions as the original.
func TestRestoredStateKeepsPlaying(t *testing.T) {
	r := NewRound(77, DefaultHouseRules(), 2)
	if err := r.ApplyBid(0, Bid{Type: BidGame, Value: 2}); err != nil {
		t.Fatalf("bid: %v", err)
	}

	data, err := r.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	legalA := r.LegalActions()
	legalB := restored.LegalActions()
	if len(legalA) != len(legalB) {
		t.Fatalf("legal action counts differ: %d vs %d", len(legalA), len(legalB))
	}
	for i := range legalA {
		if legalA[i] != legalB[i] {
			t.Errorf("legal action %d differs: %v vs %v", i, legalA[i], legalB[i])
		}
	}
	if err := restored.ApplyBid(restored.ActingSeat(), Bid{Type: BidPass}); err != nil {
		t.Errorf("restored state rejected a legal bid: %v", err)
	}
}
