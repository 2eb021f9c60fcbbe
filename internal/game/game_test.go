package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-s-yu/preferans/engine"
	"github.com/jason-s-yu/preferans/internal/models"
)

func newTestPlayer(name string) *models.Player {
	id := uuid.New()
	return &models.Player{
		ID:        id,
		Connected: true,
		User:      &models.User{ID: id, Username: name},
	}
}

// seatGame builds a started three-player table with captured broadcasts.
func seatGame(t *testing.T) (*PreferansGame, []*models.Player, *[]GameEvent) {
	t.Helper()
	g := NewPreferansGame()
	events := &[]GameEvent{}
	g.BroadcastFn = func(ev GameEvent) { *events = append(*events, ev) }

	players := []*models.Player{newTestPlayer("mira"), newTestPlayer("bojan"), newTestPlayer("sava")}
	g.Mu.Lock()
	for _, p := range players {
		require.True(t, g.AddPlayer(p))
	}
	g.Mu.Unlock()

	g.Start()
	require.True(t, g.Started)
	require.True(t, g.RoundActive)
	return g, players, events
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	g := NewPreferansGame()
	reg.Add(g)

	assert.Equal(t, g, reg.Get(g.ID))
	assert.Len(t, reg.List(), 1)
	reg.Remove(g.ID)
	assert.Nil(t, reg.Get(g.ID))
}

func TestAddPlayerSeating(t *testing.T) {
	g := NewPreferansGame()
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p0 := newTestPlayer("a")
	p1 := newTestPlayer("b")
	p2 := newTestPlayer("c")
	require.True(t, g.AddPlayer(p0))
	require.True(t, g.AddPlayer(p1))
	require.True(t, g.AddPlayer(p2))
	assert.Equal(t, uint8(0), p0.Seat)
	assert.Equal(t, uint8(2), p2.Seat)

	assert.False(t, g.AddPlayer(newTestPlayer("d")), "fourth player must be rejected")

	// Same player again is a reconnect, not a new seat.
	again := &models.Player{ID: p1.ID, User: p1.User}
	assert.True(t, g.AddPlayer(again))
	assert.Len(t, g.Players, 3)
}

func TestFillSeatsWithBots(t *testing.T) {
	g := NewPreferansGame()
	g.Mu.Lock()
	require.True(t, g.AddPlayer(newTestPlayer("solo")))
	g.FillSeatsWithBots(func(seat uint8) engine.Policy { return NewGreedyPolicy(seat) })
	g.Mu.Unlock()

	assert.Len(t, g.Players, engine.NumSeats)
	assert.Len(t, g.bots, 2)
}

func TestParseBid(t *testing.T) {
	cases := map[string]engine.Bid{
		"pass":    {Type: engine.BidPass},
		"game_3":  {Type: engine.BidGame, Value: 3},
		"in_hand": {Type: engine.BidInHand},
		"betl":    {Type: engine.BidBetl},
		"sans":    {Type: engine.BidSans},
	}
	for wire, want := range cases {
		got, err := parseBid(wire)
		require.NoError(t, err, wire)
		assert.Equal(t, want, got, wire)
	}
	_, err := parseBid("game_9")
	assert.Error(t, err)
}

func TestParseContract(t *testing.T) {
	c, err := parseContract("3_hearts")
	require.NoError(t, err)
	assert.Equal(t, engine.Contract{Level: 3, Trump: int8(engine.SuitHearts)}, c)

	c, err = parseContract("betl")
	require.NoError(t, err)
	assert.True(t, c.IsBetl())

	for _, bad := range []string{"", "6_spades", "3-hearts", "3_moons"} {
		_, err := parseContract(bad)
		assert.Error(t, err, bad)
	}
}

// TestHandlePlayerActionAuction drives a thrown-in round through the client
// action surface and checks the table rolls the next deal without rotating
// the dealer.
func TestHandlePlayerActionAuction(t *testing.T) {
	g, players, events := seatGame(t)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	dealer := g.Dealer
	round := g.RoundNumber

	for i := 0; i < engine.NumSeats; i++ {
		seat := g.Round.ActingSeat()
		pid := g.SeatToPlayer[seat]
		g.HandlePlayerAction(pid, models.GameAction{
			ActionType: "action_bid",
			Payload:    map[string]interface{}{"bid": "pass"},
		})
	}

	assert.False(t, g.RoundActive)
	assert.Equal(t, dealer, g.Dealer, "all-passed round must not rotate the dealer")
	assert.Equal(t, round, g.RoundNumber)

	var sawRoundEnd bool
	for _, ev := range *events {
		if ev.Type == EventRoundEnd {
			sawRoundEnd = true
			assert.Equal(t, "all_passed", ev.Payload["outcome"])
		}
	}
	assert.True(t, sawRoundEnd, "round_end event missing")
	for _, p := range players {
		assert.Zero(t, g.Totals[p.ID])
	}
}

// TestAllPassedRedealSameRoundNumber: the deal after a thrown-in round
// replays the same round number instead of consuming one.
func TestAllPassedRedealSameRoundNumber(t *testing.T) {
	g, _, _ := seatGame(t)

	g.Mu.Lock()
	defer g.Mu.Unlock()

	// Even a one-round table is not closed by a thrown-in deal.
	g.TargetRounds = 1

	for i := 0; i < engine.NumSeats; i++ {
		seat := g.Round.ActingSeat()
		g.HandlePlayerAction(g.SeatToPlayer[seat], models.GameAction{
			ActionType: "action_bid",
			Payload:    map[string]interface{}{"bid": "pass"},
		})
	}
	require.False(t, g.RoundActive)
	require.Equal(t, 1, g.RoundNumber)
	require.False(t, g.GameOver)

	g.startRound()
	assert.Equal(t, 1, g.RoundNumber, "redeal must keep the round number")
	assert.True(t, g.RoundActive)
	assert.False(t, g.GameOver)
}

// TestHandlePlayerActionValidation: wrong turn and malformed payloads reach
// the player as private failures, not as state changes.
func TestHandlePlayerActionValidation(t *testing.T) {
	g, _, _ := seatGame(t)

	var fails []GameEvent
	g.BroadcastToPlayerFn = func(_ uuid.UUID, ev GameEvent) {
		if ev.Type == EventPrivateActionFail {
			fails = append(fails, ev)
		}
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()

	acting := g.Round.ActingSeat()
	wrongSeat := (acting + 1) % engine.NumSeats
	before := g.Round

	g.HandlePlayerAction(g.SeatToPlayer[wrongSeat], models.GameAction{
		ActionType: "action_bid",
		Payload:    map[string]interface{}{"bid": "pass"},
	})
	g.HandlePlayerAction(g.SeatToPlayer[acting], models.GameAction{
		ActionType: "action_bid",
		Payload:    map[string]interface{}{"bid": "game_4"},
	})
	g.HandlePlayerAction(g.SeatToPlayer[acting], models.GameAction{
		ActionType: "action_conjure",
	})

	assert.Equal(t, before, g.Round, "rejected actions must not mutate the round")
	assert.Len(t, fails, 3)
}

// TestGreedyPolicyPlaysLegally runs full rounds with the heuristic bot in
// every seat; the policy must never pick an illegal action.
func TestGreedyPolicyPlaysLegally(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		r := engine.NewRound(seed, engine.DefaultHouseRules(), uint8(seed%engine.NumSeats))
		policies := [engine.NumSeats]engine.Policy{
			NewGreedyPolicy(0), NewGreedyPolicy(1), NewGreedyPolicy(2),
		}
		steps := 0
		for !r.IsTerminal() {
			seat := r.ActingSeat()
			legal := r.LegalActions()
			require.NotEmpty(t, legal, "seed %d: no legal actions in %s", seed, r.Phase)
			a := policies[seat].ChooseAction(&r, legal)
			require.NoError(t, r.Apply(a), "seed %d phase %s", seed, r.Phase)
			steps++
			require.Less(t, steps, 200, "seed %d: round did not terminate", seed)
		}
		_, err := r.Score()
		require.NoError(t, err, "seed %d", seed)
	}
}

// TestObfuscation: a viewer sees their own cards and only counts for the
// others.
func TestObfuscation(t *testing.T) {
	g, players, _ := seatGame(t)
	g.Mu.Lock()
	defer g.Mu.Unlock()

	state := g.GetCurrentObfuscatedRoundState(players[0].ID)
	require.Len(t, state.Seats, engine.NumSeats)
	for _, ss := range state.Seats {
		assert.Equal(t, engine.HandSize, ss.HandSize)
		if ss.PlayerID == players[0].ID {
			assert.Len(t, ss.RevealedHand, engine.HandSize)
		} else {
			assert.Empty(t, ss.RevealedHand, "opponent hand leaked to viewer")
		}
	}
	assert.Equal(t, "auction", state.Phase)
	assert.Equal(t, -1, state.Declarer)
}
