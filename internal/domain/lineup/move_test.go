package lineup

import (
	"math/rand/v2"
	"testing"
	"time"
)

func testMeta() Meta {
	return Meta{
		ID:           "lineup-1",
		ScheduleName: "Thursday Night 5v5",
		Venue:        "Senayan Pitch 2",
		Date:         time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC),
		Time:         "19:00-20:30",
		Status:       StatusConfirmed,
	}
}

func gk(id, name string) Player {
	return Player{ID: id, Name: name, Position: PositionGoalkeeper}
}

func fp(id, name string) Player {
	return Player{ID: id, Name: name, Position: PositionFieldPlayer}
}

func exampleLineup() Lineup {
	return Normalize(testMeta(),
		[]Player{gk("alice", "Alice"), fp("bob", "Bob")},
		[]Player{gk("cara", "Cara")},
	)
}

func bigLineup() Lineup {
	return Normalize(testMeta(),
		[]Player{gk("a-gk", "Arif"), fp("a-1", "Budi"), fp("a-2", "Candra"), fp("a-3", "Dimas"), fp("a-4", "Eko")},
		[]Player{fp("b-1", "Fajar"), gk("b-gk", "Gilang"), fp("b-2", "Hadi"), fp("b-3", "Irfan")},
	)
}

func ids(players []Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func assertIDs(t *testing.T, side Side, got []Player, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("team %s: got %v, want %v", side, gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("team %s: got %v, want %v", side, gotIDs, want)
		}
	}
}

func TestReorder_MovesWithinTeamAndRenumbers(t *testing.T) {
	l := bigLineup()

	res := Reorder(l, "a-3", 0)
	if !res.Changed {
		t.Fatalf("expected reorder to change lineup: %s", res.Reason)
	}
	assertIDs(t, TeamA, res.Lineup.TeamA(), "a-3", "a-gk", "a-1", "a-2", "a-4")
	assertIDs(t, TeamB, res.Lineup.TeamB(), "b-1", "b-gk", "b-2", "b-3")
	if err := CheckInvariants(res.Lineup); err != nil {
		t.Fatalf("invariants broken: %v", err)
	}
	if res.Kind != MoveReorder || res.TargetTeam != TeamA {
		t.Fatalf("unexpected result metadata: %+v", res)
	}
}

func TestReorder_ClampsOutOfRangeIndex(t *testing.T) {
	l := bigLineup()

	res := Reorder(l, "a-gk", 99)
	if !res.Changed {
		t.Fatalf("expected clamped reorder to apply")
	}
	assertIDs(t, TeamA, res.Lineup.TeamA(), "a-1", "a-2", "a-3", "a-4", "a-gk")

	res = Reorder(res.Lineup, "a-4", -7)
	assertIDs(t, TeamA, res.Lineup.TeamA(), "a-4", "a-1", "a-2", "a-3", "a-gk")
	if err := CheckInvariants(res.Lineup); err != nil {
		t.Fatalf("invariants broken: %v", err)
	}
}

func TestReorder_SamePositionIsNoop(t *testing.T) {
	l := bigLineup()

	res := Reorder(l, "a-1", 1)
	if res.Changed {
		t.Fatalf("expected no-op for same index")
	}
	if !res.Lineup.Equal(l) {
		t.Fatalf("expected lineup to be returned unchanged")
	}
}

func TestReorder_UnknownPlayerRejected(t *testing.T) {
	l := bigLineup()

	res := Reorder(l, "ghost", 0)
	if res.Changed || res.Reason == "" {
		t.Fatalf("expected rejection with reason, got %+v", res)
	}
	if !res.Lineup.Equal(l) {
		t.Fatalf("expected lineup to be returned unchanged")
	}
}

func TestTransfer_FieldPlayer(t *testing.T) {
	l := bigLineup()

	res := Transfer(l, "a-2", TeamB, 1)
	if !res.Changed || res.Swapped {
		t.Fatalf("expected plain transfer, got %+v", res)
	}
	assertIDs(t, TeamA, res.Lineup.TeamA(), "a-gk", "a-1", "a-3", "a-4")
	assertIDs(t, TeamB, res.Lineup.TeamB(), "b-1", "a-2", "b-gk", "b-2", "b-3")

	moved, _ := res.Lineup.Player("a-2")
	if moved.Team != TeamB || moved.Order != 2 {
		t.Fatalf("unexpected moved player state: %+v", moved)
	}
	if err := CheckInvariants(res.Lineup); err != nil {
		t.Fatalf("invariants broken: %v", err)
	}
}

func TestTransfer_GoalkeeperIntoTeamWithoutGoalkeeper(t *testing.T) {
	l := Normalize(testMeta(),
		[]Player{gk("a-gk", "Arif"), fp("a-1", "Budi")},
		[]Player{fp("b-1", "Fajar")},
	)

	res := Transfer(l, "a-gk", TeamB, AppendIndex)
	if !res.Changed || res.Swapped {
		t.Fatalf("expected plain transfer, got %+v", res)
	}
	assertIDs(t, TeamA, res.Lineup.TeamA(), "a-1")
	assertIDs(t, TeamB, res.Lineup.TeamB(), "b-1", "a-gk")
}

func TestTransfer_GoalkeeperSwapScenario(t *testing.T) {
	l := exampleLineup()

	res := Transfer(l, "alice", TeamB, 0)
	if !res.Changed {
		t.Fatalf("expected transfer to apply: %s", res.Reason)
	}
	if !res.Swapped || res.DisplacedPlayerID != "cara" {
		t.Fatalf("expected goalkeeper swap with cara, got %+v", res)
	}

	assertIDs(t, TeamA, res.Lineup.TeamA(), "bob", "cara")
	assertIDs(t, TeamB, res.Lineup.TeamB(), "alice")

	cara, _ := res.Lineup.Player("cara")
	if cara.Team != TeamA || cara.Order != 2 || !cara.IsGoalkeeper() {
		t.Fatalf("unexpected displaced keeper: %+v", cara)
	}
	alice, _ := res.Lineup.Player("alice")
	if alice.Team != TeamB || alice.Order != 1 {
		t.Fatalf("unexpected mover: %+v", alice)
	}
	if err := CheckInvariants(res.Lineup); err != nil {
		t.Fatalf("invariants broken: %v", err)
	}
}

func TestTransfer_SwapPreservesTeamSizes(t *testing.T) {
	l := bigLineup()

	res := Transfer(l, "a-gk", TeamB, 3)
	if !res.Swapped {
		t.Fatalf("expected swap")
	}
	if res.Lineup.TeamSize(TeamA) != l.TeamSize(TeamA) || res.Lineup.TeamSize(TeamB) != l.TeamSize(TeamB) {
		t.Fatalf("team sizes changed: A %d->%d B %d->%d",
			l.TeamSize(TeamA), res.Lineup.TeamSize(TeamA), l.TeamSize(TeamB), res.Lineup.TeamSize(TeamB))
	}
	// index 3 pointed past the old keeper at 1, so the mover keeps its place
	// relative to b-2.
	assertIDs(t, TeamB, res.Lineup.TeamB(), "b-1", "b-2", "a-gk", "b-3")
	assertIDs(t, TeamA, res.Lineup.TeamA(), "a-1", "a-2", "a-3", "a-4", "b-gk")
}

func TestTransfer_SwapOntoKeeperSlot(t *testing.T) {
	l := bigLineup()

	res := Transfer(l, "a-gk", TeamB, 1)
	if !res.Swapped {
		t.Fatalf("expected swap")
	}
	assertIDs(t, TeamB, res.Lineup.TeamB(), "b-1", "a-gk", "b-2", "b-3")
}

func TestTransfer_Rejections(t *testing.T) {
	l := bigLineup()

	cases := []struct {
		name     string
		playerID string
		team     Side
		index    int
	}{
		{name: "unknown player", playerID: "ghost", team: TeamB, index: 0},
		{name: "already in target team", playerID: "a-1", team: TeamA, index: 0},
		{name: "invalid team", playerID: "a-1", team: Side("C"), index: 0},
		{name: "index past end", playerID: "a-1", team: TeamB, index: 5},
		{name: "negative index", playerID: "a-1", team: TeamB, index: -3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Transfer(l, tc.playerID, tc.team, tc.index)
			if res.Changed {
				t.Fatalf("expected rejection")
			}
			if res.Reason == "" {
				t.Fatalf("expected rejection reason")
			}
			if !res.Lineup.Equal(l) {
				t.Fatalf("expected input lineup back")
			}
		})
	}
}

func TestTransfer_DoesNotMutateInput(t *testing.T) {
	l := bigLineup()
	beforeA := l.TeamA()
	beforeB := l.TeamB()

	_ = Transfer(l, "a-gk", TeamB, 0)
	_ = Reorder(l, "b-3", 0)

	assertIDs(t, TeamA, l.TeamA(), ids(beforeA)...)
	assertIDs(t, TeamB, l.TeamB(), ids(beforeB)...)
	if err := CheckInvariants(l); err != nil {
		t.Fatalf("input lineup changed: %v", err)
	}
}

func TestExecute_Dispatch(t *testing.T) {
	l := bigLineup()

	res := Execute(l, TransferCommand{PlayerID: "b-1", TargetTeam: TeamA, TargetIndex: 0})
	if !res.Changed || res.Kind != MoveTransfer {
		t.Fatalf("unexpected transfer dispatch: %+v", res)
	}
	res = Execute(l, &ReorderCommand{PlayerID: "b-3", TargetIndex: 0})
	if !res.Changed || res.Kind != MoveReorder {
		t.Fatalf("unexpected reorder dispatch: %+v", res)
	}
	res = Execute(l, nil)
	if res.Changed {
		t.Fatalf("expected nil command to be rejected")
	}
}

func TestEngine_InvariantsHoldForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(2026, 10))

	for run := 0; run < 50; run++ {
		l := Normalize(testMeta(),
			[]Player{gk("a-gk", "A Keeper"), fp("a-1", ""), fp("a-2", ""), fp("a-3", "")},
			[]Player{fp("b-1", ""), gk("b-gk", "B Keeper"), fp("b-2", "")},
		)
		all := ids(append(l.TeamA(), l.TeamB()...))
		total := l.TotalPlayers()

		for step := 0; step < 200; step++ {
			playerID := all[rng.IntN(len(all))]
			var res MoveResult
			if rng.IntN(2) == 0 {
				res = Reorder(l, playerID, rng.IntN(12)-3)
			} else {
				team := TeamA
				if rng.IntN(2) == 0 {
					team = TeamB
				}
				res = Transfer(l, playerID, team, rng.IntN(l.TeamSize(team)+2)-1)
			}
			if !res.Changed && !res.Lineup.Equal(l) {
				t.Fatalf("run %d step %d: unchanged result differs from input", run, step)
			}
			l = res.Lineup

			if err := CheckInvariants(l); err != nil {
				t.Fatalf("run %d step %d: %v", run, step, err)
			}
			if l.TotalPlayers() != total {
				t.Fatalf("run %d step %d: total players %d, want %d", run, step, l.TotalPlayers(), total)
			}
			for _, id := range all {
				if _, _, ok := l.Locate(id); !ok {
					t.Fatalf("run %d step %d: player %s lost", run, step, id)
				}
			}
		}
	}
}
