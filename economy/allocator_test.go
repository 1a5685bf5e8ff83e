package economy

import (
	"testing"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/tuning"
)

const (
	me    = 1
	enemy = 2
)

func baseSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Tick:    1,
		Time:    30,
		Player:  me,
		Team:    1,
		Players: []model.PlayerInfo{{ID: me, Team: 1}, {ID: enemy, Team: 2}},
		Grid:    model.NewGrid(64, 64),
	}
}

func castle(id int, x, y float64) model.Entity {
	return model.Entity{ID: id, Owner: me, Team: 1, Type: model.Castle, Pos: model.Point{X: x, Y: y}, HP: 1500, MaxHP: 1500}
}

func mine(id int, x, y float64, gold int) model.Entity {
	return model.Entity{ID: id, Type: model.Goldmine, Pos: model.Point{X: x, Y: y}, Gold: gold, Neutral: true}
}

func worker(id int, x, y float64, order string, target int) model.Entity {
	return model.Entity{
		ID: id, Owner: me, Team: 1, Type: model.Worker,
		Pos: model.Point{X: x, Y: y}, HP: 40, MaxHP: 40,
		Order: model.Order{Name: order, TargetID: target},
	}
}

// mineLoads counts, after the pass, how many workers are headed to each mine:
// workers keep their old mine unless the batch re-targets them.
func mineLoads(s *model.Snapshot, out *model.OrderBatch) map[int]int {
	loads := make(map[int]int)
	for _, w := range s.Units {
		target := 0
		if w.HasOrder(model.OrderMine) {
			target = w.Order.TargetID
		}
		for _, c := range out.For(w.ID) {
			if c.Name == model.OrderMine && c.Target != nil {
				target = c.Target.EntityID
			}
		}
		if target != 0 {
			loads[target]++
		}
	}
	return loads
}

func TestRouteIdle_SkipsFullMine(t *testing.T) {
	s := baseSnapshot()
	s.Buildings = []model.Entity{
		castle(1, 20, 20),
		mine(10, 26, 20, 5000),
		mine(11, 20, 27, 5000),
	}
	id := 100
	for range 8 {
		s.Units = append(s.Units, worker(id, 26, 21, model.OrderMine, 10))
		id++
	}
	var idle []int
	for range 10 {
		s.Units = append(s.Units, worker(id, 21, 21, model.OrderStop, 0))
		idle = append(idle, id)
		id++
	}

	out := &model.OrderBatch{}
	Allocate(s, tuning.Default(), out)

	for _, c := range out.Named(model.OrderMine) {
		if c.Target.EntityID == 10 {
			t.Errorf("idle workers %v sent to full mine 10", c.Units)
		}
	}
	got := 0
	for _, w := range idle {
		for _, c := range out.For(w) {
			if c.Name == model.OrderMine && c.Target.EntityID == 11 {
				got++
			}
		}
	}
	if got != 8 {
		t.Errorf("expected 8 idle workers routed to mine 11, got %d", got)
	}
	for m, n := range mineLoads(s, out) {
		if n > 8 {
			t.Errorf("mine %d has %d workers, cap is 8", m, n)
		}
	}
}

func TestRouteIdle_FarWorkerReturnsHome(t *testing.T) {
	s := baseSnapshot()
	s.Buildings = []model.Entity{castle(1, 20, 20), mine(10, 26, 20, 5000)}
	s.Units = []model.Entity{worker(100, 50, 50, model.OrderStop, 0)}

	out := &model.OrderBatch{}
	Allocate(s, tuning.Default(), out)

	cmds := out.For(100)
	if len(cmds) != 1 || cmds[0].Name != model.OrderMoveTo || cmds[0].Target.EntityID != 1 {
		t.Errorf("expected Moveto castle 1, got %+v", cmds)
	}
}

func TestRouteIdle_ResumesConstruction(t *testing.T) {
	s := baseSnapshot()
	s.Time = 150
	site := model.Entity{ID: 5, Owner: me, Team: 1, Type: model.House, Pos: model.Point{X: 14, Y: 20}, UnderConstruction: true}
	s.Buildings = []model.Entity{castle(1, 20, 20), site, mine(10, 26, 20, 5000)}
	s.Units = []model.Entity{
		worker(100, 21, 21, model.OrderStop, 0),
		worker(101, 21, 22, model.OrderStop, 0),
		worker(102, 26, 21, model.OrderMine, 10),
	}

	out := &model.OrderBatch{}
	Allocate(s, tuning.Default(), out)

	first := out.For(100)
	if len(first) == 0 || first[0].Name != model.OrderMoveTo || first[0].Target.EntityID != 5 {
		t.Errorf("expected worker 100 to resume site 5, got %+v", first)
	}
	second := out.For(101)
	if len(second) == 0 || second[0].Name != model.OrderMine {
		t.Errorf("expected worker 101 to mine, got %+v", second)
	}
}

func TestRouteIdle_NoResumeEarly(t *testing.T) {
	s := baseSnapshot()
	s.Time = 50
	site := model.Entity{ID: 5, Owner: me, Team: 1, Type: model.House, Pos: model.Point{X: 14, Y: 20}, UnderConstruction: true}
	s.Buildings = []model.Entity{castle(1, 20, 20), site, mine(10, 26, 20, 5000)}
	s.Units = []model.Entity{worker(100, 21, 21, model.OrderStop, 0)}

	out := &model.OrderBatch{}
	Allocate(s, tuning.Default(), out)

	for _, c := range out.For(100) {
		if c.Name == model.OrderMoveTo {
			t.Errorf("did not expect construction resume before resume time, got %+v", c)
		}
	}
}

func TestBalance_OverflowFillsOwnedMines(t *testing.T) {
	s := baseSnapshot()
	s.Buildings = []model.Entity{
		castle(1, 20, 20),
		mine(10, 26, 20, 5000),
		mine(11, 60, 60, 5000), // not owned
		mine(12, 20, 27, 0),    // empty
		mine(13, 14, 20, 5000),
	}
	for i := range 12 {
		s.Units = append(s.Units, worker(100+i, 26, 21, model.OrderMine, 10))
	}

	out := &model.OrderBatch{}
	Allocate(s, tuning.Default(), out)

	loads := mineLoads(s, out)
	if loads[10] != 8 {
		t.Errorf("expected mine 10 trimmed to 8, got %d", loads[10])
	}
	if loads[13] != 4 {
		t.Errorf("expected 4 overflow miners on mine 13, got %d", loads[13])
	}
	if loads[11] != 0 || loads[12] != 0 {
		t.Errorf("expected no miners on unowned or empty mines, got %d and %d", loads[11], loads[12])
	}
}

func TestBalance_CapHoldsAcrossMines(t *testing.T) {
	s := baseSnapshot()
	s.Buildings = []model.Entity{
		castle(1, 20, 20),
		mine(10, 26, 20, 5000),
		mine(11, 20, 27, 5000),
		mine(12, 14, 20, 5000),
	}
	id := 100
	for _, n := range []struct{ mine, count int }{{10, 15}, {11, 6}, {12, 0}} {
		for range n.count {
			s.Units = append(s.Units, worker(id, 22, 22, model.OrderMine, n.mine))
			id++
		}
	}

	out := &model.OrderBatch{}
	Allocate(s, tuning.Default(), out)

	total := 0
	for m, n := range mineLoads(s, out) {
		total += n
		if n > 8 {
			t.Errorf("mine %d has %d workers, cap is 8", m, n)
		}
	}
	if total != 21 {
		t.Errorf("expected all 21 miners still assigned, got %d", total)
	}
}

func TestBalance_NoStrongpoint(t *testing.T) {
	s := baseSnapshot()
	s.Buildings = []model.Entity{mine(10, 26, 20, 5000), mine(11, 20, 27, 5000)}
	for i := range 10 {
		s.Units = append(s.Units, worker(100+i, 26, 21, model.OrderMine, 10))
	}

	out := &model.OrderBatch{}
	Allocate(s, tuning.Default(), out)

	if out.Len() != 0 {
		t.Errorf("expected no orders without a strongpoint, got %+v", out.Commands)
	}
}

func TestSurvey_Ownership(t *testing.T) {
	s := baseSnapshot()
	fort := model.Entity{ID: 2, Owner: me, Team: 1, Type: model.Fortress, Pos: model.Point{X: 50, Y: 50}}
	s.Buildings = []model.Entity{
		castle(1, 20, 20),
		fort,
		mine(10, 26, 20, 5000),
		mine(11, 52, 52, 5000),
		mine(12, 22, 22, 0),
		mine(13, 40, 20, 5000),
	}
	a := NewAllocator(s, tuning.Default(), &model.OrderBatch{})

	tests := []struct {
		mine int
		want bool
	}{
		{10, true},
		{11, true},
		{12, false}, // depleted
		{13, false}, // out of range
	}
	for _, tt := range tests {
		if got := a.Owned(tt.mine); got != tt.want {
			t.Errorf("Owned(%d) = %v, want %v", tt.mine, got, tt.want)
		}
	}
}

func TestRouteIdle_LeavesBuildersAlone(t *testing.T) {
	s := baseSnapshot()
	s.Buildings = []model.Entity{castle(1, 20, 20), mine(10, 26, 20, 5000)}
	s.Units = []model.Entity{
		worker(100, 21, 21, model.OrderStop, 0),
		worker(101, 21, 21, model.OrderStop, 0),
	}
	out := &model.OrderBatch{}
	out.Issue(model.BuildOrder(model.House), []int{100}, model.At(model.Point{X: 16, Y: 16}))

	NewAllocator(s, tuning.Default(), out).RouteIdle()

	if cmds := out.For(100); len(cmds) != 1 || cmds[0].Name != "Build House" {
		t.Errorf("expected the builder to keep only its build order, got %+v", cmds)
	}
	if cmds := out.For(101); len(cmds) != 1 || cmds[0].Name != model.OrderMine {
		t.Errorf("expected the other idle worker to mine, got %+v", cmds)
	}
}

func TestBalance_LeavesBuildersAlone(t *testing.T) {
	s := baseSnapshot()
	s.Buildings = []model.Entity{castle(1, 20, 20), mine(10, 26, 20, 5000), mine(11, 20, 27, 5000)}
	for i := range 9 {
		s.Units = append(s.Units, worker(100+i, 26, 21, model.OrderMine, 10))
	}
	// The ninth miner is the overflow; it was picked to build this tick.
	out := &model.OrderBatch{}
	out.Issue(model.BuildOrder(model.Barracks), []int{108}, model.At(model.Point{X: 16, Y: 16}))

	a := NewAllocator(s, tuning.Default(), out)
	a.Balance()

	if cmds := out.Named(model.OrderMine); len(cmds) != 0 {
		t.Errorf("expected no rebalancing once the builder leaves, got %+v", cmds)
	}
	if a.Load(10) != 8 {
		t.Errorf("expected mine 10 to hold 8, got %d", a.Load(10))
	}
}
