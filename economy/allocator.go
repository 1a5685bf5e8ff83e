// Package economy assigns our workers each tick: idle workers go back to
// construction or mining, overfull mines shed workers, and workers defend
// themselves or run when outmatched.
package economy

import (
	"log/slog"
	"math"
	"strings"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/spatial"
	"github.com/nstehr/lwg-ai/tuning"
)

// Allocator holds the working state of one economy pass. Nothing in it
// survives the tick.
type Allocator struct {
	snap *model.Snapshot
	tune tuning.Tuning
	out  *model.OrderBatch

	workers      []model.Entity
	miners       []model.Entity
	idle         []model.Entity
	strongpoints []model.Entity
	mines        []model.Entity
	enemyUnits   []model.Entity
	enemyBldgs   []model.Entity

	load  map[int]int  // projected workers per mine id
	owned map[int]bool // mine id is defended and not empty
}

// Allocate runs the full economy pass for one tick.
func Allocate(s *model.Snapshot, t tuning.Tuning, out *model.OrderBatch) {
	a := NewAllocator(s, t, out)
	a.RouteIdle()
	a.Balance()
	a.Defend()
	a.Retreat()
}

func NewAllocator(s *model.Snapshot, t tuning.Tuning, out *model.OrderBatch) *Allocator {
	me := s.Player
	a := &Allocator{
		snap:       s,
		tune:       t,
		out:        out,
		workers:    s.FindUnits(model.Filter{Type: model.Worker, Owner: me}),
		miners:     withoutBuilders(s.FindUnits(model.Filter{Type: model.Worker, Owner: me, Order: model.OrderMine}), out),
		idle:       withoutBuilders(s.FindUnits(model.Filter{Type: model.Worker, Owner: me, Order: model.OrderStop}), out),
		mines:      s.FindBuildings(model.Filter{Type: model.Goldmine}),
		enemyUnits: s.FindUnits(model.Filter{EnemyOf: me}),
		enemyBldgs: s.FindBuildings(model.Filter{EnemyOf: me}),
	}
	a.strongpoints = append(a.strongpoints, s.FindBuildings(model.Filter{Type: model.Castle, Owner: me})...)
	a.strongpoints = append(a.strongpoints, s.FindBuildings(model.Filter{Type: model.Fortress, Owner: me})...)
	a.survey()
	return a
}

// withoutBuilders drops workers already sent to build this tick, so routing
// and balancing never append an order that overrides the build.
func withoutBuilders(ws []model.Entity, out *model.OrderBatch) []model.Entity {
	var keep []model.Entity
	for _, w := range ws {
		if !building(out, w.ID) {
			keep = append(keep, w)
		}
	}
	return keep
}

func building(out *model.OrderBatch, id int) bool {
	for _, c := range out.For(id) {
		if strings.HasPrefix(c.Name, model.BuildOrder("")) {
			return true
		}
	}
	return false
}

// survey recomputes mine ownership and load from the miners' current orders.
func (a *Allocator) survey() {
	a.load = make(map[int]int, len(a.mines))
	a.owned = make(map[int]bool, len(a.mines))
	for _, m := range a.mines {
		_, d := spatial.NearestDistance(m.Pos, a.strongpoints)
		a.owned[m.ID] = d < a.tune.Economy.StrongpointRadius && m.Gold > 0
	}
	for _, w := range a.miners {
		if w.Order.TargetID != 0 {
			a.load[w.Order.TargetID]++
		}
	}
}

// Load is the projected number of workers on mine id after this pass so far.
func (a *Allocator) Load(id int) int { return a.load[id] }

// Owned reports whether mine id is within defense range of one of our
// strongpoints and still holds gold.
func (a *Allocator) Owned(id int) bool { return a.owned[id] }

func (a *Allocator) full(m model.Entity) bool {
	return a.load[m.ID] >= a.tune.Economy.WorkersPerMine
}

// RouteIdle sends every idle worker to finish interrupted construction, back
// to its nearest strongpoint, or to mine.
func (a *Allocator) RouteIdle() {
	if len(a.idle) == 0 {
		return
	}
	all := a.snap.FindBuildings(model.Filter{Owner: a.snap.Player})
	var unfinished []model.Entity
	for _, b := range all {
		if b.UnderConstruction {
			unfinished = append(unfinished, b)
		}
	}
	resume := a.snap.Time > a.tune.Economy.ResumeTime &&
		len(unfinished) > 0 &&
		a.settled()

	for _, w := range a.idle {
		if resume && len(unfinished) > 0 {
			site := unfinished[0]
			unfinished = unfinished[1:]
			slog.Debug("worker resuming construction", "worker", w.ID, "site", site.ID, "type", site.Type)
			a.out.Issue(model.OrderMoveTo, []int{w.ID}, model.On(site.ID))
			continue
		}
		castle, dist := spatial.NearestDistance(w.Pos, a.strongpoints)
		if math.IsInf(dist, 1) {
			continue
		}
		if dist > a.tune.Economy.StrongpointRadius {
			a.out.Issue(model.OrderMoveTo, []int{w.ID}, model.On(castle.ID))
			continue
		}
		m, ok := a.mineFor(castle)
		if !ok {
			slog.Debug("no mine with room for idle worker", "worker", w.ID)
			continue
		}
		a.load[m.ID]++
		a.out.Issue(model.OrderMine, []int{w.ID}, model.On(m.ID))
	}
}

// settled reports whether every worker was mining or idle when the tick
// started, builders picked this tick included.
func (a *Allocator) settled() bool {
	me := a.snap.Player
	n := len(a.snap.FindUnits(model.Filter{Type: model.Worker, Owner: me, Order: model.OrderMine})) +
		len(a.snap.FindUnits(model.Filter{Type: model.Worker, Owner: me, Order: model.OrderStop}))
	return n == len(a.workers)
}

// mineFor picks the mine nearest castle that still has gold and room for
// another worker, preferring mines we own. A worker with nowhere to go stays
// idle rather than overfilling a mine.
func (a *Allocator) mineFor(castle model.Entity) (model.Entity, bool) {
	var owned, open []model.Entity
	for _, m := range a.mines {
		if m.Gold <= a.tune.Economy.MinMineGold || a.full(m) {
			continue
		}
		open = append(open, m)
		if a.owned[m.ID] {
			owned = append(owned, m)
		}
	}
	if m, ok := spatial.Nearest(castle.Pos, owned); ok {
		return m, true
	}
	return spatial.Nearest(castle.Pos, open)
}

// Balance moves miners off mines that exceed the per-mine cap. Overflow
// workers fill owned, non-full, non-empty mines in scan order.
func (a *Allocator) Balance() {
	if len(a.strongpoints) == 0 {
		return
	}
	seen := make(map[int]int)
	var pool []model.Entity
	for _, w := range a.miners {
		id := w.Order.TargetID
		if id == 0 {
			continue
		}
		seen[id]++
		if seen[id] > a.tune.Economy.WorkersPerMine {
			pool = append(pool, w)
			a.load[id]--
		}
	}
	if len(pool) == 0 {
		return
	}
	for _, m := range a.mines {
		if len(pool) == 0 {
			break
		}
		if !a.owned[m.ID] || m.Gold <= 0 || a.full(m) {
			continue
		}
		n := min(a.tune.Economy.WorkersPerMine-a.load[m.ID], len(pool))
		group := pool[:n]
		pool = pool[n:]
		a.load[m.ID] += n
		slog.Debug("rebalancing miners", "mine", m.ID, "count", n)
		a.out.Issue(model.OrderMine, model.IDs(group), model.On(m.ID))
	}
	for _, w := range pool {
		a.load[w.Order.TargetID]++
	}
	if len(pool) > 0 {
		slog.Debug("no free mine for overflow miners", "count", len(pool))
	}
}
