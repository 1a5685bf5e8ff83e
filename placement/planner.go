// Package placement finds build sites for new structures and issues the
// worker build orders.
package placement

import (
	"log/slog"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/spatial"
	"github.com/nstehr/lwg-ai/tuning"
)

// Plan is a resolved (or unresolved) placement for one building.
type Plan struct {
	Type    string
	W, H    int
	X, Y    int  // top-left cell of the footprint
	OK      bool // a buildable cell was found
	Builder int  // worker that received the build order, 0 if none
}

// Center is the footprint center of the plan.
func (p Plan) Center() model.Point {
	return model.Point{X: float64(p.X) + float64(p.W)/2, Y: float64(p.Y) + float64(p.H)/2}
}

// Planner is tick-scoped: it reads one snapshot and appends to one batch.
type Planner struct {
	snap  *model.Snapshot
	tune  tuning.Tuning
	out   *model.OrderBatch
	guard *Guard
	mines []model.Entity
}

// New builds the planner and its guard. Creating the guard may already issue
// Stop orders for duplicate builders.
func New(s *model.Snapshot, t tuning.Tuning, out *model.OrderBatch) *Planner {
	return &Planner{
		snap:  s,
		tune:  t,
		out:   out,
		guard: NewGuard(s, out),
		mines: s.FindBuildings(model.Filter{Type: model.Goldmine}),
	}
}

// Guard exposes the tick's builder guard.
func (p *Planner) Guard() *Guard { return p.guard }

// Construct places and orders a structure next to one of our finished
// buildings, falling back to a new castle when no slot exists.
func (p *Planner) Construct(buildType string) Plan {
	if !p.guard.Allow() {
		slog.Debug("construction deferred, builders already en route", "type", buildType, "inFlight", p.guard.InFlight())
		return Plan{Type: buildType}
	}
	plan := p.NearStructure(buildType)
	if !plan.OK {
		slog.Debug("no slot near structures, falling back to castle", "type", buildType)
		return p.constructCastle()
	}
	return p.order(plan)
}

// ConstructCastle places and orders a castle next to a suitable gold mine.
func (p *Planner) ConstructCastle() Plan {
	if !p.guard.Allow() {
		slog.Debug("construction deferred, builders already en route", "type", model.Castle, "inFlight", p.guard.InFlight())
		return Plan{Type: model.Castle}
	}
	return p.constructCastle()
}

func (p *Planner) constructCastle() Plan {
	plan := p.CastleSite()
	if !plan.OK {
		slog.Debug("castle placement failed", "candidates", len(p.CastleCandidates()))
		return plan
	}
	return p.order(plan)
}

func (p *Planner) order(plan Plan) Plan {
	worker, ok := p.builder(plan.Center())
	if !ok {
		slog.Debug("no worker available to build", "type", plan.Type)
		return plan
	}
	plan.Builder = worker.ID
	p.guard.Started(plan.Type)
	p.out.Issue(model.BuildOrder(plan.Type), []int{worker.ID}, model.At(model.Point{X: float64(plan.X), Y: float64(plan.Y)}))
	slog.Debug("construction ordered", "type", plan.Type, "x", plan.X, "y", plan.Y, "worker", worker.ID)
	return plan
}

// builder picks the miner closest to the site, or an idle worker if nobody mines.
func (p *Planner) builder(site model.Point) (model.Entity, bool) {
	me := p.snap.Player
	if w, ok := spatial.Nearest(site, p.snap.FindUnits(model.Filter{Type: model.Worker, Order: model.OrderMine, Owner: me})); ok {
		return w, true
	}
	return spatial.Nearest(site, p.snap.FindUnits(model.Filter{Type: model.Worker, Order: model.OrderStop, Owner: me}))
}

// NearStructure scans the bands above, below, left and right of every
// finished building we own and returns the first fitting footprint. The
// checked rectangle includes a one-cell ring around the footprint so new
// buildings never seal off their neighbours.
func (p *Planner) NearStructure(buildType string) Plan {
	size := p.tune.Footprint(buildType)
	plan := Plan{Type: buildType, W: size.W, H: size.H}
	nw, nh := size.W, size.H

	for _, b := range p.snap.FindBuildings(model.Filter{Owner: p.snap.Player, FinishedOnly: true}) {
		bx, by := b.Pos.Cell()
		bs := p.tune.SizeOf(b)

		// Above and below: slide along x.
		for _, sy := range []int{by - nh - 2, by + bs.H} {
			for sx := bx - nw - 2; sx <= bx+bs.W; sx++ {
				if p.fits(sx, sy, size) {
					plan.X, plan.Y, plan.OK = sx+1, sy+1, true
					return plan
				}
			}
		}
		// Left and right: slide along y.
		for _, sx := range []int{bx - nw - 2, bx + bs.W} {
			for sy := by - nh - 2; sy <= by+bs.H; sy++ {
				if p.fits(sx, sy, size) {
					plan.X, plan.Y, plan.OK = sx+1, sy+1, true
					return plan
				}
			}
		}
	}
	return plan
}

// fits checks the footprint anchored one cell inside (sx, sy), plus its ring.
func (p *Planner) fits(sx, sy int, size model.Size) bool {
	if !spatial.RectangleBuildable(p.snap.Grid, sx, sy, sx+size.W+1, sy+size.H+1) {
		return false
	}
	center := model.Point{X: float64(sx+1) + float64(size.W)/2, Y: float64(sy+1) + float64(size.H)/2}
	return p.clearOfMines(center)
}

// clearOfMines reports whether center is farther than the mining clearance
// from the nearest gold mine.
func (p *Planner) clearOfMines(center model.Point) bool {
	return MineDistance(center, p.mines, p.tune) > p.tune.Placement.MineClearance
}

// MineDistance is the distance from pt to the center of the nearest mine,
// +Inf when there are none.
func MineDistance(pt model.Point, mines []model.Entity, t tuning.Tuning) float64 {
	best := -1.0
	for _, m := range mines {
		s := t.SizeOf(m)
		c := model.Point{X: m.Pos.X + float64(s.W)/2, Y: m.Pos.Y + float64(s.H)/2}
		if d := spatial.Distance(pt, c); best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return inf
	}
	return best
}
