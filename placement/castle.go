package placement

import (
	"math"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/spatial"
)

var inf = math.Inf(1)

// castleSlot is one candidate position around a gold mine at (gx, gy). The
// checked rectangle runs from the mine edge to the far side of the castle so
// the mining lane stays open; the castle itself sits at the far end.
type castleSlot struct {
	x1, y1, x2, y2 int // checked rectangle, relative to the mine
	px, py         int // castle top-left, relative to the mine
}

// castleSlots in priority order: above, below, left, right, each with two
// alignments.
var castleSlots = []castleSlot{
	{-1, -9, 2, -1, -1, -9},
	{0, -9, 3, -1, 0, -9},
	{-1, 3, 2, 11, -1, 8},
	{0, 3, 3, 11, 0, 8},
	{-9, -1, -1, 2, -9, -1},
	{-9, 0, -1, 3, -9, 0},
	{3, -1, 11, 2, 8, -1},
	{3, 0, 11, 3, 8, 0},
}

// CastleCandidates ranks gold mines by distance from our first building,
// dropping depleted mines and mines already served by a castle or fortress.
func (p *Planner) CastleCandidates() []model.Entity {
	own := p.snap.FindBuildings(model.Filter{Owner: p.snap.Player})
	if len(own) == 0 {
		return nil
	}
	var strongpoints []model.Entity
	strongpoints = append(strongpoints, p.snap.FindBuildings(model.Filter{Type: model.Castle})...)
	strongpoints = append(strongpoints, p.snap.FindBuildings(model.Filter{Type: model.Fortress})...)

	var out []model.Entity
	for _, m := range spatial.SortByDistance(own[0].Pos, p.mines) {
		if m.Gold <= 0 {
			continue
		}
		if m.Gold > p.tune.Placement.SubstantialGold && anyWithin(m.Pos, strongpoints, p.tune.Placement.CastleExclusionRadius) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// CastleSite walks the ranked candidates and returns the first mine slot
// that is fully buildable. The walk is bounded by the candidate list.
func (p *Planner) CastleSite() Plan {
	size := p.tune.Footprint(model.Castle)
	plan := Plan{Type: model.Castle, W: size.W, H: size.H}
	for _, m := range p.CastleCandidates() {
		gx, gy := m.Pos.Cell()
		for _, s := range castleSlots {
			if !spatial.RectangleBuildable(p.snap.Grid, gx+s.x1, gy+s.y1, gx+s.x2, gy+s.y2) {
				continue
			}
			x, y := gx+s.px, gy+s.py
			center := model.Point{X: float64(x) + float64(size.W)/2, Y: float64(y) + float64(size.H)/2}
			if !p.clearOfMines(center) {
				continue
			}
			plan.X, plan.Y, plan.OK = x, y, true
			return plan
		}
	}
	return plan
}

func anyWithin(pt model.Point, items []model.Entity, radius float64) bool {
	for _, it := range items {
		if spatial.Distance(pt, it.Pos) <= radius {
			return true
		}
	}
	return false
}
