package economy

import (
	"log/slog"
	"math"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/spatial"
)

// Defend lets workers fight back against weak or comparable attackers, and
// pick at unguarded enemy buildings when no unit is around.
func (a *Allocator) Defend() {
	cfg := a.tune.Workers
	var ground []model.Entity
	for _, e := range a.enemyUnits {
		if !e.Flying {
			ground = append(ground, e)
		}
	}

	for _, w := range a.workers {
		nearest, nearestDist := spatial.NearestDistance(w.Pos, ground)

		var weak model.Entity
		found := false
		for _, e := range a.enemyUnits {
			if spatial.Distance(w.Pos, e.Pos) >= cfg.MeleeRadius || e.HP >= w.HP {
				continue
			}
			if !found || e.HP < weak.HP {
				weak, found = e, true
			}
		}

		switch {
		case found:
			a.out.Issue(model.OrderAttack, []int{w.ID}, model.On(weak.ID))
		case len(ground) > 0:
			reach := math.Max(nearest.Field("range")+1, cfg.MinDefendRadius)
			if nearestDist <= reach && w.HealthFraction() >= nearest.HealthFraction()*cfg.DefendHealthRatio {
				a.out.Issue(model.OrderAttack, []int{w.ID}, model.On(nearest.ID))
			}
		default:
			b, d := spatial.NearestDistance(w.Pos, a.enemyBldgs)
			if d <= cfg.BuildingRadius {
				a.out.Issue(model.OrderAttack, []int{w.ID}, model.On(b.ID))
			}
		}
	}
}

// Retreat pulls workers that strayed from home back to the nearest
// strongpoint, and sends badly outmatched workers running. A worker with no
// open cell to run to stands and fights.
func (a *Allocator) Retreat() {
	cfg := a.tune.Workers
	for _, w := range a.workers {
		castle, castleDist := spatial.NearestDistance(w.Pos, a.strongpoints)
		enemy, enemyDist := spatial.NearestDistance(w.Pos, a.enemyUnits)

		if len(a.strongpoints) > 0 && castleDist > a.tune.Economy.StrongpointRadius &&
			enemyDist < cfg.ThreatRadius && !a.dominating(w) {
			slog.Debug("worker falling back", "worker", w.ID, "castle", castle.ID)
			a.out.Issue(model.OrderMoveTo, []int{w.ID}, model.On(castle.ID))
			continue
		}
		if enemyDist > cfg.FleeRadius || float64(enemy.HP) < float64(w.HP)*cfg.FleeHealthRatio {
			continue
		}
		flee := spatial.Mirror(w.Pos, enemy.Pos)
		x1, y1 := int(math.Floor(flee.X)), int(math.Floor(flee.Y))
		x2, y2 := int(math.Ceil(flee.X)), int(math.Ceil(flee.Y))
		if spatial.RectangleBuildable(a.snap.Grid, x1, y1, x2, y2) {
			a.out.Issue(model.OrderMove, []int{w.ID}, model.At(flee))
			continue
		}
		slog.Debug("worker cornered", "worker", w.ID, "enemy", enemy.ID)
		a.out.Issue(model.OrderAttack, []int{w.ID}, model.On(enemy.ID))
	}
}

// dominating reports whether w is far ahead of whatever it is currently
// attacking.
func (a *Allocator) dominating(w model.Entity) bool {
	target, ok := a.snap.Entity(w.Order.TargetID)
	if !ok || target.HP <= 0 {
		return false
	}
	return float64(w.HP)/float64(target.HP) >= a.tune.Workers.DominateRatio
}
