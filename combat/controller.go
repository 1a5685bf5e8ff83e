// Package combat decides army orders for one tick: per-unit targeting and
// kiting when enemies are in sight, otherwise a whole-army choice between
// attacking the main enemy and holding at staging points.
package combat

import (
	"log/slog"
	"math"
	"strings"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/spatial"
	"github.com/nstehr/lwg-ai/tuning"
)

// Controller is tick-scoped, like the economy allocator.
type Controller struct {
	snap *model.Snapshot
	tune tuning.Tuning
	out  *model.OrderBatch

	army     []model.Entity // our non-worker units
	enemies  []model.Entity // visible enemy units
	target   model.Entity   // main enemy building
	anchor   model.Entity   // our most recent building
	engaged  bool           // army and target both exist
	strength Strength
}

// Control runs the combat pass and healing for one tick.
func Control(s *model.Snapshot, t tuning.Tuning, out *model.OrderBatch) {
	c := New(s, t, out)
	c.Run()
	c.Heal()
}

func New(s *model.Snapshot, t tuning.Tuning, out *model.OrderBatch) *Controller {
	c := &Controller{
		snap:    s,
		tune:    t,
		out:     out,
		army:    s.FindUnits(model.Filter{Owner: s.Player, NotType: model.Worker}),
		enemies: s.FindUnits(model.Filter{EnemyOf: s.Player}),
	}
	target, ok := MainEnemy(s)
	if !ok || len(c.army) == 0 {
		return c
	}
	own := s.FindBuildings(model.Filter{Owner: s.Player})
	c.target = target
	c.anchor = own[len(own)-1]
	c.engaged = true
	c.strength = Measure(s, target.Team, t)
	return c
}

// Strength is the army comparison used for the attack decision.
func (c *Controller) Strength() Strength { return c.strength }

// AttackEligible reports whether the whole force should push the main enemy:
// we are stronger and past the attack time, or supply is near the cap.
func (c *Controller) AttackEligible() bool {
	cfg := c.tune.Combat
	return (c.strength.Own > c.strength.Enemy && c.snap.Time > cfg.AttackTime) ||
		c.snap.Supply > cfg.AttackSupply
}

// Run issues army orders. Without an army or a known enemy building there is
// nothing to decide.
func (c *Controller) Run() {
	if !c.engaged {
		slog.Debug("combat skipped", "army", len(c.army), "enemies", len(c.enemies))
		return
	}
	if len(c.enemies) == 0 {
		c.posture()
		return
	}
	for _, u := range c.army {
		c.engage(u)
	}
}

// posture applies the whole-army decision.
func (c *Controller) posture() {
	if c.AttackEligible() {
		slog.Debug("army attacking", "target", c.target.ID, "own", c.strength.Own, "enemy", c.strength.Enemy)
		c.out.Issue(model.OrderAttackMove, model.IDs(c.army), model.At(c.target.Pos))
		return
	}
	for _, typ := range stagedTypes {
		var group []model.Entity
		for _, u := range c.army {
			if strings.EqualFold(u.Type, typ) {
				group = append(group, u)
			}
		}
		c.out.Issue(model.OrderAttackMove, model.IDs(group), model.At(c.StagingPoint(typ)))
	}
}

// sighting is what one of our units sees of the enemy.
type sighting struct {
	kiter       model.Entity
	kiterDist   float64
	hasKiter    bool
	best        model.Entity
	hasBest     bool
	closestDist float64
}

func (c *Controller) scan(u model.Entity) sighting {
	sc := sighting{kiterDist: math.Inf(1), closestDist: math.Inf(1)}
	reach := u.Field("range") + 1
	antiAir := u.Field("range") >= c.tune.Combat.AntiAirRange
	for _, e := range c.enemies {
		d := spatial.Distance(u.Pos, e.Pos)
		if e.Order.TargetID == u.ID && d <= sc.kiterDist {
			sc.kiter, sc.kiterDist, sc.hasKiter = e, d, true
		}
		if d <= reach && (!e.Flying || antiAir) && (!sc.hasBest || e.HP < sc.best.HP) {
			sc.best, sc.hasBest = e, true
		}
		if d < sc.closestDist {
			sc.closestDist = d
		}
	}
	return sc
}

// kiting reports whether u is being chased by a healthier unit it outranges,
// at a distance where standing still loses.
func (c *Controller) kiting(u model.Entity, sc sighting) bool {
	if !sc.hasKiter {
		return false
	}
	cfg := c.tune.Combat
	r := u.Field("range")
	return float64(sc.kiter.HP) >= float64(u.HP)*cfg.KiteHealthRatio &&
		r > math.Max(sc.kiter.Field("range"), cfg.KiteMinRange) &&
		sc.kiterDist < math.Abs(r-cfg.KiteBand)
}

func (c *Controller) engage(u model.Entity) {
	sc := c.scan(u)
	switch {
	case c.kiting(u, sc):
		c.out.Issue(model.OrderMove, []int{u.ID}, model.At(spatial.Mirror(u.Pos, sc.kiter.Pos)))
	case u.Blocking && u.Field("range") > c.tune.Combat.BlockingRange && sc.hasBest:
		c.out.Issue(model.OrderMove, []int{u.ID}, model.On(sc.best.ID))
	case sc.hasBest:
		c.out.Issue(model.OrderAttack, []int{u.ID}, model.On(sc.best.ID))
	case sc.closestDist < c.tune.Combat.EngageRadius:
		c.out.Issue(model.OrderAttackMove, []int{u.ID}, model.At(spatial.Centroid(c.enemies)))
	case c.AttackEligible():
		c.out.Issue(model.OrderAttackMove, []int{u.ID}, model.At(c.target.Pos))
	default:
		if typ, ok := stagedType(u.Type); ok {
			c.out.Issue(model.OrderAttackMove, []int{u.ID}, model.At(c.StagingPoint(typ)))
		}
	}
}

// stagedTypes hold at staging points; everything else keeps its order.
var stagedTypes = []string{model.Mage, model.Soldier, model.Rifleman}

// stagedType maps a reported type name onto its staged type, ignoring case.
func stagedType(t string) (string, bool) {
	for _, typ := range stagedTypes {
		if strings.EqualFold(t, typ) {
			return typ, true
		}
	}
	return "", false
}

// StagingPoint is where units of typ wait: a fraction of the way from our
// most recent building toward the main enemy building. Mages hold back and
// riflemen stand furthest forward.
func (c *Controller) StagingPoint(typ string) model.Point {
	cfg := c.tune.Combat
	frac := cfg.ArmyPosition
	switch typ {
	case model.Mage:
		frac += cfg.MageStageOffset
	case model.Rifleman:
		frac += cfg.RiflemanStageOffset
	}
	return spatial.Lerp(c.anchor.Pos, c.target.Pos, frac)
}
