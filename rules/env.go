package rules

import (
	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/placement"
	"github.com/nstehr/lwg-ai/tuning"
)

// RuleEnv wraps the tick snapshot and exposes helper methods callable from
// expr expressions. Helpers only read the snapshot, so every rule sees the
// world as it was at tick start.
type RuleEnv struct {
	Snap    *model.Snapshot
	Tuning  tuning.Tuning
	Planner *placement.Planner
}

func (e RuleEnv) Gold() int      { return e.Snap.Gold }
func (e RuleEnv) Supply() int    { return e.Snap.Supply }
func (e RuleEnv) MaxSupply() int { return e.Snap.MaxSupply }
func (e RuleEnv) Time() float64  { return e.Snap.Time }

// SupplyHeadroom is how much supply is left before the cap.
func (e RuleEnv) SupplyHeadroom() int { return e.Snap.MaxSupply - e.Snap.Supply }

// Count counts our units and buildings of type t, finished or not.
func (e RuleEnv) Count(t string) int {
	return countType(e.own(e.Snap.Units), t) + countType(e.own(e.Snap.Buildings), t)
}

// Finished counts our completed buildings of type t.
func (e RuleEnv) Finished(t string) int {
	return countType(e.Snap.FindBuildings(model.Filter{Owner: e.Snap.Player, FinishedOnly: true}), t)
}

// Unfinished counts our buildings of type t still under construction.
func (e RuleEnv) Unfinished(t string) int {
	return countType(e.own(e.Snap.Buildings), t) - e.Finished(t)
}

// Upgrade is our researched level of the named upgrade.
func (e RuleEnv) Upgrade(name string) int { return e.Snap.Upgrade(name) }

// ProjectedUpgrade is the researched level plus forges currently researching it.
func (e RuleEnv) ProjectedUpgrade(name string) int {
	return e.Upgrade(name) + countQueued(e.FinishedOf(model.Forge), name)
}

// WorkerCap is the worker limit: ten per finished castle up to the hard cap.
func (e RuleEnv) WorkerCap() int {
	return min(e.Tuning.Economy.MaxWorkers, e.Finished(model.Castle)*e.Tuning.Economy.WorkersPerCastle)
}

// FinishedOf returns our finished buildings of type t.
func (e RuleEnv) FinishedOf(t string) []model.Entity {
	return e.Snap.FindBuildings(model.Filter{Type: t, Owner: e.Snap.Player, FinishedOnly: true})
}

// Idle returns the buildings with nothing in training.
func (e RuleEnv) Idle(buildings []model.Entity) []model.Entity {
	var out []model.Entity
	for _, b := range buildings {
		if b.QueueAt(0) == "" {
			out = append(out, b)
		}
	}
	return out
}

func (e RuleEnv) own(items []model.Entity) []model.Entity {
	var out []model.Entity
	for _, it := range items {
		if it.Owner == e.Snap.Player {
			out = append(out, it)
		}
	}
	return out
}
