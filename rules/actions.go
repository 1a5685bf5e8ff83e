package rules

import (
	"errors"
	"log/slog"

	"github.com/nstehr/lwg-ai/model"
)

var errNoPlanner = errors.New("rules: no build-site planner for this tick")

// Construct returns an action that places and orders one building of type t.
// A missing site or builder is not an error; the planner logs and the rule
// simply tries again next tick.
func Construct(t string) ActionFunc {
	return func(env RuleEnv, out *model.OrderBatch) error {
		if env.Planner == nil {
			return errNoPlanner
		}
		env.Planner.Construct(t)
		return nil
	}
}

func ActionConstructCastle(env RuleEnv, out *model.OrderBatch) error {
	if env.Planner == nil {
		return errNoPlanner
	}
	env.Planner.ConstructCastle()
	return nil
}

// ActionTrainWorker queues workers at idle finished castles until the worker
// cap, counting workers already in training against it.
func ActionTrainWorker(env RuleEnv, out *model.OrderBatch) error {
	castles := env.FinishedOf(model.Castle)
	room := env.WorkerCap() - countQueued(castles, model.Worker) - env.Count(model.Worker)
	for _, c := range env.Idle(castles) {
		if room <= 0 {
			break
		}
		out.Issue(model.TrainOrder(model.Worker), []int{c.ID}, nil)
		room--
	}
	return nil
}

// ActionTrainArmy trains at every idle finished barracks, each time picking
// the unit whose weighted projected count is lowest.
func ActionTrainArmy(env RuleEnv, out *model.OrderBatch) error {
	barracks := env.FinishedOf(model.Barracks)
	mix := roster(env)
	projected := make([]int, len(mix))
	for i, tr := range mix {
		projected[i] = (env.Count(tr.unit) + countQueued(barracks, tr.unit)) * tr.weight
	}
	for _, b := range env.Idle(barracks) {
		pick := 0
		for i := 1; i < len(mix); i++ {
			if projected[i] < projected[pick] {
				pick = i
			}
		}
		out.Issue(model.TrainOrder(mix[pick].unit), []int{b.ID}, nil)
		projected[pick] += mix[pick].weight
	}
	return nil
}

// ActionForgeResearch keeps idle forges researching, favoring whichever of
// damage and armor lags, up to the level cap.
func ActionForgeResearch(env RuleEnv, out *model.OrderBatch) error {
	maxLevel := env.Tuning.Production.MaxUpgradeLevel
	damage := env.ProjectedUpgrade(model.UpgradeDamage)
	armor := env.ProjectedUpgrade(model.UpgradeArmor)
	for _, f := range env.Idle(env.FinishedOf(model.Forge)) {
		switch {
		case damage > armor && armor < maxLevel:
			out.Issue(model.OrderArmorUp, []int{f.ID}, nil)
			armor++
		case damage < maxLevel:
			out.Issue(model.OrderAttackUp, []int{f.ID}, nil)
			damage++
		default:
			slog.Debug("forge upgrades maxed", "forge", f.ID)
		}
	}
	return nil
}

// ActionGuildResearch researches heal at the first finished guild when it is
// not already busy.
func ActionGuildResearch(env RuleEnv, out *model.OrderBatch) error {
	guilds := env.FinishedOf(model.MagesGuild)
	if len(guilds) == 0 || guilds[0].QueueAt(0) != "" {
		return nil
	}
	out.Issue(model.OrderResearchHeal, []int{guilds[0].ID}, nil)
	return nil
}
