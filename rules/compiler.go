package rules

import (
	"fmt"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/tuning"
)

// CompileSchedule generates the production rule set from tuning thresholds.
// All conditions are built via fmt.Sprintf with interpolated values, so the
// compiler never generates invalid expr.
func CompileSchedule(t tuning.Tuning) []*Rule {
	c, p := t.Costs, t.Production
	var rules []*Rule

	// --- Supply and expansion ---

	rules = append(rules, &Rule{
		Name:     "build-house",
		Priority: 900,
		Category: "construction",
		ConditionSrc: fmt.Sprintf(
			`Gold() >= %d && SupplyHeadroom() < %d && MaxSupply() < %d && Unfinished(%q) == 0 && Count(%q) <= %d && Count(%q) > 0`,
			c.House, p.SupplyHeadroom, p.SupplyCap, model.House, model.House, p.HouseLimit, model.Castle),
		Action: Construct(model.House),
	})

	rules = append(rules, &Rule{
		Name:         "build-castle",
		Priority:     850,
		Category:     "construction",
		ConditionSrc: fmt.Sprintf(`Gold() >= %d && Count(%q) * %d <= Count(%q)`, c.Castle, model.Castle, p.CastlesPerBarracks, model.Barracks),
		Action:       ActionConstructCastle,
	})

	// --- Research ---

	rules = append(rules, &Rule{
		Name:         "forge-research",
		Priority:     800,
		Category:     "research",
		ConditionSrc: fmt.Sprintf(`Finished(%q) > 0`, model.Forge),
		Action:       ActionForgeResearch,
	})

	rules = append(rules, &Rule{
		Name:         "guild-research",
		Priority:     750,
		Category:     "research",
		ConditionSrc: fmt.Sprintf(`Finished(%q) > 0 && Upgrade(%q) == 0`, model.MagesGuild, model.UpgradeHeal),
		Action:       ActionGuildResearch,
	})

	// --- Training ---

	rules = append(rules, &Rule{
		Name:         "train-worker",
		Priority:     700,
		Category:     "training",
		ConditionSrc: fmt.Sprintf(`Finished(%q) > 0 && Count(%q) < WorkerCap()`, model.Castle, model.Worker),
		Action:       ActionTrainWorker,
	})

	rules = append(rules, &Rule{
		Name:     "train-army",
		Priority: 650,
		Category: "training",
		ConditionSrc: fmt.Sprintf(`Finished(%q) > 0 && (Count(%q) >= %d || Time() > %g)`,
			model.Barracks, model.Barracks, p.EarlyArmyBarracks, t.Combat.AttackTime),
		Action: ActionTrainArmy,
	})

	// --- Production buildings ---

	rules = append(rules, &Rule{
		Name:     "build-barracks",
		Priority: 600,
		Category: "construction",
		ConditionSrc: fmt.Sprintf(
			`Gold() >= %d && Finished(%q) > 0 && (Count(%q) * %d > Count(%q) || Gold() >= %d) && (Count(%q) < %d || (ProjectedUpgrade(%q) >= %d && ProjectedUpgrade(%q) >= %d) || Gold() >= %d)`,
			c.Barracks, model.House,
			model.Castle, p.CastlesPerBarracks, model.Barracks, p.BarracksSurplusGold,
			model.Barracks, p.BarracksSoftCap,
			model.UpgradeDamage, p.MaxUpgradeLevel, model.UpgradeArmor, p.MaxUpgradeLevel,
			p.BarracksLateGold),
		Action: Construct(model.Barracks),
	})

	rules = append(rules, &Rule{
		Name:     "build-mages-guild",
		Priority: 550,
		Category: "construction",
		ConditionSrc: fmt.Sprintf(`Gold() >= %d && Count(%q) > 1 && Count(%q) > 1 && Count(%q) == 0`,
			c.MagesGuild, model.Castle, model.Barracks, model.MagesGuild),
		Action: Construct(model.MagesGuild),
	})

	rules = append(rules, &Rule{
		Name:     "build-forge",
		Priority: 500,
		Category: "construction",
		ConditionSrc: fmt.Sprintf(
			`Gold() >= %d && Count(%q) < %d && Count(%q) >= 2 + Count(%q) && Count(%q) > Count(%q) + 1 && %d - (ProjectedUpgrade(%q) + ProjectedUpgrade(%q)) > Count(%q) - 1`,
			c.Forge, model.Forge, p.MaxForges,
			model.Castle, model.Forge,
			model.Barracks, model.Forge,
			2*p.MaxUpgradeLevel, model.UpgradeDamage, model.UpgradeArmor, model.Forge),
		Action: Construct(model.Forge),
	})

	return rules
}
