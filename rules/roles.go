package rules

import (
	"strings"

	"github.com/nstehr/lwg-ai/model"
)

// typed is a generic constraint for any model type with a TypeName accessor.
type typed interface {
	TypeName() string
}

// containsType returns true if any item's TypeName matches t (case-insensitive).
func containsType[T typed](items []T, t string) bool {
	for _, item := range items {
		if strings.EqualFold(item.TypeName(), t) {
			return true
		}
	}
	return false
}

// countType counts items whose TypeName matches t (case-insensitive).
func countType[T typed](items []T, t string) int {
	n := 0
	for _, item := range items {
		if strings.EqualFold(item.TypeName(), t) {
			n++
		}
	}
	return n
}

// countQueued counts buildings whose item in training is t.
func countQueued(buildings []model.Entity, t string) int {
	n := 0
	for _, b := range buildings {
		if strings.EqualFold(b.QueueAt(0), t) {
			n++
		}
	}
	return n
}

// trainee is one barracks unit in the army mix. Weight scales its projected
// count, so a heavier weight means fewer of that unit.
type trainee struct {
	unit   string
	weight int
}

// roster lists the army mix in compare order; on a tie the earlier entry is
// trained first. Mages join only once heal is researched and a guild stands.
func roster(env RuleEnv) []trainee {
	p := env.Tuning.Production
	out := []trainee{
		{unit: model.Soldier, weight: p.SoldierWeight},
		{unit: model.Rifleman, weight: p.RiflemanWeight},
	}
	if env.Upgrade(model.UpgradeHeal) > 0 && containsType(env.own(env.Snap.Buildings), model.MagesGuild) {
		out = append(out, trainee{unit: model.Mage, weight: p.MageWeight})
	}
	return out
}
