package combat

import (
	"strings"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/spatial"
	"github.com/nstehr/lwg-ai/tuning"
)

// ArmyValue is the weighted strength of units plus any static defenses among
// structures. Barracks in structures add the per-barracks increment, so pass
// nil structures when valuing our own side.
func ArmyValue(units, structures []model.Entity, t tuning.Tuning) float64 {
	var v float64
	for _, u := range units {
		v += t.UnitValue(u.Type)
	}
	for _, b := range structures {
		switch {
		case strings.EqualFold(b.Type, model.Watchtower):
			v += t.ArmyValues.Tower
		case strings.EqualFold(b.Type, model.Fortress):
			v += t.ArmyValues.Fortress
		case strings.EqualFold(b.Type, model.Barracks):
			v += t.ArmyValues.PerBarrack
		}
	}
	return v
}

// MainEnemy returns the non-neutral enemy building closest to our first
// building. Its owner is the main enemy for the tick.
func MainEnemy(s *model.Snapshot) (model.Entity, bool) {
	own := s.FindBuildings(model.Filter{Owner: s.Player})
	if len(own) == 0 {
		return model.Entity{}, false
	}
	return spatial.Nearest(own[0].Pos, s.FindBuildings(model.Filter{EnemyOf: s.Player}))
}

// Strength holds both sides' army value for one tick.
type Strength struct {
	Own   float64
	Enemy float64
}

// Measure values our team's units against the main enemy team's units and
// defenses.
func Measure(s *model.Snapshot, enemyTeam int, t tuning.Tuning) Strength {
	var st Strength
	if s.Team != 0 {
		st.Own = ArmyValue(s.FindUnits(model.Filter{Team: s.Team}), nil, t)
	}
	if enemyTeam != 0 {
		st.Enemy = ArmyValue(
			s.FindUnits(model.Filter{Team: enemyTeam}),
			s.FindBuildings(model.Filter{Team: enemyTeam}),
			t,
		)
	}
	return st
}
