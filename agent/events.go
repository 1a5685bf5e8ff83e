package agent

import (
	"fmt"
	"strings"

	"github.com/nstehr/lwg-ai/combat"
	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/tuning"
)

// EventKind identifies a notable change between two consecutive ticks. Events
// are logged and traced; they never feed back into decisions.
type EventKind string

const (
	EventCriticalBuildingLost EventKind = "critical_building_lost"
	EventArmyDevastated       EventKind = "army_devastated"
	EventFirstContact         EventKind = "first_contact"
	EventPhaseTransition      EventKind = "phase_transition"
	EventSupplyCapped         EventKind = "supply_capped"
)

// Event represents a significant game event detected by diffing consecutive
// snapshots.
type Event struct {
	Kind   EventKind
	Tick   int
	Detail string
}

func (e Event) String() string { return fmt.Sprintf("%s: %s", e.Kind, e.Detail) }

// stateSnapshot captures the diffable fields from one tick.
type stateSnapshot struct {
	buildingIDs map[int]string // id → type for owned buildings
	armyValue   float64
	enemiesSeen bool
	capped      bool
	phase       string
}

// criticalBuildingTypes are buildings whose loss changes what the AI can
// produce.
var criticalBuildingTypes = map[string]bool{
	model.Castle:     true,
	model.Fortress:   true,
	model.Barracks:   true,
	model.MagesGuild: true,
	model.Forge:      true,
}

// devastatedFraction is how much of the army must vanish in one tick, and
// devastatedFloor the army value below which losses are not worth reporting.
const (
	devastatedFraction = 0.5
	devastatedFloor    = 10
)

// gamePhase derives the match phase from tech milestones, with elapsed time
// as a fallback for stalled games.
func gamePhase(s *model.Snapshot, t tuning.Tuning) string {
	var barracks, tech int
	for _, b := range s.FindBuildings(model.Filter{Owner: s.Player}) {
		switch b.Type {
		case model.Barracks:
			barracks++
		case model.Forge, model.MagesGuild:
			tech++
		}
	}
	switch {
	case tech > 0 || s.Time > 5*t.Combat.AttackTime:
		return "Late Game"
	case barracks >= t.Production.EarlyArmyBarracks || s.Time > t.Combat.AttackTime:
		return "Mid Game"
	}
	return "Early Game"
}

func takeSnapshot(s *model.Snapshot, t tuning.Tuning) stateSnapshot {
	snap := stateSnapshot{
		buildingIDs: make(map[int]string),
		enemiesSeen: len(s.FindUnits(model.Filter{EnemyOf: s.Player})) > 0,
		capped:      s.MaxSupply > 0 && s.Supply >= s.MaxSupply,
		phase:       gamePhase(s, t),
	}
	for _, b := range s.FindBuildings(model.Filter{Owner: s.Player}) {
		snap.buildingIDs[b.ID] = b.Type
	}
	army := s.FindUnits(model.Filter{Owner: s.Player, NotType: model.Worker})
	snap.armyValue = combat.ArmyValue(army, nil, t)
	return snap
}

// detectEvents diffs s against the previous tick and returns the state to
// diff the next tick against. A nil prev yields no events. Contact is sticky:
// once enemies were seen, losing sight of them is not an event.
func detectEvents(s *model.Snapshot, t tuning.Tuning, prev *stateSnapshot) ([]Event, stateSnapshot) {
	cur := takeSnapshot(s, t)
	if prev == nil {
		return nil, cur
	}
	var events []Event

	for id, typ := range prev.buildingIDs {
		if _, ok := cur.buildingIDs[id]; !ok && criticalBuildingTypes[typ] {
			events = append(events, Event{
				Kind:   EventCriticalBuildingLost,
				Tick:   s.Tick,
				Detail: fmt.Sprintf("lost %s (id %d)", typ, id),
			})
		}
	}

	if prev.armyValue >= devastatedFloor && cur.armyValue <= prev.armyValue*(1-devastatedFraction) {
		events = append(events, Event{
			Kind:   EventArmyDevastated,
			Tick:   s.Tick,
			Detail: fmt.Sprintf("army value %.1f → %.1f", prev.armyValue, cur.armyValue),
		})
	}

	if !prev.enemiesSeen && cur.enemiesSeen {
		events = append(events, Event{Kind: EventFirstContact, Tick: s.Tick, Detail: "enemy units sighted"})
	}

	if prev.phase != cur.phase {
		events = append(events, Event{
			Kind:   EventPhaseTransition,
			Tick:   s.Tick,
			Detail: fmt.Sprintf("%s → %s", prev.phase, cur.phase),
		})
	}

	if !prev.capped && cur.capped {
		events = append(events, Event{
			Kind:   EventSupplyCapped,
			Tick:   s.Tick,
			Detail: fmt.Sprintf("supply %d/%d", s.Supply, s.MaxSupply),
		})
	}
	cur.enemiesSeen = cur.enemiesSeen || prev.enemiesSeen
	return events, cur
}

func formatEvents(events []Event) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}
