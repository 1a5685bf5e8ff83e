package model

import "strings"

// Filter selects entities from a snapshot. Zero-valued fields match anything,
// which is why player and team ids start at 1.
type Filter struct {
	Type         string // exact type name, case-insensitive
	NotType      string // excluded type name
	Owner        int    // owning player id
	Team         int    // owning team id
	Order        string // current order name
	EnemyOf      int    // player id whose enemies are wanted; neutrals never match
	FinishedOnly bool   // skip buildings still under construction
}

func (f Filter) match(s *Snapshot, e Entity) bool {
	if f.Type != "" && !strings.EqualFold(e.Type, f.Type) {
		return false
	}
	if f.NotType != "" && strings.EqualFold(e.Type, f.NotType) {
		return false
	}
	if f.Owner != 0 && e.Owner != f.Owner {
		return false
	}
	if f.Team != 0 && e.Team != f.Team {
		return false
	}
	if f.Order != "" && !e.HasOrder(f.Order) {
		return false
	}
	if f.FinishedOnly && e.UnderConstruction {
		return false
	}
	if f.EnemyOf != 0 {
		if e.Neutral || e.Team == 0 || e.Team == s.TeamOf(f.EnemyOf) {
			return false
		}
	}
	return true
}
