package model

// Order names understood by the engine.
const (
	OrderMove         = "Move"
	OrderAttackMove   = "AMove"
	OrderAttack       = "Attack"
	OrderMine         = "Mine"
	OrderMoveTo       = "Moveto"
	OrderStop         = "Stop"
	OrderHeal         = "Heal"
	OrderAttackUp     = "Attack Upgrade"
	OrderArmorUp      = "Armor Upgrade"
	OrderResearchHeal = "Research Heal"
)

// BuildOrder is the worker order that starts construction of t.
func BuildOrder(t string) string { return "Build " + t }

// TrainOrder is the production order that trains t.
func TrainOrder(t string) string { return "Train " + t }

// Target is the optional destination of an order: an entity or a point.
type Target struct {
	EntityID int    `json:"entityId,omitempty"`
	Point    *Point `json:"point,omitempty"`
}

// At targets a map point.
func At(p Point) *Target { return &Target{Point: &p} }

// On targets an entity.
func On(id int) *Target { return &Target{EntityID: id} }

// Command is one (order, entities, target) triple.
type Command struct {
	Name   string  `json:"name"`
	Units  []int   `json:"units"`
	Target *Target `json:"target,omitempty"`
}

// OrderBatch collects every command issued during one tick. The engine applies
// them after the tick; nothing here deduplicates conflicting commands.
type OrderBatch struct {
	Tick     int       `json:"tick"`
	Commands []Command `json:"commands"`
}

// Issue appends a command. Empty entity lists are dropped.
func (b *OrderBatch) Issue(name string, units []int, target *Target) {
	if len(units) == 0 {
		return
	}
	b.Commands = append(b.Commands, Command{Name: name, Units: units, Target: target})
}

// Len is the number of commands issued so far.
func (b *OrderBatch) Len() int { return len(b.Commands) }

// For returns the commands addressed to entity id, in issue order.
func (b *OrderBatch) For(id int) []Command {
	var out []Command
	for _, c := range b.Commands {
		for _, u := range c.Units {
			if u == id {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Named returns the commands with the given order name.
func (b *OrderBatch) Named(name string) []Command {
	var out []Command
	for _, c := range b.Commands {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// IDs extracts entity ids.
func IDs(es []Entity) []int {
	ids := make([]int, len(es))
	for i, e := range es {
		ids[i] = e.ID
	}
	return ids
}
