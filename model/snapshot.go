package model

import "strings"

// Snapshot is the read-only world state for one tick, as reported by the host.
// Player and team ids start at 1; 0 marks neutral actors (gold mines, critters).
type Snapshot struct {
	Tick      int            `json:"tick"`
	Time      float64        `json:"time"` // elapsed game seconds
	Player    int            `json:"player"`
	Team      int            `json:"team"`
	Players   []PlayerInfo   `json:"players"`
	Gold      int            `json:"gold"`
	Supply    int            `json:"supply"`
	MaxSupply int            `json:"maxSupply"`
	Upgrades  map[string]int `json:"upgrades"`
	Units     []Entity       `json:"units"`
	Buildings []Entity       `json:"buildings"`
	Grid      Grid           `json:"grid"`
}

type PlayerInfo struct {
	ID   int `json:"id"`
	Team int `json:"team"`
}

// Point is a map position. Units move continuously, buildings sit on cells.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell truncates the point to its grid cell.
func (p Point) Cell() (int, int) { return int(p.X), int(p.Y) }

// Size is a building footprint in cells.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Order is the entity's current order as last applied by the engine.
// TargetID is 0 when the order has no entity target.
type Order struct {
	Name     string `json:"name"`
	TargetID int    `json:"targetId,omitempty"`
	Point    *Point `json:"point,omitempty"`
}

// Entity is a unit or building. Buildings report Pos as their top-left cell.
type Entity struct {
	ID                int      `json:"id"`
	Owner             int      `json:"owner"`
	Team              int      `json:"team"`
	Type              string   `json:"type"`
	Pos               Point    `json:"pos"`
	Size              Size     `json:"size,omitempty"`
	HP                int      `json:"hp"`
	MaxHP             int      `json:"maxHp"`
	Range             float64  `json:"range"`
	Order             Order    `json:"order"`
	Queue             []string `json:"queue,omitempty"`
	Gold              int      `json:"gold,omitempty"`
	Flying            bool     `json:"flying,omitempty"`
	Blocking          bool     `json:"blocking,omitempty"`
	UnderConstruction bool     `json:"underConstruction,omitempty"`
	Neutral           bool     `json:"neutral,omitempty"`
}

func (e Entity) TypeName() string       { return e.Type }
func (e Entity) Position() Point        { return e.Pos }
func (e Entity) Finished() bool         { return !e.UnderConstruction }
func (e Entity) HasOrder(n string) bool { return strings.EqualFold(e.Order.Name, n) }

// Center is the footprint center for buildings and the position for units.
func (e Entity) Center() Point {
	return Point{X: e.Pos.X + float64(e.Size.W)/2, Y: e.Pos.Y + float64(e.Size.H)/2}
}

// HealthFraction is HP over MaxHP, or 0 when MaxHP is unknown.
func (e Entity) HealthFraction() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return float64(e.HP) / float64(e.MaxHP)
}

// QueueAt returns the production queue item at slot i, or "" if the slot is empty.
// Slot 0 is the item in training.
func (e Entity) QueueAt(i int) string {
	if i < 0 || i >= len(e.Queue) {
		return ""
	}
	return e.Queue[i]
}

// Field looks up a stat by name, the way the engine exposes unit type fields.
func (e Entity) Field(name string) float64 {
	switch strings.ToLower(name) {
	case "hp":
		return float64(e.MaxHP)
	case "range":
		return e.Range
	}
	return 0
}

// TeamOf returns the team of player id, or 0 if the player is unknown.
func (s *Snapshot) TeamOf(player int) int {
	if player == s.Player {
		return s.Team
	}
	for _, p := range s.Players {
		if p.ID == player {
			return p.Team
		}
	}
	return 0
}

// Upgrade returns our current level of the named upgrade.
func (s *Snapshot) Upgrade(name string) int {
	return s.Upgrades[name]
}

// FindUnits returns units matching f in snapshot order.
func (s *Snapshot) FindUnits(f Filter) []Entity { return s.query(s.Units, f) }

// FindBuildings returns buildings matching f in snapshot order.
func (s *Snapshot) FindBuildings(f Filter) []Entity { return s.query(s.Buildings, f) }

// Entity looks up a unit or building by id.
func (s *Snapshot) Entity(id int) (Entity, bool) {
	if id == 0 {
		return Entity{}, false
	}
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	for _, b := range s.Buildings {
		if b.ID == id {
			return b, true
		}
	}
	return Entity{}, false
}

func (s *Snapshot) query(items []Entity, f Filter) []Entity {
	var out []Entity
	for _, e := range items {
		if f.match(s, e) {
			out = append(out, e)
		}
	}
	return out
}
