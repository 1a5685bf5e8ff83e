package model

// Unit type names as reported by the engine.
const (
	Worker   = "Worker"
	Soldier  = "Soldier"
	Rifleman = "Rifleman"
	Mage     = "Mage"
	Wolf     = "Wolf"
	Catapult = "Catapult"
	Dragon   = "Dragon"
)

// Building type names.
const (
	Castle     = "Castle"
	Fortress   = "Fortress"
	House      = "House"
	Barracks   = "Barracks"
	MagesGuild = "Mages Guild"
	Forge      = "Forge"
	Watchtower = "Watchtower"
	Goldmine   = "Goldmine"
)

// Upgrade names, used both as snapshot upgrade keys and forge queue items.
const (
	UpgradeDamage = "Damage"
	UpgradeArmor  = "Armor"
	UpgradeFlame  = "Flamestrike"
	UpgradeHeal   = "Heal"
)

// BuildableTypes are the structures workers can be ordered to build.
var BuildableTypes = []string{Forge, Watchtower, Barracks, Castle, House, MagesGuild}
