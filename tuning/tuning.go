// Package tuning holds every threshold the decision core uses. Defaults match
// the shipped LWG AI; a YAML file can override any subset.
package tuning

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/nstehr/lwg-ai/model"
)

type Tuning struct {
	Costs      Costs      `yaml:"costs"`
	ArmyValues ArmyValues `yaml:"army_values"`
	Economy    Economy    `yaml:"economy"`
	Placement  Placement  `yaml:"placement"`
	Production Production `yaml:"production"`
	Combat     Combat     `yaml:"combat"`
	Workers    Workers    `yaml:"workers"`

	// Footprints maps a building type to its size in cells.
	Footprints map[string]model.Size `yaml:"footprints"`
}

type Costs struct {
	House      int `yaml:"house"`
	Barracks   int `yaml:"barracks"`
	MagesGuild int `yaml:"mages_guild"`
	Forge      int `yaml:"forge"`
	Castle     int `yaml:"castle"`
}

// ArmyValues weighs unit and structure types for strength comparison only.
type ArmyValues struct {
	Units      map[string]float64 `yaml:"units"`
	Tower      float64            `yaml:"tower"`
	Fortress   float64            `yaml:"fortress"`
	PerBarrack float64            `yaml:"per_barracks"`
}

type Economy struct {
	MaxWorkers        int     `yaml:"max_workers"`
	WorkersPerCastle  int     `yaml:"workers_per_castle"`
	WorkersPerMine    int     `yaml:"workers_per_mine"`
	StrongpointRadius float64 `yaml:"strongpoint_radius"`
	MinMineGold       int     `yaml:"min_mine_gold"`
	ResumeTime        float64 `yaml:"resume_time"`
}

type Placement struct {
	MineClearance         float64 `yaml:"mine_clearance"`
	CastleExclusionRadius float64 `yaml:"castle_exclusion_radius"`
	SubstantialGold       int     `yaml:"substantial_gold"`
}

type Production struct {
	SupplyHeadroom      int `yaml:"supply_headroom"`
	SupplyCap           int `yaml:"supply_cap"`
	HouseLimit          int `yaml:"house_limit"`
	CastlesPerBarracks  int `yaml:"castles_per_barracks"`
	BarracksSurplusGold int `yaml:"barracks_surplus_gold"`
	BarracksLateGold    int `yaml:"barracks_late_gold"`
	BarracksSoftCap     int `yaml:"barracks_soft_cap"`
	MaxForges           int `yaml:"max_forges"`
	MaxUpgradeLevel     int `yaml:"max_upgrade_level"`
	SoldierWeight       int `yaml:"soldier_weight"`
	RiflemanWeight      int `yaml:"rifleman_weight"`
	MageWeight          int `yaml:"mage_weight"`
	EarlyArmyBarracks   int `yaml:"early_army_barracks"`
}

type Combat struct {
	AttackTime          float64 `yaml:"attack_time"`
	AttackSupply        int     `yaml:"attack_supply"`
	EngageRadius        float64 `yaml:"engage_radius"`
	ArmyPosition        float64 `yaml:"army_position"`
	MageStageOffset     float64 `yaml:"mage_stage_offset"`
	RiflemanStageOffset float64 `yaml:"rifleman_stage_offset"`
	KiteHealthRatio     float64 `yaml:"kite_health_ratio"`
	KiteMinRange        float64 `yaml:"kite_min_range"`
	KiteBand            float64 `yaml:"kite_band"`
	AntiAirRange        float64 `yaml:"anti_air_range"`
	BlockingRange       float64 `yaml:"blocking_range"`
	HealMargin          int     `yaml:"heal_margin"`
	HealRangeBuffer     float64 `yaml:"heal_range_buffer"`
}

type Workers struct {
	MeleeRadius       float64 `yaml:"melee_radius"`
	MinDefendRadius   float64 `yaml:"min_defend_radius"`
	BuildingRadius    float64 `yaml:"building_radius"`
	DefendHealthRatio float64 `yaml:"defend_health_ratio"`
	ThreatRadius      float64 `yaml:"threat_radius"`
	FleeRadius        float64 `yaml:"flee_radius"`
	DominateRatio     float64 `yaml:"dominate_ratio"`
	FleeHealthRatio   float64 `yaml:"flee_health_ratio"`
}

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		Costs: Costs{House: 100, Barracks: 200, MagesGuild: 150, Forge: 150, Castle: 300},
		ArmyValues: ArmyValues{
			Units: map[string]float64{
				model.Wolf:     1.5,
				model.Soldier:  2,
				model.Rifleman: 2,
				model.Mage:     2.5,
				model.Catapult: 3,
				model.Dragon:   4,
			},
			Tower:      6,
			Fortress:   10,
			PerBarrack: 1,
		},
		Economy: Economy{
			MaxWorkers:        27,
			WorkersPerCastle:  10,
			WorkersPerMine:    8,
			StrongpointRadius: 11,
			MinMineGold:       5,
			ResumeTime:        100,
		},
		Placement: Placement{
			MineClearance:         5,
			CastleExclusionRadius: 10,
			SubstantialGold:       500,
		},
		Production: Production{
			SupplyHeadroom:      5,
			SupplyCap:           100,
			HouseLimit:          6,
			CastlesPerBarracks:  2,
			BarracksSurplusGold: 600,
			BarracksLateGold:    400,
			BarracksSoftCap:     6,
			MaxForges:           2,
			MaxUpgradeLevel:     5,
			SoldierWeight:       5,
			RiflemanWeight:      4,
			MageWeight:          5,
			EarlyArmyBarracks:   2,
		},
		Combat: Combat{
			AttackTime:          120,
			AttackSupply:        94,
			EngageRadius:        30,
			ArmyPosition:        0.15,
			MageStageOffset:     -0.03,
			RiflemanStageOffset: 0.02,
			KiteHealthRatio:     1.5,
			KiteMinRange:        2,
			KiteBand:            3,
			AntiAirRange:        3,
			BlockingRange:       4,
			HealMargin:          50,
			HealRangeBuffer:     2,
		},
		Workers: Workers{
			MeleeRadius:       2,
			MinDefendRadius:   5,
			BuildingRadius:    7,
			DefendHealthRatio: 0.5,
			ThreatRadius:      8,
			FleeRadius:        9,
			DominateRatio:     3,
			FleeHealthRatio:   2,
		},
		Footprints: map[string]model.Size{
			model.House:      {W: 3, H: 3},
			model.Barracks:   {W: 3, H: 3},
			model.MagesGuild: {W: 3, H: 3},
			model.Forge:      {W: 4, H: 4},
			model.Castle:     {W: 4, H: 4},
			model.Fortress:   {W: 4, H: 4},
			model.Watchtower: {W: 2, H: 2},
			model.Goldmine:   {W: 3, H: 3},
		},
	}
}

// Footprint returns the footprint of building type t, 1x1 if unknown.
func (t Tuning) Footprint(typ string) model.Size {
	if s, ok := t.Footprints[typ]; ok {
		return s
	}
	return model.Size{W: 1, H: 1}
}

// SizeOf is the reported footprint of b, falling back to the table.
func (t Tuning) SizeOf(b model.Entity) model.Size {
	if b.Size.W > 0 && b.Size.H > 0 {
		return b.Size
	}
	return t.Footprint(b.Type)
}

// UnitValue is the army weight of unit type typ.
func (t Tuning) UnitValue(typ string) float64 {
	return t.ArmyValues.Units[typ]
}

//go:embed tuning.schema.json
var schemaSrc string

var schema = jsonschema.MustCompileString("tuning.schema.json", schemaSrc)

// Load reads a YAML tuning file on top of Default. The document is checked
// against the embedded schema before it is applied.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := Parse(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse validates raw YAML and overlays it onto t.
func Parse(raw []byte, t *Tuning) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse tuning: %w", err)
	}
	if doc == nil {
		return nil
	}
	// Round-trip through JSON so the validator sees plain JSON types.
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize tuning: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("normalize tuning: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("validate tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return fmt.Errorf("decode tuning: %w", err)
	}
	return nil
}
