package tuning

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nstehr/lwg-ai/model"
)

func TestDefault(t *testing.T) {
	d := Default()
	if d.Economy.MaxWorkers != 27 || d.Economy.WorkersPerMine != 8 {
		t.Errorf("unexpected economy defaults %+v", d.Economy)
	}
	if d.Combat.AttackTime != 120 || d.Combat.ArmyPosition != 0.15 {
		t.Errorf("unexpected combat defaults %+v", d.Combat)
	}
	if got := d.UnitValue(model.Mage); got != 2.5 {
		t.Errorf("expected mage value 2.5, got %v", got)
	}
	if got := d.UnitValue(model.Worker); got != 0 {
		t.Errorf("expected workers to carry no army value, got %v", got)
	}
}

func TestFootprints(t *testing.T) {
	d := Default()
	if s := d.Footprint(model.Castle); s.W != 4 || s.H != 4 {
		t.Errorf("expected 4x4 castle, got %+v", s)
	}
	if s := d.Footprint("Statue"); s.W != 1 || s.H != 1 {
		t.Errorf("expected 1x1 for unknown types, got %+v", s)
	}
	reported := model.Entity{Type: model.House, Size: model.Size{W: 2, H: 5}}
	if s := d.SizeOf(reported); s.W != 2 || s.H != 5 {
		t.Errorf("expected the reported size to win, got %+v", s)
	}
	if s := d.SizeOf(model.Entity{Type: model.House}); s.W != 3 {
		t.Errorf("expected table size for unsized entity, got %+v", s)
	}
}

func TestParseOverlay(t *testing.T) {
	raw := []byte(`
economy:
  max_workers: 30
combat:
  attack_time: 90
army_values:
  units:
    Soldier: 2.5
footprints:
  House: {w: 2, h: 2}
`)
	tu := Default()
	if err := Parse(raw, &tu); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tu.Economy.MaxWorkers != 30 || tu.Combat.AttackTime != 90 {
		t.Errorf("overrides not applied: %+v %+v", tu.Economy, tu.Combat)
	}
	if tu.Economy.WorkersPerMine != 8 || tu.Combat.AttackSupply != 94 {
		t.Error("expected untouched fields to keep their defaults")
	}
	if tu.UnitValue(model.Soldier) != 2.5 || tu.UnitValue(model.Mage) != 2.5 {
		t.Errorf("expected unit values merged, got %v", tu.ArmyValues.Units)
	}
	if s := tu.Footprint(model.House); s.W != 2 {
		t.Errorf("expected overridden house footprint, got %+v", s)
	}
	if s := tu.Footprint(model.Castle); s.W != 4 {
		t.Errorf("expected castle footprint kept, got %+v", s)
	}
}

func TestParseEmpty(t *testing.T) {
	tu := Default()
	if err := Parse([]byte("# nothing here\n"), &tu); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tu.Economy.MaxWorkers != 27 {
		t.Error("expected an empty document to leave defaults alone")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"unknown section", "diplomacy:\n  peace: true\n", "validate"},
		{"unknown key", "economy:\n  max_wokers: 3\n", "validate"},
		{"negative", "economy:\n  workers_per_mine: -1\n", "validate"},
		{"fraction out of range", "combat:\n  army_position: 1.5\n", "validate"},
		{"wrong type", "costs:\n  house: lots\n", "validate"},
		{"bad footprint", "footprints:\n  House: {w: 0, h: 2}\n", "validate"},
		{"not yaml", "economy: [\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu := Default()
			err := Parse([]byte(tt.raw), &tu)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
			if tu.Economy.WorkersPerMine != 8 {
				t.Error("a rejected document must not be applied")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("production:\n  max_forges: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tu, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.Production.MaxForges != 3 || tu.Production.HouseLimit != 6 {
		t.Errorf("unexpected production %+v", tu.Production)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}
