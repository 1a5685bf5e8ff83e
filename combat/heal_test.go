package combat

import (
	"testing"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/tuning"
)

func TestHeal(t *testing.T) {
	mage := model.Entity{ID: 100, Owner: me, Team: 1, Type: model.Mage, Pos: model.Point{X: 10, Y: 10}, HP: 50, MaxHP: 50, Range: 4}

	tests := []struct {
		name     string
		upgrade  int
		ally     model.Entity
		wantHeal bool
	}{
		{
			name:     "wounded ally in reach",
			upgrade:  1,
			ally:     model.Entity{ID: 101, Owner: me, Team: 1, Type: model.Soldier, Pos: model.Point{X: 13, Y: 10}, HP: 25, MaxHP: 75},
			wantHeal: true,
		},
		{
			name:    "scratched ally",
			upgrade: 1,
			ally:    model.Entity{ID: 101, Owner: me, Team: 1, Type: model.Soldier, Pos: model.Point{X: 13, Y: 10}, HP: 40, MaxHP: 75},
		},
		{
			name:    "wounded ally out of reach",
			upgrade: 1,
			ally:    model.Entity{ID: 101, Owner: me, Team: 1, Type: model.Soldier, Pos: model.Point{X: 17, Y: 10}, HP: 10, MaxHP: 75},
		},
		{
			name: "heal not researched",
			ally: model.Entity{ID: 101, Owner: me, Team: 1, Type: model.Soldier, Pos: model.Point{X: 13, Y: 10}, HP: 10, MaxHP: 75},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := battlefield()
			s.Upgrades = map[string]int{model.UpgradeHeal: tt.upgrade}
			s.Units = []model.Entity{mage, tt.ally}

			out := &model.OrderBatch{}
			New(s, tuning.Default(), out).Heal()

			heals := out.Named(model.OrderHeal)
			if tt.wantHeal {
				if len(heals) != 1 || heals[0].Target.EntityID != tt.ally.ID || heals[0].Units[0] != mage.ID {
					t.Errorf("expected mage %d to heal %d, got %+v", mage.ID, tt.ally.ID, heals)
				}
				return
			}
			if len(heals) != 0 {
				t.Errorf("expected no heal, got %+v", heals)
			}
		})
	}
}

func TestHeal_LowerCaseMage(t *testing.T) {
	s := battlefield()
	s.Upgrades = map[string]int{model.UpgradeHeal: 1}
	s.Units = []model.Entity{
		{ID: 100, Owner: me, Team: 1, Type: "mage", Pos: model.Point{X: 10, Y: 10}, HP: 50, MaxHP: 50, Range: 4},
		{ID: 101, Owner: me, Team: 1, Type: model.Soldier, Pos: model.Point{X: 12, Y: 10}, HP: 10, MaxHP: 75},
	}
	out := &model.OrderBatch{}
	New(s, tuning.Default(), out).Heal()
	if heals := out.Named(model.OrderHeal); len(heals) != 1 || heals[0].Target.EntityID != 101 {
		t.Errorf("expected the mage to heal 101, got %+v", heals)
	}
}
