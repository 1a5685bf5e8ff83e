package combat

import (
	"strings"

	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/spatial"
)

// Heal has every mage heal the first wounded ally in reach, once heal is
// researched. An ally counts as wounded when it is missing at least the heal
// margin.
func (c *Controller) Heal() {
	if c.snap.Upgrade(model.UpgradeHeal) <= 0 {
		return
	}
	cfg := c.tune.Combat
	for _, m := range c.army {
		if !strings.EqualFold(m.Type, model.Mage) {
			continue
		}
		reach := m.Field("range") + cfg.HealRangeBuffer
		for _, ally := range c.army {
			if ally.ID == m.ID || ally.HP > ally.MaxHP-cfg.HealMargin {
				continue
			}
			if spatial.Distance(m.Pos, ally.Pos) < reach {
				c.out.Issue(model.OrderHeal, []int{m.ID}, model.On(ally.ID))
				break
			}
		}
	}
}
