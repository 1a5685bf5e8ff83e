package placement

import (
	"log/slog"

	"github.com/nstehr/lwg-ai/model"
)

// Guard keeps construction from being started twice. It is built once per
// tick: duplicate builders of the same type are stopped, and a new build is
// refused while more workers are en route than there are unfinished sites.
// Builds started during the tick count as in flight, so at most one new site
// is started per tick on top of the ones already being built.
type Guard struct {
	builders   map[string]int
	inFlight   int
	unfinished int
}

// NewGuard counts in-flight builders and stops every builder past the first
// of each building type.
func NewGuard(s *model.Snapshot, out *model.OrderBatch) *Guard {
	g := &Guard{builders: make(map[string]int)}
	for _, t := range model.BuildableTypes {
		builders := s.FindUnits(model.Filter{Type: model.Worker, Order: model.BuildOrder(t), Owner: s.Player})
		g.builders[t] = len(builders)
		g.inFlight += len(builders)
		if len(builders) > 1 {
			slog.Debug("stopping duplicate builders", "type", t, "count", len(builders)-1)
			out.Issue(model.OrderStop, model.IDs(builders[1:]), nil)
		}
	}
	all := s.FindBuildings(model.Filter{Owner: s.Player})
	finished := s.FindBuildings(model.Filter{Owner: s.Player, FinishedOnly: true})
	g.unfinished = len(all) - len(finished)
	return g
}

// Builders is the number of workers currently ordered to build t.
func (g *Guard) Builders(t string) int { return g.builders[t] }

// InFlight is the number of builders en route, including builds started this tick.
func (g *Guard) InFlight() int { return g.inFlight }

// Allow reports whether a new construction may start.
func (g *Guard) Allow() bool { return g.inFlight <= g.unfinished }

// Started records a build order issued this tick.
func (g *Guard) Started(t string) {
	g.builders[t]++
	g.inFlight++
}
