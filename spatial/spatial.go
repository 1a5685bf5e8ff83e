// Package spatial holds the distance and footprint helpers shared by the
// planner, the economy pass and the combat controller.
package spatial

import (
	"math"
	"slices"

	"github.com/nstehr/lwg-ai/model"
)

// Positioned is anything with a map position.
type Positioned interface {
	Position() model.Point
}

// Blocker reports blocked cells. model.Grid satisfies it.
type Blocker interface {
	Blocked(x, y int) bool
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b model.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Nearest returns the item closest to p. Ties keep the first one seen.
func Nearest[T Positioned](p model.Point, items []T) (T, bool) {
	var best T
	if len(items) == 0 {
		return best, false
	}
	best = items[0]
	bestDist := Distance(p, best.Position())
	for _, it := range items[1:] {
		if d := Distance(p, it.Position()); d < bestDist {
			best, bestDist = it, d
		}
	}
	return best, true
}

// NearestDistance is Nearest plus the distance to the winner, math.Inf(1)
// when items is empty.
func NearestDistance[T Positioned](p model.Point, items []T) (T, float64) {
	best, ok := Nearest(p, items)
	if !ok {
		return best, math.Inf(1)
	}
	return best, Distance(p, best.Position())
}

// SortByDistance returns a copy of items ordered by distance from origin,
// closest first. Equal distances keep their input order.
func SortByDistance[T Positioned](origin model.Point, items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		da, db := Distance(origin, a.Position()), Distance(origin, b.Position())
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	return out
}

// RectangleBuildable reports whether every cell of the inclusive rectangle
// (x1,y1)-(x2,y2) is unblocked.
func RectangleBuildable(g Blocker, x1, y1, x2, y2 int) bool {
	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			if g.Blocked(x, y) {
				return false
			}
		}
	}
	return true
}

// Centroid is the mean position of items, or the zero point for none.
func Centroid[T Positioned](items []T) model.Point {
	if len(items) == 0 {
		return model.Point{}
	}
	var c model.Point
	for _, it := range items {
		p := it.Position()
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(items))
	return model.Point{X: c.X / n, Y: c.Y / n}
}

// Mirror returns the point reached by moving away from threat, starting at
// from, by twice their separation.
func Mirror(from, threat model.Point) model.Point {
	return model.Point{
		X: from.X - (threat.X-from.X)*2,
		Y: from.Y - (threat.Y-from.Y)*2,
	}
}

// Lerp returns the point a fraction t of the way from a to b.
func Lerp(a, b model.Point, t float64) model.Point {
	return model.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
