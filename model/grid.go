package model

// Grid is the blocked-cell map for the current tick. Cells is row-major:
// Cells[y*Width + x] is true when the cell cannot be built on or walked to.
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []bool `json:"cells"`
}

// NewGrid returns an all-clear grid of the given size.
func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, Cells: make([]bool, width*height)}
}

// Blocked reports whether (x, y) is blocked. Cells outside the map are blocked.
func (g Grid) Blocked(x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return true
	}
	i := y*g.Width + x
	if i >= len(g.Cells) {
		return true
	}
	return g.Cells[i]
}

// Block marks the inclusive rectangle as blocked, clipped to the map.
// Hosts and tests use it to stamp footprints.
func (g Grid) Block(x1, y1, x2, y2 int) {
	for y := max(y1, 0); y <= min(y2, g.Height-1); y++ {
		for x := max(x1, 0); x <= min(x2, g.Width-1); x++ {
			g.Cells[y*g.Width+x] = true
		}
	}
}
