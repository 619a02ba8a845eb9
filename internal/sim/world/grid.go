package world

import "sort"

// Cell is a discrete grid coordinate: the floor of an agent's continuous
// position. Cell coordinates are always normalized to [0,size).
type Cell struct {
	X, Y int
}

// Grid is the spatial index mapping cells to the agent ids occupying them.
// It is updated incrementally as agents move, never rebuilt from scratch.
type Grid struct {
	size  int
	cells map[Cell]map[uint64]struct{}
}

func NewGrid(size int) *Grid {
	return &Grid{size: size, cells: make(map[Cell]map[uint64]struct{})}
}

func (g *Grid) wrap(c Cell) Cell {
	c.X = ((c.X % g.size) + g.size) % g.size
	c.Y = ((c.Y % g.size) + g.size) % g.size
	return c
}

func (g *Grid) Place(id uint64, c Cell) {
	c = g.wrap(c)
	set, ok := g.cells[c]
	if !ok {
		set = make(map[uint64]struct{})
		g.cells[c] = set
	}
	set[id] = struct{}{}
}

func (g *Grid) Remove(id uint64, c Cell) {
	c = g.wrap(c)
	if set, ok := g.cells[c]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(g.cells, c)
		}
	}
}

func (g *Grid) Move(id uint64, from, to Cell) {
	from, to = g.wrap(from), g.wrap(to)
	if from == to {
		return
	}
	g.Remove(id, from)
	g.Place(id, to)
}

// Neighbors returns the ids of agents within Chebyshev distance radius of
// center, excluding occupants of the center cell itself. Cells wrap
// toroidally; the scan order (rows, then columns, ascending id within a
// cell) is fixed so callers consume randomness deterministically.
func (g *Grid) Neighbors(center Cell, radius int) []uint64 {
	center = g.wrap(center)
	var out []uint64
	seen := make(map[Cell]struct{})
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			c := g.wrap(Cell{X: center.X + dx, Y: center.Y + dy})
			if c == center {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			set, ok := g.cells[c]
			if !ok {
				continue
			}
			ids := make([]uint64, 0, len(set))
			for id := range set {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			out = append(out, ids...)
		}
	}
	return out
}
