package world

// Resource cells are clamped to [0, resourceMax]; a single forage takes at
// most forageCap energy.
const (
	resourceMax = 100.0
	forageCap   = 10.0
	regenMin    = 1.0
	regenMax    = 5.0
)

// ResourceField is a dense row-major grid of renewable resource values,
// one cell per integer grid coordinate.
type ResourceField struct {
	size  int
	cells []float64
}

// newResourceField seeds every cell uniformly in [0,100) when the
// environment is enabled, all zero otherwise. Cells are drawn row-major so
// the draw order is reproducible.
func newResourceField(size int, rng *Stream, seeded bool) *ResourceField {
	f := &ResourceField{size: size, cells: make([]float64, size*size)}
	if seeded {
		for i := range f.cells {
			f.cells[i] = rng.Uniform(CatEnvironment, 0, resourceMax)
		}
	}
	return f
}

func (f *ResourceField) index(c Cell) int { return c.Y*f.size + c.X }

// At returns the resource value at a cell.
func (f *ResourceField) At(c Cell) float64 { return f.cells[f.index(c)] }

// Take removes amount from a cell; the caller bounds the amount.
func (f *ResourceField) Take(c Cell, amount float64) {
	f.cells[f.index(c)] -= amount
}

// regenerate applies the per-tick renewal pass: independently per cell,
// with probability rate/24, add a fresh draw in [1,5); then clamp every
// cell to [0,100].
func (f *ResourceField) regenerate(rng *Stream, rate float64) {
	p := rate / hoursPerDay
	for i := range f.cells {
		if rng.Float64(CatEnvironment) < p {
			f.cells[i] += rng.Uniform(CatEnvironment, regenMin, regenMax)
		}
	}
	for i, v := range f.cells {
		if v < 0 {
			f.cells[i] = 0
		} else if v > resourceMax {
			f.cells[i] = resourceMax
		}
	}
}

// Flatten returns a copy of the row-major cell values.
func (f *ResourceField) Flatten() []float64 {
	out := make([]float64, len(f.cells))
	copy(out, f.cells)
	return out
}
