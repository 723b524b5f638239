package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lipidose/components"
)

// Neighbor holds a nearby particle with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	ID     uint64
	DX, DY float32 // delta from query origin to the particle
	DistSq float32 // squared distance (avoid sqrt in hot path)
}

// Accept filters query candidates against live state.
// A nil Accept admits every candidate.
type Accept func(e ecs.Entity) bool

// gridEntry is one particle registered in a cell.
type gridEntry struct {
	e  ecs.Entity
	id uint64
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]gridEntry // flat grid of entry lists
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds a particle to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, id uint64, x, y float32) {
	col, row := g.cellCoords(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, id: id})
}

// Len returns the number of registered particles.
func (g *SpatialGrid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

// MaxQueryResults caps the number of neighbors returned by Within.
// This prevents density spikes from causing unbounded work.
const MaxQueryResults = 128

// visit calls fn for every entry in cells overlapping the query circle.
// One extra ring of cells is scanned because cell membership is fixed at
// rebuild time while positions keep moving during the tick.
func (g *SpatialGrid) visit(x, y, radius float32, fn func(gridEntry) bool) {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cellCoords(x, y)

	minCol, maxCol := max(centerCol-cellRadius, 0), min(centerCol+cellRadius, g.cols-1)
	minRow, maxRow := max(centerRow-cellRadius, 0), min(centerRow+cellRadius, g.rows-1)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, entry := range g.cells[row*g.cols+col] {
				if !fn(entry) {
					return
				}
			}
		}
	}
}

// cellCoords returns the clamped cell column and row for a position.
func (g *SpatialGrid) cellCoords(x, y float32) (int, int) {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}

// SpatialIndex keeps one grid per population, rebuilt once per tick.
type SpatialIndex struct {
	store *Store
	grids [components.NumKinds]*SpatialGrid
}

// NewSpatialIndex creates an index over the store for a world of the given size.
func NewSpatialIndex(store *Store, width, height, cellSize float32) *SpatialIndex {
	idx := &SpatialIndex{store: store}
	for k := range idx.grids {
		idx.grids[k] = NewSpatialGrid(width, height, cellSize)
	}
	return idx
}

// Rebuild re-registers every targetable particle at its current position.
// Dead bacteria, bound endotoxins and spent therapeutics are left out since
// no system may target them.
func (idx *SpatialIndex) Rebuild() {
	for _, g := range idx.grids {
		g.Clear()
	}
	s := idx.store

	bq := s.bacteriaFilter.Query()
	for bq.Next() {
		pos, _, part, b := bq.Get()
		if b.Alive {
			idx.grids[components.KindBacterium].Insert(bq.Entity(), part.ID, pos.X, pos.Y)
		}
	}

	eq := s.endotoxinFilter.Query()
	for eq.Next() {
		pos, _, part, tox := eq.Get()
		if !tox.Bound {
			idx.grids[components.KindEndotoxin].Insert(eq.Entity(), part.ID, pos.X, pos.Y)
		}
	}

	wq := s.wbcFilter.Query()
	for wq.Next() {
		pos, _, part, _ := wq.Get()
		idx.grids[components.KindWBC].Insert(wq.Entity(), part.ID, pos.X, pos.Y)
	}

	tq := s.therapeuticFilter.Query()
	for tq.Next() {
		pos, _, part, th := tq.Get()
		if th.Active {
			idx.grids[components.KindTherapeutic].Insert(tq.Entity(), part.ID, pos.X, pos.Y)
		}
	}
}

// Len returns the number of indexed particles of a kind.
func (idx *SpatialIndex) Len(kind components.Kind) int {
	return idx.grids[kind].Len()
}

// Nearest returns the closest particle of the given kind within maxRadius
// that passes accept. Distances use live positions; ties go to the lower ID.
func (idx *SpatialIndex) Nearest(kind components.Kind, x, y, maxRadius float32, accept Accept) (Neighbor, bool) {
	var best Neighbor
	found := false
	radiusSq := maxRadius * maxRadius

	idx.grids[kind].visit(x, y, maxRadius, func(entry gridEntry) bool {
		if !idx.store.Alive(entry.e) {
			return true
		}
		if accept != nil && !accept(entry.e) {
			return true
		}
		pos := idx.store.Position(entry.e)
		dx, dy := pos.X-x, pos.Y-y
		distSq := dx*dx + dy*dy
		if distSq > radiusSq {
			return true
		}
		if !found || distSq < best.DistSq || (distSq == best.DistSq && entry.id < best.ID) {
			best = Neighbor{E: entry.e, ID: entry.id, DX: dx, DY: dy, DistSq: distSq}
			found = true
		}
		return true
	})

	return best, found
}

// Within appends particles of the given kind within radius to dst (up to
// MaxQueryResults) and returns the updated slice. Reuse dst across calls to
// avoid allocations.
func (idx *SpatialIndex) Within(kind components.Kind, x, y, radius float32, accept Accept, dst []Neighbor) []Neighbor {
	radiusSq := radius * radius
	start := len(dst)

	idx.grids[kind].visit(x, y, radius, func(entry gridEntry) bool {
		if !idx.store.Alive(entry.e) {
			return true
		}
		if accept != nil && !accept(entry.e) {
			return true
		}
		pos := idx.store.Position(entry.e)
		dx, dy := pos.X-x, pos.Y-y
		distSq := dx*dx + dy*dy
		if distSq <= radiusSq {
			dst = append(dst, Neighbor{E: entry.e, ID: entry.id, DX: dx, DY: dy, DistSq: distSq})
		}
		// Early exit if we hit the cap
		return len(dst)-start < MaxQueryResults
	})

	return dst
}
