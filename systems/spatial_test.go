package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lipidose/components"
)

func TestSpatialIndexNearest(t *testing.T) {
	w := newTestWorld(t, 1)
	s := w.store

	far := s.AddBacterium(pos(200, 200), vel(0, 0), 10)
	near := s.AddBacterium(pos(110, 100), vel(0, 0), 10)
	w.index.Rebuild()

	tests := []struct {
		name   string
		radius float32
		wantOK bool
		wantID uint64
	}{
		{"closest within radius", 200, true, near.ID},
		{"only near in small radius", 20, true, near.ID},
		{"nothing in tiny radius", 5, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := w.index.Nearest(components.KindBacterium, 100, 100, tc.radius, nil)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && n.ID != tc.wantID {
				t.Errorf("nearest ID = %d, want %d", n.ID, tc.wantID)
			}
		})
	}

	// Accept filter skips the nearer candidate.
	n, ok := w.index.Nearest(components.KindBacterium, 100, 100, 200, func(e ecs.Entity) bool {
		return s.Particle(e).ID != near.ID
	})
	if !ok || n.ID != far.ID {
		t.Errorf("filtered nearest = %d (ok=%v), want %d", n.ID, ok, far.ID)
	}
}

func TestSpatialIndexNearestTieBreak(t *testing.T) {
	w := newTestWorld(t, 1)
	first := w.store.AddBacterium(pos(90, 100), vel(0, 0), 10)
	w.store.AddBacterium(pos(110, 100), vel(0, 0), 10)
	w.index.Rebuild()

	n, ok := w.index.Nearest(components.KindBacterium, 100, 100, 50, nil)
	if !ok {
		t.Fatal("expected a neighbor")
	}
	if n.ID != first.ID {
		t.Errorf("tie went to ID %d, want lower ID %d", n.ID, first.ID)
	}
}

func TestSpatialIndexSkipsUntargetable(t *testing.T) {
	w := newTestWorld(t, 1)
	s := w.store

	bound := s.AddEndotoxin(pos(100, 100), 1)
	s.Endotoxin(bound.Entity).Bound = true
	free := s.AddEndotoxin(pos(105, 100), 1)
	dead := s.AddBacterium(pos(100, 100), vel(0, 0), 10)
	w.index.Rebuild()

	if got := w.index.Len(components.KindEndotoxin); got != 1 {
		t.Errorf("indexed endotoxins = %d, want 1", got)
	}
	n, ok := w.index.Nearest(components.KindEndotoxin, 100, 100, 50, nil)
	if !ok || n.ID != free.ID {
		t.Errorf("nearest toxin = %d (ok=%v), want free %d", n.ID, ok, free.ID)
	}

	// Removed after the rebuild: lookups still skip it.
	s.RemoveBacterium(dead.Entity)
	if _, ok := w.index.Nearest(components.KindBacterium, 100, 100, 50, nil); ok {
		t.Error("removed bacterium returned by Nearest")
	}
}

func TestSpatialIndexWithin(t *testing.T) {
	w := newTestWorld(t, 1)
	for i := 0; i < 5; i++ {
		w.store.AddWBC(pos(100+float32(i)*10, 100), vel(0, 0))
	}
	w.index.Rebuild()

	got := w.index.Within(components.KindWBC, 100, 100, 25, nil, nil)
	if len(got) != 3 {
		t.Errorf("Within returned %d, want 3", len(got))
	}
	for _, n := range got {
		if n.DistSq > 25*25 {
			t.Errorf("neighbor %d outside radius: distSq %f", n.ID, n.DistSq)
		}
	}
}
