package systems

import "github.com/pthm-cable/lipidose/components"

// ParticleView is the render-facing copy of a particle's motion state.
type ParticleView struct {
	ID     uint64
	X, Y   float32
	VX, VY float32
}

// BacteriumView is a copied bacterium.
type BacteriumView struct {
	ParticleView
	Alive            bool
	ReplicationTimer float32
}

// EndotoxinView is a copied endotoxin.
type EndotoxinView struct {
	ParticleView
	Bound    bool
	SourceID uint64
	BoundBy  uint64
}

// TherapeuticView is a copied therapeutic particle.
type TherapeuticView struct {
	ParticleView
	Active bool
}

// Snapshot is an immutable copy of every population, safe to hand to a
// renderer while the next tick mutates the store.
type Snapshot struct {
	Bacteria     []BacteriumView
	Endotoxins   []EndotoxinView
	WBCs         []ParticleView
	Therapeutics []TherapeuticView
}

// Snapshot deep-copies the store into plain value slices.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{}

	bq := s.bacteriaFilter.Query()
	for bq.Next() {
		pos, vel, part, b := bq.Get()
		snap.Bacteria = append(snap.Bacteria, BacteriumView{
			ParticleView:     view(part.ID, pos.X, pos.Y, vel.X, vel.Y),
			Alive:            b.Alive,
			ReplicationTimer: b.ReplicationTimer,
		})
	}

	eq := s.endotoxinFilter.Query()
	for eq.Next() {
		pos, vel, part, tox := eq.Get()
		snap.Endotoxins = append(snap.Endotoxins, EndotoxinView{
			ParticleView: view(part.ID, pos.X, pos.Y, vel.X, vel.Y),
			Bound:        tox.Bound,
			SourceID:     tox.SourceID,
			BoundBy:      tox.BoundBy,
		})
	}

	wq := s.wbcFilter.Query()
	for wq.Next() {
		pos, vel, part, _ := wq.Get()
		snap.WBCs = append(snap.WBCs, view(part.ID, pos.X, pos.Y, vel.X, vel.Y))
	}

	tq := s.therapeuticFilter.Query()
	for tq.Next() {
		pos, vel, part, th := tq.Get()
		snap.Therapeutics = append(snap.Therapeutics, TherapeuticView{
			ParticleView: view(part.ID, pos.X, pos.Y, vel.X, vel.Y),
			Active:       th.Active,
		})
	}

	return snap
}

func view(id uint64, x, y, vx, vy float32) ParticleView {
	return ParticleView{ID: id, X: x, Y: y, VX: vx, VY: vy}
}

// Picked identifies one particle of a snapshot by population and index.
type Picked struct {
	Kind  components.Kind
	Index int
	ID    uint64
}

// Pick returns the particle closest to (x, y) within radius. Bacteria win
// ties over toxin, WBCs and therapeutics, in that order.
func (s *Snapshot) Pick(x, y, radius float32) (Picked, bool) {
	best := Picked{}
	bestSq := radius * radius
	found := false

	consider := func(kind components.Kind, i int, p *ParticleView) {
		d := distanceSq(x, y, p.X, p.Y)
		if d < bestSq || (!found && d <= bestSq) {
			best = Picked{Kind: kind, Index: i, ID: p.ID}
			bestSq = d
			found = true
		}
	}

	for i := range s.Bacteria {
		consider(components.KindBacterium, i, &s.Bacteria[i].ParticleView)
	}
	for i := range s.Endotoxins {
		consider(components.KindEndotoxin, i, &s.Endotoxins[i].ParticleView)
	}
	for i := range s.WBCs {
		consider(components.KindWBC, i, &s.WBCs[i])
	}
	for i := range s.Therapeutics {
		consider(components.KindTherapeutic, i, &s.Therapeutics[i].ParticleView)
	}
	return best, found
}

// Find looks up a particle by ID, so a selection survives across frames.
func (s *Snapshot) Find(kind components.Kind, id uint64) (Picked, bool) {
	match := func(i int, p *ParticleView) (Picked, bool) {
		return Picked{Kind: kind, Index: i, ID: id}, p.ID == id
	}
	switch kind {
	case components.KindBacterium:
		for i := range s.Bacteria {
			if p, ok := match(i, &s.Bacteria[i].ParticleView); ok {
				return p, true
			}
		}
	case components.KindEndotoxin:
		for i := range s.Endotoxins {
			if p, ok := match(i, &s.Endotoxins[i].ParticleView); ok {
				return p, true
			}
		}
	case components.KindWBC:
		for i := range s.WBCs {
			if p, ok := match(i, &s.WBCs[i]); ok {
				return p, true
			}
		}
	case components.KindTherapeutic:
		for i := range s.Therapeutics {
			if p, ok := match(i, &s.Therapeutics[i].ParticleView); ok {
				return p, true
			}
		}
	}
	return Picked{}, false
}
