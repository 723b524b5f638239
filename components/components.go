// Package components defines ECS components for the simulation.
package components

// Kind identifies which population a particle belongs to.
type Kind uint8

const (
	KindBacterium Kind = iota
	KindEndotoxin
	KindWBC
	KindTherapeutic

	NumKinds = 4
)

// String returns the population name.
func (k Kind) String() string {
	switch k {
	case KindBacterium:
		return "bacterium"
	case KindEndotoxin:
		return "endotoxin"
	case KindWBC:
		return "wbc"
	case KindTherapeutic:
		return "therapeutic"
	default:
		return "unknown"
	}
}

// Position represents a particle's position in the vessel.
type Position struct {
	X, Y float32
}

// Velocity represents a particle's velocity in units per tick.
type Velocity struct {
	X, Y float32
}

// Particle carries the identity shared by every population.
// IDs come from a single store-wide counter and are never reused.
type Particle struct {
	ID   uint64
	Kind Kind
}

// Bacterium holds per-bacterium state.
type Bacterium struct {
	Alive            bool
	ReplicationTimer float32 // ticks until the next replication check
}

// Endotoxin holds per-toxin state. Bound flips to true once and never back.
type Endotoxin struct {
	Bound    bool
	SourceID uint64 // emitting bacterium
	BoundBy  uint64 // therapeutic particle that neutralized it (0 while free)
}

// WhiteBloodCell marks an immune cell. WBCs carry no state beyond motion.
type WhiteBloodCell struct{}

// Therapeutic holds per-particle state of the lipid-binding agent.
type Therapeutic struct {
	Active bool
}
