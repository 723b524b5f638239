package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/renderer"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayBacteria       OverlayID = "bacteria"
	OverlayFreeEndotoxin  OverlayID = "free_endotoxin"
	OverlayBoundEndotoxin OverlayID = "bound_endotoxin"
	OverlayWBCs           OverlayID = "wbcs"
	OverlayTherapeutics   OverlayID = "therapeutics"
	OverlayBloodFlow      OverlayID = "blood_flow"
	OverlayVelocity       OverlayID = "velocity"
	OverlayGrid           OverlayID = "grid"
	OverlayPerf           OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID // Unique identifier
	Name        string    // Display name
	Description string    // What this overlay shows
	Key         int32     // Keyboard key to toggle (0 = no key)
	KeyLabel    string    // Key label for display (e.g., "S", "V")
	Category    string    // Grouping (e.g., "populations", "debug")
	Default     bool      // Enabled at startup
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	// Populations
	r.Register(OverlayDescriptor{
		ID: OverlayBacteria, Name: "Bacteria", Description: "Live bacteria",
		Key: rl.KeyOne, KeyLabel: "1", Category: "populations", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayFreeEndotoxin, Name: "Free Endotoxin", Description: "Unbound LPS",
		Key: rl.KeyTwo, KeyLabel: "2", Category: "populations", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayBoundEndotoxin, Name: "Bound Complexes", Description: "Neutralized LPS",
		Key: rl.KeyThree, KeyLabel: "3", Category: "populations", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayWBCs, Name: "White Blood Cells", Description: "Immune cells",
		Key: rl.KeyFour, KeyLabel: "4", Category: "populations", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayTherapeutics, Name: "Lipidose", Description: "Therapeutic particles",
		Key: rl.KeyFive, KeyLabel: "5", Category: "populations", Default: true,
	})

	// Visual
	r.Register(OverlayDescriptor{
		ID: OverlayBloodFlow, Name: "Blood Flow", Description: "Animated red cells",
		Key: rl.KeyB, KeyLabel: "B", Category: "visual", Default: true,
	})

	// Debug
	r.Register(OverlayDescriptor{
		ID: OverlayVelocity, Name: "Velocity", Description: "Motion vectors",
		Key: rl.KeyV, KeyLabel: "V", Category: "debug",
	})
	r.Register(OverlayDescriptor{
		ID: OverlayGrid, Name: "Spatial Grid", Description: "Neighbor index cells",
		Key: rl.KeyG, KeyLabel: "G", Category: "debug",
	})
	r.Register(OverlayDescriptor{
		ID: OverlayPerf, Name: "Performance", Description: "Tick phase timing",
		Key: rl.KeyP, KeyLabel: "P", Category: "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// Keys returns every bound toggle key.
func (r *OverlayRegistry) Keys() []int32 {
	keys := make([]int32, 0, len(r.descriptors))
	for _, desc := range r.descriptors {
		if desc.Key != 0 {
			keys = append(keys, desc.Key)
		}
	}
	return keys
}

// Layers converts the overlay state into renderer layers.
func (r *OverlayRegistry) Layers() renderer.Layers {
	return renderer.Layers{
		Bacteria:       r.enabled[OverlayBacteria],
		FreeEndotoxin:  r.enabled[OverlayFreeEndotoxin],
		BoundEndotoxin: r.enabled[OverlayBoundEndotoxin],
		WBCs:           r.enabled[OverlayWBCs],
		Therapeutics:   r.enabled[OverlayTherapeutics],
		Velocity:       r.enabled[OverlayVelocity],
		Grid:           r.enabled[OverlayGrid],
	}
}
