package systems

// SystemInfo describes one tick phase for UI display.
type SystemInfo struct {
	ID          string // phase identifier used by the perf collector
	Name        string // display name
	Description string
	Category    string // "infection", "host", "treatment" or "core"
}

// SystemRegistry holds metadata about the tick phases.
// Registration order is tick order.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with every phase of a tick.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "bacteria", Name: "Bacteria", Description: "Moves, replicates and emits endotoxin", Category: "infection"})
	r.Register(SystemInfo{ID: "endotoxin", Name: "Endotoxin", Description: "Diffuses free toxin", Category: "infection"})
	r.Register(SystemInfo{ID: "spatial_grid", Name: "Spatial Grid", Description: "Rebuilds the neighbor lookup grid", Category: "core"})
	r.Register(SystemInfo{ID: "immune", Name: "Immune", Description: "WBC pursuit and phagocytosis", Category: "host"})
	r.Register(SystemInfo{ID: "therapeutic", Name: "Lipidose", Description: "Dosing, pursuit and toxin binding", Category: "treatment"})
	r.Register(SystemInfo{ID: "stats", Name: "Stats", Description: "Inflammation index and telemetry", Category: "core"})
	r.Register(SystemInfo{ID: "publish", Name: "Publish", Description: "Builds the render snapshot", Category: "core"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns phases filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
