package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseBacteria    = "bacteria"
	PhaseEndotoxin   = "endotoxin"
	PhaseSpatialGrid = "spatial_grid"
	PhaseImmune      = "immune"
	PhaseTherapeutic = "therapeutic"
	PhaseStats       = "stats"
	PhasePublish     = "publish"
)

// phaseOrder lists the phases in tick order.
var phaseOrder = []string{
	PhaseBacteria, PhaseEndotoxin, PhaseSpatialGrid, PhaseImmune,
	PhaseTherapeutic, PhaseStats, PhasePublish,
}

// Phases returns the phase names in tick order.
func Phases() []string {
	return append([]string(nil), phaseOrder...)
}

// tickSample is the timing of one tick. phases is indexed like
// PerfCollector.phases and may be shorter if phases were added later.
type tickSample struct {
	total  time.Duration
	phases []time.Duration
}

// PerfCollector times the phases of each tick and keeps the last
// windowSize ticks in a ring.
type PerfCollector struct {
	phases     []string
	phaseIndex map[string]int

	ring  []tickSample
	next  int
	count int

	current    []time.Duration
	tickStart  time.Time
	phaseStart time.Time
	active     int // index of the running phase, -1 between phases
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		phaseIndex: make(map[string]int, len(phaseOrder)),
		ring:       make([]tickSample, windowSize),
		active:     -1,
	}
	for _, name := range phaseOrder {
		p.register(name)
	}
	return p
}

// register adds a phase name not seen before and returns its index.
func (p *PerfCollector) register(name string) int {
	if i, ok := p.phaseIndex[name]; ok {
		return i
	}
	p.phases = append(p.phases, name)
	p.phaseIndex[name] = len(p.phases) - 1
	return len(p.phases) - 1
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = make([]time.Duration, len(p.phases))
	p.active = -1
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)

	i := p.register(phase)
	if i >= len(p.current) {
		p.current = append(p.current, make([]time.Duration, i+1-len(p.current))...)
	}
	p.active = i
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active >= 0 {
		p.current[p.active] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and records the tick.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.active = -1

	p.ring[p.next] = tickSample{total: now.Sub(p.tickStart), phases: p.current}
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// PerfStats holds timing aggregated over the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average tick, 0-100

	TicksPerSecond float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.count == 0 {
		return s
	}

	totals := make([]float64, p.count)
	perPhase := make([]float64, len(p.phases))
	for i, sample := range p.ring[:p.count] {
		totals[i] = float64(sample.total)
		for j, d := range sample.phases {
			perPhase[j] += float64(d)
		}
	}

	mean := stat.Mean(totals, nil)
	sorted := slices.Clone(totals)
	slices.Sort(sorted)

	s.AvgTickDuration = time.Duration(mean)
	s.MinTickDuration = time.Duration(floats.Min(totals))
	s.MaxTickDuration = time.Duration(floats.Max(totals))
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil))

	n := float64(p.count)
	for j, name := range p.phases {
		if !p.seen(j) {
			continue
		}
		avg := perPhase[j] / n
		s.PhaseAvg[name] = time.Duration(avg)
		if mean > 0 {
			s.PhasePct[name] = avg / mean * 100
		}
	}
	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
	}
	return s
}

// seen reports whether phase j was started in any tick of the window.
func (p *PerfCollector) seen(j int) bool {
	for _, sample := range p.ring[:p.count] {
		if j < len(sample.phases) && sample.phases[j] > 0 {
			return true
		}
	}
	return false
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	BacteriaPct    float64 `csv:"bacteria_pct"`
	EndotoxinPct   float64 `csv:"endotoxin_pct"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	ImmunePct      float64 `csv:"immune_pct"`
	TherapeuticPct float64 `csv:"therapeutic_pct"`
	StatsPct       float64 `csv:"stats_pct"`
	PublishPct     float64 `csv:"publish_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		BacteriaPct:    s.PhasePct[PhaseBacteria],
		EndotoxinPct:   s.PhasePct[PhaseEndotoxin],
		SpatialGridPct: s.PhasePct[PhaseSpatialGrid],
		ImmunePct:      s.PhasePct[PhaseImmune],
		TherapeuticPct: s.PhasePct[PhaseTherapeutic],
		StatsPct:       s.PhasePct[PhaseStats],
		PublishPct:     s.PhasePct[PhasePublish],
	}
}
