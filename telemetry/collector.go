package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lipidose/systems"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Populations at window end
	Bacteria       int `csv:"bacteria"`
	FreeEndotoxin  int `csv:"free_endotoxin"`
	BoundEndotoxin int `csv:"bound_endotoxin"`
	TotalEndotoxin int `csv:"total_endotoxin"`
	WBCs           int `csv:"wbc"`
	Therapeutics   int `csv:"therapeutic"`

	// Sampled every tick of the window
	BacteriaMean      float64 `csv:"bacteria_mean"`
	BacteriaStd       float64 `csv:"bacteria_std"`
	FreeEndotoxinMean float64 `csv:"free_endotoxin_mean"`
	InflammationMean  float64 `csv:"inflammation_mean"`
	InflammationMax   float64 `csv:"inflammation_max"`

	Inflammation int    `csv:"inflammation"`
	Status       string `csv:"status"`

	// Events during window
	Replications int     `csv:"replications"`
	Suppressed   int     `csv:"suppressed"`
	Emissions    int     `csv:"emissions"`
	Engulfed     int     `csv:"engulfed"`
	EngulfMissed int     `csv:"engulf_missed"`
	EngulfRate   float64 `csv:"engulf_rate"`
	Spawned      int     `csv:"spawned"`
	Bindings     int     `csv:"bindings"`
	BindMissed   int     `csv:"bind_missed"`
	BindRate     float64 `csv:"bind_rate"`
}

// Collector accumulates events and per-tick samples within a window and
// produces WindowStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	// Event counters for current window
	replications int
	suppressed   int
	emissions    int
	engulfed     int
	engulfMissed int
	spawned      int
	bindings     int
	bindMissed   int

	bacteria     []float64
	freeToxin    []float64
	inflammation []float64
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:  windowTicks,
		bacteria:     make([]float64, 0, windowTicks),
		freeToxin:    make([]float64, 0, windowTicks),
		inflammation: make([]float64, 0, windowTicks),
	}
}

// RecordBacteria records the outcome of a bacteria pass.
func (c *Collector) RecordBacteria(r systems.BacteriaResult) {
	c.replications += r.Replications
	c.suppressed += r.Suppressed
	c.emissions += r.Emissions
}

// RecordImmune records the outcome of an immune pass.
func (c *Collector) RecordImmune(r systems.ImmuneResult) {
	c.engulfed += r.Engulfed
	c.engulfMissed += r.Missed
}

// RecordTherapeutic records the outcome of a therapeutic pass.
func (c *Collector) RecordTherapeutic(r systems.TherapeuticResult) {
	c.spawned += r.Spawned
	c.bindings += r.Bound
	c.bindMissed += r.Missed
}

// Sample records the statistics of one tick.
func (c *Collector) Sample(s Stats) {
	c.bacteria = append(c.bacteria, float64(s.BacterialCount))
	c.freeToxin = append(c.freeToxin, float64(s.FreeEndotoxin))
	c.inflammation = append(c.inflammation, float64(s.InflammationIndex))
}

// ShouldFlush reports whether the window ending at tick is complete.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush produces the stats for the current window and starts a new one.
// last is the statistics record of the window's final tick.
func (c *Collector) Flush(last Stats) WindowStats {
	ws := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   last.Time,
		Bacteria:        last.BacterialCount,
		FreeEndotoxin:   last.FreeEndotoxin,
		BoundEndotoxin:  last.BoundEndotoxin,
		TotalEndotoxin:  last.TotalEndotoxin,
		WBCs:            last.WBCCount,
		Therapeutics:    last.TherapeuticCount,
		Inflammation:    last.InflammationIndex,
		Status:          last.PatientStatus.String(),
		Replications:    c.replications,
		Suppressed:      c.suppressed,
		Emissions:       c.emissions,
		Engulfed:        c.engulfed,
		EngulfMissed:    c.engulfMissed,
		Spawned:         c.spawned,
		Bindings:        c.bindings,
		BindMissed:      c.bindMissed,
	}

	if len(c.bacteria) > 0 {
		ws.BacteriaMean, ws.BacteriaStd = stat.PopMeanStdDev(c.bacteria, nil)
		ws.FreeEndotoxinMean = stat.Mean(c.freeToxin, nil)
		ws.InflammationMean = stat.Mean(c.inflammation, nil)
		ws.InflammationMax = floats.Max(c.inflammation)
	}
	if attempts := c.engulfed + c.engulfMissed; attempts > 0 {
		ws.EngulfRate = float64(c.engulfed) / float64(attempts)
	}
	if attempts := c.bindings + c.bindMissed; attempts > 0 {
		ws.BindRate = float64(c.bindings) / float64(attempts)
	}

	c.Reset(last.Time)
	return ws
}

// Reset clears counters and samples and starts a window at tick.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.replications = 0
	c.suppressed = 0
	c.emissions = 0
	c.engulfed = 0
	c.engulfMissed = 0
	c.spawned = 0
	c.bindings = 0
	c.bindMissed = 0
	c.bacteria = c.bacteria[:0]
	c.freeToxin = c.freeToxin[:0]
	c.inflammation = c.inflammation[:0]
}

// WindowTicks returns the window length in ticks.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("bacteria", s.Bacteria),
		slog.Float64("bacteria_mean", s.BacteriaMean),
		slog.Float64("bacteria_std", s.BacteriaStd),
		slog.Int("free_endotoxin", s.FreeEndotoxin),
		slog.Int("bound_endotoxin", s.BoundEndotoxin),
		slog.Int("wbc", s.WBCs),
		slog.Int("therapeutic", s.Therapeutics),
		slog.Int("inflammation", s.Inflammation),
		slog.Float64("inflammation_mean", s.InflammationMean),
		slog.Float64("inflammation_max", s.InflammationMax),
		slog.String("status", s.Status),
		slog.Int("replications", s.Replications),
		slog.Int("suppressed", s.Suppressed),
		slog.Int("emissions", s.Emissions),
		slog.Int("engulfed", s.Engulfed),
		slog.Float64("engulf_rate", s.EngulfRate),
		slog.Int("spawned", s.Spawned),
		slog.Int("bindings", s.Bindings),
		slog.Float64("bind_rate", s.BindRate),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"bacteria", s.Bacteria,
		"free_endotoxin", s.FreeEndotoxin,
		"bound_endotoxin", s.BoundEndotoxin,
		"inflammation", s.Inflammation,
		"status", s.Status,
		"engulfed", s.Engulfed,
		"bindings", s.Bindings,
	)
}
