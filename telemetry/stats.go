// Package telemetry derives patient statistics from particle counts and
// aggregates them into windows for logging and CSV output.
package telemetry

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/lipidose/config"
	"github.com/pthm-cable/lipidose/systems"
)

// PatientStatus classifies the inflammation index.
type PatientStatus uint8

const (
	StatusStable PatientStatus = iota
	StatusImproving
	StatusModerate
	StatusSevere
	StatusCritical
)

func (s PatientStatus) String() string {
	switch s {
	case StatusStable:
		return "Stable"
	case StatusImproving:
		return "Improving"
	case StatusModerate:
		return "Moderate"
	case StatusSevere:
		return "Severe"
	case StatusCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// ToxinScale is the number of free endotoxin particles that saturates the
// index at a threshold of 1.
const ToxinScale = 1000

// InflammationIndex maps a free endotoxin count to an integer in [0, 100].
// Bound toxin never contributes.
func InflammationIndex(freeEndotoxin int, threshold float64) int {
	if freeEndotoxin <= 0 {
		return 0
	}
	if threshold <= 0 || math.IsNaN(threshold) {
		return 100
	}
	raw := float64(freeEndotoxin) * 100 / (threshold * ToxinScale)
	return int(math.Round(min(max(raw, 0), 100)))
}

// ClassifyStatus maps an inflammation index to a patient status.
// Bands are upper-inclusive: 30 is Improving, 31 is Moderate.
func ClassifyStatus(index int) PatientStatus {
	switch {
	case index > 80:
		return StatusCritical
	case index > 60:
		return StatusSevere
	case index > 30:
		return StatusModerate
	case index > 0:
		return StatusImproving
	default:
		return StatusStable
	}
}

// Stats is the per-tick statistics record published with each frame.
type Stats struct {
	Time              int32
	BacterialCount    int
	FreeEndotoxin     int
	BoundEndotoxin    int
	TotalEndotoxin    int
	WBCCount          int
	TherapeuticCount  int
	InflammationIndex int
	PatientStatus     PatientStatus
}

// ComputeStats derives the statistics record from store counts.
// It has no side effects.
func ComputeStats(c systems.Counts, cfg *config.Config, settings config.Settings, tick int32) Stats {
	threshold := cfg.Inflammation.Thresholds.For(settings.InflammationThreshold)
	index := InflammationIndex(c.FreeEndotoxin, threshold)

	return Stats{
		Time:              tick,
		BacterialCount:    c.Bacteria,
		FreeEndotoxin:     c.FreeEndotoxin,
		BoundEndotoxin:    c.BoundEndotoxin,
		TotalEndotoxin:    c.FreeEndotoxin + c.BoundEndotoxin,
		WBCCount:          c.WBCs,
		TherapeuticCount:  c.Therapeutics,
		InflammationIndex: index,
		PatientStatus:     ClassifyStatus(index),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("time", int(s.Time)),
		slog.Int("bacteria", s.BacterialCount),
		slog.Int("free_endotoxin", s.FreeEndotoxin),
		slog.Int("bound_endotoxin", s.BoundEndotoxin),
		slog.Int("wbc", s.WBCCount),
		slog.Int("therapeutic", s.TherapeuticCount),
		slog.Int("inflammation", s.InflammationIndex),
		slog.String("status", s.PatientStatus.String()),
	)
}
