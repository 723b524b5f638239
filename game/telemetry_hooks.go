package game

import (
	"log/slog"

	"github.com/pthm-cable/lipidose/telemetry"
)

// flushTelemetry closes the stats window if it is complete, writes it out
// and checks for bookmarks.
func (g *Game) flushTelemetry(last telemetry.Stats) (telemetry.WindowStats, bool) {
	if !g.collector.ShouldFlush(last.Time) {
		return telemetry.WindowStats{}, false
	}

	stats := g.collector.Flush(last)
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}

	return stats, true
}
