package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkStatusChange      BookmarkType = "status_change"
	BookmarkSepsisRisk        BookmarkType = "sepsis_risk"
	BookmarkInfectionCleared  BookmarkType = "infection_cleared"
	BookmarkToxinNeutralized  BookmarkType = "toxin_neutralized"
	BookmarkBacterialSurge    BookmarkType = "bacterial_surge"
	BookmarkSustainedRecovery BookmarkType = "sustained_recovery"
)

// Bookmark marks a clinically notable window.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// recoveryWindows is how many consecutive Stable windows count as recovered.
const recoveryWindows = 5

// BookmarkDetector watches window stats for notable transitions.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	stableWindows int
	recovered     bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets all history, so the next window is treated as the first.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.stableWindows = 0
	bd.recovered = false
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if prev, ok := bd.previous(); ok {
		if stats.Status != prev.Status {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkStatusChange,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("%s -> %s", prev.Status, stats.Status),
			})
			if stats.Status == StatusCritical.String() {
				bookmarks = append(bookmarks, Bookmark{
					Type:        BookmarkSepsisRisk,
					Tick:        stats.WindowEndTick,
					Description: fmt.Sprintf("Inflammation index %d with %d free endotoxin", stats.Inflammation, stats.FreeEndotoxin),
				})
			}
		}
		if stats.Bacteria == 0 && prev.Bacteria > 0 {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkInfectionCleared,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("Last bacteria cleared (%d engulfed this window)", stats.Engulfed),
			})
		}
		if stats.FreeEndotoxin == 0 && prev.FreeEndotoxin > 0 && stats.BoundEndotoxin > 0 {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkToxinNeutralized,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("All %d endotoxin bound", stats.BoundEndotoxin),
			})
		}
	}

	if b := bd.checkSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkRecovery(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) previous() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx], true
}

// checkSurge fires when the colony grows past 1.5x its rolling mean.
func (bd *BookmarkDetector) checkSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Bacteria
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Bacteria) > avg*1.5 && stats.Bacteria >= 20 {
		return &Bookmark{
			Type:        BookmarkBacterialSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Bacteria %d is %.1fx average (%.0f)", stats.Bacteria, float64(stats.Bacteria)/avg, avg),
		}
	}
	return nil
}

// checkRecovery fires once per episode of consecutive Stable windows.
func (bd *BookmarkDetector) checkRecovery(stats WindowStats) *Bookmark {
	if stats.Status != StatusStable.String() {
		bd.stableWindows = 0
		bd.recovered = false
		return nil
	}

	bd.stableWindows++
	if bd.stableWindows < recoveryWindows || bd.recovered {
		return nil
	}
	bd.recovered = true
	return &Bookmark{
		Type:        BookmarkSustainedRecovery,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Stable for %d windows", bd.stableWindows),
	}
}
