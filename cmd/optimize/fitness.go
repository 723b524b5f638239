package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lipidose/config"
	"github.com/pthm-cable/lipidose/game"
	"github.com/pthm-cable/lipidose/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config
	settings   config.Settings
	doseWeight float64

	mu          sync.Mutex
	lastSummary runSummary // averaged over seeds, from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. Every run uses settings with
// the lipidose intervention forced on.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, doseWeight float64) *FitnessEvaluator {
	settings := baseCfg.Settings
	settings.IntroduceLipidose = true
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		settings:   settings,
		doseWeight: doseWeight,
	}
}

// Telemetry window used while optimizing.
const evalWindowTicks = 100

// runSummary condenses one run.
type runSummary struct {
	MeanInflammation float64 // average of window means
	PeakInflammation float64
	BoundFraction    float64 // bound / total endotoxin at the end
	Spawned          int     // therapeutic particles infused
}

// LastSummary returns the seed-averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() runSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.configFor(x)

	results := make([]runSummary, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx], errs[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, 0, len(results))
	var avg runSummary
	for i, r := range results {
		if errs[i] != nil {
			// A run that cannot be built scores as badly as possible.
			fitness = append(fitness, math.Inf(1))
			continue
		}
		fitness = append(fitness, fe.computeFitness(r, cfg))
		avg.MeanInflammation += r.MeanInflammation
		avg.PeakInflammation = max(avg.PeakInflammation, r.PeakInflammation)
		avg.BoundFraction += r.BoundFraction
		avg.Spawned += r.Spawned
	}
	n := float64(len(results))
	avg.MeanInflammation /= n
	avg.BoundFraction /= n
	avg.Spawned = int(float64(avg.Spawned) / n)

	fe.mu.Lock()
	fe.lastSummary = avg
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// configFor returns a copy of the base config with x applied.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Telemetry.WindowTicks = evalWindowTicks
	return cfg
}

// runSimulation executes a single headless simulation run to maxTicks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) (runSummary, error) {
	var windows []telemetry.WindowStats
	settings := fe.settings

	g, err := game.NewGame(game.Options{
		Seed:     seed,
		Config:   cfg,
		Settings: &settings,
		StatsCallback: func(ws telemetry.WindowStats) {
			windows = append(windows, ws)
		},
	})
	if err != nil {
		return runSummary{}, fmt.Errorf("creating game: %w", err)
	}
	defer g.Close()

	if err := g.Start(); err != nil {
		return runSummary{}, err
	}
	for i := int32(0); i < fe.maxTicks; i++ {
		if err := g.Tick(); err != nil {
			return runSummary{}, fmt.Errorf("tick %d: %w", i, err)
		}
	}
	g.Stop()

	return summarize(windows, g.Stats()), nil
}

// summarize reduces window stats and the final frame to a run summary.
func summarize(windows []telemetry.WindowStats, final telemetry.Stats) runSummary {
	var s runSummary
	if len(windows) > 0 {
		means := make([]float64, len(windows))
		for i, w := range windows {
			means[i] = w.InflammationMean
			s.PeakInflammation = max(s.PeakInflammation, w.InflammationMax)
			s.Spawned += w.Spawned
		}
		s.MeanInflammation = stat.Mean(means, nil)
	} else {
		s.MeanInflammation = float64(final.InflammationIndex)
		s.PeakInflammation = float64(final.InflammationIndex)
	}
	if final.TotalEndotoxin > 0 {
		s.BoundFraction = float64(final.BoundEndotoxin) / float64(final.TotalEndotoxin)
	}
	return s
}

// computeFitness calculates the scalar fitness (lower = better):
// mean inflammation, inflated by the relative size of the standing dose.
func (fe *FitnessEvaluator) computeFitness(r runSummary, cfg *config.Config) float64 {
	spec := fe.params.Specs[len(fe.params.Specs)-1]
	dose := float64(cfg.Therapeutic.TargetTherapeutic) / spec.Max
	return r.MeanInflammation * (1 + fe.doseWeight*dose)
}
