package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/config"
	"github.com/pthm-cable/lipidose/game"
	"github.com/pthm-cable/lipidose/telemetry"
	"github.com/pthm-cable/lipidose/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	interval := flag.Duration("interval", 0, "Headless tick interval (0 = as fast as possible)")
	lipidose := flag.Bool("lipidose", false, "Start with the lipidose intervention enabled")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *lipidose {
		cfg.Settings.IntroduceLipidose = true
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		Config:    cfg,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	if *headless {
		os.Exit(runHeadless(opts, *interval, int32(*maxTicks)))
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Lipidose CRBSI Simulation")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return
	}
	defer closeGame(g)

	slog.Info("starting viewer", "seed", rngSeed, "settings", cfg.Settings)
	viewer.New(g, int32(*maxTicks)).Run()
}

// runHeadless ticks the game without a window until interrupted or
// maxTicks is reached. It returns the process exit code.
func runHeadless(opts game.Options, interval time.Duration, maxTicks int32) int {
	// Headless mode reports every window even without -log-stats.
	opts.StatsCallback = func(ws telemetry.WindowStats) {
		if !opts.LogStats {
			slog.Info("window", "end", ws.WindowEndTick, "inflammation", ws.Inflammation, "status", ws.Status)
		}
	}

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}
	defer closeGame(g)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"interval", interval,
	)

	if err := game.Run(ctx, g, interval, maxTicks); err != nil {
		slog.Error("simulation failed", "error", err)
		return 1
	}

	final := g.Stats()
	slog.Info("simulation finished", "stats", final)
	return 0
}

func closeGame(g *game.Game) {
	if err := g.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
