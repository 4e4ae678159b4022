// Command replay loads a saved snapshot and continues the run headless,
// logging window stats as it goes.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/vivarium/config"
	"github.com/pthm-cable/vivarium/game"
	"github.com/pthm-cable/vivarium/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	snapshotPath := flag.String("snapshot", "", "Snapshot file to resume from")
	ticks := flag.Int("ticks", 3000, "Ticks to run after restoring")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs")
	listen := flag.String("listen", "", "Serve WebSocket frames on host:port")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *snapshotPath == "" {
		slog.Error("-snapshot is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	file, err := telemetry.LoadSnapshot(*snapshotPath)
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}
	if file.Bookmark != nil {
		slog.Info("snapshot bookmark", "type", string(file.Bookmark.Type), "description", file.Bookmark.Description)
	}

	g, err := game.RestoreGame(file, game.Options{
		Config:         cfg,
		Headless:       true,
		LogStats:       true,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Listen:         *listen,
		Logger:         logger,
	})
	if err != nil {
		slog.Error("failed to restore", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	start := g.Tick()
	for i := 0; i < *ticks; i++ {
		g.Step()
	}
	slog.Info("replay finished",
		"from_tick", start,
		"to_tick", g.Tick(),
		"env", g.Environment(),
	)
}
