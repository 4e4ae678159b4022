package game

import (
	"fmt"

	"github.com/pthm-cable/vivarium/sim"
	"github.com/pthm-cable/vivarium/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.env.Tick()) {
		return
	}

	stats := g.collector.Flush(g.env)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		g.logger.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			g.logger.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// Snapshot captures the current environment with the run metadata.
func (g *Game) Snapshot(bookmark *telemetry.Bookmark) (*telemetry.SnapshotFile, error) {
	state, err := sim.Capture(g.env)
	if err != nil {
		return nil, fmt.Errorf("capturing environment: %w", err)
	}
	return &telemetry.SnapshotFile{
		Seed:        g.seed,
		WorldWidth:  g.cfg.Derived.WorldW,
		WorldHeight: g.cfg.Derived.WorldH,
		DT:          g.dt,
		State:       state,
		Bookmark:    bookmark,
	}, nil
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot, err := g.Snapshot(bookmark)
	if err != nil {
		g.logger.Error("failed to create snapshot", "error", err)
		return
	}

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		g.logger.Error("failed to save snapshot", "error", err)
		return
	}

	g.logger.Info("snapshot saved", "path", path, "tick", g.env.Tick())
}
