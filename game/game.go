package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/pthm-cable/vivarium/config"
	"github.com/pthm-cable/vivarium/netsync"
	"github.com/pthm-cable/vivarium/sim"
	"github.com/pthm-cable/vivarium/telemetry"
	"github.com/pthm-cable/vivarium/view"
)

// simEpoch is the stepped clock's starting instant. Any fixed value works;
// only differences between readings matter.
var simEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const maxStepsPerUpdate = 10

// Options configures a game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64          // 0 = world.seed from config
	LogStats       bool
	StatsWindowSec float64 // 0 = telemetry.stats_window from config
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	Listen         string    // overrides network.listen when set
	AccessLog      io.Writer // HTTP access log for the frame server; nil = none
	StatsCallback  func(telemetry.WindowStats)
	Logger         *slog.Logger
}

// Game owns an environment and everything that observes it: telemetry,
// snapshots, the frame broadcaster and, in windowed mode, the renderer.
type Game struct {
	cfg    *config.Config
	logger *slog.Logger
	seed   int64
	dt     float64

	env         *sim.Environment
	clock       *sim.SteppedTime
	restoreTime func()

	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	snapshotDir      string
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	broadcaster *netsync.Broadcaster
	server      *http.Server
	addr        string
	accessLog   io.Writer

	renderer *view.Renderer
	hud      *view.HUD
	sized    bool

	headless       bool
	paused         bool
	stepsPerUpdate int
}

// NewGameWithOptions builds a fresh scenario from the configured archetypes.
func NewGameWithOptions(opts Options) (*Game, error) {
	g, err := newGame(opts)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(g.seed))
	env, err := BuildEnvironment(g.cfg, rng)
	if err != nil {
		g.Unload()
		return nil, fmt.Errorf("building scenario: %w", err)
	}
	g.attach(env)
	return g, nil
}

// RestoreGame continues a run from a saved snapshot. The snapshot's dt and
// seed take precedence over the config.
func RestoreGame(file *telemetry.SnapshotFile, opts Options) (*Game, error) {
	if opts.Seed == 0 {
		opts.Seed = file.Seed
	}
	g, err := newGame(opts)
	if err != nil {
		return nil, err
	}
	if file.DT > 0 {
		g.dt = file.DT
		g.collector = telemetry.NewCollector(g.statsWindow(opts), g.dt)
	}

	env, err := file.State.Restore()
	if err != nil {
		g.Unload()
		return nil, fmt.Errorf("restoring snapshot: %w", err)
	}
	g.attach(env)
	return g, nil
}

// newGame sets up everything except the environment. The stepped time
// source is installed here so that every clock built afterwards reads it.
func newGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.World.Seed
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:              cfg,
		logger:           logger,
		seed:             seed,
		dt:               cfg.Physics.DT,
		clock:            sim.NewSteppedTime(simEpoch),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		snapshotDir:      opts.SnapshotDir,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
		headless:         opts.Headless,
		stepsPerUpdate:   steps,
		accessLog:        opts.AccessLog,
	}
	g.restoreTime = sim.UseTimeSource(g.clock.Now)
	g.collector = telemetry.NewCollector(g.statsWindow(opts), g.dt)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Unload()
		return nil, err
	}
	g.outputManager = om
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			g.Unload()
			return nil, err
		}
		if g.snapshotDir == "" {
			g.snapshotDir = om.SnapshotDir()
		}
	}

	listen := cfg.Network.Listen
	if opts.Listen != "" {
		listen = opts.Listen
	}
	if listen != "" {
		if err := g.startServer(listen); err != nil {
			g.Unload()
			return nil, err
		}
	}

	if !opts.Headless {
		g.renderer = view.NewRenderer(cfg.Derived.WorldW, cfg.Derived.WorldH)
		g.hud = view.NewHUD(maxStepsPerUpdate)
	}

	return g, nil
}

func (g *Game) statsWindow(opts Options) float64 {
	if opts.StatsWindowSec > 0 {
		return opts.StatsWindowSec
	}
	return g.cfg.Telemetry.StatsWindow
}

func (g *Game) attach(env *sim.Environment) {
	g.env = env
	env.SetLogger(g.logger)
	env.Subscribe(sim.ObserverFunc(g.afterTick))
	g.collector.Baseline(env)

	g.logger.Info("environment ready",
		"env", env,
		"seed", g.seed,
		"dt", g.dt,
	)
}

func (g *Game) startServer(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	g.broadcaster = netsync.NewBroadcaster(g.logger)
	g.server = &http.Server{
		Handler:           netsync.NewRouter(g.broadcaster, g.accessLog),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("frame server stopped", "error", err)
		}
	}()
	g.addr = ln.Addr().String()
	g.logger.Info("frame server listening", "addr", g.addr, "frames", "/frames", "status", "/status")
	return nil
}

// Step advances the simulation by exactly one tick of dt simulated seconds.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInteract)
	g.clock.AdvanceSeconds(g.dt)
	g.env.Interact()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	if interval := g.cfg.Telemetry.SnapshotInterval; interval > 0 && g.snapshotDir != "" && g.env.Tick()%uint64(interval) == 0 {
		g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
		g.saveSnapshot(nil)
	}

	g.perfCollector.EndTick()
}

// afterTick runs as an environment observer at the end of every Interact.
func (g *Game) afterTick(env *sim.Environment) {
	if g.broadcaster == nil {
		return
	}
	g.perfCollector.StartPhase(telemetry.PhaseNetwork)
	g.broadcaster.EnvironmentChanged(env)
}

// UpdateHeadless runs StepsPerUpdate ticks without any rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Environment returns the simulated environment.
func (g *Game) Environment() *sim.Environment { return g.env }

// Tick returns the number of completed ticks.
func (g *Game) Tick() uint64 {
	if g.env == nil {
		return 0
	}
	return g.env.Tick()
}

// Addr returns the frame server's listen address, or "" when disabled.
func (g *Game) Addr() string { return g.addr }

// Paused reports whether the windowed loop is paused.
func (g *Game) Paused() bool { return g.paused }

// Unload stops the frame server, flushes output files and restores the
// kernel's time source.
func (g *Game) Unload() {
	if g.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := g.server.Shutdown(ctx); err != nil {
			g.logger.Warn("frame server shutdown", "error", err)
		}
		cancel()
		g.server = nil
	}
	if g.broadcaster != nil {
		g.broadcaster.Close()
		g.broadcaster = nil
	}
	if err := g.outputManager.Close(); err != nil {
		g.logger.Error("closing output files", "error", err)
	}
	g.outputManager = nil
	if g.restoreTime != nil {
		g.restoreTime()
		g.restoreTime = nil
	}
}

// CountTagged returns the number of live objects carrying tag.
func (g *Game) CountTagged(tag string) int {
	n := 0
	for _, o := range g.env.Objects() {
		if o.Core().Tags.Has(tag) {
			n++
		}
	}
	return n
}
