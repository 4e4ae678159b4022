package telemetry

import (
	"math"

	"github.com/pthm-cable/vivarium/sim"
)

// Collector turns environment state into WindowStats at fixed tick intervals.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks uint64
	dt                  float64

	// Current window tracking
	windowStartTick uint64
	startCounters   sim.Counters
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := uint64(1)
	if dt > 0 && windowDurationSec/dt >= 1 {
		ticksPerWindow = uint64(windowDurationSec / dt)
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats for env and starts the next window.
func (c *Collector) Flush(env *sim.Environment) WindowStats {
	counters := env.Counters()
	objects := env.Objects()

	sizes := make([]float64, 0, len(objects))
	speeds := make([]float64, 0, len(objects))
	tags := make(map[string]int)
	creatures := 0
	for _, o := range objects {
		core := o.Core()
		sizes = append(sizes, core.Size())
		speeds = append(speeds, math.Abs(core.Vector.Speed()))
		for tag := range core.Tags {
			tags[tag]++
		}
		if o.Class() == sim.ClassCreature {
			creatures++
		}
	}
	size := Summarize(sizes)
	speed := Summarize(speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   counters.Ticks,
		SimTimeSec:      float64(counters.Ticks) * c.dt,

		Population: len(objects),
		Creatures:  creatures,
		Factors:    len(env.Factors()),

		Births: int(counters.Added - c.startCounters.Added),
		Deaths: int(counters.Removed - c.startCounters.Removed),

		SizeMean: size.Mean,
		SizeStd:  size.Std,
		SizeP10:  size.P10,
		SizeP50:  size.P50,
		SizeP90:  size.P90,
		SizeMax:  size.Max,

		SpeedMean: speed.Mean,
		SpeedP90:  speed.P90,
		SpeedMax:  speed.Max,

		Tags: tags,
	}

	// Reset for next window
	c.windowStartTick = counters.Ticks
	c.startCounters = counters

	return stats
}

// Baseline starts the current window at env's present counters, so objects
// inserted while building a scenario do not count as births.
func (c *Collector) Baseline(env *sim.Environment) {
	c.startCounters = env.Counters()
	c.windowStartTick = c.startCounters.Ticks
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}
