package main

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/vivarium/config"
	"github.com/pthm-cable/vivarium/game"
	"github.com/pthm-cable/vivarium/telemetry"
)

// Minimum viable population: if either species stays below this for
// extinctionGraceSec, it counts as functionally extinct.
const (
	minViablePop       = 2
	extinctionGraceSec = 20.0
	warmupSec          = 5.0
)

// Quality component weights.
const (
	qualityWeightRatio     = 0.5
	qualityWeightStability = 0.5

	qualityWarmupWindows = 2 // skip first N windows
	qualityMinPop        = 2 // exclude windows where either species < this
	targetRatio          = 6 // prey per predator
)

// FitnessEvaluator runs headless simulations and computes fitness.
//
// Runs are sequential: the simulation kernel has a single time source, so
// two games cannot step at once.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    uint64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	prey, predator string
	logger         *slog.Logger

	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, baseCfg *config.Config, prey, predator string) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 5.0,
		logger:      slog.Default(),
		prey:        prey,
		predator:    predator,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks uint64                  // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) (float64, error) {
	var totalFitness, totalQuality float64
	for _, seed := range fe.seeds {
		result, err := fe.runSimulation(x, seed)
		if err != nil {
			return 0, err
		}
		quality := fe.computeQuality(result.windowStats)
		totalFitness += computeFitness(result.survivalTicks, quality)
		totalQuality += quality
	}

	n := float64(len(fe.seeds))
	fe.lastQuality = totalQuality / n
	return totalFitness / n, nil
}

// runSimulation executes a single headless simulation run.
// Runs until functional extinction or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg, err := fe.baseConfig.Clone()
	if err != nil {
		return nil, err
	}
	fe.params.ApplyToConfig(cfg, x)
	// Frame streaming is never wanted while tuning.
	cfg.Network.Listen = ""

	result := &runResult{survivalTicks: fe.maxTicks}

	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		Logger:         fe.logger,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer g.Unload()

	dt := cfg.Physics.DT
	warmupTicks := uint64(warmupSec / dt)
	graceTicks := int(extinctionGraceSec / dt)
	var preyBelow, predBelow int

	for g.Tick() < fe.maxTicks {
		g.Step()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		prey := g.CountTagged(fe.prey)
		pred := g.CountTagged(fe.predator)

		// Hard extinction: either species completely gone
		if prey == 0 || pred == 0 {
			result.survivalTicks = tick
			return result, nil
		}

		preyBelow = belowCount(prey, preyBelow)
		predBelow = belowCount(pred, predBelow)
		if preyBelow >= graceTicks || predBelow >= graceTicks {
			result.survivalTicks = tick
			return result, nil
		}
	}

	return result, nil
}

func belowCount(pop, ticks int) int {
	if pop < minViablePop {
		return ticks + 1
	}
	return 0
}

// computeFitness calculates the scalar fitness (lower = better).
// Survival dominates; quality adds up to 20% to separate configs with
// similar survival.
func computeFitness(survivalTicks uint64, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// computeQuality scores coexistence in [0, 1] from window stats: how close
// the prey/predator ratio stays to targetRatio, and how steady both
// populations are.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratioSum float64
	var preyCounts, predCounts []float64
	for _, w := range windows[qualityWarmupWindows:] {
		prey, pred := w.Tags[fe.prey], w.Tags[fe.predator]
		if prey < qualityMinPop || pred < qualityMinPop {
			continue
		}
		preyCounts = append(preyCounts, float64(prey))
		predCounts = append(predCounts, float64(pred))

		logErr := math.Log(float64(prey) / float64(pred) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)
	}

	if len(preyCounts) == 0 {
		return 0
	}
	ratioScore := ratioSum / float64(len(preyCounts))

	stabilityScore := 0.0
	if len(preyCounts) >= 2 {
		cvPrey, cvPred := cv(preyCounts), cv(predCounts)
		stabilityScore = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	quality := qualityWeightRatio*ratioScore + qualityWeightStability*stabilityScore
	return max(0, min(1, quality))
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
