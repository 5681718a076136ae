// Package telemetry provides windowed aggregate statistics over a running
// simulation's exposure observations.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// Collector implements simmodel.ExposureSink, accumulating per-tick
// exposure samples into fixed-size tick windows and producing a
// WindowStats summary (mean/variance per load kind, via gonum/stat) each
// time a window fills.
type Collector struct {
	windowTicks int

	windowStartTick int
	air             []float64
	droplet         []float64
	surface         []float64
	surfaceExposure []float64

	logStats  bool
	lastFlush WindowStats
}

// NewCollector creates a Collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int, logStats bool) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks, logStats: logStats}
}

// ObserveExposure implements simmodel.ExposureSink.
func (c *Collector) ObserveExposure(agentName string, tick int, airLoad, dropletLoad, surfaceLoad, surfaceExposure float64) {
	if len(c.air) == 0 && tick > c.windowStartTick {
		c.windowStartTick = tick
	}
	c.air = append(c.air, airLoad)
	c.droplet = append(c.droplet, dropletLoad)
	c.surface = append(c.surface, surfaceLoad)
	c.surfaceExposure = append(c.surfaceExposure, surfaceExposure)

	if tick-c.windowStartTick+1 >= c.windowTicks {
		c.lastFlush = c.flush(tick)
		if c.logStats {
			c.lastFlush.Log()
		}
	}
}

// LastWindow returns the most recently completed window's statistics, the
// zero value if no window has flushed yet.
func (c *Collector) LastWindow() WindowStats {
	return c.lastFlush
}

// WindowStats summarizes one window's worth of exposure samples across all
// agents observed during it.
type WindowStats struct {
	WindowStartTick int
	WindowEndTick   int

	AirMean, AirVariance             float64
	DropletMean, DropletVariance     float64
	SurfaceMean, SurfaceVariance     float64
	SurfaceExposureMean, SurfaceExposureVariance float64

	Samples int
}

// Log emits the window summary via slog, mirroring the teacher's
// stats-logging pattern.
func (s WindowStats) Log() {
	slog.Info("exposure window",
		"start_tick", s.WindowStartTick, "end_tick", s.WindowEndTick, "samples", s.Samples,
		"air_mean", s.AirMean, "droplet_mean", s.DropletMean,
		"surface_mean", s.SurfaceMean, "surface_exposure_mean", s.SurfaceExposureMean)
}

func (c *Collector) flush(currentTick int) WindowStats {
	airMean, airVar := meanVariance(c.air)
	dropletMean, dropletVar := meanVariance(c.droplet)
	surfaceMean, surfaceVar := meanVariance(c.surface)
	exposureMean, exposureVar := meanVariance(c.surfaceExposure)

	stats := WindowStats{
		WindowStartTick:              c.windowStartTick,
		WindowEndTick:                currentTick,
		AirMean:                      airMean,
		AirVariance:                  airVar,
		DropletMean:                  dropletMean,
		DropletVariance:              dropletVar,
		SurfaceMean:                  surfaceMean,
		SurfaceVariance:              surfaceVar,
		SurfaceExposureMean:          exposureMean,
		SurfaceExposureVariance:      exposureVar,
		Samples:                      len(c.air),
	}

	c.windowStartTick = currentTick + 1
	c.air = c.air[:0]
	c.droplet = c.droplet[:0]
	c.surface = c.surface[:0]
	c.surfaceExposure = c.surfaceExposure[:0]

	return stats
}

func meanVariance(samples []float64) (float64, float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	if len(samples) == 1 {
		return samples[0], 0
	}
	return stat.MeanVariance(samples, nil)
}
