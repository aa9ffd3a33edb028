// Package profiler tracks frame rate and memory statistics for performance
// monitoring.
package profiler

import (
	"runtime"
	"time"

	"github.com/embergfx/ember/engine/logger"
	"go.uber.org/zap"
)

// Profiler accumulates per-frame timing and emits a stats line to the log at
// a fixed interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a Profiler that logs once per second.
//
// Returns:
//   - *Profiler: the new profiler
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// Tick should be called once per frame. When the update interval has elapsed
// it logs FPS, heap usage, allocation rate, and GC pause statistics.
//
// Returns:
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses; scan the
	// pauses that happened since the previous report.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	logger.Info("frame stats",
		zap.Float64("fps", fps),
		zap.Float64("heap_mb", allocMB),
		zap.Float64("alloc_rate_mb_s", allocRateMB),
		zap.Uint32("gc_count", gcCount),
		zap.Uint64("gc_last_pause_us", lastPauseUs),
		zap.Uint64("gc_max_pause_us", maxPauseUs),
		zap.Float64("sys_mb", sysMB),
	)

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
