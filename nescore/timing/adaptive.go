package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
	started         time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return newAdaptiveLimiter(time.Now, time.Sleep)
}

func newAdaptiveLimiter(now func() time.Time, sleep func(time.Duration)) *AdaptiveLimiter {
	start := now()
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   start,
		started:         start,
		now:             now,
		sleep:           sleep,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	sleepTime := a.nextFrameTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime >= 2*time.Millisecond {
			a.sleep(sleepTime - time.Millisecond)
		}
		// busy-wait the last stretch, sleep is too coarse for it
		for a.now().Before(a.nextFrameTime) {
		}
	} else if sleepTime < -5*time.Millisecond {
		// too far behind, don't try to catch up
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%60 == 0 {
		expected := a.nextFrameTime.Add(-a.targetFrameTime)
		drift := a.now().Sub(expected)

		if drift.Abs() > 10*time.Millisecond {
			a.nextFrameTime = a.nextFrameTime.Add(drift / 10)
			slog.Debug("Frame timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"fps", a.FPS())
		}
	}
}

// FPS returns the average frame rate since the last reset.
func (a *AdaptiveLimiter) FPS() float64 {
	elapsed := a.now().Sub(a.started)
	if elapsed <= 0 {
		return 0
	}
	return float64(a.frameCounter) / elapsed.Seconds()
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrameTime = a.now()
	a.started = a.nextFrameTime
	a.frameCounter = 0
}
