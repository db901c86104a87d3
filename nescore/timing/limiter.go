package timing

import "time"

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// NTSC timing. A frame is 262 scanlines of 341 dots, one dot shorter on odd
// frames with rendering on; the PPU runs at three dots per CPU cycle.
const (
	CPUFrequency = 1789773
	DotsPerFrame = 341 * 262
	DotsPerCycle = 3
)

// CyclesPerFrame is the average CPU cycles per frame, averaging odd and even
// frames.
func CyclesPerFrame() float64 {
	return (float64(DotsPerFrame) - 0.5) / DotsPerCycle
}

// TargetFPS calculates the NTSC frame rate.
func TargetFPS() float64 {
	return float64(CPUFrequency) / CyclesPerFrame()
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}
