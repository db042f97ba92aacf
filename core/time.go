package core

import "time"

// NewClock creates the presentation loop timing service
func NewClock(cfg TimeConfiguration) Clock {
	var interval time.Duration
	if cfg.FramesPerSecond == 0 {
		interval = time.Nanosecond
	} else {
		interval = time.Second / (time.Duration)(cfg.FramesPerSecond)
	}

	return Clock{
		fps:         cfg.FramesPerSecond,
		frameTicker: time.NewTicker(interval),
	}
}

// Clock paces the demo presentation loop
type Clock struct {
	fps         int
	frameTicker *time.Ticker
}

// Fps gets the set frames per second
func (c *Clock) Fps() int {
	return c.fps
}

// Frames ticks once per frame interval
func (c *Clock) Frames() <-chan time.Time {
	return c.frameTicker.C
}

// Stop releases the underlying ticker
func (c *Clock) Stop() {
	c.frameTicker.Stop()
}
