// Package levelmeter animates per-part level bars with peak hold.
//
// A Meter is advanced once per display tick. Sounding parts jump to a level
// proportional to their note velocity; silent parts fall back one step per
// tick. The peak marker stays put for PeakHold ticks after it was last raised
// and then falls one step every PeakDecay ticks.
package levelmeter

import "math"

const (
	// Parts is the number of tracked parts: 8 melodic parts and rhythm.
	Parts = 9
	// Rhythm is the index of the rhythm part.
	Rhythm = Parts - 1
	// MaxLevel is the level of a full bar.
	MaxLevel = 16
	// PeakHold is the number of ticks a new peak stays in place.
	PeakHold = 100
	// PeakDecay is the number of ticks between two peak decrements once the
	// hold has expired.
	PeakDecay = 3
)

// VelocityScale maps a MIDI velocity (0-127) onto a bar level (0-16).
const VelocityScale = MaxLevel / 127.0

// Channel is the animation state of one part.
type Channel struct {
	Level int // Bar height
	Peak  int // Peak marker height
	Hold  int // Ticks left before the peak moves
}

// Meter holds the animation state of all parts.
type Meter struct {
	Channels [Parts]Channel
}

// LevelFor converts a velocity into a bar level, rounding to the nearest step.
func LevelFor(velocity uint8) int {
	return int(math.Floor(VelocityScale*float64(velocity) + 0.5))
}

// Update advances every part by one tick. Bit i of active is set when part i
// is sounding; velocity is only called for sounding parts.
func (m *Meter) Update(active uint32, velocity func(part int) uint8) {
	for i := range m.Channels {
		c := &m.Channels[i]
		if active>>uint(i)&1 != 0 {
			c.attack(LevelFor(velocity(i)))
		} else {
			c.release()
		}
	}
}

func (c *Channel) attack(level int) {
	c.Level = level
	if c.Level > c.Peak {
		c.Peak = c.Level
		c.Hold = PeakHold
	}
}

func (c *Channel) release() {
	if c.Level > 0 {
		c.Level--
	}
	switch {
	case c.Hold > 0:
		c.Hold--
	case c.Peak > 0:
		c.Peak--
		c.Hold = PeakDecay - 1
	}
}
