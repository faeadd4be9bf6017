package ssd1306

import (
	"fmt"

	"github.com/flavioheleno/ssd1306/font6x8"
	"github.com/flavioheleno/ssd1306/levelmeter"
)

// SynthState is the read-only view of the sound module sampled on every
// Update.
type SynthState interface {
	// PartStates returns a bit mask of sounding parts: bits 0-7 are the
	// melodic parts, bit 8 the rhythm part.
	PartStates() uint32
	// Velocity returns the velocity (0-127) of the loudest note of part.
	Velocity(part int) uint8
	// MasterVolume returns the master volume (0-100).
	MasterVolume() int
}

// Status line layout, in cells.
const (
	statusParts  = 5
	statusRhythm = 10
	statusVolume = 12
)

// SetMessage shows text on the first row instead of the status line, from
// the next Update on. Text longer than a row is truncated.
func (d *Dev) SetMessage(text string) {
	if len(text) > Columns {
		text = text[:Columns]
	}
	d.mu.Lock()
	d.message = text
	d.hasMessage = true
	d.mu.Unlock()
}

// ClearMessage brings the status line back on the next Update.
func (d *Dev) ClearMessage() {
	d.mu.Lock()
	d.hasMessage = false
	d.mu.Unlock()
}

// Message returns the current message and whether it is shown.
func (d *Dev) Message() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message, d.hasMessage
}

// Update samples state, advances the level meters, renders the message or
// the status line and transfers the framebuffer. A nil state does nothing.
func (d *Dev) Update(state SynthState) error {
	if state == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errHalted
	}

	parts := state.PartStates()
	d.meter.Update(parts, state.Velocity)
	d.drawPartLevels()

	if d.hasMessage {
		d.print(d.message, 0, 0, true)
	} else {
		d.drawStatusLine(parts, state.MasterVolume())
	}

	return d.write()
}

func (d *Dev) drawStatusLine(parts uint32, volume int) {
	for i := 0; i < statusParts; i++ {
		c := byte('1' + i)
		if parts>>uint(i)&1 != 0 {
			c = font6x8.Block
		}
		d.drawChar(c, i, 0, false, false)
	}

	// Blank the gaps a previous message may have left behind
	for x := statusParts; x < statusVolume; x++ {
		if x != statusRhythm {
			d.drawChar(' ', x, 0, false, false)
		}
	}

	rhythm := byte('R')
	if parts>>levelmeter.Rhythm&1 != 0 {
		rhythm = font6x8.Block
	}
	d.drawChar(rhythm, statusRhythm, 0, false, false)

	d.print(fmt.Sprintf("|vol:%3d", volume), statusVolume, 0, false)
}
