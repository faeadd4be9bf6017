package ssd1306

import (
	"github.com/flavioheleno/ssd1306/levelmeter"
	"github.com/flavioheleno/ssd1306/pagebuf"
)

// Level meter geometry. Each part gets a bar spanning pages 2 and 3.
const (
	meterPage  = 2
	meterLeft  = 2
	meterPitch = 14
	meterWidth = 12
)

// barFill returns the page byte of a bar n rows high, filled from the bottom.
func barFill(n int) byte {
	if n <= 0 {
		return 0
	}
	if n > pagebuf.PageHeight {
		n = pagebuf.PageHeight
	}
	return 0xFF << uint(pagebuf.PageHeight-n)
}

// barMark returns the page byte with only row n from the bottom lit.
func barMark(n int) byte {
	if n <= 0 || n > pagebuf.PageHeight {
		return 0
	}
	return 1 << uint(pagebuf.PageHeight-n)
}

// barPages splits a bar of the given level with its peak marker into the
// bytes of the top and bottom pages. Values above MaxLevel saturate.
func barPages(level, peak int) (top, bottom byte) {
	level = min(level, levelmeter.MaxLevel)
	peak = min(peak, levelmeter.MaxLevel)

	if level > pagebuf.PageHeight {
		top = barFill(level - pagebuf.PageHeight)
		bottom = 0xFF
	} else {
		bottom = barFill(level)
	}

	if peak > pagebuf.PageHeight {
		top |= barMark(peak - pagebuf.PageHeight)
	} else {
		bottom |= barMark(peak)
	}
	return top, bottom
}

func (d *Dev) drawPartLevels() {
	for i, c := range d.meter.Channels {
		top, bottom := barPages(c.Level, c.Peak)
		start := pagebuf.Offset(meterPage, i*meterPitch+meterLeft)
		for j := 0; j < meterWidth; j++ {
			d.fb.Pix[start+j] = top
			d.fb.Pix[start+j+pagebuf.Width] = bottom
		}
	}
}

// Levels returns a snapshot of the level meter state.
func (d *Dev) Levels() [levelmeter.Parts]levelmeter.Channel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.meter.Channels
}
