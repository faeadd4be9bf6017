package ssd1306

import (
	"github.com/flavioheleno/ssd1306/font6x8"
	"github.com/flavioheleno/ssd1306/pagebuf"
)

const (
	// Columns is the number of character cells in a text row.
	Columns = 20

	// textLeft is the left margin of the first cell, in pixel columns.
	textLeft = 3

	// invertMask covers the top 14 rows of a double height column, leaving
	// the bottom two rows as an underline gap.
	invertMask = 0x3FFF
)

// DrawChar draws c into character cell (x, y) of the framebuffer.
//
// Text rows are 16 pixels (two pages) tall and cells 6 pixels wide, or 12
// when doubleWidth is set. With inverted set every column except the first is
// inverted, down to the last two rows. Characters outside the font render as
// '?' and writes falling outside the framebuffer are dropped. The change is
// shown on the next transfer.
func (d *Dev) DrawChar(c byte, x, y int, inverted, doubleWidth bool) {
	d.mu.Lock()
	d.drawChar(c, x, y, inverted, doubleWidth)
	d.mu.Unlock()
}

func (d *Dev) drawChar(c byte, x, y int, inverted, doubleWidth bool) {
	stride := font6x8.Width
	if doubleWidth {
		stride *= 2
	}
	start := pagebuf.Offset(2*y, x*stride+textLeft)

	for i, column := range font6x8.Double(c) {
		if i > 0 && inverted {
			column ^= invertMask
		}

		offset := start + i
		if doubleWidth {
			offset = start + 2*i
		}
		upper, lower := byte(column), byte(column>>8)

		d.put(offset, upper)
		d.put(offset+pagebuf.Width, lower)
		if doubleWidth {
			d.put(offset+1, upper)
			d.put(offset+1+pagebuf.Width, lower)
		}
	}
}

// put stores v at framebuffer index i, leaving the control byte alone.
func (d *Dev) put(i int, v byte) {
	if i > 0 && i < len(d.fb.Pix) {
		d.fb.Pix[i] = v
	}
}

// Print draws text on row y starting at cell x, stopping at the end of the
// row. With clearLine set the rest of the row is blanked; with immediate set
// the framebuffer is transferred right away and the transfer error returned.
func (d *Dev) Print(text string, x, y int, clearLine, immediate bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.print(text, x, y, clearLine)
	if !immediate {
		return nil
	}
	if d.halted {
		return errHalted
	}
	return d.write()
}

func (d *Dev) print(text string, x, y int, clearLine bool) {
	for i := 0; i < len(text) && x < Columns; i++ {
		d.drawChar(text[i], x, y, false, false)
		x++
	}
	if clearLine {
		for ; x < Columns; x++ {
			d.drawChar(' ', x, y, false, false)
		}
	}
}
