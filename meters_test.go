package ssd1306

import (
	"testing"

	"github.com/flavioheleno/ssd1306/pagebuf"
)

func TestBarPages(t *testing.T) {
	tests := []struct {
		name        string
		level, peak int
		top, bottom byte
	}{
		{"empty", 0, 0, 0x00, 0x00},
		{"peak only, top", 0, 16, 0x01, 0x00},
		{"peak only, bottom", 0, 1, 0x00, 0x80},
		{"half bottom", 4, 4, 0x00, 0xF0},
		{"bottom full", 8, 8, 0x00, 0xFF},
		{"into top page", 9, 12, 0x90, 0xFF},
		{"low bar, high peak", 3, 9, 0x80, 0xE0},
		{"full", 16, 16, 0xFF, 0xFF},
		{"saturates", 20, 25, 0xFF, 0xFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, bottom := barPages(tt.level, tt.peak)
			if top != tt.top || bottom != tt.bottom {
				t.Errorf("barPages(%d, %d) = (%#02x, %#02x), want (%#02x, %#02x)",
					tt.level, tt.peak, top, bottom, tt.top, tt.bottom)
			}
		})
	}
}

func TestBarShiftByEight(t *testing.T) {
	if barFill(0) != 0 {
		t.Errorf("barFill(0) = %#02x, want 0", barFill(0))
	}
	if barMark(0) != 0 {
		t.Errorf("barMark(0) = %#02x, want 0", barMark(0))
	}
}

func TestDrawPartLevels(t *testing.T) {
	dev, _ := newTestDev(t, 32)
	dev.meter.Channels[0].Level = 16
	dev.meter.Channels[0].Peak = 16
	dev.meter.Channels[8].Level = 4
	dev.meter.Channels[8].Peak = 12
	dev.drawPartLevels()
	f := dev.Frame()

	tests := []struct {
		part        int
		top, bottom byte
	}{
		{0, 0xFF, 0xFF},
		{1, 0x00, 0x00},
		{8, 0x10, 0xF0},
	}
	for _, tt := range tests {
		start := tt.part*meterPitch + meterLeft
		for j := 0; j < meterWidth; j++ {
			if got := f[pagebuf.Offset(2, start+j)]; got != tt.top {
				t.Errorf("part %d column %d top = %#02x, want %#02x", tt.part, j, got, tt.top)
			}
			if got := f[pagebuf.Offset(3, start+j)]; got != tt.bottom {
				t.Errorf("part %d column %d bottom = %#02x, want %#02x", tt.part, j, got, tt.bottom)
			}
		}
		// Gap between bars stays dark.
		if got := f[pagebuf.Offset(2, start+meterWidth)]; got != 0 {
			t.Errorf("part %d gap = %#02x, want 0", tt.part, got)
		}
	}
}
