// Package ssd1306 drives a monochrome SSD1306 OLED over I²C and renders a
// live status overlay for an MT-32 style sound module.
//
// Two framebuffer heights are accepted, 32 and 64 rows. The driver keeps a
// page-addressed framebuffer and always sends it whole: there are no partial
// updates.
//
// # 64 Row Panels
//
// The initialization sequence is the same for both heights and opens a
// 128×32 window (pages 0-3, multiplex ratio 31). A 64 row frame is 1024
// bytes, so its second half wraps around and overwrites pages 0-3 with
// framebuffer pages 4-7. Since the overlay only draws on pages 0-3, a panel
// opened with H: 64 shows a blank screen, and only pixels set in rows 32-63
// become visible, 32 rows higher. Use H: 32 unless the lower half is drawn
// on purpose.
//
// # Display Layout
//
// Text rows are 16 pixels tall, using a 6×8 font doubled in height, and 20
// cells wide. The first row shows either the status line or a message:
//
//	cells 0-4    part 1-5 activity (block when sounding, digit otherwise)
//	cell 10      rhythm activity (block or 'R')
//	cells 12-19  master volume, "|vol:NNN"
//
// Pages 2 and 3 hold nine level meters, one per part, with peak hold.
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL         → I²C clock
//	SDA         → I²C data
//
// # Basic Usage
//
//	package main
//
//	import (
//		"time"
//
//		"github.com/flavioheleno/ssd1306"
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open I²C bus
//		bus, _ := i2creg.Open("")
//		defer bus.Close()
//
//		// Create device; this sends the initialization sequence
//		dev, _ := ssd1306.NewI2C(bus, &ssd1306.Opts{H: 32})
//		defer dev.Halt()
//
//		// synth implements ssd1306.SynthState
//		for range time.Tick(time.Second / 30) {
//			dev.Update(synth)
//		}
//	}
//
// Update samples the sound module, advances the level meters, draws the
// status line or the current message and transfers one frame. It is meant
// to be called from a periodic tick; a failed transfer is returned and the
// next tick simply tries again.
//
// # Messages
//
// A message replaces the status line until it is cleared:
//
//	dev.SetMessage("Loading...")
//	// ...
//	dev.ClearMessage()
//
// Messages are truncated to 20 characters.
//
// # Out of Range Input
//
// SetPixel and ClearPixel wrap coordinates at 128 columns and 64 rows, even
// on a 32 row panel, where rows 32-63 are kept off screen. Characters outside
// the font are drawn as '?'. Glyph writes that fall outside the framebuffer
// are dropped.
//
// # Compatibility with periph.io
//
// Dev implements the display.Drawer interface from periph.io, so images can
// be drawn on it with Draw; the color model is image1bit.BitModel.
//
// The emulator subpackage provides a virtual panel implementing i2c.Bus for
// tests and previews.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
