package ssd1306

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/flavioheleno/ssd1306/levelmeter"
	"github.com/flavioheleno/ssd1306/pagebuf"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

// controlCommand announces a single command byte. Frame data starts with
// pagebuf.ControlData instead.
const controlCommand = 0x80

// DefaultAddr is the usual I²C address of SSD1306 modules.
const DefaultAddr = 0x3C

// initSequence configures the controller for horizontal addressing of a
// 128x32 window and turns the panel on. It is sent one command per
// transaction.
var initSequence = []byte{
	0xAE,       // Display OFF
	0x81, 0x7F, // Contrast (half)
	0xA6,       // Normal display
	0x20, 0x00, // Memory addressing mode: horizontal
	0x21, 0x00, 0x7F, // Column address range
	0x22, 0x00, 0x03, // Page address range
	0xA1,       // Segment remap
	0xA8, 0x1F, // Multiplex ratio (31)
	0xC8,       // COM output scan direction: remapped
	0xD3, 0x00, // Display offset: none
	0xDA, 0x02, // COM pins: sequential, no left/right remap
	0xD5, 0x80, // Clock divider and oscillator frequency
	0xD9, 0x22, // Pre-charge period
	0xDB, 0x20, // VCOMH deselect level
	0x8D, 0x14, // Charge pump: enabled
	0xA4, // Resume to RAM content display
	0xAF, // Display ON
}

var errHalted = errors.New("ssd1306: halted")

// Opts is the configuration for the SSD1306 display.
type Opts struct {
	H    int    // Height in pixels, 32 or 64 (default: 32)
	Addr uint16 // I²C address (default: 0x3C)
}

// Dev is the device handle for the SSD1306 display.
//
// Dev owns the framebuffer and the level meter state. All methods are safe
// for concurrent use, so messages may be set from a MIDI callback while the
// refresh loop calls Update.
type Dev struct {
	// Communication
	c conn.Conn

	mu sync.Mutex

	// Pixel buffer, control byte included
	fb *pagebuf.Buffer

	meter levelmeter.Meter

	// Message overlay
	message    string
	hasMessage bool

	halted bool
}

var _ display.Drawer = (*Dev)(nil)

// NewI2C returns a Dev communicating over I²C and sends the initialization
// sequence.
//
// opts can be nil to use defaults (128x32 display at 0x3C). The height is
// validated before anything is sent on the bus.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	o := Opts{H: 32, Addr: DefaultAddr}
	if opts != nil {
		if opts.H != 0 {
			o.H = opts.H
		}
		if opts.Addr != 0 {
			o.Addr = opts.Addr
		}
	}
	if o.H != 32 && o.H != 64 {
		return nil, errors.New("ssd1306: height must be 32 or 64")
	}

	d := &Dev{
		c:  &i2c.Dev{Bus: b, Addr: o.Addr},
		fb: pagebuf.New(o.H),
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init sends the initialization sequence to the display.
func (d *Dev) init() error {
	if err := d.sendCommands(initSequence...); err != nil {
		return fmt.Errorf("ssd1306: initialization failed: %w", err)
	}
	return nil
}

// sendCommands sends each command byte in its own transaction, prefixed by
// the command control byte.
func (d *Dev) sendCommands(cmds ...byte) error {
	buf := []byte{controlCommand, 0}
	for _, cmd := range cmds {
		buf[1] = cmd
		if err := d.c.Tx(buf, nil); err != nil {
			return err
		}
	}
	return nil
}

// write sends the whole visible framebuffer in one transaction.
func (d *Dev) write() error {
	return d.c.Tx(d.fb.Frame(), nil)
}

// WriteFramebuffer transfers the framebuffer to the display.
func (d *Dev) WriteFramebuffer() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errHalted
	}
	return d.write()
}

// Clear blanks the framebuffer and immediately transfers it.
func (d *Dev) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errHalted
	}
	d.fb.Clear()
	return d.write()
}

// SetPixel lights pixel (x, y). Coordinates wrap at 128 columns and 64 rows.
// The change is shown on the next transfer.
func (d *Dev) SetPixel(x, y int) {
	d.mu.Lock()
	d.fb.SetPixel(x, y)
	d.mu.Unlock()
}

// ClearPixel turns pixel (x, y) off. Coordinates wrap like SetPixel.
func (d *Dev) ClearPixel(x, y int) {
	d.mu.Lock()
	d.fb.ClearPixel(x, y)
	d.mu.Unlock()
}

// Frame returns a copy of the bytes the next transfer would send.
func (d *Dev) Frame() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.fb.Frame()...)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return d.fb.ColorModel()
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// Draw renders src into the framebuffer and transfers the whole frame.
// The dst rectangle is clipped to the display bounds.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errHalted
	}

	dst = dst.Intersect(d.fb.Bounds())
	if dst.Empty() {
		return nil
	}
	draw.Draw(d.fb, dst, src, sp, draw.Src)
	return d.write()
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errHalted
	}
	return d.sendCommands(0x81, contrast)
}

// Invert inverts the display colors (lit pixels go dark and vice versa).
func (d *Dev) Invert(invert bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errHalted
	}
	mode := byte(0xA6) // Normal display
	if invert {
		mode = 0xA7 // Inverted display
	}
	return d.sendCommands(mode)
}

// Halt turns the display off.
// After calling Halt, the display will not respond to further commands
// until the device is re-initialized.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.halted = true
	return d.sendCommands(0xAE) // Display OFF
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%dx%d}", pagebuf.Width, d.fb.Height)
}

// FrameInterval is the number of display refreshes between two scroll steps.
type FrameInterval byte

// Scroll step intervals, in display refreshes.
const (
	Frames2   FrameInterval = 0x07
	Frames3   FrameInterval = 0x04
	Frames4   FrameInterval = 0x05
	Frames5   FrameInterval = 0x00
	Frames25  FrameInterval = 0x06
	Frames64  FrameInterval = 0x01
	Frames128 FrameInterval = 0x02
	Frames256 FrameInterval = 0x03
)

// ScrollHorizontal starts horizontal scrolling of pages startPage to endPage.
// If right is true, scrolls right; otherwise scrolls left.
func (d *Dev) ScrollHorizontal(startPage, endPage byte, interval FrameInterval, right bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errHalted
	}

	pages := byte(d.fb.Height / pagebuf.PageHeight)
	if startPage >= pages || endPage >= pages || startPage > endPage {
		return errors.New("ssd1306: scroll page out of range")
	}
	if interval > Frames2 {
		return errors.New("ssd1306: invalid scroll interval")
	}

	scrollCmd := byte(0x27) // Left
	if right {
		scrollCmd = 0x26 // Right
	}

	// Scrolling must be stopped before its parameters change
	return d.sendCommands(
		0x2E,
		scrollCmd,
		0x00, // Dummy byte
		startPage,
		byte(interval),
		endPage,
		0x00, 0xFF, // Dummy bytes
		0x2F, // Activate scroll
	)
}

// StopScroll stops scrolling. The RAM content has to be rewritten
// afterwards; the next Update or WriteFramebuffer takes care of it.
func (d *Dev) StopScroll() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errHalted
	}
	return d.sendCommands(0x2E) // Deactivate scroll
}
