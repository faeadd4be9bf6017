// Package emulator provides a virtual SSD1306 panel on an I²C bus.
//
// Panel decodes the command and data stream a driver sends and keeps its own
// copy of the display RAM, so the output of the driver can be checked or
// previewed without hardware.
package emulator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// Width is the number of RAM columns.
	Width = 128
	// Pages is the number of RAM pages.
	Pages = 8
)

// Control bytes.
const (
	ctrlCommandStream = 0x00
	ctrlCommand       = 0x80
	ctrlDataStream    = 0x40
	ctrlData          = 0xC0
)

// Addressing modes.
const (
	horizontalMode = 0
	verticalMode   = 1
	pageMode       = 2
)

// argCount is the number of parameter bytes following multi-byte commands.
var argCount = map[byte]int{
	0x20: 1, // Memory addressing mode
	0x21: 2, // Column range
	0x22: 2, // Page range
	0x26: 6, // Horizontal scroll right
	0x27: 6, // Horizontal scroll left
	0x29: 5, // Vertical and right scroll
	0x2A: 5, // Vertical and left scroll
	0x81: 1, // Contrast
	0x8D: 1, // Charge pump
	0xA3: 2, // Vertical scroll area
	0xA8: 1, // Multiplex ratio
	0xD3: 1, // Display offset
	0xD5: 1, // Clock divider
	0xD9: 1, // Pre-charge period
	0xDA: 1, // COM pins
	0xDB: 1, // VCOMH level
}

var _ i2c.Bus = (*Panel)(nil)

// Panel is a virtual SSD1306 answering on a single I²C address.
type Panel struct {
	Addr uint16

	mu    sync.Mutex
	speed physic.Frequency

	ram [Pages][Width]byte

	// Command decoder
	pending []byte
	want    int

	// Registers
	on         bool
	inverted   bool
	entireOn   bool
	chargePump bool
	scrolling  bool
	contrast   byte
	mux        int
	mode       int
	colStart   int
	colEnd     int
	pageStart  int
	pageEnd    int

	// Write pointer
	col  int
	page int

	commands int
	frames   int
}

// New returns a panel in its reset state, answering on addr.
func New(addr uint16) *Panel {
	return &Panel{
		Addr:     addr,
		contrast: 0x7F,
		mux:      63,
		mode:     pageMode,
		colEnd:   Width - 1,
		pageEnd:  Pages - 1,
	}
}

// String implements i2c.Bus.
func (p *Panel) String() string {
	return fmt.Sprintf("emulator.Panel{%#x}", p.Addr)
}

// Close implements i2c.BusCloser.
func (p *Panel) Close() error {
	return nil
}

// SetSpeed implements i2c.Bus.
func (p *Panel) SetSpeed(f physic.Frequency) error {
	if f <= 0 {
		return errors.New("emulator: invalid bus speed")
	}
	p.mu.Lock()
	p.speed = f
	p.mu.Unlock()
	return nil
}

// Tx implements i2c.Bus. Reads are not supported; the SSD1306 has no
// readable registers over I²C.
func (p *Panel) Tx(addr uint16, w, r []byte) error {
	if addr != p.Addr {
		return fmt.Errorf("emulator: no device at %#x", addr)
	}
	if len(r) != 0 {
		return errors.New("emulator: read not supported")
	}
	if len(w) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	payload := w[1:]
	switch w[0] {
	case ctrlCommand:
		if len(payload) != 1 {
			return fmt.Errorf("emulator: single command transfer of %d bytes", len(payload))
		}
		p.command(payload[0])
	case ctrlCommandStream:
		for _, b := range payload {
			p.command(b)
		}
	case ctrlData:
		if len(payload) != 1 {
			return fmt.Errorf("emulator: single data transfer of %d bytes", len(payload))
		}
		p.data(payload[0])
	case ctrlDataStream:
		for _, b := range payload {
			p.data(b)
		}
		p.frames++
	default:
		return fmt.Errorf("emulator: invalid control byte %#02x", w[0])
	}
	return nil
}

// command feeds one byte to the command decoder.
func (p *Panel) command(b byte) {
	if p.want > 0 {
		p.pending = append(p.pending, b)
		p.want--
		if p.want == 0 {
			p.execute(p.pending[0], p.pending[1:])
		}
		return
	}
	if n := argCount[b]; n > 0 {
		p.pending = append(p.pending[:0], b)
		p.want = n
		return
	}
	p.execute(b, nil)
}

func (p *Panel) execute(cmd byte, args []byte) {
	p.commands++
	switch {
	case cmd == 0x20:
		p.mode = int(args[0] & 0x03)
	case cmd == 0x21:
		p.colStart, p.colEnd = int(args[0]&0x7F), int(args[1]&0x7F)
		p.col = p.colStart
	case cmd == 0x22:
		p.pageStart, p.pageEnd = int(args[0]&0x07), int(args[1]&0x07)
		p.page = p.pageStart
	case cmd == 0x26 || cmd == 0x27 || cmd == 0x29 || cmd == 0x2A:
		// Scroll setup; takes effect on 0x2F.
	case cmd == 0x2E:
		p.scrolling = false
	case cmd == 0x2F:
		p.scrolling = true
	case cmd == 0x81:
		p.contrast = args[0]
	case cmd == 0x8D:
		p.chargePump = args[0]&0x04 != 0
	case cmd == 0xA4 || cmd == 0xA5:
		p.entireOn = cmd == 0xA5
	case cmd == 0xA6 || cmd == 0xA7:
		p.inverted = cmd == 0xA7
	case cmd == 0xA8:
		p.mux = int(args[0] & 0x3F)
	case cmd == 0xAE || cmd == 0xAF:
		p.on = cmd == 0xAF
	case cmd >= 0xB0 && cmd <= 0xB7:
		p.page = int(cmd & 0x07)
	case cmd <= 0x0F:
		p.col = p.col&0x70 | int(cmd)
	case cmd >= 0x10 && cmd <= 0x17:
		p.col = p.col&0x0F | int(cmd&0x07)<<4
	}
	// Remaining commands (remap, timing, offsets) do not change what the
	// RAM holds.
}

// data stores one RAM byte and advances the write pointer.
func (p *Panel) data(b byte) {
	p.ram[p.page][p.col] = b

	switch p.mode {
	case horizontalMode:
		p.col++
		if p.col > p.colEnd {
			p.col = p.colStart
			p.page++
			if p.page > p.pageEnd {
				p.page = p.pageStart
			}
		}
	case verticalMode:
		p.page++
		if p.page > p.pageEnd {
			p.page = p.pageStart
			p.col++
			if p.col > p.colEnd {
				p.col = p.colStart
			}
		}
	default:
		if p.col < Width-1 {
			p.col++
		}
	}
}

// State is a snapshot of the panel registers.
type State struct {
	On         bool
	Inverted   bool
	Scrolling  bool
	ChargePump bool
	Contrast   byte
	Height     int              // Multiplex ratio + 1
	Speed      physic.Frequency // Last bus speed set, 0 if never set
	Commands   int              // Commands executed
	Frames     int              // Data streams received
}

// State returns a snapshot of the panel registers.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		On:         p.on,
		Inverted:   p.inverted,
		Scrolling:  p.scrolling,
		ChargePump: p.chargePump,
		Contrast:   p.contrast,
		Height:     p.mux + 1,
		Speed:      p.speed,
		Commands:   p.commands,
		Frames:     p.frames,
	}
}

// RAM returns a copy of page page of the display RAM.
func (p *Panel) RAM(page int) [Width]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ram[page&(Pages-1)]
}

// Pixel reports whether pixel (x, y) is lit on the glass, taking the
// display state into account.
func (p *Panel) Pixel(x, y int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pixel(x, y)
}

func (p *Panel) pixel(x, y int) bool {
	if !p.on || x < 0 || x >= Width || y < 0 || y > p.mux {
		return false
	}
	if p.entireOn {
		return true
	}
	lit := p.ram[y/8][x]>>uint(y%8)&1 != 0
	return lit != p.inverted
}

// Render draws the visible area as text, two pixel rows per line using
// half block characters.
func (p *Panel) Render() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	for y := 0; y <= p.mux; y += 2 {
		for x := 0; x < Width; x++ {
			upper, lower := p.pixel(x, y), p.pixel(x, y+1)
			switch {
			case upper && lower:
				b.WriteRune('█')
			case upper:
				b.WriteRune('▀')
			case lower:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}
		if y+2 <= p.mux {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
