package emulator_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flavioheleno/ssd1306"
	"github.com/flavioheleno/ssd1306/emulator"
	"periph.io/x/conn/v3/physic"
)

type idleSynth struct{ volume int }

func (s idleSynth) PartStates() uint32      { return 0 }
func (s idleSynth) Velocity(part int) uint8 { return 0 }
func (s idleSynth) MasterVolume() int       { return s.volume }

func TestPanelReset(t *testing.T) {
	p := emulator.New(0x3C)
	st := p.State()
	if st.On {
		t.Error("panel is on after reset")
	}
	if st.Height != 64 {
		t.Errorf("Height = %d, want 64", st.Height)
	}
	if p.Render() != strings.Repeat(strings.Repeat(" ", 128)+"\n", 31)+strings.Repeat(" ", 128) {
		t.Error("panel that is off renders lit pixels")
	}
}

func TestPanelAfterInit(t *testing.T) {
	p := emulator.New(0x3C)
	if _, err := ssd1306.NewI2C(p, &ssd1306.Opts{H: 32}); err != nil {
		t.Fatalf("NewI2C() error = %v", err)
	}

	st := p.State()
	if !st.On || !st.ChargePump {
		t.Errorf("State() = %+v, want display on with charge pump", st)
	}
	if st.Height != 32 {
		t.Errorf("Height = %d, want 32", st.Height)
	}
	if st.Contrast != 0x7F {
		t.Errorf("Contrast = %#02x, want 0x7f", st.Contrast)
	}
	if st.Commands != 17 {
		t.Errorf("Commands = %d, want 17", st.Commands)
	}
	if got := len(strings.Split(p.Render(), "\n")); got != 16 {
		t.Errorf("Render() has %d lines, want 16", got)
	}
}

func TestPanelMirrorsFramebuffer(t *testing.T) {
	p := emulator.New(0x3C)
	dev, err := ssd1306.NewI2C(p, nil)
	if err != nil {
		t.Fatalf("NewI2C() error = %v", err)
	}
	dev.SetMessage("Hello, panel")
	if err := dev.Update(idleSynth{volume: 80}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	frame := dev.Frame()
	for page := 0; page < 4; page++ {
		ram := p.RAM(page)
		if want := frame[1+page*128 : 1+(page+1)*128]; !bytes.Equal(ram[:], want) {
			t.Errorf("page %d differs from the framebuffer", page)
		}
	}
	if p.State().Frames != 1 {
		t.Errorf("Frames = %d, want 1", p.State().Frames)
	}

	if err := dev.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 128; x++ {
			if p.Pixel(x, y) {
				t.Fatalf("pixel (%d, %d) lit after Clear", x, y)
			}
		}
	}
}

// The init script opens a four page window, so the second half of a 64 row
// frame wraps around and lands on top of the first half.
func TestPanel64RowFrameWraps(t *testing.T) {
	p := emulator.New(0x3C)
	dev, err := ssd1306.NewI2C(p, &ssd1306.Opts{H: 64})
	if err != nil {
		t.Fatalf("NewI2C() error = %v", err)
	}
	if got := p.State().Height; got != 32 {
		t.Errorf("Height = %d, want 32", got)
	}

	dev.SetMessage("Hello, panel")
	if err := dev.Update(idleSynth{volume: 80}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	frame := dev.Frame()
	if len(frame) != 1025 {
		t.Fatalf("len(Frame()) = %d, want 1025", len(frame))
	}
	if bytes.Equal(frame[1:513], make([]byte, 512)) {
		t.Fatal("pages 0-3 of the framebuffer are empty")
	}
	for page := 0; page < 4; page++ {
		ram := p.RAM(page)
		if want := frame[1+(page+4)*128 : 1+(page+5)*128]; !bytes.Equal(ram[:], want) {
			t.Errorf("RAM page %d does not hold framebuffer page %d", page, page+4)
		}
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 128; x++ {
			if p.Pixel(x, y) {
				t.Fatalf("pixel (%d, %d) lit, want blank panel", x, y)
			}
		}
	}

	// Pixels drawn in the lower half come out on top.
	dev.SetPixel(7, 40)
	if err := dev.WriteFramebuffer(); err != nil {
		t.Fatal(err)
	}
	if !p.Pixel(7, 8) {
		t.Error("pixel (7, 40) not shown at (7, 8)")
	}
}

func TestPanelPixel(t *testing.T) {
	p := emulator.New(0x3C)
	dev, err := ssd1306.NewI2C(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	dev.SetPixel(10, 17)
	if err := dev.WriteFramebuffer(); err != nil {
		t.Fatal(err)
	}
	if !p.Pixel(10, 17) {
		t.Error("pixel (10, 17) not lit")
	}
	if p.Pixel(10, 16) || p.Pixel(11, 17) {
		t.Error("neighbouring pixels lit")
	}

	if err := dev.Invert(true); err != nil {
		t.Fatal(err)
	}
	if p.Pixel(10, 17) || !p.Pixel(10, 16) {
		t.Error("inverted panel does not swap pixels")
	}

	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if p.Pixel(10, 16) {
		t.Error("halted panel shows pixels")
	}
}

func TestPanelPageMode(t *testing.T) {
	p := emulator.New(0x3C)
	steps := [][]byte{
		{0x00, 0xAF},             // on, reset default is page mode
		{0x00, 0xB2, 0x05, 0x11}, // page 2, column 0x15
		{0x40, 0xAA, 0x55},
	}
	for _, w := range steps {
		if err := p.Tx(0x3C, w, nil); err != nil {
			t.Fatalf("Tx(% X) error = %v", w, err)
		}
	}
	ram := p.RAM(2)
	if ram[0x15] != 0xAA || ram[0x16] != 0x55 {
		t.Errorf("RAM(2)[0x15:0x17] = % X, want AA 55", ram[0x15:0x17])
	}
}

func TestPanelErrors(t *testing.T) {
	p := emulator.New(0x3C)
	tests := []struct {
		name string
		addr uint16
		w, r []byte
	}{
		{"wrong address", 0x3D, []byte{0x80, 0xAF}, nil},
		{"read", 0x3C, []byte{0x80}, make([]byte, 1)},
		{"bad control byte", 0x3C, []byte{0x12, 0xAF}, nil},
		{"long single command", 0x3C, []byte{0x80, 0xAF, 0xA6}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Tx(tt.addr, tt.w, tt.r); err == nil {
				t.Error("Tx() succeeded")
			}
		})
	}

	if err := p.SetSpeed(0); err == nil {
		t.Error("SetSpeed(0) succeeded")
	}
	if err := p.SetSpeed(400 * physic.KiloHertz); err != nil {
		t.Errorf("SetSpeed() error = %v", err)
	}
	if got := p.State().Speed; got != 400*physic.KiloHertz {
		t.Errorf("Speed = %v, want 400kHz", got)
	}
}
