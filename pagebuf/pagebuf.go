package pagebuf

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	// Width is the number of pixel columns.
	Width = 128
	// MaxHeight is the number of pixel rows of the backing store.
	MaxHeight = 64
	// PageHeight is the number of pixel rows packed in one byte.
	PageHeight = 8
	// Pages is the number of pages of the backing store.
	Pages = MaxHeight / PageHeight
	// ControlData is the control byte announcing a stream of RAM data.
	ControlData = 0x40
)

// Size returns the length of the wire image of a panel with the given
// height, control byte included.
func Size(height int) int {
	return height/PageHeight*Width + 1
}

// Offset returns the buffer index of column col on page page.
func Offset(page, col int) int {
	return page*Width + col + 1
}

// Index returns the buffer index and bit mask of pixel (x, y). Coordinates
// wrap: x is taken modulo 128 and y modulo 64.
func Index(x, y int) (int, byte) {
	x &= Width - 1
	y &= MaxHeight - 1
	return ((y &^ (PageHeight - 1)) << 4) + x + 1, 1 << uint(y&(PageHeight-1))
}

// Buffer is a 128x64 page-addressed framebuffer. Only the first Size(h)
// bytes are shown on a panel of height h; the remaining rows are kept so
// that wrapped coordinates always land inside the buffer.
type Buffer struct {
	Pix    []byte          // Control byte followed by 8 pages of 128 columns
	Height int             // Visible rows, 32 or 64
	Rect   image.Rectangle // Visible bounds
}

// New returns a cleared buffer showing height rows.
func New(height int) *Buffer {
	b := &Buffer{
		Pix:    make([]byte, Size(MaxHeight)),
		Height: height,
		Rect:   image.Rect(0, 0, Width, height),
	}
	b.Pix[0] = ControlData
	return b
}

// Frame returns the wire image: the control byte and the visible pages.
func (b *Buffer) Frame() []byte {
	return b.Pix[:Size(b.Height)]
}

// SetPixel lights pixel (x, y).
func (b *Buffer) SetPixel(x, y int) {
	i, m := Index(x, y)
	b.Pix[i] |= m
}

// ClearPixel turns pixel (x, y) off.
func (b *Buffer) ClearPixel(x, y int) {
	i, m := Index(x, y)
	b.Pix[i] &^= m
}

// Pixel reports whether pixel (x, y) is lit.
func (b *Buffer) Pixel(x, y int) bool {
	i, m := Index(x, y)
	return b.Pix[i]&m != 0
}

// Clear zeroes every pixel byte. The control byte is left untouched.
func (b *Buffer) Clear() {
	clear(b.Pix[1:])
}

// ColorModel returns the color model of the buffer.
func (b *Buffer) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the visible bounds.
func (b *Buffer) Bounds() image.Rectangle {
	return b.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (b *Buffer) At(x, y int) color.Color {
	return b.BitAt(x, y)
}

// BitAt returns the image1bit.Bit of the pixel at (x, y). Pixels outside the
// visible bounds are off.
func (b *Buffer) BitAt(x, y int) image1bit.Bit {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return image1bit.Off
	}
	return image1bit.Bit(b.Pixel(x, y))
}

// Set sets the color of the pixel at (x, y). Pixels outside the visible
// bounds are ignored, unlike SetPixel which wraps.
func (b *Buffer) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return
	}
	if image1bit.BitModel.Convert(c).(image1bit.Bit) {
		b.SetPixel(x, y)
	} else {
		b.ClearPixel(x, y)
	}
}
