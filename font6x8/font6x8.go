// Package font6x8 provides a 6x8 pixel bitmap font laid out for page-addressed
// monochrome controllers.
//
// The source glyphs are stored row-major (one byte per pixel row), which is the
// natural way to draw them by hand. The SSD1306 wants column-major data, one
// byte per 8-pixel column, so the package derives two column tables once
// during initialization:
//
//   - single height: 6 columns of 8 bits, bit i is pixel row i;
//   - double height: 6 columns of 16 bits, source row r lands on rows 2r and
//     2r+1.
//
// The derived tables are read-only for the life of the process.
package font6x8

// First is the character code of the first glyph in the catalog.
const First = ' '

// Last is the character code of the last glyph in the catalog, a filled
// block used as an activity indicator.
const Last = 0x80

// Block is the filled block glyph.
const Block = Last

// Fallback is drawn for characters outside the catalog.
const Fallback = '?'

// Width is the number of pixel columns of a glyph.
const Width = 6

// Height is the number of pixel rows of a single height glyph.
const Height = 8

var (
	single = derive(singleColumn)
	double = derive(doubleColumn)
)

func derive[T uint8 | uint16](column func(rows *[Height]uint8, col int) T) [len(glyphs)][Width]T {
	var t [len(glyphs)][Width]T
	for i := range glyphs {
		for j := 0; j < Width; j++ {
			t[i][j] = column(&glyphs[i], j)
		}
	}
	return t
}

// singleColumn gathers column col of a glyph. Column 0 is the leftmost pixel,
// found at bit 5 of each row.
func singleColumn(rows *[Height]uint8, col int) uint8 {
	bit := uint(Width - 1 - col)
	var c uint8
	for i := 0; i < Height; i++ {
		c |= (rows[i] >> bit & 1) << uint(i)
	}
	return c
}

// doubleColumn stretches a single column to 16 rows by duplicating every bit.
func doubleColumn(rows *[Height]uint8, col int) uint16 {
	s := singleColumn(rows, col)
	var c uint16
	for i := 0; i < Height; i++ {
		bit := uint16(s >> uint(i) & 1)
		c |= bit<<uint(2*i) | bit<<uint(2*i+1)
	}
	return c
}

// index maps a character code to its catalog slot.
func index(c byte) int {
	if c < First || c > Last {
		c = Fallback
	}
	return int(c - First)
}

// Len returns the number of glyphs in the catalog.
func Len() int {
	return len(glyphs)
}

// Contains reports whether c has its own glyph.
func Contains(c byte) bool {
	return c >= First && c <= Last
}

// Rows returns the source rows of c.
func Rows(c byte) [Height]uint8 {
	return glyphs[index(c)]
}

// Single returns the single height columns of c.
func Single(c byte) [Width]uint8 {
	return single[index(c)]
}

// Double returns the double height columns of c. The low byte covers the
// upper page, the high byte the lower page.
func Double(c byte) [Width]uint16 {
	return double[index(c)]
}
