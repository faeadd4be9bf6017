// Package pagebuf provides the page-addressed framebuffer of the SSD1306.
//
// The SSD1306 RAM is split in 8-row pages. Each byte holds one column of a
// page, the least significant bit being the top row:
//
//	page 0: bytes 1..128    rows 0..7
//	page 1: bytes 129..256  rows 8..15
//	...
//	page 7: bytes 897..1024 rows 56..63
//
// Byte 0 is the data control byte (0x40), so that Frame can be handed to the
// bus as-is.
//
// Example usage:
//
//	b := pagebuf.New(32)
//	b.SetPixel(10, 20)
//	lit := b.Pixel(10, 20) // true
//
//	// Use with standard Go image operations
//	draw.Draw(b, b.Bounds(), image.NewUniform(image1bit.On), image.Point{}, draw.Src)
package pagebuf
