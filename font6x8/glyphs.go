package font6x8

// glyphs holds the source font, one row per byte, top row first. Bit 5 is the
// leftmost pixel; bits 6 and 7 are unused. The catalog starts at ' ' and ends
// with the filled block at 0x80.
var glyphs = [...][8]uint8{
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, // 0x20 ' '
	{0x08, 0x08, 0x08, 0x08, 0x08, 0x00, 0x08, 0x00}, // 0x21 '!'
	{0x14, 0x14, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00}, // 0x22 '"'
	{0x14, 0x14, 0x3E, 0x14, 0x3E, 0x14, 0x14, 0x00}, // 0x23 '#'
	{0x08, 0x1E, 0x28, 0x1C, 0x0A, 0x3C, 0x08, 0x00}, // 0x24 '$'
	{0x30, 0x32, 0x04, 0x08, 0x10, 0x26, 0x06, 0x00}, // 0x25 '%'
	{0x18, 0x24, 0x28, 0x10, 0x2A, 0x24, 0x1A, 0x00}, // 0x26 '&'
	{0x18, 0x08, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00}, // 0x27 '\''
	{0x04, 0x08, 0x10, 0x10, 0x10, 0x08, 0x04, 0x00}, // 0x28 '('
	{0x10, 0x08, 0x04, 0x04, 0x04, 0x08, 0x10, 0x00}, // 0x29 ')'
	{0x00, 0x14, 0x08, 0x3E, 0x08, 0x14, 0x00, 0x00}, // 0x2A '*'
	{0x00, 0x08, 0x08, 0x3E, 0x08, 0x08, 0x00, 0x00}, // 0x2B '+'
	{0x00, 0x00, 0x00, 0x00, 0x18, 0x08, 0x10, 0x00}, // 0x2C ','
	{0x00, 0x00, 0x00, 0x3E, 0x00, 0x00, 0x00, 0x00}, // 0x2D '-'
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x18, 0x18, 0x00}, // 0x2E '.'
	{0x00, 0x02, 0x04, 0x08, 0x10, 0x20, 0x00, 0x00}, // 0x2F '/'
	{0x1C, 0x22, 0x26, 0x2A, 0x32, 0x22, 0x1C, 0x00}, // 0x30 '0'
	{0x08, 0x18, 0x08, 0x08, 0x08, 0x08, 0x1C, 0x00}, // 0x31 '1'
	{0x1C, 0x22, 0x02, 0x04, 0x08, 0x10, 0x3E, 0x00}, // 0x32 '2'
	{0x3E, 0x04, 0x08, 0x04, 0x02, 0x22, 0x1C, 0x00}, // 0x33 '3'
	{0x04, 0x0C, 0x14, 0x24, 0x3E, 0x04, 0x04, 0x00}, // 0x34 '4'
	{0x3E, 0x20, 0x3C, 0x02, 0x02, 0x22, 0x1C, 0x00}, // 0x35 '5'
	{0x0C, 0x10, 0x20, 0x3C, 0x22, 0x22, 0x1C, 0x00}, // 0x36 '6'
	{0x3E, 0x02, 0x04, 0x08, 0x10, 0x10, 0x10, 0x00}, // 0x37 '7'
	{0x1C, 0x22, 0x22, 0x1C, 0x22, 0x22, 0x1C, 0x00}, // 0x38 '8'
	{0x1C, 0x22, 0x22, 0x1E, 0x02, 0x04, 0x18, 0x00}, // 0x39 '9'
	{0x00, 0x18, 0x18, 0x00, 0x18, 0x18, 0x00, 0x00}, // 0x3A ':'
	{0x00, 0x18, 0x18, 0x00, 0x18, 0x08, 0x10, 0x00}, // 0x3B ';'
	{0x04, 0x08, 0x10, 0x20, 0x10, 0x08, 0x04, 0x00}, // 0x3C '<'
	{0x00, 0x00, 0x3E, 0x00, 0x3E, 0x00, 0x00, 0x00}, // 0x3D '='
	{0x10, 0x08, 0x04, 0x02, 0x04, 0x08, 0x10, 0x00}, // 0x3E '>'
	{0x1C, 0x22, 0x02, 0x04, 0x08, 0x00, 0x08, 0x00}, // 0x3F '?'
	{0x1C, 0x22, 0x02, 0x1A, 0x2A, 0x2A, 0x1C, 0x00}, // 0x40 '@'
	{0x1C, 0x22, 0x22, 0x22, 0x3E, 0x22, 0x22, 0x00}, // 0x41 'A'
	{0x3C, 0x22, 0x22, 0x3C, 0x22, 0x22, 0x3C, 0x00}, // 0x42 'B'
	{0x1C, 0x22, 0x20, 0x20, 0x20, 0x22, 0x1C, 0x00}, // 0x43 'C'
	{0x38, 0x24, 0x22, 0x22, 0x22, 0x24, 0x38, 0x00}, // 0x44 'D'
	{0x3E, 0x20, 0x20, 0x3C, 0x20, 0x20, 0x3E, 0x00}, // 0x45 'E'
	{0x3E, 0x20, 0x20, 0x38, 0x20, 0x20, 0x20, 0x00}, // 0x46 'F'
	{0x1C, 0x22, 0x20, 0x20, 0x26, 0x22, 0x1C, 0x00}, // 0x47 'G'
	{0x22, 0x22, 0x22, 0x3E, 0x22, 0x22, 0x22, 0x00}, // 0x48 'H'
	{0x1C, 0x08, 0x08, 0x08, 0x08, 0x08, 0x1C, 0x00}, // 0x49 'I'
	{0x0E, 0x04, 0x04, 0x04, 0x04, 0x24, 0x18, 0x00}, // 0x4A 'J'
	{0x22, 0x24, 0x28, 0x30, 0x28, 0x24, 0x22, 0x00}, // 0x4B 'K'
	{0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x3E, 0x00}, // 0x4C 'L'
	{0x22, 0x36, 0x2A, 0x22, 0x22, 0x22, 0x22, 0x00}, // 0x4D 'M'
	{0x22, 0x22, 0x32, 0x2A, 0x26, 0x22, 0x22, 0x00}, // 0x4E 'N'
	{0x1C, 0x22, 0x22, 0x22, 0x22, 0x22, 0x1C, 0x00}, // 0x4F 'O'
	{0x3C, 0x22, 0x22, 0x3C, 0x20, 0x20, 0x20, 0x00}, // 0x50 'P'
	{0x1C, 0x22, 0x22, 0x22, 0x2A, 0x24, 0x1A, 0x00}, // 0x51 'Q'
	{0x3C, 0x22, 0x22, 0x3C, 0x28, 0x24, 0x22, 0x00}, // 0x52 'R'
	{0x1E, 0x20, 0x20, 0x1C, 0x02, 0x02, 0x3C, 0x00}, // 0x53 'S'
	{0x3E, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x00}, // 0x54 'T'
	{0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x1C, 0x00}, // 0x55 'U'
	{0x22, 0x22, 0x22, 0x22, 0x22, 0x14, 0x08, 0x00}, // 0x56 'V'
	{0x22, 0x22, 0x22, 0x2A, 0x2A, 0x36, 0x22, 0x00}, // 0x57 'W'
	{0x22, 0x22, 0x14, 0x08, 0x14, 0x22, 0x22, 0x00}, // 0x58 'X'
	{0x22, 0x22, 0x14, 0x08, 0x08, 0x08, 0x08, 0x00}, // 0x59 'Y'
	{0x3E, 0x02, 0x04, 0x08, 0x10, 0x20, 0x3E, 0x00}, // 0x5A 'Z'
	{0x1C, 0x10, 0x10, 0x10, 0x10, 0x10, 0x1C, 0x00}, // 0x5B '['
	{0x00, 0x20, 0x10, 0x08, 0x04, 0x02, 0x00, 0x00}, // 0x5C '\\'
	{0x1C, 0x04, 0x04, 0x04, 0x04, 0x04, 0x1C, 0x00}, // 0x5D ']'
	{0x08, 0x14, 0x22, 0x00, 0x00, 0x00, 0x00, 0x00}, // 0x5E '^'
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x3E, 0x00}, // 0x5F '_'
	{0x10, 0x08, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00}, // 0x60 '`'
	{0x00, 0x00, 0x1C, 0x02, 0x1E, 0x22, 0x1E, 0x00}, // 0x61 'a'
	{0x20, 0x20, 0x2C, 0x32, 0x22, 0x22, 0x3C, 0x00}, // 0x62 'b'
	{0x00, 0x00, 0x1C, 0x20, 0x20, 0x22, 0x1C, 0x00}, // 0x63 'c'
	{0x02, 0x02, 0x1A, 0x26, 0x22, 0x22, 0x1E, 0x00}, // 0x64 'd'
	{0x00, 0x00, 0x1C, 0x22, 0x3E, 0x20, 0x1C, 0x00}, // 0x65 'e'
	{0x0C, 0x12, 0x10, 0x38, 0x10, 0x10, 0x10, 0x00}, // 0x66 'f'
	{0x00, 0x00, 0x1E, 0x22, 0x1E, 0x02, 0x0C, 0x00}, // 0x67 'g'
	{0x20, 0x20, 0x2C, 0x32, 0x22, 0x22, 0x22, 0x00}, // 0x68 'h'
	{0x08, 0x00, 0x18, 0x08, 0x08, 0x08, 0x1C, 0x00}, // 0x69 'i'
	{0x04, 0x00, 0x0C, 0x04, 0x04, 0x24, 0x18, 0x00}, // 0x6A 'j'
	{0x10, 0x10, 0x12, 0x14, 0x18, 0x14, 0x12, 0x00}, // 0x6B 'k'
	{0x18, 0x08, 0x08, 0x08, 0x08, 0x08, 0x1C, 0x00}, // 0x6C 'l'
	{0x00, 0x00, 0x34, 0x2A, 0x2A, 0x22, 0x22, 0x00}, // 0x6D 'm'
	{0x00, 0x00, 0x2C, 0x32, 0x22, 0x22, 0x22, 0x00}, // 0x6E 'n'
	{0x00, 0x00, 0x1C, 0x22, 0x22, 0x22, 0x1C, 0x00}, // 0x6F 'o'
	{0x00, 0x00, 0x3C, 0x22, 0x3C, 0x20, 0x20, 0x00}, // 0x70 'p'
	{0x00, 0x00, 0x1A, 0x26, 0x1E, 0x02, 0x02, 0x00}, // 0x71 'q'
	{0x00, 0x00, 0x2C, 0x32, 0x20, 0x20, 0x20, 0x00}, // 0x72 'r'
	{0x00, 0x00, 0x1C, 0x20, 0x1C, 0x02, 0x3C, 0x00}, // 0x73 's'
	{0x10, 0x10, 0x38, 0x10, 0x10, 0x12, 0x0C, 0x00}, // 0x74 't'
	{0x00, 0x00, 0x22, 0x22, 0x22, 0x26, 0x1A, 0x00}, // 0x75 'u'
	{0x00, 0x00, 0x22, 0x22, 0x22, 0x14, 0x08, 0x00}, // 0x76 'v'
	{0x00, 0x00, 0x22, 0x22, 0x2A, 0x2A, 0x14, 0x00}, // 0x77 'w'
	{0x00, 0x00, 0x22, 0x14, 0x08, 0x14, 0x22, 0x00}, // 0x78 'x'
	{0x00, 0x00, 0x22, 0x22, 0x1E, 0x02, 0x1C, 0x00}, // 0x79 'y'
	{0x00, 0x00, 0x3E, 0x04, 0x08, 0x10, 0x3E, 0x00}, // 0x7A 'z'
	{0x04, 0x08, 0x08, 0x10, 0x08, 0x08, 0x04, 0x00}, // 0x7B '{'
	{0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x00}, // 0x7C '|'
	{0x10, 0x08, 0x08, 0x04, 0x08, 0x08, 0x10, 0x00}, // 0x7D '}'
	{0x10, 0x2A, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00}, // 0x7E '~'
	{0x00, 0x08, 0x10, 0x3E, 0x10, 0x08, 0x00, 0x00}, // 0x7F DEL
	{0x3E, 0x3E, 0x3E, 0x3E, 0x3E, 0x3E, 0x3E, 0x00}, // 0x80 block
}
