// Package glyph holds the 8×8 bitmaps drawn by the matrix clock.
//
// Each Glyph is eight rows, top to bottom. Within a row the rightmost column
// of the symbol is bit 0; a symbol of width w uses bits w-1..0. Digits are six
// columns wide in the Normal set and five in the Slim set.
package glyph

// Glyph is one monochrome symbol, one byte per row.
type Glyph [8]byte

// Bit reports whether column col (counted from the right, starting at 0) of
// row y is lit. Out of range coordinates are dark.
func (g Glyph) Bit(col, y int) bool {
	if y < 0 || y >= len(g) || col < 0 || col > 7 {
		return false
	}
	return g[y]&(1<<col) != 0
}

// Set is a complete font: ten digits and the symbols the clock shows.
type Set struct {
	Digits   [10]Glyph
	Colon    Glyph
	Dot      Glyph
	Percent  Glyph
	Celsius  Glyph
	Humidity Glyph
}

// Digit returns the glyph of n modulo 10. Negative numbers wrap the same way,
// so any int selects a valid glyph.
func (s *Set) Digit(n int) Glyph {
	n %= 10
	if n < 0 {
		n += 10
	}
	return s.Digits[n]
}

// For returns the Slim set when slim is true and the Normal set otherwise.
func For(slim bool) *Set {
	if slim {
		return &Slim
	}
	return &Normal
}

// Normal is the default, bold font.
var Normal = Set{
	Digits: [10]Glyph{
		{0b011110, 0b110011, 0b110011, 0b110011, 0b110011, 0b110011, 0b110011, 0b011110},
		{0b001100, 0b011100, 0b001100, 0b001100, 0b001100, 0b001100, 0b001100, 0b011110},
		{0b011110, 0b110011, 0b000011, 0b000110, 0b001100, 0b011000, 0b110000, 0b111111},
		{0b011110, 0b110011, 0b000011, 0b001110, 0b000011, 0b000011, 0b110011, 0b011110},
		{0b000011, 0b000111, 0b001111, 0b011011, 0b110011, 0b111111, 0b000011, 0b000011},
		{0b111111, 0b110000, 0b110000, 0b111110, 0b000011, 0b000011, 0b110011, 0b011110},
		{0b011110, 0b110011, 0b110000, 0b111110, 0b110011, 0b110011, 0b110011, 0b011110},
		{0b111111, 0b000011, 0b000110, 0b000110, 0b001100, 0b001100, 0b011000, 0b011000},
		{0b011110, 0b110011, 0b110011, 0b011110, 0b110011, 0b110011, 0b110011, 0b011110},
		{0b011110, 0b110011, 0b110011, 0b110011, 0b011111, 0b000011, 0b110011, 0b011110},
	},
	Colon:    Glyph{0b00, 0b11, 0b11, 0b00, 0b00, 0b11, 0b11, 0b00},
	Dot:      Glyph{0b00, 0b00, 0b00, 0b00, 0b00, 0b00, 0b11, 0b11},
	Percent:  Glyph{0b000000, 0b000000, 0b110001, 0b110010, 0b000100, 0b001000, 0b010011, 0b100011},
	Celsius:  Glyph{0b000000, 0b000000, 0b100111, 0b001100, 0b001100, 0b001100, 0b001100, 0b000111},
	Humidity: Glyph{0b0000000, 0b0000000, 0b0000000, 0b1000000, 0b1000000, 0b1110101, 0b1010101, 0b1010111},
}

// Slim is a thinner font with single-column separators.
var Slim = Set{
	Digits: [10]Glyph{
		{0b001110, 0b010001, 0b010001, 0b010001, 0b010001, 0b010001, 0b010001, 0b001110},
		{0b000100, 0b001100, 0b000100, 0b000100, 0b000100, 0b000100, 0b000100, 0b001110},
		{0b001110, 0b010001, 0b000001, 0b000010, 0b000100, 0b001000, 0b010000, 0b011111},
		{0b001110, 0b010001, 0b000001, 0b000110, 0b000001, 0b000001, 0b010001, 0b001110},
		{0b000001, 0b000011, 0b000101, 0b001001, 0b010001, 0b011111, 0b000001, 0b000001},
		{0b011111, 0b010000, 0b010000, 0b011110, 0b000001, 0b000001, 0b010001, 0b001110},
		{0b001110, 0b010001, 0b010000, 0b011110, 0b010001, 0b010001, 0b010001, 0b001110},
		{0b011111, 0b000001, 0b000010, 0b000010, 0b000100, 0b000100, 0b000100, 0b000100},
		{0b001110, 0b010001, 0b010001, 0b001110, 0b010001, 0b010001, 0b010001, 0b001110},
		{0b001110, 0b010001, 0b010001, 0b010001, 0b001111, 0b000001, 0b010001, 0b001110},
	},
	Colon:    Glyph{0b00, 0b00, 0b01, 0b00, 0b00, 0b01, 0b00, 0b00},
	Dot:      Glyph{0b00, 0b00, 0b00, 0b00, 0b00, 0b00, 0b00, 0b01},
	Percent:  Glyph{0b000000, 0b000000, 0b110001, 0b110010, 0b000100, 0b001000, 0b010011, 0b100011},
	Celsius:  Glyph{0b000000, 0b000000, 0b100111, 0b001000, 0b001000, 0b001000, 0b001000, 0b000111},
	Humidity: Glyph{0b0000000, 0b0000000, 0b0000000, 0b1000000, 0b1000000, 0b1110101, 0b1010101, 0b1010111},
}
