// Package image1bit provides a 1-bit monochrome image format for MAX7219 LED matrix chains.
//
// An 8x8 LED module is either lit or dark per dot, so each pixel is one bit.
// Pixels are stored row by row, eight pixels per byte, most significant bit first.
//
// Memory layout example for a 16-pixel row (two chained modules):
//
//	Pixels: 0 1 2 3 4 5 6 7 | 8 9 ...
//	Bits:   7 6 5 4 3 2 1 0 | 7 6 ...
//	Bytes:  0x81              0x00
//	        (pixels 0 and 7 lit in the first module)
//
// With this layout, byte i of row y is exactly the row register value of
// module i, so a chain frame can be sliced straight out of Pix.
//
// This package provides:
//
// - Bit: A color type representing a lit or dark dot
// - BitModel: A color model for converting standard Go colors to Bit
// - RowMSB: An image.Image implementation matching the MAX7219 row registers
//
// Example usage:
//
//	// Create a canvas for four chained modules
//	img := image1bit.NewRowMSB(image.Rect(0, 0, 32, 8))
//
//	// Light a dot
//	img.SetBit(10, 3, image1bit.On)
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image1bit.Off), image.Point{}, draw.Src)
package image1bit
