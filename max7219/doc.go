// Package max7219 drives a chain of MAX7219/MAX7221 controlled 8x8 LED matrices.
//
// Up to 16 modules are daisy-chained and addressed as one canvas of
// 8*N by 8 dots. The chain is reached either through a bit-banged serial link
// on three plain output lines (Port) or through a hardware SPI connection.
// Dev implements the display.Drawer interface from periph.io.
//
// # Hardware Connection
//
// Connect the first module of the chain to three output lines:
//
//	Module Pin  → System Pin
//	VCC         → 5V
//	GND         → GND
//	DIN         → any output line (data)
//	CS/LOAD     → any output line (chip select)
//	CLK         → any output line (clock)
//
// DOUT of each module feeds DIN of the next one; CS and CLK are shared.
//
// # Basic Usage
//
//	chip, _ := lines.Open(lines.CDev, "/dev/gpiochip0")
//	defer chip.Close()
//
//	claim := func(pin int, consumer string) (max7219.Line, error) {
//		return chip.Output(pin, consumer)
//	}
//	dev, _ := max7219.NewBitBang(claim, max7219.Pins{
//		Data:  85,
//		CS:    83,
//		Clock: 84,
//	}, &max7219.Opts{Units: 4, Brightness: 0x0F})
//
//	// Light a diagonal on the first module
//	dev.DrawFunc(func(x, y int) byte {
//		if x == y {
//			return 1
//		}
//		return 0
//	})
//
// # Drawing
//
// Every draw recomputes the frames of all modules from a pixel function and
// rewrites all row registers; there is no differential update. For module i
// and row y, bit 7-k of the row byte is lit when the function is nonzero at
// (8*i+k, y).
//
// Any image.Image can be shown with Draw; nonzero luminance lights a dot:
//
//	img := image1bit.NewRowMSB(dev.Bounds())
//	img.SetBit(3, 4, image1bit.On)
//	dev.Draw(dev.Bounds(), img, image.Point{})
//
// # Wire Protocol
//
// Each register write is one chip-select frame of 2*N bytes. The addressed
// module gets its (register, data) pair at byte offset 2*i and every other
// module gets a no-op pair. Bits go out MSB first; data is set before the
// clock rises.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/MAX7219-MAX7221.pdf
package max7219
