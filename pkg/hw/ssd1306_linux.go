//go:build linux

package hw

import "fmt"

// SSD1306 geometry.
const (
	ssdWidth = 128
	ssdPages = 8
	ssdFrame = ssdWidth * ssdPages
	ssdCmd   = 0x00
	ssdData  = 0x40
	ssdChunk = 32
)

var ssdInit = []byte{
	0xAE,       // display off
	0xD5, 0x80, // clock divide
	0xA8, 0x3F, // multiplex 64
	0xD3, 0x00, // display offset
	0x40,       // start line 0
	0x8D, 0x14, // charge pump on
	0x20, 0x00, // horizontal addressing
	0xA1,       // segment remap
	0xC8,       // COM scan descending
	0xDA, 0x12, // COM pins
	0x81, 0xCF, // contrast
	0xD9, 0xF1, // precharge
	0xDB, 0x40, // VCOMH deselect
	0xA4, // resume from RAM
	0xA6, // normal (not inverted)
	0xAF, // display on
}

// SSD1306 is a 128x64 monochrome OLED on an i2c-dev bus.
type SSD1306 struct {
	dev *i2cDevice
}

var _ Panel = (*SSD1306)(nil)

// NewSSD1306 opens and initialises the panel at addr.
func NewSSD1306(bus string, addr uint16) (*SSD1306, error) {
	dev, err := openI2C(bus, addr)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	p := &SSD1306{dev: dev}
	if err := p.command(ssdInit...); err != nil {
		dev.close()
		return nil, fmt.Errorf("ssd1306: init: %w", err)
	}
	return p, nil
}

func (p *SSD1306) command(cmds ...byte) error {
	return p.dev.write(append([]byte{ssdCmd}, cmds...))
}

// Flush writes a full page-ordered frame (8 pages of 128 columns).
func (p *SSD1306) Flush(pages []byte) error {
	if len(pages) != ssdFrame {
		return fmt.Errorf("ssd1306: frame is %d bytes, want %d", len(pages), ssdFrame)
	}
	if err := p.command(0x21, 0, ssdWidth-1, 0x22, 0, ssdPages-1); err != nil {
		return fmt.Errorf("ssd1306: address window: %w", err)
	}
	buf := make([]byte, ssdChunk+1)
	buf[0] = ssdData
	for off := 0; off < len(pages); off += ssdChunk {
		copy(buf[1:], pages[off:off+ssdChunk])
		if err := p.dev.write(buf); err != nil {
			return fmt.Errorf("ssd1306: write data: %w", err)
		}
	}
	return nil
}

// Close turns the panel off and releases the bus.
func (p *SSD1306) Close() error {
	if err := p.command(0xAE); err != nil {
		p.dev.close()
		return fmt.Errorf("ssd1306: display off: %w", err)
	}
	return p.dev.close()
}
