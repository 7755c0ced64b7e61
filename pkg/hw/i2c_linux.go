//go:build linux

package hw

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// i2cSlave is the i2c-dev ioctl selecting the target address.
const i2cSlave = 0x0703

// i2cDevice is one target on a Linux i2c-dev bus.
type i2cDevice struct {
	f *os.File
}

func openI2C(bus string, addr uint16) (*i2cDevice, error) {
	f, err := os.OpenFile(bus, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %s: %w", bus, err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, int(addr)); err != nil {
		f.Close()
		return nil, fmt.Errorf("select i2c address 0x%02x: %w", addr, err)
	}
	return &i2cDevice{f: f}, nil
}

func (d *i2cDevice) write(b []byte) error {
	n, err := d.f.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("short i2c write: %d of %d bytes", n, len(b))
	}
	return nil
}

func (d *i2cDevice) read(b []byte) error {
	n, err := d.f.Read(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("short i2c read: %d of %d bytes", n, len(b))
	}
	return nil
}

func (d *i2cDevice) close() error {
	return d.f.Close()
}
