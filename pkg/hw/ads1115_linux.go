//go:build linux

package hw

import (
	"encoding/binary"
	"fmt"
	"time"
)

// ADS1115 registers and configuration bits.
const (
	adsRegConversion = 0x00
	adsRegConfig     = 0x01

	adsStartSingle = 1 << 15 // OS: start a conversion / conversion done
	adsMuxSingle0  = 0x4 << 12
	adsPGA6144     = 0x0 << 9 // ±6.144V, 0.1875 mV per count
	adsModeSingle  = 1 << 8
	adsRate860     = 0x7 << 5
	adsCompDisable = 0x3

	adsConversionTime = 1200 * time.Microsecond
	adsMaxPolls       = 10
)

// ADS1115 is a 16-bit, 4-channel ADC on an i2c-dev bus read in single-shot mode.
type ADS1115 struct {
	dev *i2cDevice
}

var _ ADC = (*ADS1115)(nil)

// NewADS1115 opens the converter at addr on the given i2c-dev bus.
func NewADS1115(bus string, addr uint16) (*ADS1115, error) {
	dev, err := openI2C(bus, addr)
	if err != nil {
		return nil, fmt.Errorf("ads1115: %w", err)
	}
	return &ADS1115{dev: dev}, nil
}

// ReadRaw starts a single-ended conversion on channel and waits for the result.
func (a *ADS1115) ReadRaw(channel int) (int16, error) {
	if channel < 0 || channel > 3 {
		return 0, fmt.Errorf("ads1115: invalid channel %d", channel)
	}

	cfg := uint16(adsStartSingle | adsMuxSingle0 | adsPGA6144 | adsModeSingle | adsRate860 | adsCompDisable)
	cfg |= uint16(channel) << 12

	cmd := []byte{adsRegConfig, 0, 0}
	binary.BigEndian.PutUint16(cmd[1:], cfg)
	if err := a.dev.write(cmd); err != nil {
		return 0, fmt.Errorf("ads1115: start conversion: %w", err)
	}

	buf := make([]byte, 2)
	done := false
	for i := 0; i < adsMaxPolls && !done; i++ {
		time.Sleep(adsConversionTime)
		if err := a.dev.write([]byte{adsRegConfig}); err != nil {
			return 0, fmt.Errorf("ads1115: poll: %w", err)
		}
		if err := a.dev.read(buf); err != nil {
			return 0, fmt.Errorf("ads1115: poll: %w", err)
		}
		done = binary.BigEndian.Uint16(buf)&adsStartSingle != 0
	}
	if !done {
		return 0, fmt.Errorf("ads1115: conversion on channel %d did not complete", channel)
	}

	if err := a.dev.write([]byte{adsRegConversion}); err != nil {
		return 0, fmt.Errorf("ads1115: read conversion: %w", err)
	}
	if err := a.dev.read(buf); err != nil {
		return 0, fmt.Errorf("ads1115: read conversion: %w", err)
	}
	return int16(binary.BigEndian.Uint16(buf)), nil
}

// Close releases the bus.
func (a *ADS1115) Close() error {
	return a.dev.close()
}
