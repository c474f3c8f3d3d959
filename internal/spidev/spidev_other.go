//go:build !linux

package spidev

import (
	"errors"

	"periph.io/x/conn/v3/physic"
)

// Port is a no-op stand-in on non-Linux hosts; spidev is a Linux-only ABI.
type Port struct{}

func Open(path string, bitsPerWord uint8, maxHz physic.Frequency) (*Port, error) {
	return nil, errors.New("spidev: not supported on this OS")
}

func (p *Port) Transfer(buf []byte) error {
	return errors.New("spidev: not supported on this OS")
}

func (p *Port) Close() error { return nil }
