//go:build linux

// Package spidev talks to a Linux /dev/spidevX.Y device with the raw
// spi_ioc_transfer ioctl, trimmed from periph.io's own sysfs SPI
// implementation down to the one operation the CC1101 register protocol
// needs: configure mode/bits/speed once, then run single full-duplex
// transfers that reuse the same buffer for transmit and receive.
//
// It intentionally does not implement periph.io/x/conn/v3/spi.Port (no
// multi-packet transactions, no half-duplex, no CLK/MOSI/MISO/CS pin
// discovery via gpioreg) since the CC1101 driver never needs any of that.
package spidev

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"periph.io/x/conn/v3/physic"
)

const modeMagic uint = 'k'

var (
	iocWrMode       = iowWrite(modeMagic, 1, 1)
	iocWrBitsPerWrd = iowWrite(modeMagic, 3, 1)
	iocWrMaxSpeedHz = iowWrite(modeMagic, 4, 4)
)

func iowWrite(magic uint, nr uint, size uint) uint {
	const (
		iocWriteDir = 1
		nrBits      = 8
		typeBits    = 8
		sizeBits    = 14
		nrShift     = 0
		typeShift   = nrShift + nrBits
		sizeShift   = typeShift + typeBits
		dirShift    = sizeShift + sizeBits
	)
	return uint(iocWriteDir)<<dirShift | magic<<typeShift | nr<<nrShift | size<<sizeShift
}

// transfer mirrors struct spi_ioc_transfer from linux/spi/spidev.h, carrying
// only the fields a single synchronous full-duplex transfer needs.
type transfer struct {
	tx          uint64
	rx          uint64
	length      uint32
	speedHz     uint32
	delayUsecs  uint16
	bitsPerWord uint8
	csChange    uint8
	txNBits     uint8
	rxNBits     uint8
	pad         uint16
}

// Port is an open SPI device file.
type Port struct {
	f *os.File
}

// Open opens path (e.g. "/dev/spidev0.0") read-write and configures SPI
// mode 0, bitsPerWord bits per word, and a maximum clock of maxHz.
func Open(path string, bitsPerWord uint8, maxHz physic.Frequency) (*Port, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("spidev: open %s: %w", path, err)
	}
	p := &Port{f: f}

	var mode uint8 // SPI mode 0: CPOL=0, CPHA=0
	if err := p.ioctlSet(iocWrMode, uintptr(unsafe.Pointer(&mode))); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("spidev: set mode: %w", err)
	}
	if err := p.ioctlSet(iocWrBitsPerWrd, uintptr(unsafe.Pointer(&bitsPerWord))); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("spidev: set bits per word: %w", err)
	}
	hz := uint32(maxHz / physic.Hertz)
	if err := p.ioctlSet(iocWrMaxSpeedHz, uintptr(unsafe.Pointer(&hz))); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("spidev: set max speed: %w", err)
	}
	return p, nil
}

func (p *Port) ioctlSet(request uint, arg uintptr) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, p.f.Fd(), uintptr(request), arg)
	if errno != 0 {
		return errors.New(errno.Error())
	}
	return nil
}

// Transfer runs one full-duplex message: buf is used as both the transmit
// and receive buffer, exactly as the CC1101 driver's register read/write
// protocol requires (spec §4.2/§6's "the same buffer is used for TX and
// RX").
func (p *Port) Transfer(buf []byte) error {
	if len(buf) == 0 {
		return errors.New("spidev: Transfer() with empty buffer")
	}
	addr := uint64(uintptr(unsafe.Pointer(&buf[0])))
	t := transfer{
		tx:     addr,
		rx:     addr,
		length: uint32(len(buf)),
	}
	const messageMagic = 'k'
	req := iowWrite(messageMagic, 0, uint(unsafe.Sizeof(t)))
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, p.f.Fd(), uintptr(req), uintptr(unsafe.Pointer(&t)))
	if errno != 0 {
		return fmt.Errorf("spidev: transfer: %s", errno.Error())
	}
	return nil
}

// Close releases the device file.
func (p *Port) Close() error {
	return p.f.Close()
}
