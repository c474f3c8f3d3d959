//go:build linux

package gpioline

// Linux GPIO character-device v2 ioctl ABI, trimmed to what a single
// both-edges interrupt line needs. Adapted from the ioctl number builder
// and struct layouts in periph.io/x/host/v3/gpioioctl, which implements the
// full chardev API documented at
//
// https://docs.kernel.org/userspace-api/gpio/index.html
//
// This file keeps only the request/config/event/values structs; the
// multi-chip discovery, line-name registry, and batched LineSet request
// types have no caller in this package.

import (
	"errors"
	"syscall"
	"unsafe"
)

const (
	iocWrite = 1
	iocRead  = 2

	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift
}

func iowr(typ, nr, size uintptr) uintptr {
	return ioc(iocRead|iocWrite, typ, nr, size)
}

const (
	gpioMaxNameSize   = 32
	gpioV2LinesMax    = 64
	gpioV2NumAttrsMax = 10

	lineFlagInput        uint64 = 1 << 2
	lineFlagEdgeRising   uint64 = 1 << 4
	lineFlagEdgeFalling  uint64 = 1 << 5
	lineFlagBiasPullUp   uint64 = 1 << 8
	lineFlagBiasPullDown uint64 = 1 << 9
)

type lineAttribute struct {
	id      uint32
	padding uint32
	value   uint64
}

type lineConfigAttribute struct {
	attr lineAttribute
	mask uint64
}

type lineConfig struct {
	flags     uint64
	numAttrs  uint32
	padding   [5]uint32
	attrs     [gpioV2NumAttrsMax]lineConfigAttribute
}

type lineRequest struct {
	offsets         [gpioV2LinesMax]uint32
	consumer        [gpioMaxNameSize]byte
	config          lineConfig
	numLines        uint32
	eventBufferSize uint32
	padding         [5]uint32
	fd              int32
}

type lineValues struct {
	bits uint64
	mask uint64
}

// lineEvent mirrors struct gpio_v2_line_event; it is read directly off the
// line file descriptor once edge detection is armed.
type lineEvent struct {
	TimestampNS uint64
	ID          uint32
	Offset      uint32
	Seqno       uint32
	LineSeqno   uint32
	Padding     [6]uint32
}

var (
	iocLineRequest   = iowr(0xb4, 0x07, unsafe.Sizeof(lineRequest{}))
	iocLineGetValues = iowr(0xb4, 0x0e, unsafe.Sizeof(lineValues{}))
)

func ioctl(fd uintptr, request uintptr, arg uintptr) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, request, arg)
	if errno != 0 {
		return errors.New(errno.Error())
	}
	return nil
}

func ioctlLineRequest(fd uintptr, req *lineRequest) error {
	return ioctl(fd, iocLineRequest, uintptr(unsafe.Pointer(req)))
}

func ioctlLineGetValues(fd uintptr, values *lineValues) error {
	return ioctl(fd, iocLineGetValues, uintptr(unsafe.Pointer(values)))
}
