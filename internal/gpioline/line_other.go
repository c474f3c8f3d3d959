//go:build !linux

package gpioline

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/conn"
	"periph.io/x/conn/v3/gpio"
)

// Line is a no-op stand-in on non-Linux hosts; the GPIO v2 character device
// ioctl API this package wraps is Linux-only, matching the teacher's own
// gpioioctl package which is similarly Linux-only for its real backend.
type Line struct{}

var _ conn.Resource = (*Line)(nil)

func Enable(pin int) (*Line, error) {
	return EnableOnChip(DefaultChip, pin)
}

func EnableOnChip(chipPath string, pin int) (*Line, error) {
	return nil, errors.New("gpioline: GPIO character-device ioctls are only supported on linux")
}

func (l *Line) WaitEdge(timeout time.Duration) (bool, error) {
	return false, errors.New("gpioline: not supported on this OS")
}

func (l *Line) Read() gpio.Level { return gpio.Low }

func (l *Line) Disable() {}

func (l *Line) String() string { return "gpioline(unsupported)" }

func (l *Line) Halt() error { return nil }
