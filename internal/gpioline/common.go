package gpioline

// DefaultChip is the GPIO character device used when a caller does not
// need a specific chip, matching the single GPIO controller found on most
// single-board computers this core targets.
const DefaultChip = "/dev/gpiochip0"

// MinPin and MaxPin bound the pin numbers this package accepts, mirroring
// the original driver's own validity check (GPIO::enable: 0 < pin < 41).
const (
	MinPin = 1
	MaxPin = 40
)
