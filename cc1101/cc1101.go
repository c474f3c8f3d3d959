// Package cc1101 drives a CC1101 sub-1GHz transceiver over SPI, configured
// once at construction for Hideki/Cresta reception, and exposes it as a
// receiver.Receiver.
//
// Grounded on org.openhab.binding.hideki's native CC1101.cpp/CC1101.h: the
// bring-up sequence, register payload, and RSSI conversion are carried
// across unchanged, only the SPI plumbing and concurrency idiom are
// rewritten in Go.
package cc1101

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"periph.io/x/conn/v3/conn"
	"periph.io/x/conn/v3/physic"

	"github.com/hideki-sensors/hideki-core/internal/spidev"
	"github.com/hideki-sensors/hideki-core/receiver"
)

// maxSpeed is the SPI clock the CC1101 is configured for: 500kHz.
const maxSpeed = 500 * physic.KiloHertz

// marcstatePollLimit bounds how many times waitForRX polls MARCSTATE while
// waiting for the chip to report RX; the original busy-polls with no
// bound, but an unbounded loop against unreachable hardware would hang a
// constructor forever.
const marcstatePollLimit = 1000

// Cc1101Config selects the SPI device and GDO interrupt pin the chip's
// demodulated output is wired to.
type Cc1101Config struct {
	// Device is the spidev path, e.g. "/dev/spidev0.0".
	Device string
	// Interrupt is the GDO pin carrying the demodulated signal: 0 (GDO0,
	// the default) or 2 (GDO2).
	Interrupt int
}

// Cc1101Receiver is a CC1101 transceiver configured for Hideki/Cresta
// reception. The zero value is not usable; construct with
// NewCc1101Receiver.
type Cc1101Receiver struct {
	mu    sync.Mutex // guards port during rssi(); only the decoder thread calls this post-init
	port  *spidev.Port
	state receiver.State
}

var _ receiver.Receiver = (*Cc1101Receiver)(nil)
var _ conn.Resource = (*Cc1101Receiver)(nil)

// NewCc1101Receiver opens and configures a CC1101 per cfg. It never
// returns an error: a failed bring-up leaves the returned receiver in
// State() == receiver.Error, matching the original constructor's
// isInitialized()-after-the-fact contract.
func NewCc1101Receiver(cfg Cc1101Config) *Cc1101Receiver {
	r := &Cc1101Receiver{state: receiver.Error}

	device := strings.TrimSpace(cfg.Device)
	if device == "" {
		return r
	}
	if cfg.Interrupt != 0 && cfg.Interrupt != 2 {
		return r
	}

	port, err := spidev.Open(device, 8, maxSpeed)
	if err != nil {
		return r
	}

	if err := port.Transfer([]byte{cmdSRES}); err != nil {
		_ = port.Close()
		return r
	}
	time.Sleep(time.Second)

	if err := port.Transfer(buildConfigBurst(cfg.Interrupt)); err != nil {
		_ = port.Close()
		return r
	}

	if err := port.Transfer(buildPatableBurst()); err != nil {
		_ = port.Close()
		return r
	}

	if err := port.Transfer([]byte{cmdSRX}); err != nil {
		_ = port.Close()
		return r
	}
	if err := waitForRX(port); err != nil {
		_ = port.Close()
		return r
	}

	r.port = port
	r.state = receiver.Initialized
	return r
}

// waitForRX polls MARCSTATE until it reports the RX state (0x0D).
func waitForRX(port *spidev.Port) error {
	for i := 0; i < marcstatePollLimit; i++ {
		buf := []byte{regMARCSTATE | opReadByte, 0x00}
		if err := port.Transfer(buf); err != nil {
			return err
		}
		if buf[1]&0x1F == marcstateRX {
			return nil
		}
	}
	return fmt.Errorf("cc1101: timed out waiting for MARCSTATE RX")
}

// State reports whether bring-up succeeded.
func (r *Cc1101Receiver) State() receiver.State {
	return r.state
}

// RSSI reads the instantaneous signal strength in dBm. Returns 0 if the
// receiver failed to initialize.
func (r *Cc1101Receiver) RSSI() float64 {
	if r.state != receiver.Initialized {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := []byte{regRSSI | opReadByte, 0x00}
	if err := r.port.Transfer(buf); err != nil {
		return 0
	}
	return rssiToDBm(buf[1])
}

// rssiToDBm converts a raw RSSI register byte to dBm per the CC1101
// datasheet's two's-complement-above-127 convention.
func rssiToDBm(b byte) float64 {
	v := int(b)
	if v >= 128 {
		v -= 256
	}
	return 0.5*float64(v) - 74.0
}

// Close releases the underlying SPI handle.
func (r *Cc1101Receiver) Close() error {
	if r.port == nil {
		return nil
	}
	return r.port.Close()
}

// String implements periph.io/x/conn/v3's conn.Resource, so a
// Cc1101Receiver composes with the rest of the periph.io ecosystem the way
// the teacher's device types do.
func (r *Cc1101Receiver) String() string {
	return fmt.Sprintf("cc1101(%v)", r.state)
}

// Halt implements conn.Resource.
func (r *Cc1101Receiver) Halt() error {
	return r.Close()
}
