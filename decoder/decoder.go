// Package decoder implements the Hideki/Cresta biphase-mark demodulator:
// an edge-timing goroutine that turns GPIO transitions into pulse
// durations, a decode loop that turns pulse durations into validated
// telegrams, and a mailbox that hands completed telegrams to consumers.
//
// Grounded on org.openhab.binding.hideki's native Decoder.h/Decoder.cpp,
// generalized from the original's process-wide static locals to
// per-instance fields (so multiple Decoders never share hidden state) and
// from its single polling loop to the producer/consumer design the
// original's header declares but its retrieved implementation collapses
// into one thread.
package decoder

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hideki-sensors/hideki-core/internal/gpioline"
	"github.com/hideki-sensors/hideki-core/pulsequeue"
	"github.com/hideki-sensors/hideki-core/receiver"
)

// DataBufferLength is the capacity callers must provide to
// GetDecodedData.
const DataBufferLength = dataBufferLength

// noiseFloorUs is the minimum pulse width the edge timer will enqueue;
// anything at or below this is treated as electrical noise.
const noiseFloorUs = 20

// defaultTimeout is used until SetTimeout is called; a zero timeout on
// gpioline.Line.WaitEdge blocks forever, which is not what an idle
// receiver thread should do, so this core picks a finite default instead
// of mirroring the original's poll(-1) ("wait forever") default.
const defaultTimeout = 2 * time.Second

// decodeBackoff bounds how long the decode loop blocks after finding the
// pulse queue empty before it re-checks the stop flag; a push wakes it
// immediately, so this is a worst case, not a typical-case delay, matching
// spec's documented "sleep ~1ms and retry".
const decodeBackoff = time.Millisecond

// Decoder demodulates one GPIO line's edges into Hideki/Cresta telegrams.
// The zero value is not usable; construct with New.
type Decoder struct {
	pin      int
	receiver receiver.Receiver

	timeoutMu sync.Mutex
	timeout   time.Duration

	pulses *pulsequeue.Queue
	mbox   mailbox

	line *gpioline.Line

	stopReceiver  atomic.Bool
	stopDecoder   atomic.Bool
	receiverAlive atomic.Bool
	decoderAlive  atomic.Bool

	wg sync.WaitGroup
}

// New returns a Decoder for the given GPIO pin (1..40), sampling RSSI
// from rcv once per accepted byte.
func New(pin int, rcv receiver.Receiver) *Decoder {
	return &Decoder{
		pin:      pin,
		receiver: rcv,
		timeout:  defaultTimeout,
		pulses:   pulsequeue.New(),
	}
}

// SetTimeout sets the edge-wait timeout used by the receiver thread. Only
// effective while the decoder is stopped, matching the original's
// call-order discipline (mTimeout is read once per poll(), so changing it
// mid-flight has an unspecified effect the caller should not rely on).
func (d *Decoder) SetTimeout(timeout time.Duration) {
	if d.decoderAlive.Load() {
		return
	}
	d.timeoutMu.Lock()
	d.timeout = timeout
	d.timeoutMu.Unlock()
}

func (d *Decoder) getTimeout() time.Duration {
	d.timeoutMu.Lock()
	defer d.timeoutMu.Unlock()
	return d.timeout
}

// Start configures the GPIO line and spawns the receiver and decoder
// goroutines. It is idempotent: calling Start while already running
// returns true without doing anything. Returns false (and releases any
// partially-acquired resources) if the GPIO line cannot be enabled.
func (d *Decoder) Start() bool {
	if d.decoderAlive.Load() {
		return true
	}
	d.mbox.clear()

	if d.pin < gpioline.MinPin || d.pin > gpioline.MaxPin {
		return false
	}
	line, err := gpioline.Enable(d.pin)
	if err != nil {
		return false
	}
	d.line = line

	d.stopReceiver.Store(false)
	d.stopDecoder.Store(false)

	d.wg.Add(1)
	go d.decodeLoop()
	d.decoderAlive.Store(true)

	d.wg.Add(1)
	go d.edgeTimer()
	d.receiverAlive.Store(true)

	return true
}

// Stop signals both goroutines to exit, joins them, releases the GPIO
// line, and clears the mailbox. Returns true once both goroutines have
// joined (it always does; there is no forced-kill path).
func (d *Decoder) Stop() bool {
	if !d.decoderAlive.Load() {
		d.mbox.clear()
		return true
	}

	d.stopDecoder.Store(true)
	d.stopReceiver.Store(true)
	d.wg.Wait()

	d.decoderAlive.Store(false)
	d.receiverAlive.Store(false)

	if d.line != nil {
		d.line.Disable()
		d.line = nil
	}
	d.mbox.clear()
	return true
}

// GetDecodedData copies out the most recently completed telegram, if any,
// into out (which must have length >= DataBufferLength) and sets *rssi to
// its averaged signal strength. Returns length+1 (the sync byte plus the
// bytes the length field declares; the CRC1/CRC2 bytes that follow are
// copied but not counted) on a fresh telegram, 0 otherwise.
func (d *Decoder) GetDecodedData(out []byte, rssi *float64) int {
	return d.mbox.getDecodedData(out, rssi)
}

// edgeTimer is the receiver thread: it waits for GPIO edges, times the
// interval between them, and enqueues pulses above the noise floor.
func (d *Decoder) edgeTimer() {
	defer d.wg.Done()
	for !d.stopReceiver.Load() {
		tOld := time.Now()
		ok, err := d.line.WaitEdge(d.getTimeout())
		tNew := time.Now()
		if err != nil || !ok {
			continue // timeouts and read errors are silently discarded
		}

		elapsedUs := tNew.Sub(tOld).Microseconds()
		if elapsedUs <= noiseFloorUs {
			continue
		}
		if elapsedUs > 0xFFFF {
			elapsedUs = 0xFFFF
		}
		d.pulses.Push(uint16(elapsedUs))
	}
}

// decodeLoop is the decoder thread: it drains the pulse queue and runs
// the biphase-mark state machine, publishing completed telegrams to the
// mailbox.
func (d *Decoder) decodeLoop() {
	defer d.wg.Done()
	var state decodeState
	for !d.stopDecoder.Load() {
		duration, ok := d.pulses.Pop()
		if !ok {
			d.pulses.WaitNonEmpty(decodeBackoff)
			continue
		}
		state.step(duration, d.receiver.RSSI, &d.mbox)
	}
}
