package decoder

import (
	"testing"
	"time"

	"github.com/hideki-sensors/hideki-core/pulsequeue"
	"github.com/hideki-sensors/hideki-core/receiver"
)

func TestNewDecoderGetDecodedDataInitiallyEmpty(t *testing.T) {
	d := New(1, receiver.NullReceiver{})
	out := make([]byte, DataBufferLength)
	var rssi float64
	if n := d.GetDecodedData(out, &rssi); n != 0 {
		t.Errorf("GetDecodedData() on a fresh decoder = %d, want 0", n)
	}
}

func TestStartRejectsOutOfRangePin(t *testing.T) {
	for _, pin := range []int{0, -1, 41, 1000} {
		d := New(pin, receiver.NullReceiver{})
		if d.Start() {
			t.Errorf("Start() with pin=%d succeeded, want failure", pin)
			d.Stop()
		}
	}
}

func TestStopOnNeverStartedDecoderIsIdempotent(t *testing.T) {
	d := New(5, receiver.NullReceiver{})
	if !d.Stop() {
		t.Errorf("Stop() on a never-started decoder = false, want true")
	}
	if !d.Stop() {
		t.Errorf("second Stop() = false, want true")
	}
}

func TestSetTimeoutIgnoredWhileRunning(t *testing.T) {
	d := New(5, receiver.NullReceiver{})
	d.decoderAlive.Store(true) // simulate "running" without real hardware
	d.SetTimeout(5 * time.Second)
	if d.getTimeout() == 5*time.Second {
		t.Errorf("SetTimeout took effect while decoderAlive, want no-op")
	}
	d.decoderAlive.Store(false)
}

// TestDecodeLoopWiring drives the actual decodeLoop goroutine (the same
// method Start uses) with synthetic pulses pushed directly into the pulse
// queue, bypassing GPIO entirely, to confirm the queue-to-mailbox pipeline
// is wired correctly end to end.
func TestDecodeLoopWiring(t *testing.T) {
	d := &Decoder{
		pin:      5,
		receiver: receiver.NullReceiver{},
		timeout:  defaultTimeout,
		pulses:   pulsequeue.New(),
	}
	d.wg.Add(1)
	go d.decodeLoop()

	frame := validFrame()
	for _, p := range encodeFrame(frame) {
		for !d.pulses.Push(p) {
		}
	}

	out := make([]byte, DataBufferLength)
	var rssi float64
	deadline := time.Now().Add(2 * time.Second)
	var n int
	for time.Now().Before(deadline) {
		n = d.GetDecodedData(out, &rssi)
		if n != 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if n != decodedLength(frame[2])+1 {
		t.Fatalf("GetDecodedData() = %d, want %d", n, decodedLength(frame[2])+1)
	}
	for i, b := range frame {
		if out[i] != b {
			t.Errorf("out[%d] = 0x%02X, want 0x%02X", i, out[i], b)
		}
	}

	d.stopDecoder.Store(true)
	d.wg.Wait()
}
