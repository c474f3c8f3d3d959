package decoder

import "sync"

// mailbox is the one-slot, reader/writer-locked hand-off between the
// decoder loop (the sole writer) and any number of consumers calling
// GetDecodedData.
type mailbox struct {
	mu        sync.RWMutex
	hasNew    bool
	data      [dataBufferLength]byte
	rssiSum   float64
	rssiCount uint32
}

// publish stores a completed, CRC-verified frame. It is only ever called
// by the decode loop.
func (m *mailbox) publish(data [dataBufferLength]byte, rssiSum float64, rssiCount uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasNew = true
	m.data = data
	m.rssiSum = rssiSum
	m.rssiCount = rssiCount
}

// clear empties the mailbox unconditionally; used by Start/Stop to
// guarantee a fresh slate across a lifecycle transition.
func (m *mailbox) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasNew = false
	m.data = [dataBufferLength]byte{}
	m.rssiSum = 0
	m.rssiCount = 0
}

// getDecodedData copies out a fresh frame and its averaged RSSI, if one is
// waiting, then clears the slot. Returns 0 when no new frame has arrived
// since the last call.
//
// The read lock is released before the write lock that clears the slot is
// acquired, so two concurrent callers may both observe the same frame
// once; spec treats this as acceptable since there is a single writer.
func (m *mailbox) getDecodedData(out []byte, rssi *float64) int {
	m.mu.RLock()
	if !m.hasNew {
		m.mu.RUnlock()
		return 0
	}
	data := m.data
	rssiSum, rssiCount := m.rssiSum, m.rssiCount
	m.mu.RUnlock()

	m.mu.Lock()
	m.hasNew = false
	m.data = [dataBufferLength]byte{}
	m.rssiSum = 0
	m.rssiCount = 0
	m.mu.Unlock()

	copy(out, data[:])
	if rssiCount > 0 {
		*rssi = rssiSum / float64(rssiCount)
	} else {
		*rssi = 0
	}
	return decodedLength(data[2]) + 1
}
