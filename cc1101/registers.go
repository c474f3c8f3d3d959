package cc1101

// SPI command/register opcodes, per the CC1101 datasheet
// (https://www.ti.com/lit/ds/symlink/cc1101.pdf) and
// org.openhab.binding.hideki's native CC1101.h/CC1101.cpp.
const (
	opReadByte   byte = 0x80
	opWriteBurst byte = 0x40
	// opReadBurst is part of the chip's addressing scheme but this driver
	// never burst-reads (only single-register reads of MARCSTATE and RSSI).
	opReadBurst byte = 0xC0

	cmdSRES byte = 0x30 // software reset strobe
	cmdSRX  byte = 0x34 // enter receive mode strobe

	regMARCSTATE byte = 0xF5
	regRSSI      byte = 0xF4

	marcstateRX byte = 0x0D
)

// configBurst is the fixed 47-byte register payload (address 0x00 through
// TEST0) that configures the chip for the Hideki/Cresta protocol: 433.92MHz
// carrier, ~2kBaud data rate, ~160kHz receive bandwidth. Index 0 is
// IOCFG2, high-impedance (0x2E) by default; index 2 is IOCFG0, serial data
// output (0x0D) by default, so the demodulated bitstream is driven onto
// GDO0 unless the interrupt selector names GDO2.
//
// Values are pinned to the original driver's tuning; do not reorder.
var configBurst = [47]byte{
	0x2E, 0x2E, 0x0D, 0x47, 0xD3, 0x91, 0xFF, 0x04,
	0x31, 0x00, 0x00, 0x06, 0x00, 0x10, 0xB0, 0x71,
	0x96, 0x4A, 0x32, 0x22, 0xF8, 0x15, 0x07, 0x3C,
	0x18, 0x16, 0x6C, 0x07, 0x00, 0x92, 0x87, 0x6B,
	0xFB, 0xB6, 0x11, 0xE9, 0x2A, 0x00, 0x1F, 0x41,
	0x00, 0x59, 0x7F, 0x3F, 0x81, 0x35, 0x09,
}

// patableBurst is the 8-byte PATABLE payload written at register 0x7E.
// Only byte 1 (the second power-level slot) is non-zero.
var patableBurst = [8]byte{0x00, 0x60, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// The offsets of IOCFG2 and IOCFG0 within configBurst's wire payload
// (index 0 of configBurst is register 0x00 == IOCFG2; index 2 is register
// 0x02 == IOCFG0). Interrupt selector 2 swaps these two bytes so the
// demodulated signal is routed out of GDO2 instead of GDO0.
const (
	iocfg2Offset = 0
	iocfg0Offset = 2
)

// buildConfigBurst returns the 48-byte SPI message (opcode + 47 register
// values) for the given interrupt selector (0 or 2).
func buildConfigBurst(interrupt int) []byte {
	cfg := configBurst
	if interrupt == 2 {
		cfg[iocfg2Offset] = 0x0D // IOCFG2: GDO2 output pin configuration
		cfg[iocfg0Offset] = 0x2E // IOCFG0: high-impedance, GDO0 unused
	}
	msg := make([]byte, 1+len(cfg))
	msg[0] = opWriteBurst // 0x40 | WRITE_BURST(0x40) == 0x40, register 0x00
	copy(msg[1:], cfg[:])
	return msg
}

// buildPatableBurst returns the 9-byte PATABLE burst-write SPI message
// (opcode 0x7E|WRITE_BURST followed by the 8 power-level bytes).
func buildPatableBurst() []byte {
	msg := make([]byte, 1+len(patableBurst))
	msg[0] = 0x7E | opWriteBurst
	copy(msg[1:], patableBurst[:])
	return msg
}
