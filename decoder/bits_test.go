package decoder

import "testing"

func TestReverseBitsInvolution(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if got := reverseBits(reverseBits(b)); got != b {
			t.Errorf("reverseBits(reverseBits(0x%02X)) = 0x%02X, want 0x%02X", b, got, b)
		}
	}
}

func TestReverseBitsKnownValues(t *testing.T) {
	cases := []struct{ in, want byte }{
		{0x00, 0x00},
		{0xFF, 0xFF},
		{0x01, 0x80},
		{0x80, 0x01},
		{0x0F, 0xF0},
		{0xAA, 0x55},
	}
	for _, c := range cases {
		if got := reverseBits(c.in); got != c.want {
			t.Errorf("reverseBits(0x%02X) = 0x%02X, want 0x%02X", c.in, got, c.want)
		}
	}
}

func TestParity(t *testing.T) {
	cases := []struct {
		v    uint32
		want uint32
	}{
		{0x00, 0},
		{0x01, 1},
		{0x03, 0},
		{0xFF, 0},
		{0x0F, 0},
		{0x07, 1},
	}
	for _, c := range cases {
		if got := parity(c.v); got != c.want {
			t.Errorf("parity(0x%X) = %d, want %d", c.v, got, c.want)
		}
	}
}
