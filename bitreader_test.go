package jpeg

import "testing"

func TestBitReaderPullBits(t *testing.T) {
	data := []byte{0b10110100, 0b11000000}
	br := newBitReader(data, 0)

	tests := []struct {
		n    uint
		want uint32
	}{
		{3, 0b101},
		{5, 0b10100},
		{8, 0b11000000},
	}
	for i, tt := range tests {
		got, status := br.pullBits(tt.n)
		if status != bitOK {
			t.Fatalf("case %d: status = %v, want bitOK", i, status)
		}
		if got != tt.want {
			t.Errorf("case %d: pullBits(%d) = %b, want %b", i, tt.n, got, tt.want)
		}
	}
}

func TestBitReaderByteStuffing(t *testing.T) {
	// 0xFF 0x00 decodes as a literal 0xFF data byte, not a marker.
	data := []byte{0xFF, 0x00, 0xAB}
	br := newBitReader(data, 0)
	v, status := br.pullBits(16)
	if status != bitOK {
		t.Fatalf("status = %v, want bitOK", status)
	}
	if v != 0xFFAB {
		t.Errorf("pullBits(16) = 0x%04x, want 0xffab", v)
	}
}

func TestBitReaderStopsAtMarker(t *testing.T) {
	data := []byte{0b11110000, 0xFF, 0xD0}
	br := newBitReader(data, 0)
	if _, status := br.pullBits(8); status != bitOK {
		t.Fatalf("first byte: status = %v, want bitOK", status)
	}
	_, status := br.pullBit()
	if status != bitMarker {
		t.Fatalf("status = %v, want bitMarker", status)
	}
	if br.marker != markerRST0 {
		t.Errorf("marker = 0x%04x, want 0x%04x", br.marker, uint(markerRST0))
	}
}

func TestPullSignedExtend(t *testing.T) {
	// JPEG Annex F.2.2.1 "extend": size-3 category spans -7..-4, 4..7.
	tests := []struct {
		bits uint32
		n    uint
		want int32
	}{
		{0b000, 3, -7},
		{0b011, 3, -4},
		{0b100, 3, 4},
		{0b111, 3, 7},
		{0, 0, 0},
	}
	for _, tt := range tests {
		data := []byte{byte(tt.bits << (8 - tt.n))}
		br := newBitReader(data, 0)
		got, status := br.pullSigned(tt.n)
		if status != bitOK {
			t.Fatalf("pullSigned(%d): status = %v", tt.n, status)
		}
		if got != tt.want {
			t.Errorf("pullSigned bits=%03b n=%d = %d, want %d", tt.bits, tt.n, got, tt.want)
		}
	}
}

func TestConsumeRestartMismatchFails(t *testing.T) {
	// Expect RST0 but the stream has RST1 — a forged/corrupted restart
	// sequence must fail loudly, not silently resync onto the wrong MCU
	// boundary.
	data := []byte{0xFF, 0xD1}
	br := newBitReader(data, 0)
	if err := br.consumeRestart(0); err == nil {
		t.Fatal("consumeRestart: want error on mismatched marker, got nil")
	}
}

func TestConsumeRestartExactMatch(t *testing.T) {
	data := []byte{0xFF, 0xD3}
	br := newBitReader(data, 0)
	if err := br.consumeRestart(3); err != nil {
		t.Fatalf("consumeRestart(3): %v", err)
	}
	if br.pos != 2 {
		t.Errorf("pos = %d, want 2", br.pos)
	}
}
