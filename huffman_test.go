package jpeg

import "testing"

// A textbook 3-symbol canonical table (ISO/IEC 10918-1 Annex C example
// shape): symbol 'A' gets a 1-bit code, 'B' and 'C' share 2-bit codes.
func exampleTable(t *testing.T) *huffTable {
	t.Helper()
	var counts [16]byte
	counts[0] = 1 // one 1-bit code
	counts[1] = 2 // two 2-bit codes
	tbl, err := buildHuffmanTable(counts, []byte{'A', 'B', 'C'})
	if err != nil {
		t.Fatalf("buildHuffmanTable: %v", err)
	}
	return tbl
}

func TestHuffmanCanonicalAssignment(t *testing.T) {
	tbl := exampleTable(t)
	// Canonical codes: A=0, B=10, C=11.
	if tbl.mincode[1] != 0 || tbl.maxcode[1] != 0 {
		t.Errorf("length-1 code range = [%d,%d], want [0,0]", tbl.mincode[1], tbl.maxcode[1])
	}
	if tbl.mincode[2] != 0b10 || tbl.maxcode[2] != 0b11 {
		t.Errorf("length-2 code range = [%d,%d], want [2,3]", tbl.mincode[2], tbl.maxcode[2])
	}
}

func TestHuffmanDecode(t *testing.T) {
	tbl := exampleTable(t)
	tests := []struct {
		bits []byte // MSB-first bits, one per element
		want byte
	}{
		{[]byte{0}, 'A'},
		{[]byte{1, 0}, 'B'},
		{[]byte{1, 1}, 'C'},
	}
	for _, tt := range tests {
		data := packBits(tt.bits)
		br := newBitReader(data, 0)
		got, err := tbl.decode(br)
		if err != nil {
			t.Fatalf("decode(%v): %v", tt.bits, err)
		}
		if got != tt.want {
			t.Errorf("decode(%v) = %c, want %c", tt.bits, got, tt.want)
		}
	}
}

func TestHuffmanDecodeOutOfRange(t *testing.T) {
	var counts [16]byte
	counts[0] = 1
	tbl, err := buildHuffmanTable(counts, []byte{'A'})
	if err != nil {
		t.Fatalf("buildHuffmanTable: %v", err)
	}
	// Only code "0" is valid; a stream starting with a 1 bit never matches
	// and must fail once length exceeds 16, not loop forever. (0xFE, not
	// 0xFF, so the bit reader doesn't mistake this run for a marker.)
	data := []byte{0xFE, 0xFE, 0xFE}
	br := newBitReader(data, 0)
	if _, err := tbl.decode(br); err == nil {
		t.Fatal("decode: want error for an all-1s stream, got nil")
	}
}

func packBits(bits []byte) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out
}
