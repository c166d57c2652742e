package jpeg

import (
	"bytes"
	"testing"
)

// buildMinimalGrayscaleJPEG assembles, by hand, the smallest baseline
// stream this decoder accepts: an 8x8 grayscale image, one MCU, one data
// unit, DC coefficient 0 (so every pixel comes out at the level-shift
// midpoint, 128), using single-symbol Huffman tables so the entropy data is
// two bits of real content padded out to a byte.
func buildMinimalGrayscaleJPEG() []byte {
	var buf bytes.Buffer

	buf.Write([]byte{0xFF, 0xD8}) // SOI

	// DQT: one 8-bit table, id 0, all entries 1 (so DC=0 decodes to 0
	// regardless of the table's actual scale).
	buf.Write([]byte{0xFF, 0xDB, 0x00, 0x43, 0x00})
	for i := 0; i < 64; i++ {
		buf.WriteByte(1)
	}

	// DHT DC table 0: a single 1-bit code "0" for symbol 0x00 (DC size
	// category 0 -> no additional bits, diff = 0).
	buf.Write([]byte{0xFF, 0xC4, 0x00, 0x14, 0x00})
	counts := make([]byte, 16)
	counts[0] = 1
	buf.Write(counts)
	buf.WriteByte(0x00)

	// DHT AC table 0: a single 1-bit code "0" for symbol 0x00 (EOB).
	buf.Write([]byte{0xFF, 0xC4, 0x00, 0x14, 0x10})
	buf.Write(counts)
	buf.WriteByte(0x00)

	// SOF0: 8-bit precision, 8x8, one component (id 1, H=V=1, table 0).
	buf.Write([]byte{0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x08, 0x00, 0x08, 0x01, 0x01, 0x11, 0x00})

	// SOS: one component (selector 1, DC table 0 / AC table 0), Ss=0 Se=63 Ah/Al=0.
	buf.Write([]byte{0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00})

	// Entropy data: bit "0" (DC=0), bit "0" (EOB), padded with six 1 bits.
	buf.WriteByte(0b00111111)

	buf.Write([]byte{0xFF, 0xD9}) // EOI
	return buf.Bytes()
}

func TestDecodeMinimalGrayscale(t *testing.T) {
	res, err := Decode(buildMinimalGrayscaleJPEG(), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Raster == nil {
		t.Fatal("Raster is nil")
	}
	if res.Raster.Width != 8 || res.Raster.Height != 8 {
		t.Fatalf("raster size = %dx%d, want 8x8", res.Raster.Width, res.Raster.Height)
	}
	for i := 0; i < len(res.Raster.Pix); i++ {
		if res.Raster.Pix[i] != 128 {
			t.Fatalf("pixel byte %d = %d, want 128 (DC=0 decodes to the level-shift midpoint)", i, res.Raster.Pix[i])
		}
	}
	if res.Logger.ErrorCount() != 0 {
		t.Errorf("ErrorCount = %d, want 0", res.Logger.ErrorCount())
	}
	if res.Report.Frame.Width != 8 || res.Report.Frame.Height != 8 {
		t.Errorf("report frame = %dx%d, want 8x8", res.Report.Frame.Width, res.Report.Frame.Height)
	}
}

func TestDecodeRejectsProgressive(t *testing.T) {
	data := buildMinimalGrayscaleJPEG()
	// Flip SOF0 (0xC0) to SOF2 (progressive, 0xC2) in place.
	patched := bytes.Replace(data, []byte{0xFF, 0xC0}, []byte{0xFF, 0xC2}, 1)
	_, err := Decode(patched, nil)
	if err == nil {
		t.Fatal("Decode: want error for a progressive SOF, got nil")
	}
}

func TestDecodeRejectsCMYK(t *testing.T) {
	data := buildMinimalGrayscaleJPEG()
	// Locate the SOF0 segment and bump numComponents from 1 to 4, adding
	// three filler component triplets so segmentPayload's own length check
	// still passes the malformed-segment gate before the CMYK check fires.
	idx := bytes.Index(data, []byte{0xFF, 0xC0})
	if idx < 0 {
		t.Fatal("SOF0 not found in fixture")
	}
	var buf bytes.Buffer
	buf.Write(data[:idx])
	buf.Write([]byte{0xFF, 0xC0, 0x00, 0x14, 0x08, 0x00, 0x08, 0x00, 0x08, 0x04,
		0x01, 0x11, 0x00, 0x02, 0x11, 0x00, 0x03, 0x11, 0x00, 0x04, 0x11, 0x00})
	// the rest of the stream after the original (shorter) SOF0 segment
	buf.Write(data[idx+13:])

	_, err := Decode(buf.Bytes(), nil)
	if err == nil {
		t.Fatal("Decode: want error for a 4-component (CMYK) frame, got nil")
	}
}

func TestDecodeTruncatedInput(t *testing.T) {
	data := buildMinimalGrayscaleJPEG()
	_, err := Decode(data[:len(data)-4], nil)
	if err == nil {
		t.Fatal("Decode: want error for truncated input, got nil")
	}
}
