package jpeg

import (
	"bytes"
	"testing"
)

// buildRestartGrayscaleJPEG is buildMinimalGrayscaleJPEG stretched to two
// vertically stacked MCUs (8x16) with a restart marker between them
// (DRI=1), each MCU's entropy data independently byte-aligned and padded.
func buildRestartGrayscaleJPEG() []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8}) // SOI

	buf.Write([]byte{0xFF, 0xDB, 0x00, 0x43, 0x00})
	for i := 0; i < 64; i++ {
		buf.WriteByte(1)
	}

	counts := make([]byte, 16)
	counts[0] = 1
	buf.Write([]byte{0xFF, 0xC4, 0x00, 0x14, 0x00})
	buf.Write(counts)
	buf.WriteByte(0x00)
	buf.Write([]byte{0xFF, 0xC4, 0x00, 0x14, 0x10})
	buf.Write(counts)
	buf.WriteByte(0x00)

	// DRI: restart every 1 MCU.
	buf.Write([]byte{0xFF, 0xDD, 0x00, 0x04, 0x00, 0x01})

	// SOF0: 8x16, one component.
	buf.Write([]byte{0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x10, 0x00, 0x08, 0x01, 0x01, 0x11, 0x00})

	buf.Write([]byte{0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00})

	buf.WriteByte(0b00111111) // MCU 0: DC=0, EOB, padded
	buf.Write([]byte{0xFF, 0xD0}) // RST0
	buf.WriteByte(0b00111111) // MCU 1: DC=0, EOB, padded

	buf.Write([]byte{0xFF, 0xD9}) // EOI
	return buf.Bytes()
}

func TestDecodeWithRestartMarker(t *testing.T) {
	res, err := Decode(buildRestartGrayscaleJPEG(), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Raster.Width != 8 || res.Raster.Height != 16 {
		t.Fatalf("raster size = %dx%d, want 8x16", res.Raster.Width, res.Raster.Height)
	}
	for i := 0; i < len(res.Raster.Pix); i++ {
		if res.Raster.Pix[i] != 128 {
			t.Fatalf("pixel byte %d = %d, want 128", i, res.Raster.Pix[i])
		}
	}
	if res.Report.Scan.RestartCount != 1 {
		t.Errorf("RestartCount = %d, want 1", res.Report.Scan.RestartCount)
	}
	if res.Report.Scan.RestartInterval != 1 {
		t.Errorf("RestartInterval = %d, want 1", res.Report.Scan.RestartInterval)
	}
}

func TestDecodeForgedRestartMarkerFails(t *testing.T) {
	data := buildRestartGrayscaleJPEG()
	patched := bytes.Replace(data, []byte{0xFF, 0xD0}, []byte{0xFF, 0xD1}, 1)
	_, err := Decode(patched, nil)
	if err == nil {
		t.Fatal("Decode: want RestartResyncFailed for a swapped RST index, got nil")
	}
}
