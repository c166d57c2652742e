package jpeg

import "testing"

// buildMinimalTIFF assembles a little-endian TIFF buffer with one IFD
// holding a single Orientation (0x0112, SHORT, value 6) entry.
func buildMinimalTIFF() []byte {
	data := []byte{
		'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00, // header, first IFD at offset 8
		0x01, 0x00, // 1 entry
		0x12, 0x01, // tag 0x0112 Orientation
		0x03, 0x00, // format 3 = SHORT
		0x01, 0x00, 0x00, 0x00, // count 1
		0x06, 0x00, 0x00, 0x00, // value 6, left-justified
		0x00, 0x00, 0x00, 0x00, // next IFD offset: none
	}
	return data
}

func TestTiffWalkerReadIFD(t *testing.T) {
	w, err := NewTiffWalker(buildMinimalTIFF())
	if err != nil {
		t.Fatalf("NewTiffWalker: %v", err)
	}
	entries, next, err := w.ReadIFD(w.FirstIFDOffset())
	if err != nil {
		t.Fatalf("ReadIFD: %v", err)
	}
	if next != 0 {
		t.Errorf("next IFD offset = %d, want 0", next)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Tag != tagOrientation || e.Format != FormatShort {
		t.Errorf("entry = %+v, want tag 0x0112 format SHORT", e)
	}
	if v := w.ShortValue(e); v != 6 {
		t.Errorf("ShortValue = %d, want 6", v)
	}
}

func TestTiffWalkerBadHeader(t *testing.T) {
	if _, err := NewTiffWalker([]byte{'X', 'X', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}); err == nil {
		t.Fatal("NewTiffWalker: want error for unrecognised byte-order mark, got nil")
	}
}

func TestHandleExifSurfacesOrientation(t *testing.T) {
	d := newDecoder(nil, nil)
	if err := d.handleExif(buildMinimalTIFF()); err != nil {
		t.Fatalf("handleExif: %v", err)
	}
	rep := d.report.Sidecars.EXIF
	if rep == nil {
		t.Fatal("EXIF report is nil")
	}
	if rep.Orientation == nil || *rep.Orientation != 6 {
		t.Fatalf("Orientation = %v, want 6", rep.Orientation)
	}
	if len(rep.Entries) != 1 {
		t.Errorf("len(Entries) = %d, want 1", len(rep.Entries))
	}
}
