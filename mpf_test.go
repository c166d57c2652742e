package jpeg

import "testing"

func TestHandleMPF(t *testing.T) {
	data := []byte{
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08, // big-endian header
		0x00, 0x01, // 1 entry
		0xB0, 0x00, // tag 0xB000 Version
		0x00, 0x07, // format 7 = UNDEFINED
		0x00, 0x00, 0x00, 0x04, // count 4
		0x30, 0x31, 0x30, 0x30, // value "0100"
		0x00, 0x00, 0x00, 0x00, // next IFD: none
	}
	d := newDecoder(nil, nil)
	if err := d.handleMPF(data); err != nil {
		t.Fatalf("handleMPF: %v", err)
	}
	rep := d.report.Sidecars.MPF
	if rep == nil || len(rep.Entries) != 1 {
		t.Fatalf("MPF report = %+v, want 1 entry", rep)
	}
	if rep.Entries[0].Tag != mpfTagVersion {
		t.Errorf("tag = 0x%04x, want 0x%04x", rep.Entries[0].Tag, mpfTagVersion)
	}
}
