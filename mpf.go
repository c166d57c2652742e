package jpeg

const mpfSignature = "MPF\x00"

// MPF tag names, per the CIPA Multi-Picture Format spec and
// original_source/src/MpfDec.h's tag table. bjpeg surfaces only the MP
// Index IFD's entries (spec §4.H: "the core only surfaces the MPF IFD");
// splitting the secondary images the entry table describes is a
// collaborator concern, same as file-system traversal and PPM writing.
const (
	mpfTagVersion        = 0xB000
	mpfTagNumberOfImages = 0xB001
	mpfTagMPEntry        = 0xB002
	mpfTagImageUIDList   = 0xB003
	mpfTagTotalFrames    = 0xB004
)

// MPFReport is the enumerated contents of an APP2 MPF index: every tag seen
// in the MP Index IFD, sharing exactly the TIFF/IFD substrate the EXIF
// side-car uses (MpfDecoder subclasses TiffDecoder in the original).
type MPFReport struct {
	Entries []TiffTagEntry
}

// handleMPF walks the MP Index IFD that follows the "MPF\0" signature.
func (d *Decoder) handleMPF(tiffData []byte) error {
	w, err := NewTiffWalker(tiffData)
	if err != nil {
		d.log.Warnf("mpf: %v", err)
		d.report.Sidecars.Unrecognised = append(d.report.Sidecars.Unrecognised, "APP2 MPF: malformed TIFF header")
		return nil
	}
	entries, _, err := w.ReadIFD(w.FirstIFDOffset())
	if err != nil {
		d.log.Warnf("mpf: %v", err)
		return nil
	}
	report := &MPFReport{}
	for _, e := range entries {
		report.Entries = append(report.Entries, TiffTagEntry{IFD: "MPIndex", Tag: e.Tag, Format: e.Format, Count: e.Count})
	}
	d.report.Sidecars.MPF = report
	return nil
}
