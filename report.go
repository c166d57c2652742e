package jpeg

// Report is the structured diagnostic record spec §6 promises alongside
// the raster: one entry per marker seen, frame/scan summaries, every COM
// segment's text, and whatever side-car metadata was recognised.
type Report struct {
	Markers  []MarkerRecord
	Frame    FrameReport
	Scan     ScanReport
	Comments []string
	JFIF     *JFIFInfo
	Sidecars Sidecars
}

// MarkerRecord is one entry of the marker-by-marker log: where it sat in
// the stream, what it was named, and (for segments that carry one) its
// declared length field.
type MarkerRecord struct {
	Code   uint
	Name   string
	Offset int
	Length int
}

// FrameReport summarises the SOF0 segment.
type FrameReport struct {
	Width, Height uint
	Precision     uint8
	Components    []Component
}

// ScanReport carries the restart-marker statistics the teacher's scan type
// kept (rstCount/nMcuRST) — cheap to retain, useful for judging whether a
// stream's restart markers behaved as DRI declared.
type ScanReport struct {
	RestartInterval uint
	RestartCount    uint
}

// Sidecars collects every embedded-metadata side-car this decoder
// recognises. A nil field means that side-car was either absent or could not
// be parsed: parse failures are logged as warnings, and a malformed TIFF or
// ICC header is also noted in Unrecognised.
type Sidecars struct {
	EXIF         *ExifReport
	ICC          *ICCReport
	XMP          *XMPReport
	MPF          *MPFReport
	Unrecognised []string
}

func (d *Decoder) recordMarker(code uint, offset, length int) {
	d.report.Markers = append(d.report.Markers, MarkerRecord{
		Code: code, Name: markerName(code), Offset: offset, Length: length,
	})
	if d.ctl.Markers {
		d.log.Verbosef("marker %s at offset %d (length %d)", markerName(code), offset, length)
	}
}
