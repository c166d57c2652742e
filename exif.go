package jpeg

import (
	"bytes"

	"github.com/kvistgaard/bjpeg/internal/jerr"
)

const (
	exifSignature = "Exif\x00\x00"
	xmpSignature  = "http://ns.adobe.com/xap/1.0/\x00"
)

// TiffTagEntry is one enumerated tag, tagged with which IFD it came from —
// the flattened form bjpeg's EXIF report exposes, since a single APP1 Exif
// payload chains through IFD0, the Exif sub-IFD, and optionally GPSInfo.
type TiffTagEntry struct {
	IFD    string
	Tag    uint16
	Format tiffFormat
	Count  uint32
}

// ExifReport is the enumerated contents of an APP1 Exif payload: every tag
// seen across IFD0 and its Exif/GPS sub-IFDs, plus the Orientation tag
// surfaced directly (spec §5 supplement: reporting-only, the core never
// rotates the raster itself).
type ExifReport struct {
	Entries     []TiffTagEntry
	Orientation *uint16
}

const (
	tagOrientation = 0x0112
	tagExifIFD     = 0x8769
	tagGPSInfoIFD  = 0x8825
)

// handleAPP1 discriminates an APP1 payload between EXIF and XMP by its
// leading signature, the same check the teacher's markerAPP1discriminator
// performed, and dispatches to whichever side-car parser applies. A payload
// matching neither is recorded as unrecognised rather than failing the
// whole decode.
func (d *Decoder) handleAPP1() error {
	start := d.offset - 2
	payload, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("app1", err)
	}
	d.recordMarker(markerAPP1, start, length)

	switch {
	case bytes.HasPrefix(payload, []byte(exifSignature)):
		return d.handleExif(payload[len(exifSignature):])
	case bytes.HasPrefix(payload, []byte(xmpSignature)):
		return d.handleXMP(payload[len(xmpSignature):])
	default:
		d.report.Sidecars.Unrecognised = append(d.report.Sidecars.Unrecognised, "APP1: unrecognised signature")
		if d.ctl.Warn {
			d.log.Warnf("app1 payload matched neither Exif nor XMP signature")
		}
		return nil
	}
}

// handleExif walks the TIFF structure an APP1 Exif payload carries (after
// the "Exif\0\0" signature), flattening IFD0 plus the Exif and GPSInfo
// sub-IFDs it points to, and surfaces Orientation directly.
func (d *Decoder) handleExif(tiffData []byte) error {
	w, err := NewTiffWalker(tiffData)
	if err != nil {
		d.log.Warnf("exif: %v", err)
		d.report.Sidecars.Unrecognised = append(d.report.Sidecars.Unrecognised, "APP1 Exif: malformed TIFF header")
		return nil
	}

	report := &ExifReport{}
	d.walkExifIFD(w, w.FirstIFDOffset(), "IFD0", report, 0)
	d.report.Sidecars.EXIF = report
	return nil
}

// walkExifIFD reads one IFD's entries, records them, chases the Exif and
// GPSInfo sub-IFD pointers it finds (one level, matching original_source's
// own non-recursive chase), and surfaces Orientation when seen in IFD0.
func (d *Decoder) walkExifIFD(w *TiffWalker, offset uint32, name string, report *ExifReport, depth int) {
	if depth > 1 || offset == 0 {
		return
	}
	entries, _, err := w.ReadIFD(offset)
	if err != nil {
		d.log.Warnf("exif %s: %v", name, err)
		return
	}
	for _, e := range entries {
		report.Entries = append(report.Entries, TiffTagEntry{IFD: name, Tag: e.Tag, Format: e.Format, Count: e.Count})
		if e.Format == FormatUnknown {
			d.log.Warnf("exif %s: tag 0x%04x has unrecognised format", name, e.Tag)
		}
		if name == "IFD0" && e.Tag == tagOrientation && e.Format == FormatShort {
			v := w.ShortValue(e)
			report.Orientation = &v
		}
		if e.Tag == tagExifIFD && e.Format == FormatLong {
			d.walkExifIFD(w, w.LongValue(e), "ExifIFD", report, depth+1)
		}
		if e.Tag == tagGPSInfoIFD && e.Format == FormatLong {
			d.walkExifIFD(w, w.LongValue(e), "GPSInfo", report, depth+1)
		}
	}
}
