package jpeg

import (
	"bytes"

	"github.com/kvistgaard/bjpeg/internal/jerr"
)

const (
	jfifSignature = "JFIF\x00"
	jfxxSignature = "JFXX\x00"
)

// JFIFInfo is the APP0 JFIF header's fields, recognised the way the
// teacher's jfif.go app0 handler did: density and thumbnail dimensions are
// reported, the thumbnail pixels themselves are not decoded (out of scope,
// same stance as the MPF secondary-image payload).
type JFIFInfo struct {
	VersionMajor, VersionMinor byte
	Units                      byte
	XDensity, YDensity         uint16
	ThumbnailW, ThumbnailH     byte
	Extension                  bool // true if this came from a JFXX segment
}

// handleAPP0 recognises the JFIF/JFXX signature and records the header
// fields; an APP0 segment with neither signature is recorded unrecognised.
func (d *Decoder) handleAPP0() error {
	start := d.offset - 2
	payload, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("app0", err)
	}
	d.recordMarker(markerAPP0, start, length)

	switch {
	case bytes.HasPrefix(payload, []byte(jfifSignature)):
		return d.parseJFIF(payload[len(jfifSignature):], false)
	case bytes.HasPrefix(payload, []byte(jfxxSignature)):
		return d.parseJFIF(payload[len(jfxxSignature):], true)
	default:
		d.report.Sidecars.Unrecognised = append(d.report.Sidecars.Unrecognised, "APP0: unrecognised signature")
		return nil
	}
}

func (d *Decoder) parseJFIF(rest []byte, extension bool) error {
	if extension {
		// JFXX carries a 1-byte thumbnail format code and then
		// format-specific thumbnail data; bjpeg records only that it was
		// seen, not the thumbnail.
		d.report.JFIF = &JFIFInfo{Extension: true}
		return nil
	}
	if len(rest) < 9 {
		return jerr.Wrap("jfif", jerr.MalformedSegment)
	}
	d.report.JFIF = &JFIFInfo{
		VersionMajor: rest[0],
		VersionMinor: rest[1],
		Units:        rest[2],
		XDensity:     uint16(rest[3])<<8 | uint16(rest[4]),
		YDensity:     uint16(rest[5])<<8 | uint16(rest[6]),
		ThumbnailW:   rest[7],
		ThumbnailH:   rest[8],
	}
	return nil
}
