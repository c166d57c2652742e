package jpeg

import (
	"encoding/binary"
	"fmt"

	"github.com/kvistgaard/bjpeg/internal/jerr"
)

const iccSignature = "ICC_PROFILE\x00"

// ICCHeader is the 128-byte ICC profile header (ICC.1:2004-10 §7.2),
// grounded field-for-field on original_source/src/IccDec.h: every field it
// reads raw (profile date/time is kept as the wire's six 16-bit components,
// not decoded into a timestamp).
type ICCHeader struct {
	ProfileSize        uint32
	CMMType            string
	Version            string
	DeviceClass        string
	ColourSpace        string
	PCS                string
	DateTimeRaw        [6]uint16
	Signature          string
	PrimaryPlatform    string
	ProfileFlags       uint32
	DeviceManufacturer string
	DeviceModel        string
	DeviceAttributes   uint64
	RenderingIntent    uint32
	PCSIlluminantXYZ   [3]int32 // s15Fixed16Number, raw
	CreatorSignature   string
}

// ICCTag is one tag-table entry: a signature and where its data sits in the
// profile, never the data itself (spec: "does not materialise tag contents").
type ICCTag struct {
	Signature string
	Offset    uint32
	Size      uint32
}

// ICCReport is the enumerated contents of an embedded ICC profile.
type ICCReport struct {
	Header ICCHeader
	Tags   []ICCTag
}

// handleAPP2 discriminates an APP2 payload between an ICC profile chunk and
// an MPF index by its leading signature. ICC profiles may be split across
// several consecutive APP2 segments; MPF never is.
func (d *Decoder) handleAPP2() error {
	start := d.offset - 2
	payload, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("app2", err)
	}
	d.recordMarker(markerAPP2, start, length)

	switch {
	case len(payload) >= len(iccSignature) && string(payload[:len(iccSignature)]) == iccSignature:
		return d.handleICCChunk(payload[len(iccSignature):])
	case len(payload) >= 4 && string(payload[:4]) == mpfSignature:
		return d.handleMPF(payload[4:])
	default:
		d.report.Sidecars.Unrecognised = append(d.report.Sidecars.Unrecognised, "APP2: unrecognised signature")
		if d.ctl.Warn {
			d.log.Warnf("app2 payload matched neither ICC_PROFILE nor MPF signature")
		}
		return nil
	}
}

// handleICCChunk accumulates one (seq, count, data...) ICC chunk and, once
// the last chunk of the profile has arrived, parses the reassembled buffer.
func (d *Decoder) handleICCChunk(rest []byte) error {
	if len(rest) < 2 {
		return jerr.Wrap("icc chunk", jerr.MalformedSegment)
	}
	seq := int(rest[0])
	count := int(rest[1])
	data := rest[2:]

	if seq == 1 {
		d.iccBuf = nil
		d.iccChunkSeen = 0
		d.iccChunkWant = count
	}
	d.iccBuf = append(d.iccBuf, data...)
	d.iccChunkSeen++

	if d.iccChunkWant == 0 || d.iccChunkSeen < d.iccChunkWant {
		return nil
	}

	report, err := parseICCProfile(d.iccBuf)
	if err != nil {
		d.log.Warnf("icc: %v", err)
		d.report.Sidecars.Unrecognised = append(d.report.Sidecars.Unrecognised, "APP2 ICC_PROFILE: malformed header")
		return nil
	}
	d.report.Sidecars.ICC = report
	return nil
}

func parseICCProfile(data []byte) (*ICCReport, error) {
	if len(data) < 132 {
		return nil, jerr.Wrap("icc header", jerr.TruncatedInput)
	}
	be := binary.BigEndian // ICC profiles are always big-endian on the wire

	var h ICCHeader
	h.ProfileSize = be.Uint32(data[0:4])
	h.CMMType = string(data[4:8])
	ver := data[8:12]
	h.Version = fmt.Sprintf("%d.%d.%d", ver[0], ver[1]>>4, ver[1]&0x0F)
	h.DeviceClass = string(data[12:16])
	h.ColourSpace = string(data[16:20])
	h.PCS = string(data[20:24])
	for i := 0; i < 6; i++ {
		h.DateTimeRaw[i] = be.Uint16(data[24+i*2 : 26+i*2])
	}
	h.Signature = string(data[36:40])
	if h.Signature != "acsp" {
		return nil, jerr.Wrapf(jerr.UnsupportedProfile, "icc profile file signature %q", h.Signature)
	}
	h.PrimaryPlatform = string(data[40:44])
	h.ProfileFlags = be.Uint32(data[44:48])
	h.DeviceManufacturer = string(data[48:52])
	h.DeviceModel = string(data[52:56])
	h.DeviceAttributes = be.Uint64(data[56:64])
	h.RenderingIntent = be.Uint32(data[64:68])
	for i := 0; i < 3; i++ {
		h.PCSIlluminantXYZ[i] = int32(be.Uint32(data[68+i*4 : 72+i*4]))
	}
	h.CreatorSignature = string(data[80:84])

	report := &ICCReport{Header: h}
	count := be.Uint32(data[128:132])
	p := 132
	for i := uint32(0); i < count; i++ {
		if p+12 > len(data) {
			break
		}
		report.Tags = append(report.Tags, ICCTag{
			Signature: string(data[p : p+4]),
			Offset:    be.Uint32(data[p+4 : p+8]),
			Size:      be.Uint32(data[p+8 : p+12]),
		})
		p += 12
	}
	return report, nil
}
