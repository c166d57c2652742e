package jpeg

import "github.com/kvistgaard/bjpeg/internal/jerr"

// run drives the marker-segment state machine from SOI through EOI,
// dispatching each marker to its handler. Entropy-coded scan data is
// consumed inline by handleSOS, which leaves d.offset positioned at the
// marker that follows the scan.
func (d *Decoder) run() error {
	if err := d.expectSOI(); err != nil {
		return err
	}
	for {
		code, err := d.readMarkerCode()
		if err != nil {
			return err
		}
		switch {
		case code == markerEOI:
			d.recordMarker(code, d.offset-2, 0)
			d.state = stateFinal
			return nil
		case isNonBaselineSOF(code):
			d.recordMarker(code, d.offset-2, 0)
			return jerr.Wrapf(jerr.UnsupportedProfile, "%s", markerName(code))
		case code == markerSOF0:
			if err := d.handleSOF0(); err != nil {
				return err
			}
		case code == markerDHT:
			if err := d.handleDHT(); err != nil {
				return err
			}
		case code == markerDQT:
			if err := d.handleDQT(); err != nil {
				return err
			}
		case code == markerDRI:
			if err := d.handleDRI(); err != nil {
				return err
			}
		case code == markerCOM:
			if err := d.handleCOM(); err != nil {
				return err
			}
		case code == markerSOS:
			if err := d.handleSOS(); err != nil {
				return err
			}
		case code == markerAPP0:
			if err := d.handleAPP0(); err != nil {
				return err
			}
		case code == markerAPP1:
			if err := d.handleAPP1(); err != nil {
				return err
			}
		case code == markerAPP2:
			if err := d.handleAPP2(); err != nil {
				return err
			}
		case code == markerAPP12 || code == markerAPP13 || code == markerAPP14:
			if err := d.handleAPPnPassthrough(code); err != nil {
				return err
			}
		case code >= markerRST0 && code <= markerRST7:
			d.recordMarker(code, d.offset-2, 0)
			if d.ctl.Warn {
				d.log.Warnf("stray restart marker %s outside scan", markerName(code))
			}
		case code == markerDNL:
			if err := d.skipSegment(code); err != nil {
				return err
			}
		default:
			if err := d.skipUnknown(code); err != nil {
				return err
			}
		}
	}
}

func (d *Decoder) readByte() (byte, error) {
	if d.offset >= len(d.data) {
		return 0, jerr.TruncatedInput
	}
	b := d.data[d.offset]
	d.offset++
	return b, nil
}

func (d *Decoder) readUint16() (uint16, error) {
	hi, err := d.readByte()
	if err != nil {
		return 0, err
	}
	lo, err := d.readByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func (d *Decoder) expectSOI() error {
	b1, err := d.readByte()
	if err != nil {
		return jerr.Wrap("soi", err)
	}
	b2, err := d.readByte()
	if err != nil {
		return jerr.Wrap("soi", err)
	}
	if b1 != 0xFF || b2 != 0xD8 {
		return jerr.Wrap("soi", jerr.MalformedSegment)
	}
	d.recordMarker(markerSOI, 0, 0)
	d.state = stateApplication
	return nil
}

// readMarkerCode reads the next marker code, skipping the fill bytes
// (redundant 0xFF padding) the standard allows before any marker.
func (d *Decoder) readMarkerCode() (uint, error) {
	for {
		b, err := d.readByte()
		if err != nil {
			return 0, jerr.Wrap("marker", err)
		}
		if b != 0xFF {
			return 0, jerr.Wrapf(jerr.MalformedSegment, "expected marker, got 0x%02x", b)
		}
		b2, err := d.readByte()
		if err != nil {
			return 0, jerr.Wrap("marker", err)
		}
		if b2 == 0xFF {
			d.offset-- // re-read this 0xFF as the start of the next marker
			continue
		}
		if b2 == 0x00 {
			return 0, jerr.Wrapf(jerr.MalformedSegment, "stuffed byte outside entropy data")
		}
		return 0xFF00 | uint(b2), nil
	}
}

// segmentPayload reads a segment's 2-byte length field (which includes
// itself) and returns the bytes that follow it, advancing past them.
func (d *Decoder) segmentPayload() ([]byte, int, error) {
	start := d.offset
	length, err := d.readUint16()
	if err != nil {
		return nil, 0, jerr.Wrap("segment length", err)
	}
	if length < 2 {
		return nil, 0, jerr.Wrap("segment length", jerr.MalformedSegment)
	}
	end := start + int(length)
	if end > len(d.data) {
		return nil, 0, jerr.Wrap("segment", jerr.TruncatedInput)
	}
	payload := d.data[d.offset:end]
	d.offset = end
	return payload, int(length), nil
}

func (d *Decoder) skipSegment(code uint) error {
	start := d.offset - 2
	_, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("skip segment", err)
	}
	d.recordMarker(code, start, length)
	return nil
}

func (d *Decoder) skipUnknown(code uint) error {
	start := d.offset - 2
	_, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("unknown marker", err)
	}
	d.recordMarker(code, start, length)
	d.log.Warnf("skipping unrecognised marker 0x%04x, length %d", code, length)
	return nil
}

// handleAPPnPassthrough recognises APP12/APP13/APP14 (spec §6's marker
// table names them) without attempting to parse their payload: no known
// side-car format in this decoder's scope uses them.
func (d *Decoder) handleAPPnPassthrough(code uint) error {
	return d.skipSegment(code)
}
