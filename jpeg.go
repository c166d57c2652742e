// Package jpeg implements a baseline sequential JPEG decoder with
// embedded-metadata discovery. Given a JFIF/JPEG byte stream it produces a
// decoded RGB raster plus a structured report of every marker segment and
// any EXIF/ICC/XMP(UltraHDR)/MPF side-car metadata it can find.
//
// Progressive, hierarchical, arithmetic-coded, lossless and 12/16-bit JPEGs
// are not supported; a four-channel (CMYK) frame is recognised and rejected.
// ICC/EXIF/MPF decoders enumerate entries only: no colour transform, no
// EXIF value resolution.
package jpeg

import (
	"github.com/kvistgaard/bjpeg/internal/jlog"
)

// parser state, mirroring the segment-ordering machine ISO/IEC 10918-1
// describes for a non-hierarchical, single-scan (baseline) stream.
const (
	stateInit        = iota // expecting SOI
	stateApplication        // after SOI, expecting APPn/tables/SOF
	stateFrame              // after SOF0, expecting DHT/DQT/DRI/COM/SOS
	stateScan               // after SOS, decoding entropy-coded data
	stateFinal              // after EOI
)

// JPEG marker codes (ISO/IEC 10918-1 Table B.1), folded into one 16-bit
// value (0xFF00 | code) so the dispatcher can switch on a single type.
const (
	markerTEM = 0xFF01

	markerSOF0  = 0xFFC0
	markerSOF1  = 0xFFC1
	markerSOF2  = 0xFFC2
	markerSOF3  = 0xFFC3
	markerDHT   = 0xFFC4
	markerSOF5  = 0xFFC5
	markerSOF6  = 0xFFC6
	markerSOF7  = 0xFFC7
	markerJPG   = 0xFFC8
	markerSOF9  = 0xFFC9
	markerSOF10 = 0xFFCA
	markerSOF11 = 0xFFCB
	markerDAC   = 0xFFCC
	markerSOF13 = 0xFFCD
	markerSOF14 = 0xFFCE
	markerSOF15 = 0xFFCF

	markerRST0 = 0xFFD0
	markerRST7 = 0xFFD7
	markerSOI  = 0xFFD8
	markerEOI  = 0xFFD9
	markerSOS  = 0xFFDA
	markerDQT  = 0xFFDB
	markerDNL  = 0xFFDC
	markerDRI  = 0xFFDD
	markerDHP  = 0xFFDE
	markerEXP  = 0xFFDF

	markerAPP0  = 0xFFE0
	markerAPP1  = 0xFFE1
	markerAPP2  = 0xFFE2
	markerAPP12 = 0xFFEC
	markerAPP13 = 0xFFED
	markerAPP14 = 0xFFEE
	markerAPP15 = 0xFFEF

	markerCOM = 0xFFFE
)

// markerName renders a marker code for diagnostics, the way the teacher's
// format.go named markers for its human-readable dump.
func markerName(m uint) string {
	switch m {
	case markerSOI:
		return "SOI"
	case markerEOI:
		return "EOI"
	case markerSOF0:
		return "SOF0"
	case markerDHT:
		return "DHT"
	case markerDQT:
		return "DQT"
	case markerDRI:
		return "DRI"
	case markerDNL:
		return "DNL"
	case markerSOS:
		return "SOS"
	case markerCOM:
		return "COM"
	case markerAPP0:
		return "APP0"
	case markerAPP1:
		return "APP1"
	case markerAPP2:
		return "APP2"
	case markerAPP12:
		return "APP12"
	case markerAPP13:
		return "APP13"
	case markerAPP14:
		return "APP14"
	}
	if isNonBaselineSOF(m) {
		return "SOFn (non-baseline)"
	}
	if m >= markerRST0 && m <= markerRST7 {
		return "RSTm"
	}
	if m >= markerAPP0 && m <= markerAPP15 {
		return "APPn"
	}
	return "unknown"
}

// isNonBaselineSOF reports whether m is a Start-Of-Frame marker this decoder
// explicitly refuses: extended sequential, progressive, lossless, arithmetic
// or differential.
func isNonBaselineSOF(m uint) bool {
	switch m {
	case markerSOF1, markerSOF2, markerSOF3, markerSOF5, markerSOF6, markerSOF7,
		markerSOF9, markerSOF10, markerSOF11, markerSOF13, markerSOF14, markerSOF15:
		return true
	}
	return false
}

// zigZag maps a zig-zag scan index (JPEG Figure A.6) to the row-major
// position it belongs in, computed once at init the way the teacher keeps
// zigZagRowCol as package-scope static data.
var zigZag [64]int

func init() {
	row, col := 0, 0
	goingUp := true
	for idx := 0; idx < 64; idx++ {
		zigZag[idx] = row*8 + col
		switch {
		case goingUp && col == 7:
			row++
			goingUp = false
		case goingUp && row == 0:
			col++
			goingUp = false
		case goingUp:
			row--
			col++
		case !goingUp && row == 7:
			col++
			goingUp = true
		case !goingUp && col == 0:
			row++
			goingUp = true
		default:
			row++
			col--
		}
	}
}

// Control carries the per-decode knobs a caller supplies; Control is never
// shared between decoders (spec §5: all state is created fresh per decode).
type Control struct {
	Warn    bool         // log inconsistencies that are not hard errors
	Markers bool         // log every marker as it is parsed
	Mcu     bool         // log every MCU as it is reconstructed
	Logger  *jlog.Logger // nil means a silent, counting-only logger is used
}

// Component describes one frame component as declared in SOF0: its id, its
// horizontal/vertical sampling factors, and which quantisation table it uses.
type Component struct {
	ID  uint8
	H   uint8
	V   uint8
	QTI uint8
}

// QuantTable is one DQT destination: 64 coefficients in zig-zag order, and
// whether they were encoded as 8-bit or 16-bit values.
type QuantTable struct {
	Precision uint // 8 or 16
	Values    [64]uint16
}

// Decoder holds all state for a single decode call. It is created fresh by
// Decode, mutated only by segment handlers and the entropy pipeline, and
// discarded by the caller when done; there is no state shared between
// decoders (spec §5).
type Decoder struct {
	data   []byte
	offset int
	state  int

	log *jlog.Logger
	ctl Control

	report Report

	quantTables [4]*QuantTable
	huffTables  [2][4]*huffTable // [class][id]: class 0=DC, 1=AC

	components      []Component
	restartInterval uint
	width, height   uint // true (unpadded) image size, from SOF0
	precision       uint8

	sosSeen bool
	raster  *Raster

	iccBuf       []byte // accumulates ICC_PROFILE APP2 chunks until the last one arrives
	iccChunkSeen int
	iccChunkWant int
}

// Result is everything a caller gets back from Decode: the reconstructed
// raster (nil if the stream never reached a scan; it is allocated before the
// scan's first MCU is decoded, so a scan that fails partway leaves it partly
// filled), the marker-by-marker report, and the logger used —
// its ErrorCount/WarnCount say whether the raster is trustworthy.
type Result struct {
	Raster *Raster
	Report Report
	Logger *jlog.Logger
}

// Decode parses data as a single JFIF/JPEG byte stream and reconstructs its
// baseline-encoded raster. ctl may be nil, in which case defaults (no
// verbose logging, a silent counting logger) are used.
//
// Decode never panics on malformed input: every failure mode surfaces as an
// error from internal/jerr, optionally alongside a partially built Result
// (a non-nil Result.Raster with Result.Logger.ErrorCount() > 0 means some
// MCUs reconstructed before the failure and should not be trusted).
func Decode(data []byte, ctl *Control) (*Result, error) {
	d := newDecoder(data, ctl)
	err := d.run()
	res := &Result{
		Raster: d.raster,
		Report: d.report,
		Logger: d.log,
	}
	return res, err
}

func newDecoder(data []byte, ctl *Control) *Decoder {
	d := &Decoder{data: data, state: stateInit}
	if ctl != nil {
		d.ctl = *ctl
	}
	if d.ctl.Logger != nil {
		d.log = d.ctl.Logger
	} else {
		d.log = jlog.NewSilent()
	}
	return d
}
