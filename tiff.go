package jpeg

import (
	"encoding/binary"

	"github.com/kvistgaard/bjpeg/internal/jerr"
)

// tiffFormat is a TIFF IFD entry's type field (TIFF 6.0 §2, "Type"). Values
// outside 1..12 are recorded as FormatUnknown rather than treated as a
// parse failure: original_source/src/Tiff.h keeps walking the rest of the
// IFD when one entry's format code is bogus, and bjpeg keeps that
// behaviour — one malformed tag does not invalidate the whole IFD.
type tiffFormat int

const (
	FormatUnknown tiffFormat = iota
	FormatByte
	FormatASCII
	FormatShort
	FormatLong
	FormatRational
	FormatSByte
	FormatUndefined
	FormatSShort
	FormatSLong
	FormatSRational
	FormatFloat
	FormatDouble
)

func tiffFormatFromCode(code uint16) tiffFormat {
	if code >= 1 && code <= 12 {
		return tiffFormat(code)
	}
	return FormatUnknown
}

// IFDEntry is one 12-byte TIFF directory entry, kept in its raw form: the
// substrate enumerates tags, it does not resolve values (spec: ICC/EXIF/MPF
// decoders "enumerate entries only").
type IFDEntry struct {
	Tag      uint16
	Format   tiffFormat
	Count    uint32
	RawValue [4]byte // the value/offset field, exactly as it appears on the wire
}

// TiffWalker parses a TIFF header and walks IFDs within one byte buffer,
// shared verbatim between the EXIF (APP1) and MPF (APP2) side-cars — both
// are, per original_source/src/MpfDec.h, a TiffDecoder with a different tag
// table, not two separate parsers.
type TiffWalker struct {
	data  []byte
	order binary.ByteOrder
	first uint32
}

// NewTiffWalker parses the 8-byte TIFF header at the start of data (byte
// order mark, the fixed 42 sanity value, and the first IFD's offset) and
// returns a walker positioned to read that first IFD.
func NewTiffWalker(data []byte) (*TiffWalker, error) {
	if len(data) < 8 {
		return nil, jerr.Wrap("tiff header", jerr.TruncatedInput)
	}
	var order binary.ByteOrder
	switch {
	case data[0] == 'I' && data[1] == 'I':
		order = binary.LittleEndian
	case data[0] == 'M' && data[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, jerr.Wrap("tiff header", jerr.MalformedSegment)
	}
	if order.Uint16(data[2:4]) != 0x002A {
		return nil, jerr.Wrap("tiff header", jerr.MalformedSegment)
	}
	return &TiffWalker{data: data, order: order, first: order.Uint32(data[4:8])}, nil
}

// FirstIFDOffset returns the offset (relative to the TIFF header) of IFD0.
func (w *TiffWalker) FirstIFDOffset() uint32 { return w.first }

// ReadIFD parses the IFD at offset, returning its entries and the offset of
// the next IFD in the chain (0 if this was the last one). A truncated
// entry near the end of the buffer stops the walk early with whatever
// entries were already read rather than failing outright.
func (w *TiffWalker) ReadIFD(offset uint32) ([]IFDEntry, uint32, error) {
	if int(offset)+2 > len(w.data) {
		return nil, 0, jerr.Wrap("ifd", jerr.TruncatedInput)
	}
	count := w.order.Uint16(w.data[offset : offset+2])
	entries := make([]IFDEntry, 0, count)
	pos := int(offset) + 2
	for i := 0; i < int(count); i++ {
		if pos+12 > len(w.data) {
			break
		}
		tag := w.order.Uint16(w.data[pos : pos+2])
		formatCode := w.order.Uint16(w.data[pos+2 : pos+4])
		cnt := w.order.Uint32(w.data[pos+4 : pos+8])
		var raw [4]byte
		copy(raw[:], w.data[pos+8:pos+12])
		entries = append(entries, IFDEntry{
			Tag: tag, Format: tiffFormatFromCode(formatCode), Count: cnt, RawValue: raw,
		})
		pos += 12
	}
	var next uint32
	if pos+4 <= len(w.data) {
		next = w.order.Uint32(w.data[pos : pos+4])
	}
	return entries, next, nil
}

// ShortValue reads e's value field as a single SHORT, the way a 2-byte
// value is left-justified within the 4-byte field regardless of byte order.
func (w *TiffWalker) ShortValue(e IFDEntry) uint16 {
	if w.order == binary.BigEndian {
		return uint16(e.RawValue[0])<<8 | uint16(e.RawValue[1])
	}
	return uint16(e.RawValue[0]) | uint16(e.RawValue[1])<<8
}

// LongValue reads e's value field as a single LONG/offset.
func (w *TiffWalker) LongValue(e IFDEntry) uint32 {
	return w.order.Uint32(e.RawValue[:])
}
