package jpeg

import "github.com/kvistgaard/bjpeg/internal/jerr"

// huffTable is a canonical, length-indexed Huffman decode table (JPEG Annex
// C/F), not the pointer-chasing binary tree the teacher's buildTree built.
// Annex F's decode procedure needs only three small per-length arrays
// (mincode/maxcode/valptr) and the flat symbol list — no node allocation,
// no tree walk, and the whole table fits in a handful of cache lines.
type huffTable struct {
	mincode [17]int32 // mincode[l]: smallest l-bit code, valid only if maxcode[l] != -1
	maxcode [17]int32 // maxcode[l] == -1 means no code of length l exists
	valptr  [17]int32 // index into values of the first l-bit code's symbol
	values  []byte
}

// buildHuffmanTable constructs a canonical decode table from a DHT
// sub-table: counts[i] is the number of codes of length i+1 (i in 0..15),
// and symbols lists every symbol in canonical order (shortest code first,
// and lexicographic among equal lengths) as ISO/IEC 10918-1 Annex C.2
// assigns them.
func buildHuffmanTable(counts [16]byte, symbols []byte) (*huffTable, error) {
	var huffsize [257]byte
	k := 0
	for length := 1; length <= 16; length++ {
		for i := 0; i < int(counts[length-1]); i++ {
			if k >= 256 {
				return nil, jerr.MalformedSegment
			}
			huffsize[k] = byte(length)
			k++
		}
	}
	if k != len(symbols) {
		return nil, jerr.Wrapf(jerr.MalformedSegment, "huffman table: %d codes but %d symbols", k, len(symbols))
	}
	huffsize[k] = 0

	var huffcode [256]uint32
	code := uint32(0)
	si := huffsize[0]
	k = 0
	for huffsize[k] != 0 {
		for huffsize[k] == si {
			huffcode[k] = code
			code++
			k++
		}
		code <<= 1
		si++
	}

	t := &huffTable{values: symbols}
	for i := range t.maxcode {
		t.maxcode[i] = -1
	}
	p := 0
	for length := 1; length <= 16; length++ {
		n := int(counts[length-1])
		if n == 0 {
			continue
		}
		t.valptr[length] = int32(p)
		t.mincode[length] = int32(huffcode[p])
		p += n
		t.maxcode[length] = int32(huffcode[p-1])
	}
	return t, nil
}

// decode reads bits from br one at a time until they match a code in t,
// following the canonical HUFF_DECODE procedure (ISO/IEC 10918-1 Annex F,
// as implemented by every baseline decoder from libjpeg onward): widen the
// running code by one bit per iteration and compare against maxcode[l]
// until a length is found whose maximum is not exceeded.
func (t *huffTable) decode(br *bitReader) (byte, error) {
	bit, status := br.pullBit()
	if status != bitOK {
		return 0, statusErr(status)
	}
	length := 1
	code := int32(bit)
	for t.maxcode[length] == -1 || code > t.maxcode[length] {
		bit, status := br.pullBit()
		if status != bitOK {
			return 0, statusErr(status)
		}
		code = (code << 1) | int32(bit)
		length++
		if length > 16 {
			return 0, jerr.HuffmanOutOfRange
		}
	}
	idx := t.valptr[length] + (code - t.mincode[length])
	if idx < 0 || int(idx) >= len(t.values) {
		return 0, jerr.HuffmanOutOfRange
	}
	return t.values[idx], nil
}

// statusErr turns a non-OK bitStatus into the error a Huffman/entropy
// caller should propagate. Both a marker appearing mid-code and the input
// simply running out mean the same thing to the entropy decoder: the
// stream ended before this symbol's bits did.
func statusErr(status bitStatus) error {
	_ = status
	return jerr.TruncatedInput
}
