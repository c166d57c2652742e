package jpeg

import "github.com/kvistgaard/bjpeg/internal/jerr"

// decodeBlock decodes one 8x8 data unit's worth of DC/AC coefficients from
// br, in zig-zag order, the way every baseline JPEG decoder's inner loop
// does: one DC size/value pair (differential against lastDC), then
// run/size AC pairs until an end-of-block (0x00) or all 63 AC positions are
// filled.
func decodeBlock(br *bitReader, dcTable, acTable *huffTable, lastDC *int32) ([64]int32, error) {
	var coef [64]int32

	size, err := dcTable.decode(br)
	if err != nil {
		return coef, jerr.Wrap("dc huffman", err)
	}
	if size > 15 {
		return coef, jerr.Wrap("dc", jerr.EntropyOverflow)
	}
	diff, status := br.pullSigned(uint(size))
	if status != bitOK {
		return coef, jerr.Wrap("dc value", statusErr(status))
	}
	*lastDC += diff
	coef[0] = *lastDC

	k := 1
	for k <= 63 {
		rs, err := acTable.decode(br)
		if err != nil {
			return coef, jerr.Wrap("ac huffman", err)
		}
		run := int(rs >> 4)
		size := rs & 0x0F
		if rs == 0x00 { // EOB
			break
		}
		if rs == 0xF0 { // ZRL: 16 zero-valued coefficients
			k += 16
			continue
		}
		k += run
		if k > 63 {
			return coef, jerr.EntropyOverflow
		}
		val, status := br.pullSigned(uint(size))
		if status != bitOK {
			return coef, jerr.Wrap("ac value", statusErr(status))
		}
		coef[k] = val
		k++
	}
	return coef, nil
}
