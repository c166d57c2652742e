package jpeg

import "github.com/kvistgaard/bjpeg/internal/jerr"

// handleSOF0 parses the baseline Start-Of-Frame segment: sample precision,
// image dimensions, and the component table (id, sampling factors,
// quantisation table selector). Any other SOFn variant never reaches here
// (run's dispatcher rejects them before calling in).
func (d *Decoder) handleSOF0() error {
	start := d.offset - 2
	payload, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("sof0", err)
	}
	d.recordMarker(markerSOF0, start, length)

	if len(payload) < 6 {
		return jerr.Wrap("sof0", jerr.MalformedSegment)
	}
	precision := payload[0]
	if precision != 8 {
		return jerr.Wrapf(jerr.UnsupportedProfile, "sample precision %d", precision)
	}
	height := uint(payload[1])<<8 | uint(payload[2])
	width := uint(payload[3])<<8 | uint(payload[4])
	numComp := int(payload[5])
	if numComp == 4 {
		return jerr.Wrap("sof0", jerr.Wrapf(jerr.UnsupportedProfile, "4-channel CMYK JPEG not supported"))
	}
	if numComp != 1 && numComp != 3 {
		return jerr.Wrapf(jerr.UnsupportedProfile, "%d frame components", numComp)
	}
	if len(payload) < 6+numComp*3 {
		return jerr.Wrap("sof0", jerr.MalformedSegment)
	}

	comps := make([]Component, numComp)
	for i := 0; i < numComp; i++ {
		off := 6 + i*3
		id := payload[off]
		hv := payload[off+1]
		qti := payload[off+2]
		if qti > 3 {
			return jerr.Wrap("sof0", jerr.MalformedSegment)
		}
		if h, v := hv>>4, hv&0x0F; h == 0 || v == 0 || h > 4 || v > 4 {
			return jerr.Wrapf(jerr.MalformedSegment, "sof0: sampling factors %dx%d", h, v)
		}
		comps[i] = Component{ID: id, H: hv >> 4, V: hv & 0x0F, QTI: qti}
	}

	d.components = comps
	d.width = width
	d.height = height
	d.precision = precision
	d.state = stateFrame
	d.report.Frame = FrameReport{Width: width, Height: height, Precision: precision, Components: comps}
	return nil
}

// handleDQT reads one or more quantisation-table definitions from a single
// DQT segment (Pq/Tq byte, then 64 values in zig-zag order, 1 or 2 bytes
// each depending on Pq).
func (d *Decoder) handleDQT() error {
	start := d.offset - 2
	payload, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("dqt", err)
	}
	d.recordMarker(markerDQT, start, length)

	p := 0
	for p < len(payload) {
		pq := payload[p] >> 4
		tq := payload[p] & 0x0F
		p++
		if tq > 3 {
			return jerr.Wrap("dqt", jerr.MalformedSegment)
		}
		qt := &QuantTable{}
		if pq == 0 {
			qt.Precision = 8
			if p+64 > len(payload) {
				return jerr.Wrap("dqt", jerr.MalformedSegment)
			}
			for i := 0; i < 64; i++ {
				qt.Values[i] = uint16(payload[p+i])
			}
			p += 64
		} else {
			qt.Precision = 16
			if p+128 > len(payload) {
				return jerr.Wrap("dqt", jerr.MalformedSegment)
			}
			for i := 0; i < 64; i++ {
				qt.Values[i] = uint16(payload[p+2*i])<<8 | uint16(payload[p+2*i+1])
			}
			p += 128
		}
		d.quantTables[tq] = qt
	}
	return nil
}

// handleDHT reads one or more Huffman-table definitions from a single DHT
// segment (class/id byte, 16 length counts, then that many symbols).
func (d *Decoder) handleDHT() error {
	start := d.offset - 2
	payload, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("dht", err)
	}
	d.recordMarker(markerDHT, start, length)

	p := 0
	for p < len(payload) {
		if p+17 > len(payload) {
			return jerr.Wrap("dht", jerr.MalformedSegment)
		}
		class := payload[p] >> 4
		id := payload[p] & 0x0F
		p++
		if class > 1 || id > 3 {
			return jerr.Wrap("dht", jerr.MalformedSegment)
		}
		var counts [16]byte
		total := 0
		for i := 0; i < 16; i++ {
			counts[i] = payload[p+i]
			total += int(counts[i])
		}
		p += 16
		if p+total > len(payload) {
			return jerr.Wrap("dht", jerr.MalformedSegment)
		}
		symbols := make([]byte, total)
		copy(symbols, payload[p:p+total])
		p += total

		table, err := buildHuffmanTable(counts, symbols)
		if err != nil {
			return jerr.Wrap("dht", err)
		}
		d.huffTables[class][id] = table
	}
	return nil
}

// handleDRI reads the restart interval (in MCUs) that subsequent scans
// honour until redefined.
func (d *Decoder) handleDRI() error {
	start := d.offset - 2
	payload, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("dri", err)
	}
	d.recordMarker(markerDRI, start, length)
	if len(payload) < 2 {
		return jerr.Wrap("dri", jerr.MalformedSegment)
	}
	d.restartInterval = uint(payload[0])<<8 | uint(payload[1])
	d.report.Scan.RestartInterval = d.restartInterval
	return nil
}

// handleCOM records a comment segment's text verbatim; a stream may carry
// more than one, so these accumulate rather than overwrite.
func (d *Decoder) handleCOM() error {
	start := d.offset - 2
	payload, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("com", err)
	}
	d.recordMarker(markerCOM, start, length)
	d.report.Comments = append(d.report.Comments, string(payload))
	return nil
}

// handleSOS parses the scan header, resolves each scan component to its
// frame component and Huffman tables, then hands off to decodeScan for the
// entropy-coded data that immediately follows.
func (d *Decoder) handleSOS() error {
	start := d.offset - 2
	payload, length, err := d.segmentPayload()
	if err != nil {
		return jerr.Wrap("sos", err)
	}
	d.recordMarker(markerSOS, start, length)

	if len(payload) < 1 {
		return jerr.Wrap("sos", jerr.MalformedSegment)
	}
	ns := int(payload[0])
	if ns < 1 || len(payload) < 1+ns*2+3 {
		return jerr.Wrap("sos", jerr.MalformedSegment)
	}

	comps := make([]scanComponent, ns)
	for i := 0; i < ns; i++ {
		sel := payload[1+i*2]
		tabs := payload[1+i*2+1]
		compIdx := -1
		for ci, c := range d.components {
			if c.ID == sel {
				compIdx = ci
				break
			}
		}
		if compIdx == -1 {
			return jerr.Wrap("sos", jerr.MalformedSegment)
		}
		dcID := tabs >> 4
		acID := tabs & 0x0F
		if dcID > 3 || acID > 3 {
			return jerr.Wrap("sos", jerr.MalformedSegment)
		}
		dcTable := d.huffTables[0][dcID]
		acTable := d.huffTables[1][acID]
		if dcTable == nil || acTable == nil {
			return jerr.Wrap("sos", jerr.MalformedSegment)
		}
		comps[i] = scanComponent{compIndex: compIdx, dcTable: dcTable, acTable: acTable}
	}

	ss := payload[1+ns*2]
	se := payload[1+ns*2+1]
	ahAl := payload[1+ns*2+2]
	if ss != 0 || se != 63 || ahAl != 0 {
		d.log.Warnf("sos: Ss/Se/Ah/Al = %d/%d/%d, want 0/63/0 for baseline", ss, se, ahAl)
	}

	d.sosSeen = true
	d.state = stateScan

	br := newBitReader(d.data, d.offset)
	if err := d.decodeScan(br, comps); err != nil {
		return jerr.Wrap("scan", err)
	}
	if br.atEOF {
		return jerr.Wrap("scan", jerr.TruncatedInput)
	}
	d.offset = br.pos
	return nil
}
