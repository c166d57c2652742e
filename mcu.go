package jpeg

import "github.com/kvistgaard/bjpeg/internal/jerr"

// scanComponent pairs one SOS-declared component with the DC/AC Huffman
// tables it was told to use for this scan; compIndex is its position in
// Decoder.components (the SOF0 component order).
type scanComponent struct {
	compIndex int
	dcTable   *huffTable
	acTable   *huffTable
}

// plane holds one component's reconstructed samples for a single MCU, at
// that component's own (possibly subsampled) resolution.
type plane struct {
	w, h int
	data []float64 // row-major, centred on 0 (no level shift applied yet)
}

func (p *plane) at(x, y int) float64 {
	return p.data[y*p.w+x]
}

func (p *plane) set(bx, by int, block [64]float64) {
	for r := 0; r < 8; r++ {
		copy(p.data[(by+r)*p.w+bx:(by+r)*p.w+bx+8], block[r*8:r*8+8])
	}
}

// decodeScan drives the entropy-coded data for one SOS: it walks MCUs in
// raster order, decoding and reconstructing each in turn, consuming restart
// markers at the interval DRI established. The raster is allocated here
// (this decoder handles a single interleaved scan covering every frame
// component, so it is allocated once and filled progressively, MCU by MCU);
// a scan naming fewer components than the frame is rejected.
func (d *Decoder) decodeScan(br *bitReader, comps []scanComponent) error {
	if len(d.components) == 0 {
		return jerr.Wrap("sos", jerr.MalformedSegment)
	}
	if len(comps) != len(d.components) {
		return jerr.Wrapf(jerr.UnsupportedProfile, "scan covers %d of %d frame components", len(comps), len(d.components))
	}

	hmax, vmax := uint8(1), uint8(1)
	for _, c := range d.components {
		if c.H > hmax {
			hmax = c.H
		}
		if c.V > vmax {
			vmax = c.V
		}
	}

	mcuW := 8 * int(hmax)
	mcuH := 8 * int(vmax)
	mcuCols := (int(d.width) + mcuW - 1) / mcuW
	mcuRows := (int(d.height) + mcuH - 1) / mcuH
	totalMCUs := mcuCols * mcuRows

	if d.raster == nil {
		d.raster = newRaster(int(d.width), int(d.height))
	}

	lastDC := make([]int32, len(comps))
	planes := make([]*plane, len(comps))
	for i, sc := range comps {
		c := d.components[sc.compIndex]
		planes[i] = &plane{w: 8 * int(c.H), h: 8 * int(c.V), data: make([]float64, 8*int(c.H)*8*int(c.V))}
	}

	restartIdx := 0
	sinceRestart := 0

	for m := 0; m < totalMCUs; m++ {
		mcuX := m % mcuCols
		mcuY := m / mcuCols

		for i, sc := range comps {
			c := d.components[sc.compIndex]
			qt := d.quantTables[c.QTI]
			if qt == nil {
				return jerr.Wrap("sos", jerr.MalformedSegment)
			}
			for by := 0; by < int(c.V); by++ {
				for bx := 0; bx < int(c.H); bx++ {
					coef, err := decodeBlock(br, sc.dcTable, sc.acTable, &lastDC[i])
					if err != nil {
						return jerr.Wrapf(err, "mcu %d component %d block (%d,%d)", m, c.ID, bx, by)
					}
					block := idct8x8(dequantizeAndDezigzag(&coef, qt))
					planes[i].set(bx*8, by*8, block)
				}
			}
		}

		d.assembleMCU(mcuX*mcuW, mcuY*mcuH, mcuW, mcuH, planes, int(hmax), int(vmax))
		if d.ctl.Mcu {
			d.log.Verbosef("mcu %d/%d reconstructed", m+1, totalMCUs)
		}

		sinceRestart++
		if d.restartInterval > 0 && sinceRestart == int(d.restartInterval) && m != totalMCUs-1 {
			if err := br.consumeRestart(restartIdx); err != nil {
				d.log.Errorf("restart resync failed after mcu %d (expected RST%d): %v", m, restartIdx, err)
				return err
			}
			d.report.Scan.RestartCount++
			restartIdx = (restartIdx + 1) % 8
			for i := range lastDC {
				lastDC[i] = 0
			}
			sinceRestart = 0
		}
	}
	return nil
}

// assembleMCU up-samples every component to the MCU's full hmax*vmax*8x8
// footprint (nearest-neighbour, matching both the teacher's implicit
// behaviour and the only up-sampling filter spec.md names), applies the
// level shift, converts to RGB, and writes clipped pixels into the raster.
// Only the luma channel (or the sole channel, for grayscale) is shifted by
// +128: chroma stays centred on 0 and feeds the colour matrix directly,
// which already expects centred Cb/Cr (ITU-T.871 coefficients).
func (d *Decoder) assembleMCU(originX, originY, mcuW, mcuH int, planes []*plane, hmax, vmax int) {
	grayscale := len(planes) == 1
	for y := 0; y < mcuH; y++ {
		py := d.raster.Height
		if originY+y >= py {
			continue
		}
		for x := 0; x < mcuW; x++ {
			if grayscale {
				c := d.components[0]
				sx := x * int(c.H) / hmax
				sy := y * int(c.V) / vmax
				lum := clamp8(planes[0].at(sx, sy) + 128)
				d.raster.set(originX+x, originY+y, [3]byte{lum, lum, lum})
				continue
			}

			yc := d.components[0]
			cb := d.components[1]
			cr := d.components[2]

			ySample := planes[0].at(x*int(yc.H)/hmax, y*int(yc.V)/vmax) + 128
			cbSample := planes[1].at(x*int(cb.H)/hmax, y*int(cb.V)/vmax)
			crSample := planes[2].at(x*int(cr.H)/hmax, y*int(cr.V)/vmax)

			r := ySample + 1.402*crSample
			g := ySample - 0.344136*cbSample - 0.714136*crSample
			b := ySample + 1.772*cbSample
			d.raster.set(originX+x, originY+y, [3]byte{clamp8(r), clamp8(g), clamp8(b)})
		}
	}
}
