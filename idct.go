package jpeg

// dequantizeAndDezigzag multiplies each of the 64 decoded coefficients
// (zig-zag order) by its quantisation table entry and scatters the result
// into row-major order in one pass, the same combined step the teacher's
// decode.go dequantize performed via zigZagRowCol before handing the block
// to its IDCT.
func dequantizeAndDezigzag(coef *[64]int32, qt *QuantTable) [64]float64 {
	var out [64]float64
	for zz := 0; zz < 64; zz++ {
		out[zigZag[zz]] = float64(coef[zz]) * float64(qt.Values[zz])
	}
	return out
}

// AAN (Arai-Agui-Nakajima) scaled IDCT constants, ported from the teacher's
// decode.go inverseDCT8. is0..is7 prescale each of the 8 coefficients along
// an axis before the rotation: this is what folds in the per-frequency
// C(u)=1 (C(0)=1/sqrt(2)) normalisation a bare cosine rotation lacks — drop
// these and every block with AC energy in its first row or column comes out
// at the wrong amplitude, even though a DC-only block still happens to
// decode correctly (the two missing factors cancel there only).
const (
	aanIs0 = 2.828427124746190097603377448419
	aanIs1 = 3.923141121612921796504728944537
	aanIs2 = 3.695518130045147024512732757587
	aanIs3 = 3.325878449210180948315153510472
	aanIs4 = 2.828427124746190097603377448419
	aanIs5 = 2.222280932078408898971323255794
	aanIs6 = 1.530733729460359086913839936122
	aanIs7 = 0.780361288064513071393139473908

	aanIa1 = 1.414213562373095048801688724209
	aanA2  = 0.541196100146196984399723205367
	aanIa3 = 1.414213562373095048801688724209
	aanA4  = 1.306562964876376527856643173427
	aanA5  = 0.382683432365089771728459984030
)

// idct8 runs one 1-D inverse DCT over 8 samples (AAN butterfly, prescaled).
// Because the is0..is7 prescale already carries the correct per-frequency
// normalisation, a single pass returns a fully scaled result: no separate
// overall rescale is needed after running this twice (see idct8x8).
func idct8(s *[8]float64) [8]float64 {
	v15 := s[0] * aanIs0
	v26 := s[1] * aanIs1
	v21 := s[2] * aanIs2
	v28 := s[3] * aanIs3
	v16 := s[4] * aanIs4
	v25 := s[5] * aanIs5
	v22 := s[6] * aanIs6
	v27 := s[7] * aanIs7

	v19 := (v25 - v28) * 0.5
	v20 := (v26 - v27) * 0.5
	v23 := (v26 + v27) * 0.5
	v24 := (v25 + v28) * 0.5

	v7 := (v23 + v24) * 0.5
	v11 := (v21 + v22) * 0.5
	v13 := (v23 - v24) * 0.5
	v17 := (v21 - v22) * 0.5

	v8 := (v15 + v16) * 0.5
	v9 := (v15 - v16) * 0.5

	term := (v19 - v20) * aanA5
	// As in the teacher: 1/(a2*a5 - a2*a4 - a4*a5) simplifies to -1.
	v12 := term - v19*aanA4
	v14 := v20*aanA2 - term

	v6 := v14 - v7
	v5 := v13*aanIa3 - v6
	v4 := -v5 - v12
	v10 := v17*aanIa1 - v11

	v0 := (v8 + v11) * 0.5
	v1 := (v9 + v10) * 0.5
	v2 := (v9 - v10) * 0.5
	v3 := (v8 - v11) * 0.5

	var out [8]float64
	out[0] = (v0 + v7) * 0.5
	out[1] = (v1 + v6) * 0.5
	out[2] = (v2 + v5) * 0.5
	out[3] = (v3 + v4) * 0.5
	out[4] = (v3 - v4) * 0.5
	out[5] = (v2 - v5) * 0.5
	out[6] = (v1 - v6) * 0.5
	out[7] = (v0 - v7) * 0.5
	return out
}

// idct8x8 runs the separable 2-D inverse DCT over a dequantised,
// de-zigzagged 8x8 block: one pass down each column, then one pass along
// each resulting row, the same column-then-row order as the teacher's
// inverseDCT8. Output samples are centred on 0 (the encoder's level shift
// is undone only when the MCU assembler writes these samples out — see
// mcu.go, which adds 128 to luma only).
func idct8x8(in [64]float64) [64]float64 {
	var mid [64]float64
	for col := 0; col < 8; col++ {
		var line [8]float64
		for r := 0; r < 8; r++ {
			line[r] = in[r*8+col]
		}
		t := idct8(&line)
		for r := 0; r < 8; r++ {
			mid[r*8+col] = t[r]
		}
	}
	var out [64]float64
	for row := 0; row < 8; row++ {
		var line [8]float64
		copy(line[:], mid[row*8:row*8+8])
		t := idct8(&line)
		copy(out[row*8:row*8+8], t[:])
	}
	return out
}
