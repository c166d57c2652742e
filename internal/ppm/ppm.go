// Package ppm writes a decoded raster out as an ASCII PPM (P3) image — the
// thin, external-collaborator output format spec.md specifies at the
// interface level only. It has no dependency on the decoder package beyond
// the plain (width, height, pixel-bytes) shape any RGB8 raster has.
package ppm

import (
	"bufio"
	"fmt"
	"io"
)

const writeBufferSize = 1 << 20

// Raster is the minimal shape Write needs; jpeg.Raster satisfies it by
// field access, kept here as an explicit parameter list instead of an
// interface so callers outside this module can use it with any RGB8 buffer.
func Write(w io.Writer, width, height int, pix []byte) error {
	if len(pix) != width*height*3 {
		return fmt.Errorf("ppm: pixel buffer length %d does not match %dx%d RGB8", len(pix), width, height)
	}
	bw := bufio.NewWriterSize(w, writeBufferSize)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		row := pix[y*width*3 : (y+1)*width*3]
		for x := 0; x < width; x++ {
			r, g, b := row[x*3], row[x*3+1], row[x*3+2]
			sep := " "
			if x == width-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(bw, "%d %d %d%s", r, g, b, sep); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
