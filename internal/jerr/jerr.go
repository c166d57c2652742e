// Package jerr defines the decoder's typed error taxonomy (spec §7) and
// wraps it with github.com/pkg/errors so callers can still recover the
// underlying class with errors.Is/errors.Cause after a segment handler has
// added context.
package jerr

import "github.com/pkg/errors"

// Class is one of the error categories a decode can fail with. Callers that
// need to branch on failure kind (rather than just reporting it) compare
// against these sentinels with errors.Is.
type Class error

var (
	// TruncatedInput means the byte stream ended before a segment or the
	// entropy-coded data it promised was fully present.
	TruncatedInput Class = errors.New("truncated input")

	// UnknownMarker means a marker code outside the supported/reserved
	// ranges was encountered; the segment stream continues by skipping it.
	UnknownMarker Class = errors.New("unknown marker")

	// UnsupportedProfile means the stream uses a coding mode this decoder
	// does not implement: progressive, lossless, arithmetic, CMYK, or a
	// sample precision other than 8 bits.
	UnsupportedProfile Class = errors.New("unsupported profile")

	// MalformedSegment means a segment's length or field values are
	// internally inconsistent.
	MalformedSegment Class = errors.New("malformed segment")

	// HuffmanOutOfRange means a bit sequence was pulled that does not
	// correspond to any code in the active Huffman table.
	HuffmanOutOfRange Class = errors.New("huffman code out of range")

	// RestartResyncFailed means a restart marker could not be located
	// where the restart interval said one should be.
	RestartResyncFailed Class = errors.New("restart marker resync failed")

	// EntropyOverflow means a decoded run/size pair would place a
	// coefficient past position 63 in the data unit.
	EntropyOverflow Class = errors.New("entropy coefficient overflow")

	// UltraHdrMalformed means an XMP packet declared hdrgm fields that do
	// not parse as either the scalar or the RDF-sequence form.
	UltraHdrMalformed Class = errors.New("malformed UltraHDR XMP")

	// SidecarUnrecognised means an APPn payload's signature did not match
	// any recognised sidecar format.
	SidecarUnrecognised Class = errors.New("unrecognised sidecar")
)

// Wrap adds a component prefix to err's message while keeping err (and so
// its Class, via errors.Is) inspectable by the caller.
func Wrap(component string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, component)
}

// Wrapf is Wrap with a formatted prefix.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}

// New forwards to github.com/pkg/errors so callers constructing a fresh
// error alongside these sentinels get the same stack-trace capability.
func New(msg string) error { return errors.New(msg) }

// Is reports whether err is, or wraps, target.
func Is(err, target error) bool { return errors.Is(err, target) }
