package jpeg

import (
	"regexp"
	"strconv"
)

// XMPReport is the UltraHDR gain-map metadata recovered from an XMP
// packet, grounded on original_source/src/UltraHdr.h's ParseXmp/ParseValues.
// HasUltraHDR gates every other field: Version and GainMapMax are the two
// fields whose absence means "not an UltraHDR gain map at all", matching
// the original's own minimum-viable check.
type XMPReport struct {
	HasUltraHDR        bool
	Version            string
	GainMapMin         float64
	GainMapMax         float64
	Gamma              float64
	OffsetSDR          float64
	OffsetHDR          float64
	CapacityMin        float64
	CapacityMax        float64
	BaseRenditionIsHDR bool
}

var numberPattern = `[+-]?[0-9]*\.?[0-9]+`

var versionRe = regexp.MustCompile(`hdrgm:Version="([^"]*)"`)
var baseRenditionRe = regexp.MustCompile(`hdrgm:BaseRenditionIsHDR="(True|False)"`)

// handleXMP parses an APP1 XMP payload (after the Adobe XMP signature) for
// an embedded UltraHDR gain-map packet.
func (d *Decoder) handleXMP(packet []byte) error {
	text := string(packet)
	report := &XMPReport{}

	version, hasVersion := versionRe.FindStringSubmatch(text), false
	if version != nil {
		report.Version = version[1]
		hasVersion = true
	}

	gainMapMax, hasMax := parseXMPField(text, "GainMapMax")
	if !hasVersion || !hasMax {
		// Required-field gate (spec §4.J): missing Version or GainMapMax
		// means this packet is not a gain map at all — every other field
		// is left at its zero value, not partially populated.
		d.report.Sidecars.XMP = &XMPReport{}
		return nil
	}
	report.GainMapMax = gainMapMax
	report.HasUltraHDR = true

	if v, ok := parseXMPField(text, "GainMapMin"); ok {
		report.GainMapMin = v
	}
	if v, ok := parseXMPField(text, "Gamma"); ok {
		report.Gamma = v
	} else {
		report.Gamma = 1.0
	}
	if v, ok := parseXMPField(text, "OffsetSDR"); ok {
		report.OffsetSDR = v
	} else {
		report.OffsetSDR = 1.0 / 64.0
	}
	if v, ok := parseXMPField(text, "OffsetHDR"); ok {
		report.OffsetHDR = v
	} else {
		report.OffsetHDR = 1.0 / 64.0
	}
	if v, ok := parseXMPField(text, "HDRCapacityMin"); ok {
		report.CapacityMin = v
	}
	if v, ok := parseXMPField(text, "HDRCapacityMax"); ok {
		report.CapacityMax = v
	} else {
		report.CapacityMax = report.GainMapMax
	}
	if m := baseRenditionRe.FindStringSubmatch(text); m != nil {
		report.BaseRenditionIsHDR = m[1] == "True"
	}

	d.report.Sidecars.XMP = report
	return nil
}

// parseXMPField recognizes both forms the UltraHDR spec allows for a
// numeric field: the scalar attribute (hdrgm:Field="value") and the
// RDF-sequence form (exactly three <rdf:li> values). The sequence form's
// first value is taken as the scalar; per-channel gain maps collapse to one
// representative value the way a caller with no colour-matrix stage needs.
func parseXMPField(text, field string) (float64, bool) {
	scalar := regexp.MustCompile(`hdrgm:` + field + `="(` + numberPattern + `)"`)
	if m := scalar.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v, true
		}
	}
	seq := regexp.MustCompile(`(?s)hdrgm:` + field + `>[ \t\r\n]*<rdf:Seq>[ \t\r\n]*` +
		`<rdf:li>(` + numberPattern + `)</rdf:li>[ \t\r\n]*` +
		`<rdf:li>(` + numberPattern + `)</rdf:li>[ \t\r\n]*` +
		`<rdf:li>(` + numberPattern + `)</rdf:li>[ \t\r\n]*</rdf:Seq>`)
	if m := seq.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}
