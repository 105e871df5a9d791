package wfm

import (
	"math"

	"github.com/mabl/rigolwfm/internal/record"
)

// decodeTrigger maps one raw trigger header to symbolic names and fills in
// the fields of its mode. An enumerant outside its lookup table is a fatal
// decode error.
func decodeTrigger(hdr *record.Record) (*Trigger, error) {
	t := &Trigger{
		Sensitivity: hdr.Float("sens"),
		Holdoff:     hdr.Float("holdoff"),
		Level:       hdr.Float("level"),
	}

	var err error
	if t.Mode, err = lookup(triggerModeNames, "trigger mode", hdr.Uint("mode")); err != nil {
		return nil, err
	}
	if t.Source, err = lookup(triggerSourceNames, "trigger source", hdr.Uint("source")); err != nil {
		return nil, err
	}
	if t.Coupling, err = lookup(couplingNames, "trigger coupling", hdr.Uint("coupling")); err != nil {
		return nil, err
	}
	if t.Sweep, err = lookup(sweepNames, "trigger sweep", hdr.Uint("sweep")); err != nil {
		return nil, err
	}

	switch t.Mode {
	case "Edge":
		if t.EdgeDirection, err = lookup(edgeDirectionNames, "edge direction", hdr.Uint("direct")); err != nil {
			return nil, err
		}

	case "Pulse":
		if t.PulseType, err = lookup(pulseTypeNames, "pulse type", hdr.Uint("pulseType")); err != nil {
			return nil, err
		}
		t.PulseWidth = hdr.Float("pulseWidth")

	case "Slope":
		if t.SlopeType, err = lookup(slopeTypeNames, "slope type", hdr.Uint("slopeType")); err != nil {
			return nil, err
		}
		t.SlopeLowerLevel = hdr.Float("slopeLower")
		t.SlopeWidth = hdr.Float("slopeWidth")
		if t.SlopeWidth == 0 {
			// A width of zero would be a vertical edge.
			t.Slope = math.Inf(1)
		} else {
			t.Slope = (t.Level - t.SlopeLowerLevel) / t.SlopeWidth
		}

	case "Video":
		if t.VideoPolarity, err = lookup(videoPolarityNames, "video polarity", hdr.Uint("videoPol")); err != nil {
			return nil, err
		}
		if t.VideoSync, err = lookup(videoSyncNames, "video sync", hdr.Uint("videoSync")); err != nil {
			return nil, err
		}
		if t.VideoStandard, err = lookup(videoStandardNames, "video standard", hdr.Uint("videoStd")); err != nil {
			return nil, err
		}
	}

	return t, nil
}
