package wfm

import "github.com/mabl/rigolwfm/internal/record"

// Wire layouts of the DS1000-series waveform file. The overall file is:
//
//	+----------------------+
//	| file header          |
//	|   channel header 1   |
//	|   channel header 2   |
//	|   timebase header 1  |
//	|   LA channel header  |
//	|   trigger mode       |
//	|   trigger header 1   |
//	|   trigger header 2   |
//	|   timebase header 2  |
//	| LA sample rate (opt) |
//	+----------------------+
//	| sample payload       |
//	+----------------------+
//
// The trailing LA sample rate exists only in newer firmware revisions; its
// presence is inferred from the byte count left after the fixed header.
//
// Fields with unknown meaning carry expect-class rules pinned to the values
// observed on real captures, so atypical files still decode in lenient mode.

const magicNumber = 0xa5a5

var chanDesc = &record.Desc{
	Name: "chanHdr",
	Fields: []record.Field{
		{Name: "scaleD", Kind: record.I32},
		{Name: "shiftD", Kind: record.I16},
		{Name: "unusedA", Kind: record.U16, Rule: record.Expected(record.Eq, 0)},
		{Name: "probeAtt", Kind: record.F32, Rule: record.Required(record.Gt, 0)},
		{Name: "invertD", Kind: record.U8},
		{Name: "written", Kind: record.U8},
		{Name: "invertM", Kind: record.U8},
		{Name: "unusedB", Kind: record.U8, Rule: record.Expected(record.Eq, 0)},
		{Name: "scaleM", Kind: record.I32},
		{Name: "shiftM", Kind: record.I16},
		{Name: "unusedC", Kind: record.U16, Rule: record.Expected(record.Eq, 0)},
	},
}

var timeDesc = &record.Desc{
	Name: "timeHdr",
	Fields: []record.Field{
		{Name: "scaleD", Kind: record.I64},
		{Name: "delayD", Kind: record.I64},
		{Name: "smpRate", Kind: record.F32, Rule: record.Required(record.Ge, 0)},
		{Name: "scaleM", Kind: record.I64},
		{Name: "delayM", Kind: record.I64},
	},
}

var laDesc = &record.Desc{
	Name: "laHdr",
	Fields: []record.Field{
		{Name: "written", Kind: record.U8},
		{Name: "activeCh", Kind: record.U8, Rule: record.Required(record.Le, 15)},
		{Name: "enabledCh", Kind: record.U16},
		{Name: "positions", Kind: record.Raw, Len: 16},
		{Name: "group0to7size", Kind: record.U8, Rule: record.ExpectedIn(7, 15)},
		{Name: "group8to15size", Kind: record.U8, Rule: record.ExpectedIn(7, 15)},
	},
}

var trigDesc = &record.Desc{
	Name: "trigHdr",
	Fields: []record.Field{
		{Name: "mode", Kind: record.U8, Rule: record.ExpectedIn(0, 1, 2, 3, 4)},
		{Name: "source", Kind: record.U8},
		{Name: "coupling", Kind: record.U8},
		{Name: "sweep", Kind: record.U8},
		{Name: "unusedA", Kind: record.U8, Rule: record.Expected(record.Eq, 0)},
		{Name: "sens", Kind: record.F32},
		{Name: "holdoff", Kind: record.F32},
		{Name: "level", Kind: record.F32},
		{Name: "direct", Kind: record.U8},
		{Name: "pulseType", Kind: record.U8},
		{Name: "unusedB", Kind: record.U16, Rule: record.Expected(record.Eq, 0)},
		{Name: "pulseWidth", Kind: record.F32},
		{Name: "slopeType", Kind: record.U8},
		{Name: "unusedC", Kind: record.Raw, Len: 3, Rule: record.Expected(record.Eq, record.Zeros(3))},
		{Name: "slopeLower", Kind: record.F32},
		{Name: "slopeWidth", Kind: record.F32},
		{Name: "videoPol", Kind: record.U8},
		{Name: "videoSync", Kind: record.U8},
		{Name: "videoStd", Kind: record.U8},
	},
}

var wfmDesc = &record.Desc{
	Name: "wfmHdr",
	Fields: []record.Field{
		{Name: "magic", Kind: record.U16, Rule: record.Required(record.Eq, magicNumber)},
		{Name: "unusedA", Kind: record.Raw, Len: 12, Rule: record.Expected(record.Eq, record.Zeros(12))},
		{Name: "rollStop", Kind: record.U32},
		{Name: "unusedB", Kind: record.Raw, Len: 10, Rule: record.Expected(record.Eq, record.Zeros(10))},
		{Name: "points1", Kind: record.U32},
		{Name: "activeCh", Kind: record.U8, Rule: record.RequiredIn(1, 2, 3, 4, 5)},
		{Name: "unusedC", Kind: record.Raw, Len: 3, Rule: record.Expected(record.Eq, record.Zeros(3))},
		{Name: "ch1", Kind: record.Sub, Sub: chanDesc},
		{Name: "ch2", Kind: record.Sub, Sub: chanDesc},
		{Name: "timebase1", Kind: record.Sub, Sub: timeDesc},
		{Name: "la", Kind: record.Sub, Sub: laDesc},
		{Name: "trigMode", Kind: record.U8, Rule: record.ExpectedIn(0, 1, 2, 3, 4)},
		{Name: "trig1", Kind: record.Sub, Sub: trigDesc},
		{Name: "trig2", Kind: record.Sub, Sub: trigDesc},
		{Name: "unusedD", Kind: record.Raw, Len: 9, Rule: record.Expected(record.Eq, record.Zeros(9))},
		{Name: "points2", Kind: record.U32},
		{Name: "timebase2", Kind: record.Sub, Sub: timeDesc},
	},
}

// Trailing header field of the newer format revision.
var laSmpRateDesc = &record.Desc{
	Name: "laSmpRateHdr",
	Fields: []record.Field{
		{Name: "smpRate", Kind: record.F32, Rule: record.Required(record.Ge, 0)},
	},
}

var activeChannelNames = []string{"CH1", "CH2", "REF", "MATH", "LA"}

var (
	triggerModeNames   = []string{"Edge", "Pulse", "Slope", "Video", "Alternate"}
	triggerSourceNames = []string{"CH1", "CH2", "EXT", "AC Line"}
	couplingNames      = []string{"DC", "LF Reject", "HF Reject", "AC"}
	sweepNames         = []string{"Auto", "Normal", "Single"}
	edgeDirectionNames = []string{"RISE", "FALL", "BOTH"}
	pulseTypeNames     = []string{"POS >", "POS <", "POS =", "NEG >", "NEG <", "NEG ="}
	slopeTypeNames     = []string{"RISE >", "RISE <", "RISE =", "FALL >", "FALL <", "FALL ="}
	videoPolarityNames = []string{"POS", "NEG"}
	videoSyncNames     = []string{"All Lines", "Line Num", "Odd Field", "Even Field"}
	videoStandardNames = []string{"NTSC", "PAL/SECAM"}
)

func lookup(table []string, what string, idx uint64) (string, error) {
	if idx >= uint64(len(table)) {
		return "", record.Errorf("%s enumerant %d out of range (max %d)", what, idx, len(table)-1)
	}
	return table[idx], nil
}
