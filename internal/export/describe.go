// Package export renders decoded scope data for human and machine
// consumption. All renderers read the ScopeData aggregate; none of them
// touch the input file again.
package export

import (
	"fmt"
	"strings"

	"github.com/mabl/rigolwfm/internal/wfm"
)

// Describe returns a human-readable report of the capture.
func Describe(sd *wfm.ScopeData) string {
	b := &strings.Builder{}

	section(b, "General", '=')
	row(b, "Cur. selected channel", "%s", sd.ActiveChannel)
	row(b, "Alternate trigger", "%v", sd.AlternateTrigger)

	if sd.Trigger != nil {
		section(b, "Trigger", '=')
		describeTrigger(b, sd.Trigger)
	}

	for _, c := range sd.AnalogChannels() {
		section(b, "Channel "+c.Name, '=')
		row(b, "Enabled", "%v", c.Enabled)
		if !c.Enabled {
			continue
		}
		row(b, "Probe attenuation", "%0.1f", c.ProbeAttenuation)
		row(b, "Y grid scale", "%0.3e V/div", c.Scale)
		row(b, "Y shift", "%0.3e V", c.Shift)
		row(b, "Y inverted", "%v", c.Inverted)
		row(b, "Time grid scale", "%0.3e s/div", c.TimeDiv)
		row(b, "Samplerate", "%0.3e Samples/s", c.SampleRate)
		row(b, "Time delay", "%0.3e s", c.TimeDelay)
		row(b, "No. of recorded samples", "%d", c.NSamples())

		if sd.AlternateTrigger && c.Trigger != nil {
			section(b, "Channel "+c.Name+" Trigger", '-')
			describeTrigger(b, c.Trigger)
		}
	}

	la := sd.LA
	section(b, "Logic Analyzer", '=')
	row(b, "Enabled", "%v", la.Enabled)
	if la.Enabled {
		row(b, "Active channel", "D%d", la.ActiveChannel)
		row(b, "Enabled channels", "%v", la.EnabledChannels)
		row(b, "Group 0-7 size", "%s", la.Group0To7Size)
		row(b, "Group 8-15 size", "%s", la.Group8To15Size)
		row(b, "Samplerate", "%0.3e Samples/s", la.SampleRate)
		row(b, "Time delay", "%0.3e s", la.TimeDelay)
		row(b, "No. of recorded samples", "%d", la.NSamples())
	}

	return b.String()
}

func describeTrigger(b *strings.Builder, t *wfm.Trigger) {
	row(b, "Mode", "%s", t.Mode)
	row(b, "Source", "%s", t.Source)
	row(b, "Coupling", "%s", t.Coupling)
	row(b, "Sweep", "%s", t.Sweep)
	row(b, "Holdoff", "%0.3e s", t.Holdoff)
	row(b, "Sensitivity", "%0.3e V", t.Sensitivity)
	row(b, "Level", "%0.3e V", t.Level)

	switch t.Mode {
	case "Edge":
		row(b, "Edge direction", "%s", t.EdgeDirection)
	case "Pulse":
		row(b, "Pulse type", "%s", t.PulseType)
		row(b, "Pulse width", "%0.3e s", t.PulseWidth)
	case "Slope":
		row(b, "Slope type", "%s", t.SlopeType)
		row(b, "Slope lower level", "%0.3e V", t.SlopeLowerLevel)
		row(b, "Slope width", "%0.3e s", t.SlopeWidth)
		row(b, "Slope slope", "%0.3e V/s", t.Slope)
	case "Video":
		row(b, "Video polarity", "%s", t.VideoPolarity)
		row(b, "Video sync", "%s", t.VideoSync)
		row(b, "Video standard", "%s", t.VideoStandard)
	}
}

func section(b *strings.Builder, name string, sep rune) {
	fmt.Fprintf(b, "\n%s\n%s\n", name, strings.Repeat(string(sep), len(name)))
}

func row(b *strings.Builder, label, format string, args ...interface{}) {
	fmt.Fprintf(b, "%-25s: %s\n", label, fmt.Sprintf(format, args...))
}
