package wfm

// ScopeData is the fully converted content of one waveform file. It is built
// once per parse and never mutated afterwards; renderers read its fields
// directly.
type ScopeData struct {
	// ActiveChannel is the channel selected on the scope UI when the file
	// was saved: CH1, CH2, REF, MATH or LA.
	ActiveChannel string `json:"activeChannel" yaml:"activeChannel"`

	// AlternateTrigger is set when each analog channel carries its own
	// trigger configuration. Trigger is nil in that case; look at the
	// per-channel triggers instead.
	AlternateTrigger bool     `json:"alternateTrigger" yaml:"alternateTrigger"`
	Trigger          *Trigger `json:"trigger,omitempty" yaml:"trigger,omitempty"`

	CH1 *Channel      `json:"ch1" yaml:"ch1"`
	CH2 *Channel      `json:"ch2" yaml:"ch2"`
	LA  *LogicChannel `json:"la" yaml:"la"`
}

// AnalogChannels returns the analog channels in header order.
func (sd *ScopeData) AnalogChannels() []*Channel {
	return []*Channel{sd.CH1, sd.CH2}
}

// Channel is one converted analog channel. Fields past Enabled are only
// meaningful when Enabled is set.
type Channel struct {
	Name    string `json:"channelName" yaml:"channelName"`
	Enabled bool   `json:"enabled" yaml:"enabled"`

	ProbeAttenuation float64 `json:"probeAttenuation,omitempty" yaml:"probeAttenuation,omitempty"`
	Scale            float64 `json:"scale,omitempty" yaml:"scale,omitempty"` // V/div
	Shift            float64 `json:"shift,omitempty" yaml:"shift,omitempty"` // V
	Inverted         bool    `json:"inverted,omitempty" yaml:"inverted,omitempty"`

	SampleRate float64 `json:"samplerate,omitempty" yaml:"samplerate,omitempty"` // samples/s
	TimeScale  float64 `json:"timeScale,omitempty" yaml:"timeScale,omitempty"`   // s/sample
	TimeDelay  float64 `json:"timeDelay,omitempty" yaml:"timeDelay,omitempty"`   // s
	TimeDiv    float64 `json:"timeDiv,omitempty" yaml:"timeDiv,omitempty"`       // s/div

	Trigger *Trigger `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Samples Samples  `json:"samples" yaml:"-"`
}

// NSamples returns the number of valid samples after roll-mode truncation.
func (c *Channel) NSamples() int {
	return len(c.Samples.Raw)
}

// Samples holds the raw and converted sample data of one analog channel.
type Samples struct {
	Raw   []byte    `json:"raw"`
	Volts []float64 `json:"volts"`
	Time  []float64 `json:"time"`
}

// LogicChannel is the 16-line logic analyzer capture.
type LogicChannel struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// ActiveChannel is the logic line focused on the scope UI. Its bit is
	// always set in EnabledChannels.
	ActiveChannel   int   `json:"activeChannel,omitempty" yaml:"activeChannel,omitempty"`
	EnabledChannels []int `json:"enabledChannels,omitempty" yaml:"enabledChannels,omitempty"`

	// Positions is the on-screen ordering of the 16 lines. Group sizes are
	// opaque labels; their exact meaning in the file is not deciphered.
	Positions      []byte `json:"positions,omitempty" yaml:"positions,omitempty,flow"`
	Group0To7Size  string `json:"group0to7size,omitempty" yaml:"group0to7size,omitempty"`
	Group8To15Size string `json:"group8to15size,omitempty" yaml:"group8to15size,omitempty"`

	SampleRate float64 `json:"samplerate,omitempty" yaml:"samplerate,omitempty"`
	TimeScale  float64 `json:"timeScale,omitempty" yaml:"timeScale,omitempty"`
	TimeDelay  float64 `json:"timeDelay,omitempty" yaml:"timeDelay,omitempty"`

	Samples LogicSamples `json:"samples" yaml:"-"`
}

// NSamples returns the number of valid samples after roll-mode truncation.
func (c *LogicChannel) NSamples() int {
	return len(c.Samples.Raw)
}

// LogicSamples holds the 16-bit sample words and the derived per-line bit
// planes, keyed by line number 0-15.
type LogicSamples struct {
	Raw       []uint16       `json:"raw"`
	Time      []float64      `json:"time"`
	ByChannel map[int][]bool `json:"byChannel"`
}

// Trigger describes one decoded trigger configuration. The mode-specific
// fields are populated only for the matching Mode.
type Trigger struct {
	Mode     string `json:"mode" yaml:"mode"`
	Source   string `json:"source" yaml:"source"`
	Coupling string `json:"coupling" yaml:"coupling"`
	Sweep    string `json:"sweep" yaml:"sweep"`

	Sensitivity float64 `json:"sensitivity" yaml:"sensitivity"` // V
	Holdoff     float64 `json:"holdoff" yaml:"holdoff"`         // s
	Level       float64 `json:"level" yaml:"level"`             // V

	EdgeDirection string `json:"edgeDirection,omitempty" yaml:"edgeDirection,omitempty"`

	PulseType  string  `json:"pulseType,omitempty" yaml:"pulseType,omitempty"`
	PulseWidth float64 `json:"pulseWidth,omitempty" yaml:"pulseWidth,omitempty"` // s

	SlopeType       string  `json:"slopeType,omitempty" yaml:"slopeType,omitempty"`
	SlopeLowerLevel float64 `json:"slopeLowerLevel,omitempty" yaml:"slopeLowerLevel,omitempty"` // V
	SlopeWidth      float64 `json:"slopeWidth,omitempty" yaml:"slopeWidth,omitempty"`           // s
	Slope           float64 `json:"slope,omitempty" yaml:"slope,omitempty"`                     // V/s

	VideoPolarity string `json:"videoPol,omitempty" yaml:"videoPol,omitempty"`
	VideoSync     string `json:"videoSync,omitempty" yaml:"videoSync,omitempty"`
	VideoStandard string `json:"videoStd,omitempty" yaml:"videoStd,omitempty"`
}
