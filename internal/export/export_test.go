package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mabl/rigolwfm/internal/wfm"
)

func testChannel(name string, volts []float64, rate float64) *wfm.Channel {
	raw := make([]byte, len(volts))
	times := make([]float64, len(volts))
	for i := range volts {
		raw[i] = byte(125 - int(volts[i]*25))
		times[i] = (float64(i) - float64(len(volts))/2) / rate
	}
	return &wfm.Channel{
		Name:             name,
		Enabled:          true,
		ProbeAttenuation: 1,
		Scale:            1,
		SampleRate:       rate,
		TimeScale:        1 / rate,
		Samples:          wfm.Samples{Raw: raw, Volts: volts, Time: times},
	}
}

func testScopeData() *wfm.ScopeData {
	return &wfm.ScopeData{
		ActiveChannel: "CH1",
		Trigger: &wfm.Trigger{
			Mode: "Edge", Source: "CH1", Coupling: "DC", Sweep: "Auto",
			EdgeDirection: "RISE",
		},
		CH1: testChannel("CH1", []float64{0, 1, 2, 1}, 1e6),
		CH2: &wfm.Channel{Name: "CH2"},
		LA: &wfm.LogicChannel{
			Enabled:         true,
			ActiveChannel:   0,
			EnabledChannels: []int{0, 3},
			Group0To7Size:   "small",
			Group8To15Size:  "big",
			SampleRate:      1e6,
			TimeScale:       1e-6,
			Samples: wfm.LogicSamples{
				Raw:  []uint16{0b1001, 0b1001, 0b0000, 0b0001},
				Time: []float64{0, 1e-6, 2e-6, 3e-6},
				ByChannel: map[int][]bool{
					0: {true, true, false, true},
					3: {true, true, false, false},
				},
			},
		},
	}
}

func TestDescribe(t *testing.T) {
	out := Describe(testScopeData())
	for _, want := range []string{
		fmt.Sprintf("%-25s: CH1", "Cur. selected channel"),
		"Channel CH1",
		fmt.Sprintf("%-25s: RISE", "Edge direction"),
		fmt.Sprintf("%-25s: 4", "No. of recorded samples"),
		"Logic Analyzer",
		fmt.Sprintf("%-25s: [0 3]", "Enabled channels"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report should contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Channel CH2 Trigger") {
		t.Error("disabled channel should not get a trigger section")
	}
}

func TestWriteCSVShared(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteCSV(buf, testScopeData()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "X,CH1" || lines[1] != "Second,Volt" {
		t.Errorf("header rows: got %q, %q", lines[0], lines[1])
	}
	if len(lines) != 6 {
		t.Fatalf("want 2 header + 4 sample rows, got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[3], ",1.00e+00") {
		t.Errorf("second sample row: got %q", lines[3])
	}
}

func TestWriteCSVAlternate(t *testing.T) {
	sd := testScopeData()
	sd.AlternateTrigger = true
	sd.Trigger = nil
	sd.CH2 = testChannel("CH2", []float64{1, 1}, 2e6)

	buf := &bytes.Buffer{}
	if err := WriteCSV(buf, sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "X(CH1),CH1,X(CH2),CH2" {
		t.Errorf("header row: got %q", lines[0])
	}
	// CH2 is shorter; its columns run out after two samples.
	if !strings.HasSuffix(lines[4], ",,") {
		t.Errorf("row past CH2 length should have empty cells: %q", lines[4])
	}
}

func TestWriteCSVNoData(t *testing.T) {
	sd := &wfm.ScopeData{CH1: &wfm.Channel{Name: "CH1"}, CH2: &wfm.Channel{Name: "CH2"}, LA: &wfm.LogicChannel{}}
	if err := WriteCSV(&bytes.Buffer{}, sd); err == nil {
		t.Fatal("want error when no channel is enabled")
	}
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteJSON(buf, testScopeData()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := map[string]interface{}{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["activeChannel"] != "CH1" {
		t.Errorf("activeChannel: got %v", decoded["activeChannel"])
	}
	ch1 := decoded["ch1"].(map[string]interface{})
	samples := ch1["samples"].(map[string]interface{})
	if got := len(samples["volts"].([]interface{})); got != 4 {
		t.Errorf("volts length: got %d", got)
	}
}

func TestWriteSummaryYAMLOmitsSamples(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteSummaryYAML(buf, testScopeData()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "activeChannel: CH1") {
		t.Errorf("summary should contain the active channel:\n%s", out)
	}
	if strings.Contains(out, "volts") {
		t.Errorf("summary should not contain sample data:\n%s", out)
	}
}

func TestWriteVCD(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteVCD(buf, testScopeData()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"$timescale 1ps $end",
		"$var wire 1 ! D0 $end",
		"$var wire 1 $ D3 $end",
		"#0\n1!\n1$",  // initial state of both lines
		"#2000000\n0!\n0$", // both lines drop at the third sample
		"#3000000\n1!",     // line 0 rises again
	} {
		if !strings.Contains(out, want) {
			t.Errorf("VCD should contain %q:\n%s", want, out)
		}
	}
}

func TestWriteVCDWithoutLA(t *testing.T) {
	sd := testScopeData()
	sd.LA = &wfm.LogicChannel{}
	if err := WriteVCD(&bytes.Buffer{}, sd); err == nil {
		t.Fatal("want error without logic analyzer data")
	}
}

func TestWriteOLS(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteOLS(buf, testScopeData()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		";Rate: 1000000",
		";EnabledChannels: 9",
		";Size: 4",
		"00000009@0",
		"00000001@3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("OLS dump should contain %q:\n%s", want, out)
		}
	}
}

func TestWritePlotPNG(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WritePlotPNG(buf, testScopeData(), 640, 480); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output does not look like a PNG")
	}
}

func TestWritePlotPNGNoData(t *testing.T) {
	sd := &wfm.ScopeData{CH1: &wfm.Channel{Name: "CH1"}, CH2: &wfm.Channel{Name: "CH2"}, LA: &wfm.LogicChannel{}}
	if err := WritePlotPNG(&bytes.Buffer{}, sd, 640, 480); err == nil {
		t.Fatal("want error when nothing can be plotted")
	}
}
