package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/mabl/rigolwfm/internal/wfm"
)

// WriteVCD emits the logic analyzer capture as a Value Change Dump. Each
// enabled line becomes one wire D0..D15; timestamps are in picoseconds
// derived from the LA sample rate.
func WriteVCD(w io.Writer, sd *wfm.ScopeData) error {
	la := sd.LA
	if la == nil || !la.Enabled {
		return errors.New("no logic analyzer data in capture")
	}
	if la.SampleRate <= 0 {
		return errors.Errorf("cannot derive a VCD timescale from sample rate %v", la.SampleRate)
	}
	psPerSample := int64(math.Round(1e12 / la.SampleRate))

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "$timescale 1ps $end\n")
	fmt.Fprintf(bw, "$scope module la $end\n")
	for _, ch := range la.EnabledChannels {
		fmt.Fprintf(bw, "$var wire 1 %c D%d $end\n", vcdID(ch), ch)
	}
	fmt.Fprintf(bw, "$upscope $end\n")
	fmt.Fprintf(bw, "$enddefinitions $end\n")

	// Initial state, then transitions only.
	var last uint16
	for i, word := range la.Samples.Raw {
		if i > 0 && word == last {
			continue
		}
		fmt.Fprintf(bw, "#%d\n", int64(i)*psPerSample)
		for _, ch := range la.EnabledChannels {
			bit := word >> uint(ch) & 1
			if i == 0 || bit != last>>uint(ch)&1 {
				fmt.Fprintf(bw, "%d%c\n", bit, vcdID(ch))
			}
		}
		last = word
	}

	return errors.Wrap(bw.Flush(), "Failed to write VCD")
}

// vcdID maps a line number to a printable VCD identifier code.
func vcdID(ch int) byte {
	return byte('!' + ch)
}
