package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/mabl/rigolwfm/internal/wfm"
)

// WriteOLS emits the logic analyzer capture in the OpenBench Logic Sniffer
// client format: a handful of ;key: value headers followed by one
// hex-sample@index line per captured word.
func WriteOLS(w io.Writer, sd *wfm.ScopeData) error {
	la := sd.LA
	if la == nil || !la.Enabled {
		return errors.New("no logic analyzer data in capture")
	}

	var mask uint32
	for _, ch := range la.EnabledChannels {
		mask |= 1 << uint(ch)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, ";Rate: %d\n", int64(la.SampleRate))
	fmt.Fprintf(bw, ";Channels: 16\n")
	fmt.Fprintf(bw, ";EnabledChannels: %d\n", mask)
	fmt.Fprintf(bw, ";Size: %d\n", la.NSamples())
	for i, word := range la.Samples.Raw {
		fmt.Fprintf(bw, "%08x@%d\n", word, i)
	}

	return errors.Wrap(bw.Flush(), "Failed to write OLS dump")
}
