package export

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mabl/rigolwfm/internal/wfm"
)

// WriteSummaryYAML emits the capture metadata as YAML. Sample arrays are
// left out; this is the machine-readable counterpart of Describe.
func WriteSummaryYAML(w io.Writer, sd *wfm.ScopeData) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(sd); err != nil {
		return errors.Wrap(err, "Failed to encode scope summary")
	}
	return errors.Wrap(enc.Close(), "Failed to encode scope summary")
}
