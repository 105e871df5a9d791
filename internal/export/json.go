package export

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/mabl/rigolwfm/internal/wfm"
)

// WriteJSON dumps the complete decoded structure, sample data included.
func WriteJSON(w io.Writer, sd *wfm.ScopeData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(sd), "Failed to encode scope data")
}
