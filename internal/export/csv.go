package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/mabl/rigolwfm/internal/wfm"
)

// WriteCSV emits the analog channels as CSV. With a shared trigger all
// channels run on one time axis and share the X column; in alternate-trigger
// mode each channel has its own timebase, so every channel gets its own
// X column.
func WriteCSV(w io.Writer, sd *wfm.ScopeData) error {
	var channels []*wfm.Channel
	for _, c := range sd.AnalogChannels() {
		if c.Enabled {
			channels = append(channels, c)
		}
	}
	if len(channels) == 0 {
		return errors.New("no analog channel data to export")
	}

	cw := csv.NewWriter(w)
	if sd.AlternateTrigger {
		if err := writeAlternateCSV(cw, channels); err != nil {
			return err
		}
	} else {
		if err := writeSharedCSV(cw, channels); err != nil {
			return err
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "Failed to write CSV")
}

func writeAlternateCSV(cw *csv.Writer, channels []*wfm.Channel) error {
	names := make([]string, 0, 2*len(channels))
	units := make([]string, 0, 2*len(channels))
	rows := 0
	for _, c := range channels {
		names = append(names, fmt.Sprintf("X(%s)", c.Name), c.Name)
		units = append(units, "Second", "Volt")
		if c.NSamples() > rows {
			rows = c.NSamples()
		}
	}
	if err := cw.Write(names); err != nil {
		return err
	}
	if err := cw.Write(units); err != nil {
		return err
	}

	record := make([]string, 2*len(channels))
	for i := 0; i < rows; i++ {
		for ci, c := range channels {
			if i < c.NSamples() {
				record[2*ci] = fmt.Sprintf("%0.5e", c.Samples.Time[i])
				record[2*ci+1] = fmt.Sprintf("%0.2e", c.Samples.Volts[i])
			} else {
				record[2*ci] = ""
				record[2*ci+1] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeSharedCSV(cw *csv.Writer, channels []*wfm.Channel) error {
	names := []string{"X"}
	units := []string{"Second"}
	rows := 0
	for _, c := range channels {
		names = append(names, c.Name)
		units = append(units, "Volt")
		if c.NSamples() > rows {
			rows = c.NSamples()
		}
	}
	if err := cw.Write(names); err != nil {
		return err
	}
	if err := cw.Write(units); err != nil {
		return err
	}

	record := make([]string, 1+len(channels))
	for i := 0; i < rows; i++ {
		record[0] = ""
		if i < channels[0].NSamples() {
			record[0] = fmt.Sprintf("%0.5e", channels[0].Samples.Time[i])
		}
		for ci, c := range channels {
			record[1+ci] = ""
			if i < c.NSamples() {
				record[1+ci] = fmt.Sprintf("%0.2e", c.Samples.Volts[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}
