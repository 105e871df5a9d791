package export

import (
	"image/color"
	"io"
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mabl/rigolwfm/internal/wfm"
)

const dbFloor = 1e-12

var channelColors = []color.Color{colornames.Orange, colornames.Royalblue}

// WritePlotPNG renders the enabled analog channels as a PNG with two
// panels: the waveform over time and its FFT magnitude spectrum.
func WritePlotPNG(out io.Writer, sd *wfm.ScopeData, width, height int) error {
	var channels []*wfm.Channel
	for _, c := range sd.AnalogChannels() {
		if c.Enabled && c.NSamples() > 1 {
			channels = append(channels, c)
		}
	}
	if len(channels) == 0 {
		return errors.New("no analog channel data to plot")
	}

	wave := plot.New()
	wave.Title.Text = "Waveform"
	wave.X.Label.Text = "Time [s]"
	wave.Y.Label.Text = "Voltage [V]"

	spectrum := plot.New()
	spectrum.Title.Text = "FFT"
	spectrum.X.Label.Text = "Frequency [Hz]"
	spectrum.Y.Label.Text = "Magnitude [dB]"

	for idx, c := range channels {
		clr := channelColors[idx%len(channelColors)]

		wavePts := make(plotter.XYs, c.NSamples())
		for i := range wavePts {
			wavePts[i].X = c.Samples.Time[i]
			wavePts[i].Y = c.Samples.Volts[i]
		}
		waveLine, err := plotter.NewLine(wavePts)
		if err != nil {
			return errors.Wrapf(err, "Failed to build waveform line for %s", c.Name)
		}
		waveLine.Color = clr
		wave.Add(waveLine)
		wave.Legend.Add(c.Name, waveLine)

		specLine, err := plotter.NewLine(spectrumPoints(c))
		if err != nil {
			return errors.Wrapf(err, "Failed to build spectrum line for %s", c.Name)
		}
		specLine.Color = clr
		spectrum.Add(specLine)
	}
	wave.Legend.Top = true

	img := vgimg.New(vg.Length(width), vg.Length(height))
	canvases := plot.Align([][]*plot.Plot{{wave}, {spectrum}}, draw.Tiles{Rows: 2, Cols: 1}, draw.New(img))
	wave.Draw(canvases[0][0])
	spectrum.Draw(canvases[1][0])

	png := vgimg.PngCanvas{Canvas: img}
	_, err := png.WriteTo(out)
	return errors.Wrap(err, "Failed to write plot")
}

func spectrumPoints(c *wfm.Channel) plotter.XYs {
	n := c.NSamples()
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, c.Samples.Volts)

	pts := make(plotter.XYs, len(coeffs))
	for i, coeff := range coeffs {
		mag := cmplx.Abs(coeff) / float64(n)
		if mag < dbFloor {
			mag = dbFloor
		}
		pts[i].X = fft.Freq(i) * c.SampleRate
		pts[i].Y = 20 * math.Log10(mag)
	}
	return pts
}
