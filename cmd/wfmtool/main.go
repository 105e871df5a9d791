package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/komkom/toml"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mabl/rigolwfm/internal/export"
	"github.com/mabl/rigolwfm/internal/record"
	"github.com/mabl/rigolwfm/internal/wfm"
)

type Globals struct {
	Lenient bool `short:"l" help:"Accept files whose undeciphered header fields deviate from the usual values."`
}

type InfoCmd struct {
	Yaml  bool     `help:"Emit a machine-readable YAML summary instead of the text report."`
	Paths []string `arg:"" required:"" help:"Input waveform files." type:"path"`
}

type CsvCmd struct {
	Out  string `short:"o" help:"Output path (default stdout)." type:"path"`
	Path string `arg:"" required:"" help:"Input waveform file." type:"path"`
}

type JSONCmd struct {
	Out  string `short:"o" help:"Output path (default stdout)." type:"path"`
	Path string `arg:"" required:"" help:"Input waveform file." type:"path"`
}

type VcdCmd struct {
	Out  string `short:"o" help:"Output path (default stdout)." type:"path"`
	Path string `arg:"" required:"" help:"Input waveform file." type:"path"`
}

type OlsCmd struct {
	Out  string `short:"o" help:"Output path (default stdout)." type:"path"`
	Path string `arg:"" required:"" help:"Input waveform file." type:"path"`
}

type PlotCmd struct {
	Width  int    `default:"800" help:"Plot width in points."`
	Height int    `default:"600" help:"Plot height in points."`
	Path   string `arg:"" required:"" help:"Input waveform file." type:"path"`
	Out    string `arg:"" required:"" help:"Output PNG path." type:"path"`
}

func (cmd *InfoCmd) Run(globals *Globals) error {
	results := make([]*wfm.ScopeData, len(cmd.Paths))
	eg := errgroup.Group{}
	for i, path := range cmd.Paths {
		i, path := i, path
		eg.Go(func() error {
			sd, err := parseInput(path, globals)
			if err != nil {
				return err
			}
			results[i] = sd
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, sd := range results {
		if len(results) > 1 {
			fmt.Printf("== %s\n", cmd.Paths[i])
		}
		if cmd.Yaml {
			if err := export.WriteSummaryYAML(os.Stdout, sd); err != nil {
				return err
			}
		} else {
			fmt.Print(export.Describe(sd))
		}
	}
	return nil
}

func (cmd *CsvCmd) Run(globals *Globals) error {
	return render(cmd.Path, cmd.Out, globals, export.WriteCSV)
}

func (cmd *JSONCmd) Run(globals *Globals) error {
	return render(cmd.Path, cmd.Out, globals, export.WriteJSON)
}

func (cmd *VcdCmd) Run(globals *Globals) error {
	return render(cmd.Path, cmd.Out, globals, export.WriteVCD)
}

func (cmd *OlsCmd) Run(globals *Globals) error {
	return render(cmd.Path, cmd.Out, globals, export.WriteOLS)
}

func (cmd *PlotCmd) Run(globals *Globals) error {
	return render(cmd.Path, cmd.Out, globals, func(w io.Writer, sd *wfm.ScopeData) error {
		return export.WritePlotPNG(w, sd, cmd.Width, cmd.Height)
	})
}

// parseInput decodes one file, pointing the user at --lenient when a strict
// parse trips over a validation rule.
func parseInput(path string, globals *Globals) (*wfm.ScopeData, error) {
	sd, err := wfm.ParseFile(path, !globals.Lenient)
	if err == nil {
		return sd, nil
	}
	var formatErr *record.FormatError
	if !globals.Lenient && stderrors.As(err, &formatErr) {
		return nil, errors.Wrapf(err, "%s does not decode cleanly, retry with --lenient to tolerate unusual header values", path)
	}
	return nil, err
}

func render(path, out string, globals *Globals, write func(io.Writer, *wfm.ScopeData) error) error {
	sd, err := parseInput(path, globals)
	if err != nil {
		return err
	}
	if out == "" {
		return write(os.Stdout, sd)
	}
	file, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "Failed to create output file")
	}
	if err := write(file, sd); err != nil {
		file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "Failed to write output file")
}

type CLI struct {
	Globals

	Info InfoCmd `cmd:"" help:"Describe the content of waveform files"`
	Csv  CsvCmd  `cmd:"" help:"Convert analog channel samples to CSV"`
	Json JSONCmd `cmd:"" help:"Dump the full decoded structure as JSON"`
	Vcd  VcdCmd  `cmd:"" help:"Export logic analyzer samples as a VCD dump"`
	Ols  OlsCmd  `cmd:"" help:"Export logic analyzer samples in OLS format"`
	Plot PlotCmd `cmd:"" help:"Render waveform and spectrum to a PNG"`
}

// tomlConfig feeds an optional TOML config file into kong's flag defaults.
func tomlConfig(r io.Reader) (kong.Resolver, error) {
	return kong.JSON(toml.New(r))
}

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("wfmtool"),
		kong.Description("Rigol DS1000-series waveform file reader"),
		kong.UsageOnError(),
		kong.Configuration(tomlConfig, "~/.wfmtool.toml", ".wfmtool.toml"),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
