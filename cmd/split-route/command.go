package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dpup/trek.ersn.net/server/internal/config"
	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
	"github.com/dpup/trek.ersn.net/server/internal/lib/route"
)

type options struct {
	configPath string
	dataDir    string
	pattern    string
	start      string
	end        string
	format     string
	encoding   string
	outPath    string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "split-route [data-dir]",
		Short: "Split a recorded route into equal-length day segments",
		Long: `Reads every track file in a directory in filename order, joins their
LineString coordinates and cuts the result into one segment per day of the
travel window.

Formats:
  geojson  FeatureCollection with one LineString per day
  kml      KML document with one styled placemark per day
  days     per-day summaries with encoded polylines
  stats    total distance, daily distance and average speed`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.dataDir = args[0]
			}

			// Render fully before touching --out so a failed run leaves no file.
			var rendered bytes.Buffer
			if err := run(opts, &rendered); err != nil {
				return err
			}
			if opts.outPath != "" {
				return os.WriteFile(opts.outPath, rendered.Bytes(), 0o644)
			}
			_, err := rendered.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file supplying defaults")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding the track files")
	flags.StringVar(&opts.pattern, "pattern", "", "glob selecting track files (default *.kml)")
	flags.StringVar(&opts.start, "start", "", "window start, ISO-8601")
	flags.StringVar(&opts.end, "end", "", "window end, ISO-8601")
	flags.StringVarP(&opts.format, "format", "f", "geojson", "output format: geojson, kml, days or stats")
	flags.StringVarP(&opts.encoding, "output", "o", "json", "encoding for days and stats: json or yaml")
	flags.StringVar(&opts.outPath, "out", "", "write to this file instead of stdout")

	return cmd
}

func run(opts *options, out io.Writer) error {
	switch opts.format {
	case "geojson", "kml", "days", "stats":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	if opts.encoding != "json" && opts.encoding != "yaml" {
		return fmt.Errorf("unknown output encoding %q", opts.encoding)
	}

	overrides := map[string]any{}
	for key, value := range map[string]string{
		"route.data_dir":   opts.dataDir,
		"route.pattern":    opts.pattern,
		"route.start_time": opts.start,
		"route.end_time":   opts.end,
	} {
		if value != "" {
			overrides[key] = value
		}
	}

	cfg, err := config.Load(opts.configPath, overrides)
	if err != nil {
		return err
	}
	window, err := cfg.Route.Window()
	if err != nil {
		return err
	}

	track, err := route.NewLoader(nil, nil).LoadDir(cfg.Route.DataDir, cfg.Route.Pattern)
	if err != nil {
		return err
	}

	calc := geo.NewGeodesicCalculator()
	assembler := route.NewAssembler(calc, route.WithPalette(cfg.Route.Palette))
	collection, stats, err := assembler.Assemble(track, window)
	if err != nil {
		return err
	}

	switch opts.format {
	case "geojson":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(collection.FeatureCollection())
	case "kml":
		return collection.WriteKML(out, "Route "+window.String())
	case "days":
		return encode(out, opts.encoding, map[string]any{"days": collection.Summaries(calc, window)})
	case "stats":
		return encode(out, opts.encoding, stats)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
}

// encode writes v as indented JSON or as YAML. YAML output goes through JSON
// first so both encodings share field names.
func encode(out io.Writer, encoding string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	switch encoding {
	case "json":
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(generic)
	case "yaml":
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output encoding %q", encoding)
	}
}
