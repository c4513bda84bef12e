package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/mixt/internal/formatter"
	"github.com/desertthunder/mixt/internal/library"
	"github.com/desertthunder/mixt/internal/mixer"
	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
	"github.com/urfave/cli/v3"
)

// mixParams carries resolved mix parameters after flag and config merging.
type mixParams struct {
	inputDir  string
	outputDir string
	baseName  string
	playlists []string
	percents  map[string]float64
	normalize mixer.NormalizeOptions
	options   models.MixOptions
	engine    mixer.Engine
}

// parsePercents parses repeated name=weight flag values into a weight map.
func parsePercents(values []string) (map[string]float64, error) {
	percents := make(map[string]float64, len(values))
	for _, value := range values {
		name, raw, found := strings.Cut(value, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("%w: percent %q is not name=weight", shared.ErrInvalidFlag, value)
		}
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: percent %q has a non-numeric weight", shared.ErrInvalidFlag, value)
		}
		if weight < 0 {
			return nil, fmt.Errorf("%w: percent %q has a negative weight", shared.ErrInvalidFlag, value)
		}
		percents[name] = weight
	}
	return percents, nil
}

// selectPaths filters scanned export paths down to the requested playlist
// names. An empty request keeps every scanned export.
func selectPaths(paths []string, names []string) ([]string, error) {
	if len(names) == 0 {
		return paths, nil
	}

	byName := make(map[string]string, len(paths))
	for _, path := range paths {
		byName[library.BaseName(path)] = path
	}

	selected := make([]string, 0, len(names))
	for _, name := range names {
		path, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
		}
		selected = append(selected, path)
	}
	return selected, nil
}

// resolveWeights builds the full weight map for the loaded sources, filling
// any source without an explicit percent with the equal share. A percent
// naming an unknown source is a flag error.
func resolveWeights(sources []*models.SourcePlaylist, percents map[string]float64) (map[string]float64, error) {
	known := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		known[src.Name] = struct{}{}
	}
	for name := range percents {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: percent for unknown playlist %q", shared.ErrInvalidFlag, name)
		}
	}

	equal := 100 / float64(len(sources))
	weights := make(map[string]float64, len(sources))
	for _, src := range sources {
		if weight, ok := percents[src.Name]; ok {
			weights[src.Name] = weight
		} else {
			weights[src.Name] = equal
		}
	}
	return weights, nil
}

// runMix loads, normalizes, mixes, and exports according to params,
// reporting progress and a summary through the runner's output.
func (r *Runner) runMix(ctx context.Context, params mixParams) error {
	paths, err := library.Scan(params.inputDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: no .txt playlist exports in %s", shared.ErrInvalidInput, params.inputDir)
	}

	paths, err = selectPaths(paths, params.playlists)
	if err != nil {
		return err
	}

	sources := make([]*models.SourcePlaylist, 0, len(paths))
	for _, path := range paths {
		src, err := library.LoadSource(path, params.normalize)
		if err != nil {
			return err
		}
		r.logger.Info("loaded source", "name", src.Name, "tracks", len(src.Keys))
		sources = append(sources, src)
	}

	opts := params.options
	opts.Weights, err = resolveWeights(sources, params.percents)
	if err != nil {
		return err
	}

	progressCh := make(chan mixer.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	r.writePlain("Mixing %d playlists into %d tracks...\n", len(sources), opts.Total)
	result, err := r.engineFor(params).Run(ctx, progressCh, sources, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	exported, err := formatter.WriteMixExports(result, params.outputDir, params.baseName)
	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Mix Complete!")
	for _, src := range sources {
		r.writePlain("%s: %d/%d tracks\n", src.Name, result.Selected[src.Name], result.Quotas[src.Name])
	}
	r.writePlain("Total: %d/%d tracks\n", len(result.Tracks), result.Requested)
	if result.Short() {
		r.writePlain("Note: sources ran out of eligible tracks before the requested total.\n")
	}
	r.writePlainln("Files written:")
	r.writePlain("  %s\n", exported.CSVFile)
	r.writePlain("  %s\n", exported.TextFile)
	r.writePlain("  %s\n", exported.AppleFile)

	return nil
}

// engineFor returns the engine to use for one run, preferring a per-run
// override (seeded shuffles) over the runner's default.
func (r *Runner) engineFor(params mixParams) mixer.Engine {
	if params.engine != nil {
		return params.engine
	}
	return r.engine
}

// MixRun blends the configured playlist exports into one mixed playlist.
func (r *Runner) MixRun(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd.String("config"))

	percents, err := parsePercents(cmd.StringSlice("percent"))
	if err != nil {
		return err
	}

	params := mixParams{
		inputDir:  config.Library.InputFolder,
		outputDir: config.Library.MixedFolder,
		baseName:  cmd.String("name"),
		playlists: cmd.StringSlice("playlist"),
		percents:  percents,
		normalize: mixer.NormalizeOptions{
			Slice:     cmd.String("slice"),
			MaxTracks: cmd.Int("max-tracks"),
		},
		options: models.MixOptions{
			Total:          config.Defaults.TotalTracks,
			MaxPerArtist:   config.Defaults.MaxPerArtist,
			DisallowShared: cmd.Bool("no-shared"),
		},
	}

	if cmd.String("input") != "" {
		params.inputDir = cmd.String("input")
	}
	if cmd.String("output") != "" {
		params.outputDir = cmd.String("output")
	}
	if cmd.IsSet("total") {
		params.options.Total = cmd.Int("total")
	}
	if cmd.IsSet("max-per-artist") {
		params.options.MaxPerArtist = cmd.Int("max-per-artist")
	}
	if cmd.IsSet("seed") {
		params.engine = mixer.NewMixEngine(mixer.SeededShuffler(int64(cmd.Int("seed"))))
	}

	r.logger.Info("starting mix",
		"input", params.inputDir,
		"output", params.outputDir,
		"total", params.options.Total,
		"max_per_artist", params.options.MaxPerArtist,
		"no_shared", params.options.DisallowShared,
	)

	return r.runMix(ctx, params)
}

// mixCommand handles playlist mixing operations
func mixCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mix",
		Usage: "Blend playlist exports into one mixed playlist",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a full mix over the input folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Folder containing playlist exports (overrides config)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Folder for mixed playlist files (overrides config)",
					},
					&cli.StringSliceFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist name to include (repeatable, default all)",
					},
					&cli.StringSliceFlag{
						Name:  "percent",
						Usage: "Weight per playlist as name=weight (repeatable, default equal)",
					},
					&cli.IntFlag{
						Name:    "total",
						Aliases: []string{"t"},
						Usage:   "Total mixed playlist size",
					},
					&cli.IntFlag{
						Name:  "max-per-artist",
						Usage: "Global cap on tracks per artist (0 = unlimited)",
					},
					&cli.BoolFlag{
						Name:  "no-shared",
						Usage: "Drop tracks that appear in more than one playlist",
					},
					&cli.StringFlag{
						Name:  "slice",
						Usage: "Take first/last N rows per playlist (T500 or B500)",
					},
					&cli.IntFlag{
						Name:  "max-tracks",
						Usage: "Cap rows per playlist before deduplication (0 = all)",
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Seed the shuffle for a reproducible mix",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Base filename for the mixed outputs",
						Value: "mixed_playlist",
					},
				},
				Action: r.MixRun,
			},
			{
				Name:    "ui",
				Aliases: []string{"tui", "interactive"},
				Usage:   "Interactive TUI for building a mix",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.TUI,
			},
		},
	}
}
