package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/mixt/internal/formatter"
	"github.com/desertthunder/mixt/internal/library"
	"github.com/desertthunder/mixt/internal/mixer"
	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryList prints the playlist exports discovered in the input folder.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd.String("config"))

	inputDir := config.Library.InputFolder
	if cmd.String("input") != "" {
		inputDir = cmd.String("input")
	}

	paths, err := library.Scan(inputDir)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		r.writePlain("No .txt playlist exports in %s\n", inputDir)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Playlist exports in %s", inputDir))
	for i, path := range paths {
		rows, _, err := library.ReadExport(path)
		if err != nil {
			r.writePlain("%2d. %s (unreadable: %v)\n", i+1, library.BaseName(path), err)
			continue
		}
		r.writePlain("%2d. %s (%d rows)\n", i+1, library.BaseName(path), len(rows))
	}

	return nil
}

// LibraryConvert normalizes playlist exports and writes slim two-column
// CSVs, optionally caching the normalized sources in the database.
func (r *Runner) LibraryConvert(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd.String("config"))

	inputDir := config.Library.InputFolder
	if cmd.String("input") != "" {
		inputDir = cmd.String("input")
	}
	csvDir := config.Library.CSVFolder
	if cmd.String("output") != "" {
		csvDir = cmd.String("output")
	}

	paths, err := library.Scan(inputDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: no .txt playlist exports in %s", shared.ErrInvalidInput, inputDir)
	}

	paths, err = selectPaths(paths, cmd.StringSlice("playlist"))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(csvDir, 0755); err != nil {
		return fmt.Errorf("failed to create CSV folder: %w", err)
	}

	opts := mixer.NormalizeOptions{
		Slice:     cmd.String("slice"),
		MaxTracks: cmd.Int("max-tracks"),
	}

	save := cmd.Bool("save")
	if save {
		repo, db, err := r.openRepository(config)
		if err != nil {
			return err
		}
		defer db.Close()

		for _, path := range paths {
			if err := r.convertOne(path, csvDir, opts, repo.Save); err != nil {
				return err
			}
		}
		return nil
	}

	for _, path := range paths {
		if err := r.convertOne(path, csvDir, opts, nil); err != nil {
			return err
		}
	}
	return nil
}

// convertOne normalizes one export, writes its slim CSV, and optionally
// saves the snapshot through the given persist function.
func (r *Runner) convertOne(path, csvDir string, opts mixer.NormalizeOptions, persist func(*models.SourcePlaylist) (string, error)) error {
	src, err := library.LoadSource(path, opts)
	if err != nil {
		return err
	}

	csvPath := filepath.Join(csvDir, src.Name+".csv")
	if err := formatter.WriteSourceCSV(src, csvPath); err != nil {
		return err
	}

	r.logger.Info("converted source", "name", src.Name, "tracks", len(src.Keys))
	r.writePlain("✓ %s: %d unique tracks → %s\n", src.Name, len(src.Keys), csvPath)

	if persist != nil {
		id, err := persist(src)
		if err != nil {
			return fmt.Errorf("failed to cache %s: %w", src.Name, err)
		}
		r.logger.Info("cached source", "name", src.Name, "id", id)
	}

	return nil
}

// libraryCommand handles playlist export discovery and conversion
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Inspect and convert playlist exports",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlist exports in the input folder",
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
				},
				Action: r.LibraryList,
			},
			{
				Name:  "convert",
				Usage: "Normalize exports into slim two-column CSVs",
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
						Usage:   "Folder for slim CSVs (overrides config)",
					},
					&cli.StringSliceFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist name to convert (repeatable, default all)",
					},
					&cli.StringFlag{
						Name:  "slice",
						Usage: "Take first/last N rows per playlist (T500 or B500)",
					},
					&cli.IntFlag{
						Name:  "max-tracks",
						Usage: "Cap rows per playlist before deduplication (0 = all)",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Also cache normalized sources in the database",
					},
				},
				Action: r.LibraryConvert,
			},
		},
	}
}
