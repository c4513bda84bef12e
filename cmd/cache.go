package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// CacheList prints every cached source playlist snapshot.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd.String("config"))

	repo, db, err := r.openRepository(config)
	if err != nil {
		return err
	}
	defer db.Close()

	infos, err := repo.List()
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		r.writePlain("Source cache is empty.\n")
		return nil
	}

	r.writePlainHeader("Cached sources")
	for _, info := range infos {
		r.writePlain("%s (%d tracks, updated %s)\n", info.Name, info.TrackCount, info.UpdatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

// CacheShow prints the tracks of one cached source playlist.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("source name is required")
	}

	config := r.resolveConfig(cmd.String("config"))

	repo, db, err := r.openRepository(config)
	if err != nil {
		return err
	}
	defer db.Close()

	src, err := repo.Get(name)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d tracks)", src.Name, len(src.Keys)))
	for i, key := range src.Keys {
		r.writePlain("%4d. %s - %s\n", i+1, key.Artist, key.Title)
	}

	return nil
}

// CacheClear removes cached source snapshots, one by name or all of them.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd.String("config"))

	repo, db, err := r.openRepository(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if name := cmd.StringArg("name"); name != "" {
		if err := repo.Delete(name); err != nil {
			return err
		}
		r.logger.Info("removed cached source", "name", name)
		r.writePlain("✓ Removed cached source: %s\n", name)
		return nil
	}

	if err := repo.Clear(); err != nil {
		return err
	}
	r.logger.Info("cleared source cache")
	r.writePlain("✓ Source cache cleared\n")
	return nil
}

// configFlag returns a fresh config-path flag for one subcommand.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// cacheCommand handles the normalized-source cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the normalized-source cache",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List cached source playlists",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheList,
			},
			{
				Name:  "show",
				Usage: "Show the tracks of one cached source",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheShow,
			},
			{
				Name:  "clear",
				Usage: "Remove one cached source by name, or all of them",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}
