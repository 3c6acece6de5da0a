package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Qi-2007/musicgate/internal/formatter"
	"github.com/Qi-2007/musicgate/internal/repositories"
	"github.com/Qi-2007/musicgate/internal/shared"
)

// Search queries the selected catalog and prints the normalized results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	keyword := cmd.StringArg("keyword")
	if keyword == "" {
		return fmt.Errorf("%w: keyword", shared.ErrMissingArgument)
	}

	svc, err := r.registry.Lookup(cmd.String("source"))
	if err != nil {
		return err
	}

	tracks, err := svc.Search(ctx, keyword)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if base := cmd.String("csv"); base != "" {
		file, err := formatter.WriteCSVExport(keyword, tracks, base)
		if err != nil {
			return err
		}
		r.logger.Info("results written", "file", file)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	text, err := formatter.ResultsToText(svc.Name(), keyword, tracks)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// Link resolves and prints the playable URL for a track.
func (r *Runner) Link(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	svc, err := r.registry.Lookup(cmd.String("source"))
	if err != nil {
		return err
	}

	link, err := svc.ResolveLink(ctx, id, cmd.String("br"))
	if err != nil {
		return fmt.Errorf("link resolution failed: %w", err)
	}

	return r.writePlain("%s\n", link)
}

// Lyric fetches and prints (or saves) the lyrics for a track.
func (r *Runner) Lyric(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	svc, err := r.registry.Lookup(cmd.String("source"))
	if err != nil {
		return err
	}

	doc, err := svc.Lyric(ctx, id)
	if err != nil {
		return fmt.Errorf("lyric fetch failed: %w", err)
	}

	if output := cmd.String("output"); output != "" {
		file, err := formatter.WriteLyricExport(doc, output)
		if err != nil {
			return err
		}
		r.logger.Info("lyrics written", "file", file)
		return nil
	}

	return r.writePlain("%s\n", doc.Lyric)
}

// History lists recent searches from the local database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config := r.config
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewHistoryRepository(db)

	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", shared.ErrInvalidArgument)
	}

	criteria := map[string]any{"limit": limit}
	if source := cmd.String("source"); source != "" {
		criteria["source"] = source
	}

	records, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	for _, record := range records {
		r.writePlain("%s  %-8s  %-20s  %d results\n",
			record.Created.Format("2006-01-02 15:04"),
			record.Source,
			record.Keyword,
			record.Results,
		)
	}
	return nil
}
