package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playdeck/internal/formatter"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/player"
	"github.com/urfave/cli/v3"
)

// fetchTracks loads the catalog, optionally narrowed to one album.
func (r *Runner) fetchTracks(ctx context.Context, albumID string, fallback bool) ([]models.Track, error) {
	tracks, err := r.catalog.GetAll(ctx)
	switch {
	case err != nil && fallback:
		r.logger.Warn("catalog unavailable, using fallback tracks", "error", err)
		tracks = player.FallbackTracks()
	case err != nil:
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	case len(tracks) == 0 && fallback:
		tracks = player.FallbackTracks()
	}

	if albumID != "" {
		tracks = models.FilterAlbum(tracks, albumID)
	}
	return tracks, nil
}

// CatalogList prints the catalog in the requested format.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	tracks, err := r.fetchTracks(ctx, cmd.String("album"), cmd.Bool("fallback"))
	if err != nil {
		return err
	}
	r.logger.Debug("fetched catalog", "tracks", len(tracks))

	out, err := formatter.Tracks(format, "Catalog", tracks)
	if err != nil {
		return fmt.Errorf("failed to format tracks: %w", err)
	}
	return r.writeBytes(out)
}

// CatalogExport writes the catalog as a Markdown document, using the first track's artwork as the cover.
func (r *Runner) CatalogExport(ctx context.Context, cmd *cli.Command) error {
	tracks, err := r.fetchTracks(ctx, cmd.String("album"), false)
	if err != nil {
		return err
	}

	var cover string
	for _, t := range tracks {
		if t.Image != "" {
			cover = t.Image
			break
		}
	}

	result, err := formatter.WriteMarkdownExport(r.httpClient, cmd.String("title"), tracks, cmd.String("output"), cover)
	if err != nil {
		return err
	}

	r.logger.Info("exported catalog", "dir", result.Directory, "tracks", len(tracks))
	r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), result.Directory)
	for _, f := range result.Files {
		r.writePlain("  %s\n", f)
	}
	return nil
}
