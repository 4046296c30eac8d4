package downloader

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kokiebisu/sonus/must"
	"github.com/kokiebisu/sonus/youtube/fs"
	"github.com/kokiebisu/sonus/youtube/types"
)

// release fans playlists out over a bounded pool. Workers never return an
// error so one failing playlist cannot cancel its siblings.
func (d *Downloader) release(ctx context.Context, logger zerolog.Logger, names *fs.Names, url string) (*types.Result, error) {
	info, err := d.extractor.Release(ctx, logger, url)
	if nil != err {
		return nil, fmt.Errorf("failed to extract release: %w", err)
	}

	releaseFs := d.dir.Release(info.ArtistName)
	if err := releaseFs.Create(); nil != err {
		return nil, fmt.Errorf("failed to create release directory: %v", err)
	}

	logger.Info().
		Str("artist", info.ArtistName).
		Int("playlists", len(info.PlaylistURLs)).
		Msg("Processing release")

	var wg errgroup.Group
	wg.SetLimit(d.workers())
	for _, playlistURL := range info.PlaylistURLs {
		wg.Go(func() error {
			logger := logger.With().Str("playlist_url", playlistURL).Logger()
			defer func() {
				if r := recover(); nil != r {
					logger.Error().Interface("panic", r).Msg("Playlist processing panicked")
				}
			}()

			if _, err := d.playlist(ctx, logger, names, releaseFs.Dir(), playlistURL, types.ModeMusic); nil != err {
				logger.Error().Err(err).Msg("Failed to process playlist")
			}

			return nil
		})
	}
	must.NilErr(wg.Wait(), "release workers")

	return &types.Result{OutputPath: releaseFs.DirPath}, nil
}
