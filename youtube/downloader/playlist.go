package downloader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/youtube/fs"
	"github.com/kokiebisu/sonus/youtube/types"
)

func (d *Downloader) playlist(
	ctx context.Context,
	logger zerolog.Logger,
	names *fs.Names,
	base fs.DownloadDir,
	url string,
	mode types.Mode,
) (*types.Result, error) {
	info, err := d.extractor.Playlist(ctx, logger, url)
	if nil != err {
		return nil, fmt.Errorf("failed to extract playlist: %w", err)
	}

	return d.collection(ctx, logger, names, names.Playlist(base, info.AlbumName, itemID(url)), url, info, mode)
}

func (d *Downloader) videos(ctx context.Context, logger zerolog.Logger, names *fs.Names, url string) (*types.Result, error) {
	info, err := d.extractor.Videos(ctx, logger, url)
	if nil != err {
		return nil, fmt.Errorf("failed to extract channel videos: %w", err)
	}

	return d.collection(ctx, logger, names, d.dir.Channel(info.AlbumName), url, info, types.ModeVideo)
}

// collection acquires a playlist's items one at a time in source order once
// its directory exists, then records the outcome in the directory's info
// file.
func (d *Downloader) collection(
	ctx context.Context,
	logger zerolog.Logger,
	names *fs.Names,
	playlistFs fs.Playlist,
	url string,
	info *types.PlaylistInfo,
	mode types.Mode,
) (*types.Result, error) {
	if err := playlistFs.Create(); nil != err {
		return nil, fmt.Errorf("failed to create playlist directory: %v", err)
	}

	logger = logger.With().Str("playlist", info.AlbumName).Logger()
	logger.Info().Int("items", len(info.SongURLs)).Msg("Processing playlist")

	d.progress.AddTotal(len(info.SongURLs))

	stored := types.StoredPlaylist{
		Name:      info.AlbumName,
		SourceURL: url,
		Mode:      mode,
		Tracks:    make([]types.StoredTrack, 0, len(info.SongURLs)),
	}

	var failed int
	for i, songURL := range info.SongURLs {
		track := types.StoredTrack{Index: i + 1, URL: songURL} //nolint:exhaustruct

		out, err := d.media(ctx, logger, names, playlistFs.Dir(), songURL, mode, info)
		if nil != err {
			failed++
			track.Error = err.Error()
			logger.Error().Err(err).Str("item_url", songURL).Int("index", i+1).Msg("Failed to process item")
		} else {
			track.Title = out.title
			track.File = filepath.Base(out.path)
		}
		stored.Tracks = append(stored.Tracks, track)
	}

	if err := playlistFs.InfoFile.Write(stored); nil != err {
		logger.Warn().Err(err).Msg("Failed to write playlist info file")
	}

	logger.Info().
		Int("acquired", len(info.SongURLs)-failed).
		Int("failed", failed).
		Msg("Playlist processed")

	return &types.Result{OutputPath: playlistFs.DirPath}, nil
}
