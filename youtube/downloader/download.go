// Package downloader walks one root URL into acquisition tasks and mirrors
// the source hierarchy on disk.
//
// Only the root extraction can fail a run. Every nested playlist or item
// failure is logged with its URL and skipped, and still counts towards
// progress, so a run always ends with progress at its discovered total.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/cache"
	"github.com/kokiebisu/sonus/config"
	"github.com/kokiebisu/sonus/progress"
	"github.com/kokiebisu/sonus/youtube/extract"
	"github.com/kokiebisu/sonus/youtube/fs"
	"github.com/kokiebisu/sonus/youtube/types"
)

const DefaultWorkers = 4

var ErrRootNotFound = errors.New("root url could not be extracted")

type Extractor interface {
	Release(ctx context.Context, logger zerolog.Logger, url string) (*types.ReleaseInfo, error)
	Playlist(ctx context.Context, logger zerolog.Logger, url string) (*types.PlaylistInfo, error)
	Videos(ctx context.Context, logger zerolog.Logger, url string) (*types.PlaylistInfo, error)
	Song(ctx context.Context, logger zerolog.Logger, url string) (*types.TrackInfo, error)
}

type Acquirer interface {
	Acquire(ctx context.Context, logger zerolog.Logger, task types.Task) (string, error)
}

type Downloader struct {
	dir       fs.DownloadDir
	conf      config.Downloader
	extractor Extractor
	acquirer  Acquirer
	cache     *cache.Cache
	progress  *progress.Counter
}

func NewDownloader(
	dir fs.DownloadDir,
	conf config.Downloader,
	extractor Extractor,
	acquirer Acquirer,
	cache *cache.Cache,
	counter *progress.Counter,
) *Downloader {
	if nil == counter {
		counter = progress.NewCounter(progress.Nop())
	}

	return &Downloader{
		dir:       dir,
		conf:      conf,
		extractor: extractor,
		acquirer:  acquirer,
		cache:     cache,
		progress:  counter,
	}
}

// Download acquires everything reachable from link. Release links are always
// acquired as music and channel listings as video; playlists and single items
// use mode.
func (d *Downloader) Download(
	ctx context.Context,
	logger zerolog.Logger,
	link types.Link,
	mode types.Mode,
) (res *types.Result, err error) {
	defer d.progress.Finish()

	logger = logger.With().Str("link_kind", link.Kind.String()).Str("root_url", link.URL).Logger()
	names := fs.NewNames()

	switch k := link.Kind; k {
	case types.LinkKindRelease:
		res, err = d.release(ctx, logger, names, link.URL)
	case types.LinkKindPlaylist:
		res, err = d.playlist(ctx, logger, names, d.dir, link.URL, mode)
	case types.LinkKindVideos:
		res, err = d.videos(ctx, logger, names, link.URL)
	case types.LinkKindSong:
		res, err = d.single(ctx, logger, names, link.URL, mode)
	default:
		panic("unexpected link kind: " + strconv.Itoa(int(k)))
	}
	if nil != err {
		if errors.Is(err, extract.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, link.URL)
		}

		return nil, err
	}

	return res, nil
}

// single acquires one item. A failed acquisition is logged and reported as
// an empty output path; only a failed extraction fails the run.
func (d *Downloader) single(
	ctx context.Context,
	logger zerolog.Logger,
	names *fs.Names,
	url string,
	mode types.Mode,
) (*types.Result, error) {
	d.progress.AddTotal(1)

	out, err := d.media(ctx, logger, names, d.dir, url, mode, nil)
	if nil != err {
		if errors.Is(err, extract.ErrNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Msg("Failed to process item")

		return &types.Result{OutputPath: ""}, nil
	}

	return &types.Result{OutputPath: out.path}, nil
}

func (d *Downloader) workers() int {
	if d.conf.Workers > 0 {
		return d.conf.Workers
	}

	return DefaultWorkers
}
