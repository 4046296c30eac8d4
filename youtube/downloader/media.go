package downloader

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/cache"
	"github.com/kokiebisu/sonus/sanitize"
	"github.com/kokiebisu/sonus/youtube/fs"
	"github.com/kokiebisu/sonus/youtube/types"
)

type acquired struct {
	title string
	path  string
}

// media acquires one item into dir. It reports one unit of progress whatever
// the outcome, and converts panics into errors so callers keep going.
func (d *Downloader) media(
	ctx context.Context,
	logger zerolog.Logger,
	names *fs.Names,
	dir fs.DownloadDir,
	url string,
	mode types.Mode,
	parent *types.PlaylistInfo,
) (out *acquired, err error) {
	logger = logger.With().Str("item_url", url).Str("mode", string(mode)).Logger()

	defer d.progress.Increment()
	defer func() {
		if r := recover(); nil != r {
			logger.Error().Interface("panic", r).Msg("Item processing panicked")
			out, err = nil, fmt.Errorf("item processing panicked: %v", r)
		}
	}()

	track, err := d.track(ctx, logger, url)
	if nil != err {
		return nil, fmt.Errorf("failed to extract item: %w", err)
	}
	logger.Debug().Dict("track", track.ToDict()).Msg("Extracted item")

	meta := types.MetadataFor(withParentDefaults(*track, parent), mode)

	title := track.Title
	if d.conf.CleanTitles {
		title = sanitize.CleanTitle(title, track.Artist)
	}
	meta.Title = title

	trackFs := names.Track(dir, title, itemID(url), mode)
	task := types.Task{
		SourceURL:      url,
		DestinationDir: trackFs.DirPath,
		FileName:       trackFs.FileName,
		Mode:           mode,
		Metadata:       meta,
	}

	path, err := d.acquirer.Acquire(ctx, logger, task)
	if nil != err {
		return nil, err
	}

	logger.Info().Str("path", path).Msg("Item acquired")

	return &acquired{title: title, path: path}, nil
}

// itemID is the video or list id of url, used to tell same-titled items
// apart on disk.
func itemID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if nil != err {
		return ""
	}

	q := u.Query()
	if v := q.Get("v"); v != "" {
		return v
	}
	if list := q.Get("list"); list != "" {
		return list
	}

	return path.Base(strings.TrimSuffix(u.Path, "/"))
}

// track memoises extracted records, as one video can appear in several
// playlists of a release.
func (d *Downloader) track(ctx context.Context, logger zerolog.Logger, url string) (*types.TrackInfo, error) {
	fetch := func() (*types.TrackInfo, error) { return d.extractor.Song(ctx, logger, url) }
	if nil == d.cache {
		return fetch()
	}

	return d.cache.Tracks.Fetch(url, cache.DefaultTrackTTL, fetch)
}

// withParentDefaults fills gaps in a song record from its playlist header.
func withParentDefaults(t types.TrackInfo, parent *types.PlaylistInfo) types.TrackInfo {
	if nil == parent || t.Kind != types.TrackKindSong {
		return t
	}

	if t.Artist == "" {
		t.Artist = parent.Artist
	}
	if t.Album == "" {
		t.Album = parent.AlbumName
	}
	if t.CoverArtURL == "" {
		t.CoverArtURL = parent.CoverArtURL
	}

	return t
}
