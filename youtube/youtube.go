package youtube

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/cache"
	"github.com/kokiebisu/sonus/config"
	"github.com/kokiebisu/sonus/progress"
	"github.com/kokiebisu/sonus/youtube/acquire"
	"github.com/kokiebisu/sonus/youtube/downloader"
	"github.com/kokiebisu/sonus/youtube/extract"
	"github.com/kokiebisu/sonus/youtube/fs"
	"github.com/kokiebisu/sonus/youtube/page"
	"github.com/kokiebisu/sonus/youtube/types"
)

var ErrRootNotFound = downloader.ErrRootNotFound

type Client struct {
	dl *downloader.Downloader
}

func NewClient(conf *config.Config, counter *progress.Counter) *Client {
	var (
		c       = cache.New()
		fetcher = page.NewFetcher(conf.Fetcher)
		dlDirFs = fs.DownloadDirFrom(conf.Downloader.OutputDir)
		acq     = acquire.New(conf.Acquirer, fetcher, c, conf.Downloader.ShouldSkipExisting())
	)

	return &Client{
		dl: downloader.NewDownloader(dlDirFs, conf.Downloader, extract.New(fetcher), acq, c, counter),
	}
}

func (c *Client) DownloadLink(
	ctx context.Context,
	logger zerolog.Logger,
	link types.Link,
	mode types.Mode,
) (*types.Result, error) {
	logger.Debug().Msg("Downloading link")

	res, err := c.dl.Download(ctx, logger, link, mode)
	if nil != err {
		return nil, fmt.Errorf("failed to download link: %w", err)
	}

	return res, nil
}

// linkKinds is checked in order; the first substring contained in the URL
// decides its kind.
var linkKinds = []struct {
	marker string
	kind   types.LinkKind
}{
	{marker: "releases", kind: types.LinkKindRelease},
	{marker: "playlist", kind: types.LinkKindPlaylist},
	{marker: "videos", kind: types.LinkKindVideos},
}

// ParseLink classifies l. Anything that is not a release, playlist or channel
// videos URL is treated as a single item.
func ParseLink(l string) types.Link {
	l = page.Normalize(l)

	for _, k := range linkKinds {
		if strings.Contains(l, k.marker) {
			return types.Link{Kind: k.kind, URL: l}
		}
	}

	return types.Link{Kind: types.LinkKindSong, URL: l}
}
