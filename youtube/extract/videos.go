package extract

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/youtube/state"
	"github.com/kokiebisu/sonus/youtube/types"
)

// videosTabIndex is the usual position of the videos tab on channel pages.
const videosTabIndex = 1

// Videos extracts a channel's video listing. The result has the playlist
// shape, with AlbumName holding the channel name.
func (e *Extractor) Videos(ctx context.Context, logger zerolog.Logger, url string) (*types.PlaylistInfo, error) {
	logger = logger.With().Str("extractor", "videos").Str("url", url).Logger()
	return extract(ctx, logger, e, url, func(tree state.Tree, _ string) (*types.PlaylistInfo, error) {
		return VideosFromTree(tree)
	})
}

func VideosFromTree(tree state.Tree) (*types.PlaylistInfo, error) {
	channel, ok := channelName(tree)
	if !ok {
		return nil, missing("channel name")
	}

	grid, ok := selectedGrid(tree, videosTabIndex)
	if !ok {
		return nil, missing("videos tab grid")
	}

	items, ok := grid.Array("contents")
	if !ok {
		return nil, missing("videos grid contents")
	}

	urls := make([]string, 0, len(items))
	for _, item := range items {
		id, ok := item.Str("richItemRenderer", "content", "videoRenderer", "videoId")
		if !ok {
			continue
		}
		urls = append(urls, fmt.Sprintf(watchURLFormat, id))
	}

	return &types.PlaylistInfo{
		AlbumName: channel,
		SongURLs:  urls,
		Artist:    channel,
	}, nil
}

func channelName(tree state.Tree) (string, bool) {
	if name, ok := tree.Str("metadata", "channelMetadataRenderer", "title"); ok {
		return name, true
	}

	return tree.Str("header", "c4TabbedHeaderRenderer", "title")
}
