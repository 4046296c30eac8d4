package extract

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/youtube/state"
	"github.com/kokiebisu/sonus/youtube/types"
)

// releasesTabIndex is where the releases tab sits on artist channels when the
// page does not mark a selected tab.
const releasesTabIndex = 4

func (e *Extractor) Release(ctx context.Context, logger zerolog.Logger, url string) (*types.ReleaseInfo, error) {
	logger = logger.With().Str("extractor", "release").Str("url", url).Logger()
	return extract(ctx, logger, e, url, func(tree state.Tree, _ string) (*types.ReleaseInfo, error) {
		return ReleaseFromTree(tree)
	})
}

// ReleaseFromTree lists the playlists of an artist's releases tab in page
// order. Grid items that are not playlists are skipped. An artist without
// releases yields an empty list.
func ReleaseFromTree(tree state.Tree) (*types.ReleaseInfo, error) {
	grid, ok := selectedGrid(tree, releasesTabIndex)
	if !ok {
		return nil, missing("releases tab grid")
	}

	items, ok := grid.Array("contents")
	if !ok {
		return nil, missing("releases grid contents")
	}

	var (
		artist string
		urls   = make([]string, 0, len(items))
	)
	for _, item := range items {
		playlist, ok := item.Get("richItemRenderer", "content", "playlistRenderer")
		if !ok {
			continue
		}

		id, ok := playlist.Str("playlistId")
		if !ok || id == "" {
			continue
		}

		if artist == "" {
			artist, _ = playlist.Str("shortBylineText", "runs", 0, "text")
		}

		urls = append(urls, fmt.Sprintf(playlistURLFormat, id))
	}

	if artist == "" {
		artist, ok = tree.Str("metadata", "channelMetadataRenderer", "title")
		if !ok {
			return nil, missing("artist name")
		}
	}

	return &types.ReleaseInfo{
		ArtistName:   artist,
		PlaylistURLs: urls,
	}, nil
}
