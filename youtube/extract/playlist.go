package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/youtube/state"
	"github.com/kokiebisu/sonus/youtube/types"
)

const bylineSeparator = " • "

func (e *Extractor) Playlist(ctx context.Context, logger zerolog.Logger, url string) (*types.PlaylistInfo, error) {
	logger = logger.With().Str("extractor", "playlist").Str("url", url).Logger()
	return extract(ctx, logger, e, url, func(tree state.Tree, _ string) (*types.PlaylistInfo, error) {
		return PlaylistFromTree(tree)
	})
}

// PlaylistFromTree reads the album name and the watch URLs of the playlist's
// video entries in page order. Non-video entries (continuations, ads) are
// dropped.
func PlaylistFromTree(tree state.Tree) (*types.PlaylistInfo, error) {
	meta, ok := tree.Get("metadata", "playlistMetadataRenderer")
	if !ok {
		return nil, missing("playlist metadata")
	}

	name, ok := meta.Str("albumName")
	if !ok || name == "" {
		if name, ok = meta.Str("title"); !ok {
			return nil, missing("playlist album name")
		}
	}

	contents, ok := tree.Array(
		"contents", "twoColumnBrowseResultsRenderer", "tabs", 0,
		"tabRenderer", "content", "sectionListRenderer", "contents", 0,
		"itemSectionRenderer", "contents", 0,
		"playlistVideoListRenderer", "contents",
	)
	if !ok {
		return nil, missing("playlist video list")
	}

	urls := make([]string, 0, len(contents))
	for _, item := range contents {
		video, ok := item.Get("playlistVideoRenderer")
		if !ok {
			continue
		}

		id, ok := video.Str("navigationEndpoint", "watchEndpoint", "videoId")
		if !ok {
			if id, ok = video.Str("videoId"); !ok {
				continue
			}
		}

		urls = append(urls, fmt.Sprintf(watchURLFormat, id))
	}

	return &types.PlaylistInfo{
		AlbumName:   name,
		SongURLs:    urls,
		Artist:      playlistArtist(tree),
		CoverArtURL: playlistCover(tree),
	}, nil
}

func playlistArtist(tree state.Tree) string {
	subtitle, ok := tree.Str("header", "playlistHeaderRenderer", "subtitle", "simpleText")
	if !ok {
		return ""
	}

	artist, _, _ := strings.Cut(subtitle, bylineSeparator)

	return strings.TrimSpace(artist)
}

func playlistCover(tree state.Tree) string {
	url, _ := tree.Str(
		"sidebar", "playlistSidebarRenderer", "items", 0,
		"playlistSidebarPrimaryInfoRenderer", "thumbnailRenderer",
		"playlistCustomThumbnailRenderer", "thumbnail", "thumbnails", -1, "url",
	)

	return url
}
