package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokiebisu/sonus/youtube/extract"
	"github.com/kokiebisu/sonus/youtube/state"
)

type pages map[string]string

func (p pages) Fetch(_ context.Context, _ zerolog.Logger, url string) (string, error) {
	body, ok := p[url]
	if !ok {
		return "", errors.New("no such page")
	}

	return body, nil
}

func html(data string) string {
	return "<html><body><script>var ytInitialData = " + data + ";</script></body></html>"
}

const releasePage = `{
  "metadata": {"channelMetadataRenderer": {"title": "Channel Name"}},
  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
    {"tabRenderer": {"title": "Home"}},
    {"tabRenderer": {"title": "Releases", "selected": true, "content": {"richGridRenderer": {"contents": [
      {"richItemRenderer": {"content": {"playlistRenderer": {"playlistId": "PL1", "shortBylineText": {"runs": [{"text": "The Artist"}]}}}}},
      {"richItemRenderer": {"content": {"adSlotRenderer": {}}}},
      {"richItemRenderer": {"content": {"playlistRenderer": {"playlistId": "PL2"}}}},
      {"continuationItemRenderer": {}}
    ]}}}}
  ]}}
}`

func TestReleaseFromTree(t *testing.T) {
	t.Parallel()

	info, err := extract.ReleaseFromTree(state.FromJSON(releasePage))
	require.NoError(t, err)
	assert.Equal(t, "The Artist", info.ArtistName)
	assert.Equal(t, []string{
		"https://www.youtube.com/playlist?list=PL1",
		"https://www.youtube.com/playlist?list=PL2",
	}, info.PlaylistURLs)
}

func TestReleaseFromTree_FallbackTab(t *testing.T) {
	t.Parallel()

	tree := state.FromJSON(`{
	  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
	    {}, {}, {}, {},
	    {"tabRenderer": {"content": {"richGridRenderer": {"contents": [
	      {"richItemRenderer": {"content": {"playlistRenderer": {"playlistId": "A", "shortBylineText": {"runs": [{"text": "X"}]}}}}}
	    ]}}}}
	  ]}}
	}`)

	info, err := extract.ReleaseFromTree(tree)
	require.NoError(t, err)
	assert.Equal(t, "X", info.ArtistName)
	assert.Len(t, info.PlaylistURLs, 1)
}

func TestReleaseFromTree_NoReleases(t *testing.T) {
	t.Parallel()

	tree := state.FromJSON(`{
	  "metadata": {"channelMetadataRenderer": {"title": "Quiet Artist"}},
	  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
	    {"tabRenderer": {"selected": true, "content": {"richGridRenderer": {"contents": []}}}}
	  ]}}
	}`)

	info, err := extract.ReleaseFromTree(tree)
	require.NoError(t, err)
	assert.Equal(t, "Quiet Artist", info.ArtistName)
	assert.Empty(t, info.PlaylistURLs)
}

const playlistPage = `{
  "metadata": {"playlistMetadataRenderer": {"title": "Album - Topic", "albumName": "The Album"}},
  "header": {"playlistHeaderRenderer": {"subtitle": {"simpleText": "The Artist • Album • 2020"}}},
  "sidebar": {"playlistSidebarRenderer": {"items": [{"playlistSidebarPrimaryInfoRenderer": {"thumbnailRenderer": {"playlistCustomThumbnailRenderer": {"thumbnail": {"thumbnails": [
    {"url": "https://i.ytimg.com/small.jpg"}, {"url": "https://i.ytimg.com/large.jpg"}
  ]}}}}}]}},
  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [{"tabRenderer": {"content": {"sectionListRenderer": {"contents": [
    {"itemSectionRenderer": {"contents": [{"playlistVideoListRenderer": {"contents": [
      {"playlistVideoRenderer": {"videoId": "a", "navigationEndpoint": {"watchEndpoint": {"videoId": "a"}}}},
      {"playlistVideoRenderer": {"videoId": "b"}},
      {"continuationItemRenderer": {"trigger": "CONTINUATION_TRIGGER_ON_ITEM_SHOWN"}},
      {"playlistVideoRenderer": {"navigationEndpoint": {"watchEndpoint": {"videoId": "c"}}}}
    ]}}]}}
  ]}}}}]}}
}`

func TestPlaylistFromTree(t *testing.T) {
	t.Parallel()

	info, err := extract.PlaylistFromTree(state.FromJSON(playlistPage))
	require.NoError(t, err)
	assert.Equal(t, "The Album", info.AlbumName)
	assert.Equal(t, "The Artist", info.Artist)
	assert.Equal(t, "https://i.ytimg.com/large.jpg", info.CoverArtURL)
	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=a",
		"https://www.youtube.com/watch?v=b",
		"https://www.youtube.com/watch?v=c",
	}, info.SongURLs)
}

func TestPlaylistFromTree_TitleFallback(t *testing.T) {
	t.Parallel()

	info, err := extract.PlaylistFromTree(state.FromJSON(`{
	  "metadata": {"playlistMetadataRenderer": {"title": "Mix"}},
	  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [{"tabRenderer": {"content": {"sectionListRenderer": {"contents": [
	    {"itemSectionRenderer": {"contents": [{"playlistVideoListRenderer": {"contents": []}}]}}
	  ]}}}}]}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Mix", info.AlbumName)
	assert.Empty(t, info.SongURLs)
	assert.Empty(t, info.Artist)
	assert.Empty(t, info.CoverArtURL)
}

func TestVideosFromTree(t *testing.T) {
	t.Parallel()

	info, err := extract.VideosFromTree(state.FromJSON(`{
	  "metadata": {"channelMetadataRenderer": {"title": "Some Channel"}},
	  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
	    {"tabRenderer": {"title": "Home"}},
	    {"tabRenderer": {"title": "Videos", "selected": true, "content": {"richGridRenderer": {"contents": [
	      {"richItemRenderer": {"content": {"videoRenderer": {"videoId": "v1"}}}},
	      {"richItemRenderer": {"content": {"videoRenderer": {"videoId": "v2"}}}},
	      {"continuationItemRenderer": {}}
	    ]}}}}
	  ]}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Some Channel", info.AlbumName)
	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=v1",
		"https://www.youtube.com/watch?v=v2",
	}, info.SongURLs)
}

const cardsSection = `{"horizontalCardListRenderer": {"cards": [
  {"videoAttributeViewModel": {
    "title": "Song Title", "subtitle": "Song Artist", "secondarySubtitle": {"content": "Song Album"},
    "image": {"sources": [{"url": "https://lh3.googleusercontent.com/cover"}]}
  }}
]}}`

const headerSection = `{"videoDescriptionHeaderRenderer": {
  "title": {"runs": [{"text": "Video Title"}]}, "channel": {"simpleText": "Video Channel"}
}}`

func songPage(items ...string) string {
	out := `{"engagementPanels": [{"engagementPanelSectionListRenderer": {"content": {"structuredDescriptionContentRenderer": {"items": [`
	for i, item := range items {
		if i > 0 {
			out += ","
		}
		out += item
	}
	return out + `]}}}}]}`
}

func TestSongFromTree_CardsTakePrecedence(t *testing.T) {
	t.Parallel()

	const url = "https://www.youtube.com/watch?v=x"

	track, err := extract.SongFromTree(state.FromJSON(songPage(headerSection, cardsSection)), url)
	require.NoError(t, err)
	assert.Equal(t, "Song Title", track.Title)
	assert.Equal(t, "Song Artist", track.Artist)
	assert.Equal(t, "Song Album", track.Album)
	assert.Equal(t, "https://lh3.googleusercontent.com/cover", track.CoverArtURL)
	assert.Equal(t, "song", track.Kind.String())
}

func TestSongFromTree_VideoFallback(t *testing.T) {
	t.Parallel()

	const url = "https://www.youtube.com/watch?v=x"

	track, err := extract.SongFromTree(state.FromJSON(songPage(headerSection)), url)
	require.NoError(t, err)
	assert.Equal(t, "Video Title", track.Title)
	assert.Equal(t, "Video Channel", track.ChannelName())
	assert.Equal(t, "Video Title", track.Album)
	assert.Equal(t, url, track.CoverArtURL)
	assert.Equal(t, url, track.SourceURL)
	assert.Equal(t, "video", track.Kind.String())
}

func TestExtractors_MissingPaths(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := zerolog.Nop()

	for name, body := range map[string]string{
		"empty object":  html(`{}`),
		"wrong shapes":  html(`{"contents": [], "metadata": "x", "engagementPanels": {}}`),
		"no state":      `<html><script>var x = 1;</script></html>`,
		"malformed":     html(`{"contents": `),
		"unknown fetch": "",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src := pages{}
			if body != "" {
				src["u"] = body
			}
			e := extract.New(src)

			_, err := e.Release(ctx, logger, "u")
			require.ErrorIs(t, err, extract.ErrNotFound)

			_, err = e.Playlist(ctx, logger, "u")
			require.ErrorIs(t, err, extract.ErrNotFound)

			_, err = e.Videos(ctx, logger, "u")
			require.ErrorIs(t, err, extract.ErrNotFound)

			_, err = e.Song(ctx, logger, "u")
			require.ErrorIs(t, err, extract.ErrNotFound)
		})
	}
}

func TestExtractor_FetchesAndParses(t *testing.T) {
	t.Parallel()

	e := extract.New(pages{
		"release":  html(releasePage),
		"playlist": html(playlistPage),
		"song":     html(songPage(cardsSection)),
	})
	ctx := context.Background()
	logger := zerolog.Nop()

	release, err := e.Release(ctx, logger, "release")
	require.NoError(t, err)
	assert.Len(t, release.PlaylistURLs, 2)

	playlist, err := e.Playlist(ctx, logger, "playlist")
	require.NoError(t, err)
	assert.Len(t, playlist.SongURLs, 3)

	song, err := e.Song(ctx, logger, "song")
	require.NoError(t, err)
	assert.Equal(t, "song", song.SourceURL)
}
