package extract

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/youtube/state"
	"github.com/kokiebisu/sonus/youtube/types"
)

func (e *Extractor) Song(ctx context.Context, logger zerolog.Logger, url string) (*types.TrackInfo, error) {
	logger = logger.With().Str("extractor", "song").Str("url", url).Logger()
	return extract(ctx, logger, e, url, SongFromTree)
}

// SongFromTree looks through the structured description sections of the
// engagement panels. Within a section, music metadata cards win over the
// plain video description header.
func SongFromTree(tree state.Tree, url string) (*types.TrackInfo, error) {
	panels, ok := tree.Array("engagementPanels")
	if !ok {
		return nil, missing("engagement panels")
	}

	for _, panel := range panels {
		items, ok := panel.Array(
			"engagementPanelSectionListRenderer", "content",
			"structuredDescriptionContentRenderer", "items",
		)
		if !ok {
			continue
		}

		for _, item := range items {
			cards, ok := item.Array("horizontalCardListRenderer", "cards")
			if !ok {
				continue
			}
			if t, ok := songFromCards(cards, url); ok {
				return t, nil
			}
		}

		for _, item := range items {
			header, ok := item.Get("videoDescriptionHeaderRenderer")
			if !ok {
				continue
			}
			if t, ok := videoFromHeader(header, url); ok {
				return t, nil
			}
		}
	}

	return nil, missing("structured description")
}

func songFromCards(cards []state.Tree, url string) (*types.TrackInfo, bool) {
	for _, card := range cards {
		attr, ok := card.Get("videoAttributeViewModel")
		if !ok {
			continue
		}

		title, ok := attr.Str("title")
		if !ok {
			continue
		}

		artist, ok := attr.Str("subtitle")
		if !ok {
			continue
		}

		album, _ := attr.Str("secondarySubtitle", "content")
		if album == "" {
			album, _ = attr.Str("secondarySubtitle")
		}
		cover, _ := attr.Str("image", "sources", 0, "url")

		return &types.TrackInfo{
			Kind:        types.TrackKindSong,
			Title:       title,
			Artist:      artist,
			Album:       album,
			CoverArtURL: cover,
			SourceURL:   url,
		}, true
	}

	return nil, false
}

// videoFromHeader has no album or cover data, so the title doubles as the
// album and the source URL stands in for the cover.
func videoFromHeader(header state.Tree, url string) (*types.TrackInfo, bool) {
	title, ok := header.Str("title", "runs", 0, "text")
	if !ok {
		if title, ok = header.Str("title", "simpleText"); !ok {
			return nil, false
		}
	}

	channel, ok := header.Str("channel", "simpleText")
	if !ok {
		return nil, false
	}

	return &types.TrackInfo{
		Kind:        types.TrackKindVideo,
		Title:       title,
		Artist:      channel,
		Album:       title,
		CoverArtURL: url,
		SourceURL:   url,
	}, true
}
