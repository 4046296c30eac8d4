// Package extract turns ytInitialData state trees into typed records.
//
// The page schema is undocumented and drifts, so every extractor treats any
// missing step as "nothing here": callers only ever see a record or
// ErrNotFound. The reason is logged, never returned.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/youtube/state"
)

const (
	watchURLFormat    = "https://www.youtube.com/watch?v=%s"
	playlistURLFormat = "https://www.youtube.com/playlist?list=%s"
)

var ErrNotFound = errors.New("not found")

type PageFetcher interface {
	Fetch(ctx context.Context, logger zerolog.Logger, url string) (string, error)
}

type Extractor struct {
	fetcher PageFetcher
}

func New(fetcher PageFetcher) *Extractor {
	return &Extractor{fetcher: fetcher}
}

// missing reports an unresolved navigation step.
func missing(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func extract[T any](
	ctx context.Context,
	logger zerolog.Logger,
	e *Extractor,
	url string,
	from func(tree state.Tree, url string) (*T, error),
) (out *T, err error) {
	defer func() {
		if r := recover(); nil != r {
			logger.Error().Interface("panic", r).Msg("Extraction panicked")
			out, err = nil, ErrNotFound
		}
	}()

	body, err := e.fetcher.Fetch(ctx, logger, url)
	if nil != err {
		logger.Warn().Err(err).Msg("Failed to fetch page")
		return nil, ErrNotFound
	}

	tree, err := state.Parse(body)
	if nil != err {
		logger.Warn().Err(err).Msg("Failed to parse embedded page state")
		return nil, ErrNotFound
	}

	out, err = from(tree, url)
	if nil != err {
		logger.Warn().Err(err).Msg("Expected page section is missing")
		return nil, ErrNotFound
	}

	return out, nil
}

// selectedGrid returns the rich grid of the selected browse tab, falling back
// to the tab at fallback when no tab is marked selected.
func selectedGrid(tree state.Tree, fallback int) (state.Tree, bool) {
	tabs, ok := tree.Array("contents", "twoColumnBrowseResultsRenderer", "tabs")
	if !ok {
		return state.Tree{}, false
	}

	for _, tab := range tabs {
		if selected, _ := tab.Bool("tabRenderer", "selected"); !selected {
			continue
		}
		if grid, ok := tab.Get("tabRenderer", "content", "richGridRenderer"); ok {
			return grid, true
		}
	}

	if fallback >= len(tabs) {
		return state.Tree{}, false
	}

	return tabs[fallback].Get("tabRenderer", "content", "richGridRenderer")
}
