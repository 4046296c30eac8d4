// Package acquire fetches one media item to disk with yt-dlp and tags music
// files with the extracted metadata.
package acquire

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/cache"
	"github.com/kokiebisu/sonus/config"
	"github.com/kokiebisu/sonus/youtube/fs"
	"github.com/kokiebisu/sonus/youtube/types"
)

// AcquisitionError is a failed acquisition of a single item.
type AcquisitionError struct {
	URL string
	Err error
}

func (e *AcquisitionError) Error() string {
	return "acquire " + e.URL + ": " + e.Err.Error()
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// CoverFetcher downloads raw cover art bytes.
type CoverFetcher interface {
	FetchBytes(ctx context.Context, logger zerolog.Logger, url string) ([]byte, error)
}

type Acquirer struct {
	conf         config.Acquirer
	covers       CoverFetcher
	cache        *cache.Cache
	skipExisting bool
}

func New(conf config.Acquirer, covers CoverFetcher, cache *cache.Cache, skipExisting bool) *Acquirer {
	return &Acquirer{
		conf:         conf,
		covers:       covers,
		cache:        cache,
		skipExisting: skipExisting,
	}
}

// Acquire writes task's media to <DestinationDir>/<FileName>.<ext> and
// returns that path. An existing file is reused when skipping is enabled.
func (a *Acquirer) Acquire(ctx context.Context, logger zerolog.Logger, task types.Task) (string, error) {
	trackFs := fs.TrackAt(task.DestinationDir, task.FileName, task.Mode)
	path := trackFs.Path
	logger = logger.With().Str("source_url", task.SourceURL).Str("path", path).Logger()

	existed, err := trackFs.Exists()
	if nil != err {
		return "", &AcquisitionError{URL: task.SourceURL, Err: err}
	}
	if existed && a.skipExisting {
		logger.Info().Msg("File already exists, skipping acquisition")
		return path, nil
	}

	if d := a.conf.Timeout.Duration; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if err := a.download(ctx, logger, task); nil != err {
		if !existed {
			if removeErr := trackFs.Remove(); nil != removeErr {
				err = errors.Join(err, removeErr)
			}
		}

		return "", &AcquisitionError{URL: task.SourceURL, Err: err}
	}

	if exists, err := trackFs.Exists(); nil != err {
		return "", &AcquisitionError{URL: task.SourceURL, Err: err}
	} else if !exists {
		return "", &AcquisitionError{URL: task.SourceURL, Err: fmt.Errorf("%s produced no output file", a.conf.Binary)}
	}

	if task.Mode == types.ModeMusic {
		cover := a.cover(ctx, logger, task.Metadata)
		if err := tagFile(path, task.Metadata, cover); nil != err {
			logger.Warn().Err(err).Msg("Failed to tag acquired file")
		}
	}

	logger.Debug().Msg("Acquired file")

	return path, nil
}
