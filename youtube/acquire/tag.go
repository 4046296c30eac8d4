package acquire

import (
	"context"
	"fmt"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/cache"
	"github.com/kokiebisu/sonus/youtube/types"
)

type coverArt struct {
	mime string
	data []byte
}

// cover returns nil when the track has no usable image. Video-derived
// records carry the watch URL as their cover reference, which is skipped.
func (a *Acquirer) cover(ctx context.Context, logger zerolog.Logger, meta types.Metadata) *coverArt {
	url := meta.CoverArtURL
	if url == "" || url == meta.SourceURL || nil == a.covers {
		return nil
	}
	logger = logger.With().Str("cover_url", url).Logger()

	fetch := func() ([]byte, error) { return a.covers.FetchBytes(ctx, logger, url) }

	var (
		b   []byte
		err error
	)
	if nil != a.cache {
		b, err = a.cache.Covers.Fetch(url, cache.DefaultCoverTTL, fetch)
	} else {
		b, err = fetch()
	}
	if nil != err {
		logger.Warn().Err(err).Msg("Failed to fetch cover art")
		return nil
	}

	mime := mimetype.Detect(b)
	if !strings.HasPrefix(mime.String(), "image/") {
		logger.Warn().Str("mime", mime.String()).Msg("Cover art is not an image")
		return nil
	}

	return &coverArt{mime: mime.String(), data: b}
}

func tagFile(path string, meta types.Metadata, cover *coverArt) (err error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true}) //nolint:exhaustruct
	if nil != err {
		return fmt.Errorf("failed to open file for tagging: %v", err)
	}
	defer func() {
		if closeErr := tag.Close(); nil != closeErr && nil == err {
			err = fmt.Errorf("failed to close tagged file: %v", closeErr)
		}
	}()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(meta.Title)
	tag.SetArtist(meta.Artist)
	tag.SetAlbum(meta.Album)
	if meta.Artist != "" {
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), id3v2.EncodingUTF8, meta.Artist)
	}

	if nil != cover {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    cover.mime,
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover.data,
		})
	}

	if err := tag.Save(); nil != err {
		return fmt.Errorf("failed to save tags: %v", err)
	}

	return nil
}
