package acquire_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokiebisu/sonus/cache"
	"github.com/kokiebisu/sonus/config"
	"github.com/kokiebisu/sonus/youtube/acquire"
	"github.com/kokiebisu/sonus/youtube/types"
)

// fakeYtDlp mimics the output naming of yt-dlp and fails for URLs
// containing "fail".
const fakeYtDlp = `#!/bin/sh
out=""
ext="mp4"
last=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift ;;
    -x) ext="mp3" ;;
  esac
  last="$1"
  shift
done
case "$last" in
  *fail*) echo "ERROR: [youtube] video unavailable" >&2; exit 1 ;;
esac
file=$(printf '%s' "$out" | sed "s/%(ext)s/$ext/")
printf 'fake-audio-frame' > "$file"
`

var pngCover = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type covers struct {
	calls int
	body  []byte
}

func (c *covers) FetchBytes(context.Context, zerolog.Logger, string) ([]byte, error) {
	c.calls++
	if nil == c.body {
		return nil, errors.New("unavailable")
	}

	return c.body, nil
}

func binary(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(fakeYtDlp), 0o700)) //nolint:gosec

	return path
}

func conf(t *testing.T) config.Acquirer {
	t.Helper()

	return config.Acquirer{
		Binary:  binary(t),
		Timeout: config.Duration{Duration: 30 * time.Second},
	}
}

func TestAcquire_MusicTagged(t *testing.T) {
	t.Parallel()

	var (
		dir = t.TempDir()
		cvs = &covers{body: pngCover} //nolint:exhaustruct
		a   = acquire.New(conf(t), cvs, cache.New(), true)
	)

	path, err := a.Acquire(context.Background(), zerolog.Nop(), types.Task{
		SourceURL:      "https://www.youtube.com/watch?v=ok",
		DestinationDir: dir,
		FileName:       "Song",
		Mode:           types.ModeMusic,
		Metadata: types.Metadata{
			Title:       "Song",
			Artist:      "Artist",
			Album:       "Album",
			CoverArtURL: "https://i.ytimg.com/cover.png",
			SourceURL:   "https://www.youtube.com/watch?v=ok",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Song.mp3"), path)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true}) //nolint:exhaustruct
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "Song", tag.Title())
	assert.Equal(t, "Artist", tag.Artist())
	assert.Equal(t, "Album", tag.Album())

	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	require.Len(t, pics, 1)
	pic, ok := pics[0].(id3v2.PictureFrame)
	require.True(t, ok)
	assert.Equal(t, "image/png", pic.MimeType)
	assert.Equal(t, 1, cvs.calls)
}

func TestAcquire_VideoFallbackCoverSkipped(t *testing.T) {
	t.Parallel()

	var (
		cvs = &covers{} //nolint:exhaustruct
		url = "https://www.youtube.com/watch?v=plain"
		a   = acquire.New(conf(t), cvs, nil, true)
	)

	path, err := a.Acquire(context.Background(), zerolog.Nop(), types.Task{
		SourceURL:      url,
		DestinationDir: t.TempDir(),
		FileName:       "Plain",
		Mode:           types.ModeMusic,
		Metadata:       types.Metadata{Title: "Plain", Artist: "Channel", Album: "Plain", CoverArtURL: url, SourceURL: url},
	})
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Zero(t, cvs.calls)
}

func TestAcquire_Video(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := acquire.New(conf(t), nil, nil, true).Acquire(context.Background(), zerolog.Nop(), types.Task{
		SourceURL:      "https://www.youtube.com/watch?v=clip",
		DestinationDir: dir,
		FileName:       "Clip",
		Mode:           types.ModeVideo,
		Metadata:       types.Metadata{Title: "Clip", Channel: "Channel"},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Clip.mp4"), path)
	assert.FileExists(t, path)
}

func TestAcquire_Failure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := acquire.New(conf(t), nil, nil, true).Acquire(context.Background(), zerolog.Nop(), types.Task{
		SourceURL:      "https://www.youtube.com/watch?v=fail",
		DestinationDir: dir,
		FileName:       "Broken",
		Mode:           types.ModeMusic,
	})
	require.Error(t, err)

	var aerr *acquire.AcquisitionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "https://www.youtube.com/watch?v=fail", aerr.URL)
	assert.Contains(t, err.Error(), "video unavailable")
	assert.NoFileExists(t, filepath.Join(dir, "Broken.mp3"))
}

func TestAcquire_SkipExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "Old.mp3")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o600))

	c := conf(t)
	c.Binary = filepath.Join(dir, "missing-binary")

	path, err := acquire.New(c, nil, nil, true).Acquire(context.Background(), zerolog.Nop(), types.Task{
		SourceURL:      "https://www.youtube.com/watch?v=old",
		DestinationDir: dir,
		FileName:       "Old",
		Mode:           types.ModeMusic,
	})
	require.NoError(t, err)
	assert.Equal(t, existing, path)

	b, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(b))

	_, err = acquire.New(c, nil, nil, false).Acquire(context.Background(), zerolog.Nop(), types.Task{
		SourceURL:      "https://www.youtube.com/watch?v=old",
		DestinationDir: dir,
		FileName:       "Old",
		Mode:           types.ModeMusic,
	})
	require.Error(t, err)
}
