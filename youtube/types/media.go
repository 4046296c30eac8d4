package types

import (
	"github.com/rs/zerolog"
)

type ReleaseInfo struct {
	ArtistName   string
	PlaylistURLs []string
}

// PlaylistInfo also describes a channel video listing, in which case
// AlbumName holds the channel name.
type PlaylistInfo struct {
	AlbumName   string
	SongURLs    []string
	Artist      string
	CoverArtURL string
}

type TrackKind int

const (
	TrackKindSong TrackKind = iota
	TrackKindVideo
)

func (k TrackKind) String() string {
	if k == TrackKindVideo {
		return "video"
	}

	return "song"
}

// TrackInfo is either a song (metadata cards) or a plain video (description
// header). For videos Artist is the channel name, Album repeats Title and
// CoverArtURL is the source URL.
type TrackInfo struct {
	Kind        TrackKind
	Title       string
	Artist      string
	Album       string
	CoverArtURL string
	SourceURL   string
}

func (t TrackInfo) ChannelName() string {
	return t.Artist
}

func (t TrackInfo) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("kind", t.Kind.String()).
		Str("title", t.Title).
		Str("artist", t.Artist).
		Str("album", t.Album).
		Str("cover_art_url", t.CoverArtURL).
		Str("source_url", t.SourceURL)
}
