package types

type LinkKind int

func (k LinkKind) String() string {
	switch k {
	case LinkKindRelease:
		return "release"
	case LinkKindPlaylist:
		return "playlist"
	case LinkKindVideos:
		return "videos"
	case LinkKindSong:
		return "song"
	}

	return "unknown"
}

const (
	LinkKindSong LinkKind = iota
	LinkKindRelease
	LinkKindPlaylist
	LinkKindVideos
)

type Link struct {
	Kind LinkKind
	URL  string
}

type Mode string

const (
	ModeMusic Mode = "music"
	ModeVideo Mode = "video"
)

func (m Mode) Valid() bool {
	return m == ModeMusic || m == ModeVideo
}

func (m Mode) Ext() string {
	if m == ModeVideo {
		return "mp4"
	}

	return "mp3"
}
