package types

type Metadata struct {
	Title       string
	Artist      string
	Album       string
	CoverArtURL string
	Channel     string
	SourceURL   string
}

// MetadataFor picks the fields the acquirer needs for mode.
func MetadataFor(t TrackInfo, mode Mode) Metadata {
	if mode == ModeVideo {
		return Metadata{
			Title:     t.Title,
			Channel:   t.ChannelName(),
			SourceURL: t.SourceURL,
		}
	}

	return Metadata{
		Title:       t.Title,
		Artist:      t.Artist,
		Album:       t.Album,
		CoverArtURL: t.CoverArtURL,
		SourceURL:   t.SourceURL,
	}
}

type Task struct {
	SourceURL      string
	DestinationDir string
	FileName       string
	Mode           Mode
	Metadata       Metadata
}

type Result struct {
	OutputPath string `json:"outputPath"`
}

type StoredTrack struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
}

type StoredPlaylist struct {
	Name      string        `json:"name"`
	SourceURL string        `json:"source_url"`
	Mode      Mode          `json:"mode"`
	Tracks    []StoredTrack `json:"tracks"`
}
