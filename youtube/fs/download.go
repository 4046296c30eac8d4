package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/kokiebisu/sonus/sanitize"
	"github.com/kokiebisu/sonus/youtube/types"
)

// InfoFileName is the per-directory manifest written after a playlist or
// channel listing finishes.
const InfoFileName = ".sonus.json"

type DownloadDir string

func DownloadDirFrom(d string) DownloadDir {
	return DownloadDir(d)
}

func (dir DownloadDir) Path() string {
	return string(dir)
}

// Release is the artist directory that groups album directories.
func (dir DownloadDir) Release(artist string) Release {
	return Release{DirPath: filepath.Join(dir.Path(), sanitize.Name(artist))}
}

type Release struct {
	DirPath string
}

func (r Release) Create() error {
	return mkdir(r.DirPath)
}

func (r Release) Dir() DownloadDir {
	return DownloadDir(r.DirPath)
}

func (dir DownloadDir) Playlist(name string) Playlist {
	dirPath := filepath.Join(dir.Path(), sanitize.Name(name))

	return Playlist{
		DirPath:  dirPath,
		InfoFile: InfoFile[types.StoredPlaylist]{Path: filepath.Join(dirPath, InfoFileName)},
	}
}

// Channel lays out a channel video listing exactly like a playlist.
func (dir DownloadDir) Channel(name string) Playlist {
	return dir.Playlist(name)
}

type Playlist struct {
	DirPath  string
	InfoFile InfoFile[types.StoredPlaylist]
}

func (p Playlist) Create() error {
	return mkdir(p.DirPath)
}

func (p Playlist) Dir() DownloadDir {
	return DownloadDir(p.DirPath)
}

// Track is where the acquirer writes title in mode's container.
func (dir DownloadDir) Track(title string, mode types.Mode) Track {
	return TrackAt(dir.Path(), sanitize.Name(title), mode)
}

// TrackAt locates an already sanitised file name inside dirPath.
func TrackAt(dirPath, fileName string, mode types.Mode) Track {
	return Track{
		DirPath:  dirPath,
		FileName: fileName,
		Path:     filepath.Join(dirPath, fileName+"."+mode.Ext()),
	}
}

type Track struct {
	DirPath  string
	FileName string
	Path     string
}

func (t Track) Exists() (bool, error) {
	return fileExists(t.Path)
}

func (t Track) Remove() error {
	if err := os.Remove(t.Path); nil != err && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove track file: %v", err)
	}

	return nil
}

func mkdir(path string) error {
	if err := os.MkdirAll(path, 0o755); nil != err {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	return nil
}

func fileExists(path string) (bool, error) {
	if _, err := os.Stat(path); nil != err {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("failed to stat file: %v", err)
	}

	return true, nil
}

type InfoFile[T any] struct {
	Path string
}

func (p InfoFile[T]) Read() (*T, error) {
	return readInfoFile(p)
}

func (p InfoFile[T]) Write(v T) error {
	return writeInfoFile(p, v)
}

func readInfoFile[T any](file InfoFile[T]) (t *T, err error) {
	f, err := os.OpenFile(file.Path, os.O_RDONLY, 0o0600)
	if nil != err {
		return nil, fmt.Errorf("failed to open info file for read: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("failed to close info file: %v", closeErr))
		}
	}()

	var out T
	if err := json.NewDecoder(f).Decode(&out); nil != err {
		return nil, fmt.Errorf("failed to decode info file contents: %v", err)
	}

	return &out, nil
}

func writeInfoFile[T any](file InfoFile[T], obj T) (err error) {
	filePath := file.Path

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o0644)
	if nil != err {
		return fmt.Errorf("failed to open info file for write: %v", err)
	}
	defer func() {
		if closeErr := f.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("failed to close info file: %v", closeErr))
		}
		if nil != err {
			if removeErr := os.Remove(filePath); nil != removeErr && !errors.Is(removeErr, os.ErrNotExist) {
				err = errors.Join(err, fmt.Errorf("failed to remove incomplete info file: %v", removeErr))
			}
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); nil != err {
		return fmt.Errorf("failed to write info content: %v", err)
	}

	if err := f.Sync(); nil != err {
		return fmt.Errorf("failed to sync info file: %v", err)
	}

	return nil
}
