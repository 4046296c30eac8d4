package fs

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/kokiebisu/sonus/sanitize"
	"github.com/kokiebisu/sonus/youtube/types"
)

// Names hands out directory and file names that are unique within one run.
// Items whose name is already taken in the same directory get their source
// id appended, so same-titled items never share a file.
type Names struct {
	mu    sync.Mutex
	taken map[string]struct{}
}

func NewNames() *Names {
	return &Names{taken: make(map[string]struct{})} //nolint:exhaustruct
}

// Playlist claims a directory for name below dir.
func (n *Names) Playlist(dir DownloadDir, name, id string) Playlist {
	return dir.Playlist(n.claim(dir.Path(), sanitize.Name(name), "", id))
}

// Track claims a file for title inside dir.
func (n *Names) Track(dir DownloadDir, title, id string, mode types.Mode) Track {
	ext := "." + mode.Ext()
	return dir.Track(n.claim(dir.Path(), sanitize.Name(title), ext, id), mode)
}

func (n *Names) claim(dir, name, ext, id string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	candidates := []string{name}
	if id = sanitize.Name(id); id != "untitled" {
		candidates = append(candidates, name+" ["+id+"]")
	}

	for i := 0; ; i++ {
		var candidate string
		if i < len(candidates) {
			candidate = candidates[i]
		} else {
			candidate = candidates[len(candidates)-1] + " (" + strconv.Itoa(i-len(candidates)+2) + ")"
		}

		// case-insensitive filesystems treat "A" and "a" as one entry
		key := strings.ToLower(filepath.Join(dir, candidate+ext))
		if _, ok := n.taken[key]; ok {
			continue
		}
		n.taken[key] = struct{}{}

		return candidate
	}
}
