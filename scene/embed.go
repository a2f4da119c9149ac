package scene

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scenes/*.yaml scenes/*.tengo
var ScenesFS embed.FS

// Load returns the named file from disk when it exists, otherwise from the
// embedded scenes.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(embeddedPath(name))
}

// ModTime reports the on-disk modification time of name.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(name)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names lists the embedded scene files.
func Names() []string {
	entries, err := ScenesFS.ReadDir("scenes")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if isSpecFile(e.Name()) {
			out = append(out, e.Name())
		}
	}
	return out
}

func onDisk(name string) bool {
	_, ok := ModTime(name)
	return ok
}

func embeddedPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "scene/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "scenes/"); ok {
		s = after
	}
	return "scenes/" + s
}
