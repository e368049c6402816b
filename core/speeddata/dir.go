package speeddata

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMarker is the substring a file name must contain to be ingested.
const DefaultMarker = "speeddata"

// ErrNotIngestible is returned when a file name does not follow the naming convention.
var ErrNotIngestible = errors.New("file name is not ingestible")

// Dir is the data directory and its naming convention.
type Dir struct {
	Path   string
	Marker string
}

func (d Dir) marker() string {
	if d.Marker == "" {
		return DefaultMarker
	}
	return d.Marker
}

// Matches reports whether a file name is discoverable.
func (d Dir) Matches(name string) bool {
	return strings.HasSuffix(name, ".csv") && strings.Contains(name, d.marker())
}

// fileInfo is one discoverable file with the stat data used for memoisation.
type fileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime int64
}

// files lists discoverable files sorted by name. A missing directory yields no files.
func (d Dir) files() ([]fileInfo, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []fileInfo
	for _, e := range entries {
		if e.IsDir() || !d.Matches(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, fileInfo{
			Name:    e.Name(),
			Path:    filepath.Join(d.Path, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime().UnixNano(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Write stores r under name inside the directory, replacing any existing file.
// The content is written to a temporary file first so concurrent scans never
// observe a partial file.
func (d Dir) Write(name string, r io.Reader) (string, error) {
	base := filepath.Base(name)
	if base != name || !d.Matches(base) {
		return "", fmt.Errorf("%w: %s", ErrNotIngestible, name)
	}
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(d.Path, ".upload-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	target := filepath.Join(d.Path, base)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", err
	}
	return target, nil
}
