package fs

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Lister enumerates corpus files directly under a directory
// (non-recursive), filtered by include/exclude glob patterns applied
// to the bare filename.
type Lister struct {
	includes []string
	excludes []string
}

func NewLister(includes, excludes []string) *Lister {
	if len(includes) == 0 {
		includes = []string{"*"}
	}
	return &Lister{
		includes: includes,
		excludes: excludes,
	}
}

type FileInfo struct {
	Path string
	Name string
	Size int64
}

// List returns matching files in deterministic (name) order.
// Subdirectories are not descended into.
func (l *Lister) List(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !l.shouldInclude(name) || l.shouldExclude(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path: filepath.Join(dir, name),
			Name: name,
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (l *Lister) shouldInclude(name string) bool {
	for _, pattern := range l.includes {
		matched, err := doublestar.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (l *Lister) shouldExclude(name string) bool {
	for _, pattern := range l.excludes {
		matched, err := doublestar.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}
