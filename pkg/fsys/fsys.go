// Package fsys defines the filesystem collaborator consumed by graph
// construction: directory listing, file reads, and stat.
//
// Two implementations are provided. [OS] reads the local disk. [Mem] is an
// in-memory tree used by tests; it counts reads per path and can be told to
// fail individual operations, which is how parse-cache and partial-failure
// behavior is exercised without touching a real disk.
//
// Paths passed to an FS are full paths (root joined with the document's
// relative path). Callers treat any returned error as "unusable" for that path.
package fsys

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Entry is a single directory listing result.
type Entry struct {
	Name  string
	IsDir bool
	Path  string // Full path (parent joined with Name)
}

// FileInfo carries the facts needed for mtime-gated caching.
type FileInfo struct {
	Size    int64
	ModTime time.Time
}

// FS is the filesystem surface used by the graph builder.
type FS interface {
	ReadDir(ctx context.Context, path string) ([]Entry, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
}

// OS implements FS on the local filesystem.
type OS struct{}

// ReadDir lists the entries of a directory.
func (OS) ReadDir(ctx context.Context, path string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		entries = append(entries, Entry{
			Name:  d.Name(),
			IsDir: d.IsDir(),
			Path:  filepath.Join(path, d.Name()),
		})
	}
	return entries, nil
}

// ReadFile returns the contents of a file.
func (OS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Stat returns size and modification time.
func (OS) Stat(ctx context.Context, path string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{Size: info.Size(), ModTime: info.ModTime()}, nil
}

var _ FS = OS{}
