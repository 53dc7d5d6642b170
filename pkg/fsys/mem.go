package fsys

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrInjected is returned by Mem operations configured to fail.
var ErrInjected = errors.New("injected failure")

type memFile struct {
	data    []byte
	modTime time.Time
}

// Mem is an in-memory FS keyed by slash-separated full paths.
// Directories are implied by file paths. It is safe for concurrent use.
type Mem struct {
	mu        sync.Mutex
	files     map[string]memFile
	failDir   map[string]bool
	failRead  map[string]bool
	failStat  map[string]bool
	readCount map[string]int
}

// NewMem creates an empty in-memory filesystem.
func NewMem() *Mem {
	return &Mem{
		files:     make(map[string]memFile),
		failDir:   make(map[string]bool),
		failRead:  make(map[string]bool),
		failStat:  make(map[string]bool),
		readCount: make(map[string]int),
	}
}

// WriteFile creates or replaces a file with the given modification time.
func (m *Mem) WriteFile(p string, data string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(p)] = memFile{data: []byte(data), modTime: modTime}
}

// Touch changes a file's modification time without changing its content.
func (m *Mem) Touch(p string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if f, ok := m.files[p]; ok {
		f.modTime = modTime
		m.files[p] = f
	}
}

// Remove deletes a file.
func (m *Mem) Remove(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path.Clean(p))
}

// FailReadDir makes ReadDir on p fail.
func (m *Mem) FailReadDir(p string) { m.setFail(m.failDir, p) }

// FailReadFile makes ReadFile on p fail.
func (m *Mem) FailReadFile(p string) { m.setFail(m.failRead, p) }

// FailStat makes Stat on p fail.
func (m *Mem) FailStat(p string) { m.setFail(m.failStat, p) }

func (m *Mem) setFail(set map[string]bool, p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set[path.Clean(p)] = true
}

// Reads returns how many times ReadFile has been called for p.
func (m *Mem) Reads(p string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readCount[path.Clean(p)]
}

// TotalReads returns the number of ReadFile calls across all paths.
func (m *Mem) TotalReads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.readCount {
		total += n
	}
	return total
}

// ReadDir lists files and implied subdirectories directly under p.
func (m *Mem) ReadDir(ctx context.Context, p string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p = path.Clean(p)
	if m.failDir[p] {
		return nil, ErrInjected
	}

	prefix := p + "/"
	if p == "/" {
		prefix = "/"
	}
	seen := make(map[string]bool)
	var entries []Entry
	for name := range m.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		child, _, nested := strings.Cut(rest, "/")
		if seen[child] {
			continue
		}
		seen[child] = true
		entries = append(entries, Entry{Name: child, IsDir: nested, Path: path.Join(p, child)})
	}
	if len(entries) == 0 {
		return nil, fs.ErrNotExist
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

// ReadFile returns a copy of the file's content.
func (m *Mem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p = path.Clean(p)
	m.readCount[p]++
	if m.failRead[p] {
		return nil, ErrInjected
	}
	f, ok := m.files[p]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return slices.Clone(f.data), nil
}

// Stat returns the file's size and modification time.
func (m *Mem) Stat(ctx context.Context, p string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p = path.Clean(p)
	if m.failStat[p] {
		return FileInfo{}, ErrInjected
	}
	f, ok := m.files[p]
	if !ok {
		return FileInfo{}, fs.ErrNotExist
	}
	return FileInfo{Size: int64(len(f.data)), ModTime: f.modTime}, nil
}

var _ FS = (*Mem)(nil)
