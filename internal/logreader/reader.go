// Package logreader provides cached access to log files. A file is read from
// disk once and its lines are served to every attribute that filters on it,
// so a processing pass costs one read per unique path instead of one read per
// attribute. Staleness is the caller's problem: cached content is served
// until the path is explicitly invalidated.
package logreader

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

// Reader caches whole log files by path and serves pattern-filtered views of
// the cached lines. The zero value is not usable; construct with NewReader.
type Reader struct {
	mu    sync.RWMutex
	cache map[string][]string

	// readFile is a seam for tests to count or fake disk reads.
	readFile func(path string) ([]byte, error)
}

// NewReader creates an empty reader cache.
func NewReader() *Reader {
	return &Reader{
		cache:    make(map[string][]string),
		readFile: os.ReadFile,
	}
}

// Read returns the trimmed lines of the file at path that match pattern,
// case-insensitively. An empty pattern selects every line. The first Read of
// a path loads the whole file into the cache; later calls for the same path
// serve cached content with no disk access, whatever the pattern.
//
// A path that does not exist and is not already cached fails with the
// underlying fs.ErrNotExist wrapped.
func (r *Reader) Read(path string, pattern string) ([]string, error) {
	lines, err := r.cachedLines(path)
	if err != nil {
		return nil, err
	}
	return filterLines(lines, pattern)
}

// Invalidate removes one path's cached content. The next Read of that path
// re-reads the file from disk.
func (r *Reader) Invalidate(path string) {
	r.mu.Lock()
	delete(r.cache, path)
	r.mu.Unlock()
}

// Clear empties the whole cache. Use before a re-processing pass that must
// observe updated file contents.
func (r *Reader) Clear() {
	r.mu.Lock()
	r.cache = make(map[string][]string)
	r.mu.Unlock()
}

func (r *Reader) cachedLines(path string) ([]string, error) {
	r.mu.RLock()
	lines, ok := r.cache[path]
	r.mu.RUnlock()
	if ok {
		return lines, nil
	}

	data, err := r.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file %s: %w", path, err)
	}

	lines = splitLines(data)

	r.mu.Lock()
	r.cache[path] = lines
	r.mu.Unlock()

	return lines, nil
}

// Search performs an uncached one-shot scan of the file at path, returning
// every trimmed line matching pattern case-insensitively. Each call reads
// the file again; it neither consults nor populates any Reader cache. This
// is deliberately a separate, more expensive code path from Reader.Read:
// use it for ad hoc scans where cache coherence matters more than I/O cost.
func Search(pattern string, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file %s: %w", path, err)
	}
	return filterLines(splitLines(data), pattern)
}

func splitLines(data []byte) []string {
	raw := strings.Split(string(data), "\n")

	// a trailing newline produces one empty final element, drop it
	if len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

func filterLines(lines []string, pattern string) ([]string, error) {
	if pattern == "" {
		result := make([]string, len(lines))
		copy(result, lines)
		return result, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid line pattern %q: %w", pattern, err)
	}

	var result []string
	for _, line := range lines {
		if re.MatchString(line) {
			result = append(result, line)
		}
	}
	return result, nil
}
