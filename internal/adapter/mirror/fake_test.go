package mirror

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// memRemote is an in-memory Remote with integer version tokens.
type memRemote struct {
	mu      sync.Mutex
	files   map[string][]byte
	version map[string]int
	writes  int

	// failures makes the next n writes fail with failErr
	failures int
	failErr  error
	// racer bumps the file's version right before the next write
	racer int
	// onWrite runs at the start of every write, outside the lock
	onWrite func(path string)
}

func newMemRemote() *memRemote {
	return &memRemote{files: map[string][]byte{}, version: map[string]int{}}
}

func (m *memRemote) ReadFile(_ context.Context, path string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, "", ErrFileNotFound
	}
	return append([]byte(nil), data...), strconv.Itoa(m.version[path]), nil
}

func (m *memRemote) WriteFile(_ context.Context, path string, content []byte, prev string) (string, error) {
	if m.onWrite != nil {
		m.onWrite(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failures > 0 {
		m.failures--
		return "", m.failErr
	}
	if m.racer > 0 {
		m.racer--
		m.version[path]++
		m.files[path] = []byte(`[{"id":"other-writer"}]`)
	}

	_, exists := m.files[path]
	switch {
	case !exists && prev != "":
		return "", ErrConflict
	case exists && prev != strconv.Itoa(m.version[path]):
		return "", ErrConflict
	}
	m.version[path]++
	m.files[path] = append([]byte(nil), content...)
	return strconv.Itoa(m.version[path]), nil
}

func (m *memRemote) put(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.version[path]++
	m.files[path] = []byte(content)
}

var errRemoteDown = errors.New("remote down")
