// Package assets loads tile images from disk and turns them into alpha masks.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png" // PNG decoder registration
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP decoder registration

	"github.com/Faultbox/terrainpath/internal/logger"
	"github.com/Faultbox/terrainpath/internal/terrain"
)

// ErrNotFound is returned when no root holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager loads assets from a list of root directories.
type Manager struct {
	roots []string
	cache *Cache
	masks map[string]*terrain.AlphaMask
	mu    sync.RWMutex
}

// NewManager creates a new asset manager searching roots.
func NewManager(roots ...string) *Manager {
	return &Manager{
		roots: roots,
		cache: NewCache(),
		masks: make(map[string]*terrain.AlphaMask),
	}
}

// AddRoot adds a directory to search.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
	return nil
}

// Load reads a file. Absolute paths are read directly; relative paths are
// resolved against the roots.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	if filepath.IsAbs(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		m.cache.Set(path, data)
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := os.ReadFile(filepath.Join(m.roots[i], path))
		if err == nil {
			m.cache.Set(path, data)
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// LoadImage decodes a PNG, BMP or TGA image. BMP files have no alpha channel
// and use magenta as the transparency key.
func (m *Manager) LoadImage(path string) (image.Image, error) {
	data, err := m.Load(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return img, nil
	default:
		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		if format == "bmp" {
			return ApplyMagentaKey(img), nil
		}
		return img, nil
	}
}

// LoadAlphaMask returns the alpha mask of an image, decoding it once per path.
func (m *Manager) LoadAlphaMask(path string) (*terrain.AlphaMask, error) {
	m.mu.RLock()
	mask, ok := m.masks[path]
	m.mu.RUnlock()
	if ok {
		return mask, nil
	}

	img, err := m.LoadImage(path)
	if err != nil {
		return nil, err
	}
	mask = terrain.NewAlphaMask(img)
	logger.Debug("Loaded alpha mask",
		zap.String("path", path),
		zap.Int("width", mask.Width),
		zap.Int("height", mask.Height),
	)

	m.mu.Lock()
	m.masks[path] = mask
	m.mu.Unlock()
	return mask, nil
}

// Close drops all cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.masks = make(map[string]*terrain.AlphaMask)
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
