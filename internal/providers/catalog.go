package providers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/models"
)

// Catalog holds the configured provider descriptors keyed by id. Descriptors
// are loaded from a directory of TOML files on startup; callers may also
// register descriptors programmatically.
type Catalog struct {
	mu          sync.RWMutex
	descriptors map[string]*models.ProviderDescriptor
	logger      arbor.ILogger
}

// NewCatalog creates an empty provider catalog.
func NewCatalog(logger arbor.ILogger) *Catalog {
	return &Catalog{
		descriptors: make(map[string]*models.ProviderDescriptor),
		logger:      logger,
	}
}

// LoadDir reads every *.toml file in dir as a provider descriptor. A missing
// directory is not an error; the catalog just stays empty.
func (c *Catalog) LoadDir(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Debug().Str("dir", dir).Msg("Provider directory does not exist, skipping")
			return nil
		}
		return fmt.Errorf("failed to read provider directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Warn().Err(err).Str("file", path).Msg("Failed to read provider file")
			continue
		}

		var desc models.ProviderDescriptor
		if err := toml.Unmarshal(data, &desc); err != nil {
			c.logger.Warn().Err(err).Str("file", path).Msg("Failed to parse provider file")
			continue
		}
		if desc.ID == "" {
			c.logger.Warn().Str("file", path).Msg("Provider file missing id, skipped")
			continue
		}

		c.Register(&desc)
		loaded++
	}

	c.logger.Debug().Int("count", loaded).Str("dir", dir).Msg("Provider descriptors loaded")
	return nil
}

// Register adds or replaces a descriptor.
func (c *Catalog) Register(desc *models.ProviderDescriptor) {
	c.mu.Lock()
	c.descriptors[desc.ID] = desc
	c.mu.Unlock()
}

// Get returns the descriptor for a provider id.
func (c *Catalog) Get(id string) (*models.ProviderDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	desc, ok := c.descriptors[id]
	return desc, ok
}

// List returns every registered descriptor. An empty catalog yields an
// empty list, never nil panics.
func (c *Catalog) List() []*models.ProviderDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*models.ProviderDescriptor, 0, len(c.descriptors))
	for _, desc := range c.descriptors {
		out = append(out, desc)
	}
	return out
}
