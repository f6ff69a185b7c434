package catalog

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrUnavailable wraps every catalog load failure.
var ErrUnavailable = errors.New("player catalog unavailable")

// Loader materializes a catalog from its backing store.
type Loader func() (Catalog, error)

// Cache loads the catalog at most once per process and hands the same instance
// to every caller afterwards. A failed load is cached too; Close resets it.
//
// Close must not run concurrently with Get. It is meant for shutdown and tests.
type Cache struct {
	load   Loader
	logger *logrus.Logger

	once    *sync.Once
	catalog Catalog
	err     error
	loaded  atomic.Bool
	loads   atomic.Int32
}

func NewCache(load Loader, logger *logrus.Logger) *Cache {
	return &Cache{
		load:   load,
		logger: logger,
		once:   new(sync.Once),
	}
}

func (c *Cache) Get() (Catalog, error) {
	c.once.Do(func() {
		start := time.Now()
		c.loads.Add(1)
		cat, err := c.load()
		if err != nil {
			c.err = fmt.Errorf("%w: %v", ErrUnavailable, err)
			c.logger.WithError(err).Error("Player catalog load failed")
			return
		}
		c.catalog = cat
		c.loaded.Store(true)
		c.logger.WithFields(logrus.Fields{
			"players":  cat.Len(),
			"duration": time.Since(start),
		}).Info("Player catalog loaded")
	})
	return c.catalog, c.err
}

// Loaded reports whether a catalog is held.
func (c *Cache) Loaded() bool {
	return c.loaded.Load()
}

// Loads counts how many times the loader has run.
func (c *Cache) Loads() int {
	return int(c.loads.Load())
}

func (c *Cache) Close() {
	c.once = new(sync.Once)
	c.catalog = nil
	c.err = nil
	c.loaded.Store(false)
}

// CSVLoader loads a MemoryCatalog from a CSV export.
func CSVLoader(path string) Loader {
	return func() (Catalog, error) {
		records, err := LoadCSV(path)
		if err != nil {
			return nil, err
		}
		return NewMemoryCatalog(records)
	}
}

// DatabaseLoader loads a MemoryCatalog from the players table.
func DatabaseLoader(db *gorm.DB) Loader {
	return func() (Catalog, error) {
		records, err := LoadFromDatabase(db)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("players table is empty")
		}
		return NewMemoryCatalog(records)
	}
}
