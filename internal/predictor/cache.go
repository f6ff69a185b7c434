package predictor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ModelLoader opens a classifier artifact.
type ModelLoader func(path string) (Classifier, error)

// NetworkLoader is the ModelLoader for JSON dense-network artifacts.
func NetworkLoader(path string) (Classifier, error) {
	return LoadNetwork(path)
}

// describedModel is implemented by artifacts that carry a name and version.
type describedModel interface {
	Name() string
	Version() string
}

// ModelCache holds the process-wide classifier for one artifact path. The first
// Get loads it; later calls share the instance. A failed load stays failed
// until Close.
//
// Close must not run concurrently with Get. It is meant for shutdown and tests.
type ModelCache struct {
	path   string
	load   ModelLoader
	logger *logrus.Logger

	once   *sync.Once
	model  Classifier
	err    error
	loaded atomic.Bool
	loads  atomic.Int32
}

func NewModelCache(path string, load ModelLoader, logger *logrus.Logger) *ModelCache {
	return &ModelCache{
		path:   path,
		load:   load,
		logger: logger,
		once:   new(sync.Once),
	}
}

// Get returns the cached classifier. Load failures match ErrModelUnavailable.
func (c *ModelCache) Get() (Classifier, error) {
	c.once.Do(func() {
		start := time.Now()
		c.loads.Add(1)
		log := c.logger.WithField("model_path", c.path)
		log.Info("Loading winner model")

		model, err := c.load(c.path)
		if err != nil {
			c.err = fmt.Errorf("%w: %v", ErrModelUnavailable, err)
			log.WithError(err).Error("Failed to load winner model")
			return
		}
		c.model = model
		c.loaded.Store(true)
		fields := logrus.Fields{
			"input_size": model.InputSize(),
			"duration":   time.Since(start),
		}
		if d, ok := model.(describedModel); ok {
			fields["model_name"] = d.Name()
			fields["model_version"] = d.Version()
		}
		log.WithFields(fields).Info("Winner model loaded")
	})
	return c.model, c.err
}

func (c *ModelCache) Path() string {
	return c.path
}

func (c *ModelCache) Loaded() bool {
	return c.loaded.Load()
}

// Loads counts how many times the loader has run.
func (c *ModelCache) Loads() int {
	return int(c.loads.Load())
}

func (c *ModelCache) Close() {
	c.once = new(sync.Once)
	c.model = nil
	c.err = nil
	c.loaded.Store(false)
}
