package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/hoops-sim/internal/catalog"
	"github.com/stitts-dev/hoops-sim/internal/features"
	"github.com/stitts-dev/hoops-sim/internal/game"
	"github.com/stitts-dev/hoops-sim/internal/models"
	"github.com/stitts-dev/hoops-sim/internal/predictor"
	"github.com/stitts-dev/hoops-sim/internal/sampler"
	"github.com/stitts-dev/hoops-sim/internal/simulator"
	"github.com/stitts-dev/hoops-sim/pkg/config"
	"github.com/stitts-dev/hoops-sim/pkg/database"
)

// Resources owns the process-wide state: the player catalog, the winner model
// and everything built on top of them. Both caches load lazily on first use.
type Resources struct {
	Catalogs     *catalog.Cache
	Models       *predictor.ModelCache
	Difficulties *models.DifficultySet
	Predictor    *predictor.OutcomePredictor
	Scores       *simulator.ScoreSynthesizer
	Engine       *game.Engine

	defaultDifficulty string
	maxAttempts       int
	logger            *logrus.Logger
}

// CatalogLoaderFor picks the catalog backing store named by CATALOG_SOURCE.
func CatalogLoaderFor(cfg *config.Config, db *database.DB) (catalog.Loader, error) {
	switch cfg.CatalogSource {
	case "database":
		if db == nil {
			return nil, fmt.Errorf("catalog source is database but no database connection is configured")
		}
		return catalog.DatabaseLoader(db.DB), nil
	case "csv", "":
		return catalog.CSVLoader(cfg.CatalogPath), nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
}

func NewResources(cfg *config.Config, catalogLoader catalog.Loader, modelLoader predictor.ModelLoader, logger *logrus.Logger) (*Resources, error) {
	difficulties, err := models.LoadDifficulties(cfg.DifficultyFile)
	if err != nil {
		return nil, err
	}
	if _, ok := difficulties.Get(cfg.DefaultDifficulty); !ok {
		return nil, fmt.Errorf("default difficulty %q is not a known preset", cfg.DefaultDifficulty)
	}

	scores, err := simulator.NewScoreSynthesizer(simulator.ScoreConfig{
		WinnerRange:   simulator.ScoreRange{Min: cfg.WinnerScoreMin, Max: cfg.WinnerScoreMax},
		LoserRange:    simulator.ScoreRange{Min: cfg.LoserScoreMin, Max: cfg.LoserScoreMax},
		MaxAttempts:   cfg.MaxQueryAttempts,
		DefaultWinner: cfg.DefaultWinnerScore,
		DefaultLoser:  cfg.DefaultLoserScore,
	}, logger)
	if err != nil {
		return nil, err
	}

	adapter := features.NewDefaultAdapter()
	catalogs := catalog.NewCache(catalogLoader, logger)
	modelCache := predictor.NewModelCache(cfg.ModelPath, modelLoader, logger)
	outcomes := predictor.NewOutcomePredictor(modelCache, adapter.VectorLength(models.TeamSize), logger)
	engine := game.NewEngine(catalogs, sampler.NewTeamSampler(logger), adapter, outcomes, scores, logger)

	return &Resources{
		Catalogs:          catalogs,
		Models:            modelCache,
		Difficulties:      difficulties,
		Predictor:         outcomes,
		Scores:            scores,
		Engine:            engine,
		defaultDifficulty: cfg.DefaultDifficulty,
		maxAttempts:       cfg.MaxQueryAttempts,
		logger:            logger,
	}, nil
}

// Warm loads the catalog and the model now instead of on the first play.
func (r *Resources) Warm() error {
	_, catErr := r.Catalogs.Get()
	_, modelErr := r.Models.Get()
	return errors.Join(catErr, modelErr)
}

// Ready reports whether both shared resources are loaded.
func (r *Resources) Ready() bool {
	return r.Catalogs.Loaded() && r.Models.Loaded()
}

func (r *Resources) DefaultDifficulty() models.DifficultyPreset {
	preset, _ := r.Difficulties.Get(r.defaultDifficulty)
	return preset
}

// Difficulty resolves a preset name, falling back to the default preset.
func (r *Resources) Difficulty(name string) models.DifficultyPreset {
	if preset, ok := r.Difficulties.Get(name); ok {
		return preset
	}
	if name != "" {
		r.logger.WithField("difficulty", name).Warn("Unknown difficulty, using default")
	}
	return r.DefaultDifficulty()
}

// MaxAttempts returns n when positive, otherwise the configured budget.
func (r *Resources) MaxAttempts(n int) int {
	if n > 0 {
		return n
	}
	return r.maxAttempts
}

// Close drops both caches. The next use reloads them.
func (r *Resources) Close() {
	r.Catalogs.Close()
	r.Models.Close()
	r.logger.Info("Shared resources released")
}
