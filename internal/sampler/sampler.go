package sampler

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/hoops-sim/internal/catalog"
	"github.com/stitts-dev/hoops-sim/internal/models"
)

// DefaultMaxAttempts is used when the caller passes a non-positive budget.
const DefaultMaxAttempts = 10

var ErrPoolExhausted = errors.New("could not assemble a team of distinct players")

// PoolExhaustedError reports how many attempts were spent before giving up.
type PoolExhaustedError struct {
	Attempts   int
	Difficulty models.DifficultyPreset
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("could not generate away team with %d players after %d attempts (pts>%d reb>%d ast>%d stl>%d); try lowering the difficulty",
		models.TeamSize, e.Attempts, e.Difficulty.PTS, e.Difficulty.REB, e.Difficulty.AST, e.Difficulty.STL)
}

func (e *PoolExhaustedError) Is(target error) bool {
	return target == ErrPoolExhausted
}

// Selection is an assembled roster and the attempt it succeeded on.
type Selection struct {
	Team     models.Team `json:"team"`
	Attempts int         `json:"attempts"`
}

type draw struct {
	column string
	count  int
}

// Points first and twice: it is usually the most selective threshold. Later
// draws exclude earlier picks so the roster is distinct by construction.
var drawPlan = []draw{
	{column: models.ColPTS, count: 2},
	{column: models.ColREB, count: 1},
	{column: models.ColAST, count: 1},
	{column: models.ColSTL, count: 1},
}

// TeamSampler builds opposing rosters from stat-threshold pools.
type TeamSampler struct {
	logger *logrus.Logger
}

func NewTeamSampler(logger *logrus.Logger) *TeamSampler {
	return &TeamSampler{logger: logger}
}

// Assemble draws 2 players over the points threshold, then one each over the
// rebounds, assists and steals thresholds, never repeating an identity. An
// attempt whose pool runs dry is abandoned; after maxAttempts failures the
// error matches ErrPoolExhausted.
func (s *TeamSampler) Assemble(cat catalog.Catalog, difficulty models.DifficultyPreset, maxAttempts int, rng catalog.Rand) (*Selection, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	thresholds := map[string]int{
		models.ColPTS: difficulty.PTS,
		models.ColREB: difficulty.REB,
		models.ColAST: difficulty.AST,
		models.ColSTL: difficulty.STL,
	}
	pools := make(map[string]catalog.Pool, len(drawPlan))
	for _, d := range drawPlan {
		pools[d.column] = cat.Filter(catalog.Exceeds(d.column, thresholds[d.column]))
	}

	log := s.logger.WithFields(logrus.Fields{
		"difficulty":   difficulty.Name,
		"pts_pool":     len(pools[models.ColPTS]),
		"reb_pool":     len(pools[models.ColREB]),
		"ast_pool":     len(pools[models.ColAST]),
		"stl_pool":     len(pools[models.ColSTL]),
		"max_attempts": maxAttempts,
	})

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		players, err := s.attempt(pools, rng)
		if err != nil {
			log.WithField("attempt", attempt).Debugf("Away team attempt failed: %v", err)
			continue
		}
		if len(players) != models.TeamSize {
			continue
		}

		log.WithField("attempt", attempt).Info("Assembled away team")
		return &Selection{Team: models.NewTeam(players...), Attempts: attempt}, nil
	}

	log.Warn("Away team pools exhausted")
	return nil, &PoolExhaustedError{Attempts: maxAttempts, Difficulty: difficulty}
}

func (s *TeamSampler) attempt(pools map[string]catalog.Pool, rng catalog.Rand) ([]models.PlayerRecord, error) {
	selected := make(map[string]struct{}, models.TeamSize)
	players := make([]models.PlayerRecord, 0, models.TeamSize)

	for _, d := range drawPlan {
		picks, err := pools[d.column].Sample(rng, d.count, selected)
		if err != nil {
			return nil, fmt.Errorf("%s pool: %w", d.column, err)
		}
		for _, p := range picks {
			selected[p.FullName] = struct{}{}
			players = append(players, p)
		}
	}
	return players, nil
}
