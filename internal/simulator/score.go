package simulator

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/hoops-sim/internal/catalog"
	"github.com/stitts-dev/hoops-sim/internal/models"
)

const (
	DefaultMaxAttempts = 10
	DefaultWinnerScore = 100
	DefaultLoserScore  = 90
	ResultWinner       = "Winner"
	ResultLoser        = "Loser"
)

// Quarter perturbation bounds, inclusive. Q4 absorbs the remainder.
var quarterJitter = [3][2]int{{-7, 7}, {-3, 3}, {-8, 8}}

// ScoreRange is an inclusive range of final totals.
type ScoreRange struct {
	Min int `json:"min" mapstructure:"min"`
	Max int `json:"max" mapstructure:"max"`
}

func (r ScoreRange) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("score range min %d exceeds max %d", r.Min, r.Max)
	}
	return nil
}

func (r ScoreRange) draw(rng catalog.Rand) int {
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// ScoreConfig controls final-total generation.
type ScoreConfig struct {
	WinnerRange   ScoreRange
	LoserRange    ScoreRange
	MaxAttempts   int
	DefaultWinner int
	DefaultLoser  int
}

// DefaultScoreConfig returns the stock ranges: winners 90-130, losers 80-120.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		WinnerRange:   ScoreRange{Min: 90, Max: 130},
		LoserRange:    ScoreRange{Min: 80, Max: 120},
		MaxAttempts:   DefaultMaxAttempts,
		DefaultWinner: DefaultWinnerScore,
		DefaultLoser:  DefaultLoserScore,
	}
}

func (c ScoreConfig) Validate() error {
	if err := c.WinnerRange.Validate(); err != nil {
		return fmt.Errorf("winner range: %w", err)
	}
	if err := c.LoserRange.Validate(); err != nil {
		return fmt.Errorf("loser range: %w", err)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.DefaultWinner <= c.DefaultLoser {
		return fmt.Errorf("default winner %d must beat default loser %d", c.DefaultWinner, c.DefaultLoser)
	}
	return nil
}

// ScoreSynthesizer builds quarter-by-quarter score lines that agree with a
// predicted winner.
type ScoreSynthesizer struct {
	config ScoreConfig
	logger *logrus.Logger
}

func NewScoreSynthesizer(config ScoreConfig, logger *logrus.Logger) (*ScoreSynthesizer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid score config: %w", err)
	}
	return &ScoreSynthesizer{config: config, logger: logger}, nil
}

func (s *ScoreSynthesizer) Config() ScoreConfig {
	return s.config
}

// ScoreLine splits final into four quarters around final/4. Q4 can come out
// negative for very small finals; that is accepted as-is.
func ScoreLine(final int, rng catalog.Rand) models.ScoreLine {
	base := final / 4
	var line models.ScoreLine
	sum := 0
	for q, bounds := range quarterJitter {
		line[q] = base + bounds[0] + rng.Intn(bounds[1]-bounds[0]+1)
		sum += line[q]
	}
	line[3] = final - sum
	line[4] = final
	return line
}

// Synthesize returns score lines for the winner and the loser.
func (s *ScoreSynthesizer) Synthesize(winnerFinal, loserFinal int, rng catalog.Rand) (models.ScoreLine, models.ScoreLine) {
	return ScoreLine(winnerFinal, rng), ScoreLine(loserFinal, rng)
}

// GenerateFinalTotals draws winner and loser totals until the winner is ahead.
// After MaxAttempts misses it returns the configured defaults with fellBack set.
func (s *ScoreSynthesizer) GenerateFinalTotals(rng catalog.Rand) (winner, loser int, fellBack bool) {
	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		w := s.config.WinnerRange.draw(rng)
		l := s.config.LoserRange.draw(rng)
		if w > l {
			return w, l, false
		}
	}

	s.logger.WithFields(logrus.Fields{
		"max_attempts":   s.config.MaxAttempts,
		"default_winner": s.config.DefaultWinner,
		"default_loser":  s.config.DefaultLoser,
	}).Warn("Final total draws never separated, using default scores")
	return s.config.DefaultWinner, s.config.DefaultLoser, true
}

// BoxScore generates a full box score oriented so that winner outscores the
// other side. fellBack reports that the default totals were used.
func (s *ScoreSynthesizer) BoxScore(winner models.Side, rng catalog.Rand) (box *models.BoxScore, fellBack bool, err error) {
	w, l, fellBack := s.GenerateFinalTotals(rng)
	winLine, loseLine := s.Synthesize(w, l, rng)

	switch winner {
	case models.SideHome:
		box = &models.BoxScore{Home: winLine, Away: loseLine, Result: ResultWinner}
	case models.SideAway:
		box = &models.BoxScore{Home: loseLine, Away: winLine, Result: ResultLoser}
	default:
		return nil, fellBack, fmt.Errorf("unknown winner side %q", winner)
	}
	if err := box.Validate(winner); err != nil {
		return nil, fellBack, fmt.Errorf("inconsistent box score: %w", err)
	}
	return box, fellBack, nil
}
