package sampler

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/hoops-sim/internal/catalog"
	"github.com/stitts-dev/hoops-sim/internal/models"
	"github.com/stitts-dev/hoops-sim/pkg/logger"
)

type countingRand struct {
	rng   *rand.Rand
	calls int
}

func (c *countingRand) Intn(n int) int {
	c.calls++
	return c.rng.Intn(n)
}

func rec(name string, pts, reb, ast, stl int) models.PlayerRecord {
	return models.PlayerRecord{FullName: name, PTS: pts, REB: reb, AST: ast, STL: stl}
}

func mustCatalog(t *testing.T, records ...models.PlayerRecord) catalog.Catalog {
	t.Helper()
	cat, err := catalog.NewMemoryCatalog(records)
	require.NoError(t, err)
	return cat
}

func TestAssemble_AllPlayersQualify_SucceedsFirstAttempt(t *testing.T) {
	var records []models.PlayerRecord
	for i := 0; i < 10; i++ {
		records = append(records, rec(fmt.Sprintf("Star %d", i), 2000+i, 900, 600, 300))
	}
	cat := mustCatalog(t, records...)
	difficulty := models.DifficultyPreset{Name: "Custom", PTS: 1000, REB: 500, AST: 300, STL: 100}

	s := NewTeamSampler(logger.NewDiscardLogger())
	sel, err := s.Assemble(cat, difficulty, 10, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, 1, sel.Attempts)
	assert.NoError(t, sel.Team.Validate())
	assert.Len(t, sel.Team.Players, 5)
}

func TestAssemble_SlotsRespectTheirThresholds(t *testing.T) {
	cat := mustCatalog(t,
		rec("Scorer A", 2000, 10, 10, 10),
		rec("Scorer B", 1900, 10, 10, 10),
		rec("Scorer C", 1800, 10, 10, 10),
		rec("Rebounder", 100, 900, 10, 10),
		rec("Passer", 100, 10, 700, 10),
		rec("Thief", 100, 10, 10, 400),
	)
	difficulty := models.DifficultyPreset{PTS: 1000, REB: 500, AST: 300, STL: 100}
	s := NewTeamSampler(logger.NewDiscardLogger())

	for seed := int64(0); seed < 25; seed++ {
		sel, err := s.Assemble(cat, difficulty, 10, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		players := sel.Team.Players
		require.Len(t, players, 5)
		assert.Greater(t, players[0].PTS, difficulty.PTS)
		assert.Greater(t, players[1].PTS, difficulty.PTS)
		assert.Equal(t, "Rebounder", players[2].FullName)
		assert.Equal(t, "Passer", players[3].FullName)
		assert.Equal(t, "Thief", players[4].FullName)
	}
}

func TestAssemble_OverlappingPoolsStayDistinct(t *testing.T) {
	// every player is in every pool, so later draws must skip earlier picks
	cat := mustCatalog(t,
		rec("P1", 2000, 900, 600, 300),
		rec("P2", 2000, 900, 600, 300),
		rec("P3", 2000, 900, 600, 300),
		rec("P4", 2000, 900, 600, 300),
		rec("P5", 2000, 900, 600, 300),
	)
	s := NewTeamSampler(logger.NewDiscardLogger())

	for seed := int64(0); seed < 25; seed++ {
		sel, err := s.Assemble(cat, models.DifficultyPreset{PTS: 1000, REB: 500, AST: 300, STL: 100}, 3, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		assert.NoError(t, sel.Team.Validate())
		assert.ElementsMatch(t, []string{"P1", "P2", "P3", "P4", "P5"}, sel.Team.Names())
	}
}

func TestAssemble_ExhaustsAfterExactlyMaxAttempts(t *testing.T) {
	// the only rebounders are also the only scorers, so the rebound draw
	// always comes up empty after exclusion
	cat := mustCatalog(t,
		rec("Big A", 2000, 900, 10, 10),
		rec("Big B", 2000, 900, 10, 10),
		rec("Passer", 10, 10, 700, 10),
		rec("Thief", 10, 10, 10, 400),
	)
	rng := &countingRand{rng: rand.New(rand.NewSource(3))}
	s := NewTeamSampler(logger.NewDiscardLogger())

	sel, err := s.Assemble(cat, models.DifficultyPreset{PTS: 1000, REB: 500, AST: 300, STL: 100}, 7, rng)
	assert.Nil(t, sel)
	require.ErrorIs(t, err, ErrPoolExhausted)

	var exhausted *PoolExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 7, exhausted.Attempts)
	// two points draws per attempt, nothing after the failed rebound draw
	assert.Equal(t, 14, rng.calls)
}

func TestAssemble_EmptyPoolFailsFast(t *testing.T) {
	cat := mustCatalog(t,
		rec("A", 100, 100, 100, 100),
		rec("B", 100, 100, 100, 100),
	)
	rng := &countingRand{rng: rand.New(rand.NewSource(1))}
	s := NewTeamSampler(logger.NewDiscardLogger())

	_, err := s.Assemble(cat, models.DifficultyPreset{PTS: 5000}, 4, rng)
	require.ErrorIs(t, err, ErrPoolExhausted)
	assert.Equal(t, 0, rng.calls)
	assert.Contains(t, err.Error(), "lowering the difficulty")
}

func TestAssemble_DefaultBudget(t *testing.T) {
	cat := mustCatalog(t, rec("Solo", 5000, 5000, 5000, 5000))
	s := NewTeamSampler(logger.NewDiscardLogger())

	_, err := s.Assemble(cat, models.DifficultyPreset{}, 0, rand.New(rand.NewSource(1)))
	var exhausted *PoolExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, DefaultMaxAttempts, exhausted.Attempts)
}

func TestAssemble_RandomCatalogsNeverDuplicate(t *testing.T) {
	s := NewTeamSampler(logger.NewDiscardLogger())
	difficulty := models.DefaultDifficulties().All()[0]

	for seed := int64(0); seed < 40; seed++ {
		gen := rand.New(rand.NewSource(seed))
		var records []models.PlayerRecord
		for i := 0; i < 12; i++ {
			records = append(records, rec(fmt.Sprintf("Player %d", i), gen.Intn(2000), gen.Intn(800), gen.Intn(400), gen.Intn(150)))
		}
		cat := mustCatalog(t, records...)

		sel, err := s.Assemble(cat, difficulty, 10, gen)
		if err != nil {
			assert.ErrorIs(t, err, ErrPoolExhausted)
			continue
		}
		assert.NoError(t, sel.Team.Validate())
		assert.LessOrEqual(t, sel.Attempts, 10)
	}
}
