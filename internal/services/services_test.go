package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/stitts-dev/hoops-sim/internal/catalog"
	"github.com/stitts-dev/hoops-sim/internal/game"
	"github.com/stitts-dev/hoops-sim/internal/models"
	"github.com/stitts-dev/hoops-sim/internal/predictor"
	"github.com/stitts-dev/hoops-sim/internal/sampler"
	"github.com/stitts-dev/hoops-sim/pkg/config"
	"github.com/stitts-dev/hoops-sim/pkg/logger"
)

type constClassifier struct {
	probability float64
}

func (c constClassifier) Predict([]float64) (float64, error) { return c.probability, nil }
func (c constClassifier) InputSize() int                     { return 100 }

func testConfig() *config.Config {
	return &config.Config{
		CatalogSource:      "csv",
		ModelPath:          "winner.json",
		SessionStore:       "memory",
		SessionTTL:         time.Hour,
		MaxQueryAttempts:   10,
		WinnerScoreMin:     90,
		WinnerScoreMax:     130,
		LoserScoreMin:      80,
		LoserScoreMax:      120,
		DefaultWinnerScore: 100,
		DefaultLoserScore:  90,
		DefaultDifficulty:  "Regular",
	}
}

func testRecords() []models.PlayerRecord {
	var records []models.PlayerRecord
	for i := 0; i < 10; i++ {
		records = append(records, models.PlayerRecord{
			FullName: fmt.Sprintf("Star Player%d", i), FirstName: "Star", LastName: fmt.Sprintf("Player%d", i),
			PTS: 20000 + i, REB: 6000, AST: 4000, STL: 1500, OREB: 1500, DREB: 4500, FGM: 8000,
			FG3Pct: 0.35, FTPct: 0.8,
		})
	}
	for i := 0; i < 6; i++ {
		records = append(records, models.PlayerRecord{
			FullName: fmt.Sprintf("Role Guy%d", i), FirstName: "Role", LastName: fmt.Sprintf("Guy%d", i),
			PTS: 300, REB: 100, AST: 50, STL: 10, FGM: 120,
		})
	}
	return records
}

func newTestResources(t *testing.T, probability float64) *Resources {
	t.Helper()
	res, err := NewResources(testConfig(),
		func() (catalog.Catalog, error) { return catalog.NewMemoryCatalog(testRecords()) },
		func(string) (predictor.Classifier, error) { return constClassifier{probability: probability}, nil },
		logger.NewDiscardLogger())
	require.NoError(t, err)
	res.Engine.SetSeedFunc(func() int64 { return 99 })
	return res
}

type GameServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	resources *Resources
	store     *MemorySessionStore
	service   *GameService
}

func (s *GameServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.resources = newTestResources(s.T(), 0.8)
	s.store = NewMemorySessionStore(time.Hour, logger.NewDiscardLogger())
	s.service = NewGameService(s.resources, s.store, logger.NewDiscardLogger())
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.NoError(s.store.Close())
	s.resources.Close()
}

func (s *GameServiceTestSuite) fullSession() *Session {
	session, err := s.service.CreateSession(s.ctx)
	s.Require().NoError(err)
	for i := 0; i < models.TeamSize; i++ {
		session, err = s.service.AddHomePlayer(s.ctx, session.ID, fmt.Sprintf("Role Guy%d", i))
		s.Require().NoError(err)
	}
	return session
}

func (s *GameServiceTestSuite) TestCreateSession_Defaults() {
	session, err := s.service.CreateSession(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(session.ID)
	s.Equal("Regular", session.Difficulty)
	s.Empty(session.HomeTeam.Players)
	s.Nil(session.AwayTeam)

	got, err := s.service.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.ID, got.ID)
}

func (s *GameServiceTestSuite) TestGetSession_NotFound() {
	_, err := s.service.GetSession(s.ctx, "nope")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *GameServiceTestSuite) TestAddHomePlayer_Rules() {
	session := s.fullSession()
	s.Len(session.HomeTeam.Players, models.TeamSize)

	_, err := s.service.AddHomePlayer(s.ctx, session.ID, "Role Guy5")
	s.ErrorIs(err, ErrTeamFull)

	session, err = s.service.RemoveHomePlayer(s.ctx, session.ID, "Role Guy0")
	s.Require().NoError(err)
	s.Len(session.HomeTeam.Players, 4)

	_, err = s.service.AddHomePlayer(s.ctx, session.ID, "Role Guy1")
	s.ErrorIs(err, models.ErrDuplicatePlayer)

	_, err = s.service.AddHomePlayer(s.ctx, session.ID, "Nobody Atall")
	s.ErrorIs(err, catalog.ErrNotFound)

	_, err = s.service.RemoveHomePlayer(s.ctx, session.ID, "Role Guy0")
	s.ErrorIs(err, ErrPlayerNotOnTeam)
}

func (s *GameServiceTestSuite) TestSetDifficulty() {
	session, err := s.service.CreateSession(s.ctx)
	s.Require().NoError(err)

	session, err = s.service.SetDifficulty(s.ctx, session.ID, "Dream Team")
	s.Require().NoError(err)
	s.Equal("Dream Team", session.Difficulty)

	_, err = s.service.SetDifficulty(s.ctx, session.ID, "Impossible")
	s.ErrorIs(err, ErrUnknownDifficulty)

	got, err := s.service.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal("Dream Team", got.Difficulty)
}

func (s *GameServiceTestSuite) TestPlay_CachesAwayTeamUntilNewTeam() {
	session := s.fullSession()

	first, session, err := s.service.Play(s.ctx, session.ID, 0)
	s.Require().NoError(err)
	s.Require().True(first.Succeeded(), first.Message)
	s.False(first.AwayReused)
	s.Require().NotNil(session.AwayTeam)
	s.Equal(first.Away.Names(), session.AwayTeam.Names())

	second, _, err := s.service.Play(s.ctx, session.ID, 0)
	s.Require().NoError(err)
	s.True(second.AwayReused)
	s.Equal(first.Away.Names(), second.Away.Names())

	session, err = s.service.NewTeam(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Nil(session.AwayTeam)

	third, _, err := s.service.Play(s.ctx, session.ID, 0)
	s.Require().NoError(err)
	s.False(third.AwayReused)
}

func (s *GameServiceTestSuite) TestPlay_ShortRosterClearsAwayTeam() {
	session := s.fullSession()
	_, _, err := s.service.Play(s.ctx, session.ID, 0)
	s.Require().NoError(err)

	_, err = s.service.RemoveHomePlayer(s.ctx, session.ID, "Role Guy4")
	s.Require().NoError(err)

	result, session, err := s.service.Play(s.ctx, session.ID, 0)
	s.Require().NoError(err)
	s.Equal(game.StateFail, result.State)
	s.Equal(game.MsgTeamSize, result.Message)
	s.Nil(session.AwayTeam)
	s.Equal(result.State, session.LastResult.State)
}

func (s *GameServiceTestSuite) TestPlay_UnknownSession() {
	_, _, err := s.service.Play(s.ctx, "missing", 0)
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *GameServiceTestSuite) TestSimulate() {
	home := []string{"Role Guy0", "Role Guy1", "Role Guy2", "Role Guy3", "Role Guy4"}
	result, err := s.service.Simulate(s.ctx, SimulateRequest{Home: home, Difficulty: "All-Stars"})
	s.Require().NoError(err)
	s.True(result.Succeeded())
	s.Equal(models.SideHome, result.Outcome.Winner)

	_, err = s.service.Simulate(s.ctx, SimulateRequest{Home: []string{"Nobody Atall"}})
	s.ErrorIs(err, catalog.ErrNotFound)

	repeated := []string{"Role Guy0", "Role Guy0", "Role Guy1", "Role Guy2", "Role Guy3"}
	_, err = s.service.Simulate(s.ctx, SimulateRequest{Home: repeated})
	s.ErrorIs(err, models.ErrDuplicatePlayer)

	result, err = s.service.Simulate(s.ctx, SimulateRequest{Home: home[:3]})
	s.Require().NoError(err)
	s.Equal(game.StateTeamCheck, result.FailedStage)

	result, err = s.service.Simulate(s.ctx, SimulateRequest{
		Home:        home,
		Thresholds:  &models.DifficultyPreset{PTS: 1000000, REB: 0, AST: 0, STL: 0},
		MaxAttempts: 2,
	})
	s.Require().NoError(err)
	s.Equal(game.MsgPoolExhausted, result.Message)
	s.ErrorIs(result.Err, sampler.ErrPoolExhausted)
}

func TestGameServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

func TestResources_ReadyAfterWarm(t *testing.T) {
	res := newTestResources(t, 0.5)
	assert.False(t, res.Ready())
	require.NoError(t, res.Warm())
	assert.True(t, res.Ready())

	res.Close()
	assert.False(t, res.Ready())
}

func TestResources_WarmReportsBothFailures(t *testing.T) {
	res, err := NewResources(testConfig(),
		func() (catalog.Catalog, error) { return nil, errors.New("no csv") },
		func(string) (predictor.Classifier, error) { return nil, errors.New("no model") },
		logger.NewDiscardLogger())
	require.NoError(t, err)

	err = res.Warm()
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
	assert.ErrorIs(t, err, predictor.ErrModelUnavailable)
	assert.False(t, res.Ready())
}

func TestResources_DifficultyFallback(t *testing.T) {
	res := newTestResources(t, 0.5)
	assert.Equal(t, "93' Bulls", res.Difficulty("93' Bulls").Name)
	assert.Equal(t, "Regular", res.Difficulty("").Name)
	assert.Equal(t, "Regular", res.Difficulty("Impossible").Name)
	assert.Equal(t, 10, res.MaxAttempts(0))
	assert.Equal(t, 3, res.MaxAttempts(3))
}

func TestNewResources_RejectsUnknownDefaultDifficulty(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultDifficulty = "Pickup"
	_, err := NewResources(cfg, nil, nil, logger.NewDiscardLogger())
	assert.Error(t, err)
}

func TestCatalogLoaderFor(t *testing.T) {
	cfg := testConfig()
	_, err := CatalogLoaderFor(cfg, nil)
	assert.NoError(t, err)

	cfg.CatalogSource = "database"
	_, err = CatalogLoaderFor(cfg, nil)
	assert.Error(t, err)

	cfg.CatalogSource = "s3"
	_, err = CatalogLoaderFor(cfg, nil)
	assert.Error(t, err)
}

func TestPlayerService(t *testing.T) {
	res := newTestResources(t, 0.5)
	players := NewPlayerService(res.Catalogs)

	names, err := players.Search("Star")
	require.NoError(t, err)
	assert.Len(t, names, 10)

	_, err = players.Search("x'; DROP TABLE players --")
	assert.ErrorIs(t, err, catalog.ErrInvalidSearchTerm)

	rec, err := players.Get("Role Guy3")
	require.NoError(t, err)
	assert.Equal(t, 300, rec.PTS)

	_, err = players.Get("Nobody Atall")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	recs, err := players.Lookup([]string{"Role Guy1", "Star Player2"})
	require.NoError(t, err)
	assert.Equal(t, "Role Guy1", recs[0].FullName)
	assert.Equal(t, "Star Player2", recs[1].FullName)
}

func TestMemorySessionStore_TTLAndSweep(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, logger.NewDiscardLogger())
	defer store.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{ID: "a"}))
	require.NoError(t, store.Save(ctx, &Session{ID: "b"}))

	now = now.Add(30 * time.Second)
	require.NoError(t, store.Save(ctx, &Session{ID: "b"})) // refresh b

	now = now.Add(45 * time.Second)
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, "b")
	assert.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "b"))
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_ReturnsCopies(t *testing.T) {
	store := NewMemorySessionStore(0, logger.NewDiscardLogger())
	defer store.Close()
	ctx := context.Background()

	session := &Session{ID: "s", HomeTeam: models.NewTeam(models.PlayerRecord{FullName: "A B"})}
	require.NoError(t, store.Save(ctx, session))
	session.HomeTeam.Players[0].FullName = "mutated"

	got, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "A B", got.HomeTeam.Players[0].FullName)

	got.HomeTeam.Players = append(got.HomeTeam.Players, models.PlayerRecord{FullName: "C D"})
	again, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, again.HomeTeam.Players, 1)
}

func TestSession_CloneSharesNothing(t *testing.T) {
	roster := models.NewTeam(models.PlayerRecord{FullName: "A B"}, models.PlayerRecord{FullName: "C D"})
	away := models.NewTeam(models.PlayerRecord{FullName: "E F"})
	session := &Session{
		ID:       "s",
		HomeTeam: roster,
		AwayTeam: &away,
		LastResult: &game.PlayResult{
			State:    game.StateDone,
			Home:     roster.Clone(),
			Away:     away.Clone(),
			Outcome:  &models.OutcomeCall{Probability: 0.7, Winner: models.SideHome},
			BoxScore: &models.BoxScore{Home: models.ScoreLine{25, 25, 25, 25, 100}},
			Trace:    []game.State{game.StateIdle, game.StateDone},
		},
	}

	clone := session.Clone()
	clone.HomeTeam.Players[0].FullName = "changed"
	clone.AwayTeam.Players[0].FullName = "changed"
	clone.LastResult.Home.Players[0].FullName = "changed"
	clone.LastResult.Away.Players[0].FullName = "changed"
	clone.LastResult.Trace[0] = game.StateFail
	clone.LastResult.Outcome.Winner = models.SideAway
	clone.LastResult.BoxScore.Home[4] = 0

	assert.Equal(t, "A B", session.HomeTeam.Players[0].FullName)
	assert.Equal(t, "E F", session.AwayTeam.Players[0].FullName)
	assert.Equal(t, "A B", session.LastResult.Home.Players[0].FullName)
	assert.Equal(t, "E F", session.LastResult.Away.Players[0].FullName)
	assert.Equal(t, game.StateIdle, session.LastResult.Trace[0])
	assert.Equal(t, models.SideHome, session.LastResult.Outcome.Winner)
	assert.Equal(t, 100, session.LastResult.BoxScore.Home.Final())
}

func TestMemorySessionStore_SweeperRejectsBadInterval(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, logger.NewDiscardLogger())
	defer store.Close()
	assert.Error(t, store.StartSweeper(0))
	assert.NoError(t, store.StartSweeper(time.Minute))
}

func TestBreakerSettings(t *testing.T) {
	settings := breakerSettings(logger.NewDiscardLogger())

	assert.True(t, settings.IsSuccessful(nil))
	assert.True(t, settings.IsSuccessful(ErrCacheMiss))
	assert.True(t, settings.IsSuccessful(fmt.Errorf("wrapped: %w", ErrCacheMiss)))
	assert.False(t, settings.IsSuccessful(errors.New("connection refused")))

	assert.False(t, settings.ReadyToTrip(gobreaker.Counts{Requests: 2, TotalFailures: 2}))
	assert.True(t, settings.ReadyToTrip(gobreaker.Counts{Requests: 3, TotalFailures: 2}))
	assert.False(t, settings.ReadyToTrip(gobreaker.Counts{Requests: 5, TotalFailures: 2}))
	assert.True(t, settings.ReadyToTrip(gobreaker.Counts{Requests: 5, TotalFailures: 3}))
}

func TestRedisSessionStore_BreakerOpensWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	store := NewRedisSessionStore(NewCacheService(client, logger.NewDiscardLogger()), time.Minute)
	defer store.Close()
	ctx := context.Background()

	assert.Error(t, store.Ping(ctx))

	for i := 0; i < 3; i++ {
		_, err := store.Get(ctx, "any")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSessionNotFound)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
	assert.Equal(t, gobreaker.StateOpen, store.BreakerState())

	_, err := store.Get(ctx, "any")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	err = store.Save(ctx, &Session{ID: "any"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestMemorySessionStore_Ping(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, logger.NewDiscardLogger())
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedisSessionStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, redisURL)
	require.NoError(t, err)

	store := NewRedisSessionStore(NewCacheService(client, logger.NewDiscardLogger()), time.Minute)
	defer store.Close()

	id := "test-" + time.Now().Format("150405.000000")
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, &Session{ID: id, Difficulty: "Regular"}))
	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Regular", got.Difficulty)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
