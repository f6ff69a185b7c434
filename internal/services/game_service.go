package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/hoops-sim/internal/game"
	"github.com/stitts-dev/hoops-sim/internal/models"
)

var (
	ErrTeamFull          = errors.New("team already has 5 players")
	ErrPlayerNotOnTeam   = errors.New("player is not on the team")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// GameService runs plays, either against a stored session or stateless.
type GameService struct {
	resources *Resources
	store     SessionStore
	logger    *logrus.Logger
}

func NewGameService(resources *Resources, store SessionStore, logger *logrus.Logger) *GameService {
	return &GameService{resources: resources, store: store, logger: logger}
}

func (s *GameService) CreateSession(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:         uuid.New().String(),
		HomeTeam:   models.NewTeam(),
		Difficulty: s.resources.DefaultDifficulty().Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.WithField("session_id", session.ID).Info("Session created")
	return session, nil
}

func (s *GameService) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// AddHomePlayer appends a catalog player to the session roster.
func (s *GameService) AddHomePlayer(ctx context.Context, id, fullName string) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(session.HomeTeam.Players) >= models.TeamSize {
		return nil, ErrTeamFull
	}
	if session.HomeTeam.Contains(fullName) {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicatePlayer, fullName)
	}

	cat, err := s.resources.Catalogs.Get()
	if err != nil {
		return nil, err
	}
	records, err := cat.Lookup(fullName)
	if err != nil {
		return nil, err
	}

	session.HomeTeam.Players = append(session.HomeTeam.Players, records[0])
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"session_id": id,
		"player":     fullName,
		"roster":     len(session.HomeTeam.Players),
	}).Info("Added player to home team")
	return session, nil
}

func (s *GameService) RemoveHomePlayer(ctx context.Context, id, fullName string) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := make([]models.PlayerRecord, 0, len(session.HomeTeam.Players))
	for _, p := range session.HomeTeam.Players {
		if p.FullName != fullName {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(session.HomeTeam.Players) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotOnTeam, fullName)
	}

	session.HomeTeam.Players = kept
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"session_id": id, "player": fullName}).Info("Removed player from home team")
	return session, nil
}

// SetDifficulty switches the session preset. Unknown names leave it unchanged.
func (s *GameService) SetDifficulty(ctx context.Context, id, name string) (*Session, error) {
	if _, ok := s.resources.Difficulties.Get(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
	}
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Difficulty = name
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Play runs the engine for a session. A generated opponent is kept on the
// session and replayed until NewTeam clears it.
func (s *GameService) Play(ctx context.Context, id string, maxAttempts int) (*game.PlayResult, *Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	result := s.resources.Engine.Play(game.PlayRequest{
		SessionID:   id,
		Home:        session.HomeTeam,
		Away:        session.AwayTeam,
		Difficulty:  s.resources.Difficulty(session.Difficulty),
		MaxAttempts: s.resources.MaxAttempts(maxAttempts),
	})

	switch {
	case result.FailedStage == game.StateTeamCheck:
		session.AwayTeam = nil
	case len(result.Away.Players) == models.TeamSize:
		away := result.Away
		session.AwayTeam = &away
	}
	session.LastResult = result

	if err := s.save(ctx, session); err != nil {
		return nil, nil, err
	}
	return result, session, nil
}

// NewTeam drops the cached opponent so the next play samples a fresh one.
func (s *GameService) NewTeam(ctx context.Context, id string) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.AwayTeam = nil
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.WithField("session_id", id).Info("New away team requested")
	return session, nil
}

func (s *GameService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// SimulateRequest is a stateless play. Thresholds, when set, override Difficulty.
type SimulateRequest struct {
	Home        []string                 `json:"home" binding:"required"`
	Difficulty  string                   `json:"difficulty"`
	Thresholds  *models.DifficultyPreset `json:"thresholds,omitempty"`
	MaxAttempts int                      `json:"max_attempts"`
}

// Simulate plays one game without a session. Unknown or repeated player names
// fail before the engine runs; a wrong roster size is left to the engine's team check.
func (s *GameService) Simulate(ctx context.Context, req SimulateRequest) (*game.PlayResult, error) {
	difficulty := s.resources.Difficulty(req.Difficulty)
	if req.Thresholds != nil {
		difficulty = *req.Thresholds
		if difficulty.Name == "" {
			difficulty.Name = "Custom"
		}
		if err := difficulty.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownDifficulty, err)
		}
	}

	seen := make(map[string]bool, len(req.Home))
	for _, name := range req.Home {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicatePlayer, name)
		}
		seen[name] = true
	}

	cat, err := s.resources.Catalogs.Get()
	if err != nil {
		return nil, err
	}
	records, err := cat.Lookup(req.Home...)
	if err != nil {
		return nil, err
	}

	return s.resources.Engine.Play(game.PlayRequest{
		Home:        models.NewTeam(records...),
		Difficulty:  difficulty,
		MaxAttempts: s.resources.MaxAttempts(req.MaxAttempts),
	}), nil
}

func (s *GameService) save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
