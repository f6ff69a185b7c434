package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/hoops-sim/internal/catalog"
	"github.com/stitts-dev/hoops-sim/internal/features"
	"github.com/stitts-dev/hoops-sim/internal/models"
	"github.com/stitts-dev/hoops-sim/internal/predictor"
	"github.com/stitts-dev/hoops-sim/internal/sampler"
	"github.com/stitts-dev/hoops-sim/internal/simulator"
	"github.com/stitts-dev/hoops-sim/pkg/logger"
)

// State is a step of a single play.
type State string

const (
	StateIdle           State = "IDLE"
	StateTeamCheck      State = "TEAM_CHECK"
	StateSampleAway     State = "SAMPLE_AWAY"
	StateFeatureExtract State = "FEATURE_EXTRACT"
	StatePredict        State = "PREDICT"
	StateScoreSynth     State = "SCORE_SYNTH"
	StateDone           State = "DONE"
	StateFail           State = "FAIL"
)

// User-facing failure messages.
const (
	MsgTeamSize      = "Your team doesn't have 5 players"
	MsgDuplicate     = "Your team has the same player more than once"
	MsgPoolExhausted = "Could not generate away team. Try lowering the difficulty."
	MsgFeatures      = "Error processing team stats. Please try again."
	MsgModel         = "Could not load prediction model. Please contact support."
	MsgCatalog       = "Player data is unavailable. Please try again later."
	MsgScore         = "Could not simulate the game. Please try again."
)

// CatalogSource hands out the shared player catalog.
type CatalogSource interface {
	Get() (catalog.Catalog, error)
}

// Predictor turns a combined feature vector into a winner call.
type Predictor interface {
	Predict(combined []float64) (*models.OutcomeCall, error)
}

// PlayRequest is one press of "play". Away, when set, is a previously
// generated opponent to replay against.
type PlayRequest struct {
	SessionID   string
	Home        models.Team
	Away        *models.Team
	Difficulty  models.DifficultyPreset
	MaxAttempts int
}

// PlayResult is the terminal state of a play and everything produced on the way.
type PlayResult struct {
	State         State               `json:"state"`
	FailedStage   State               `json:"failed_stage,omitempty"`
	Message       string              `json:"message,omitempty"`
	Err           error               `json:"-"`
	Home          models.Team         `json:"home"`
	Away          models.Team         `json:"away"`
	AwayReused    bool                `json:"away_reused"`
	Attempts      int                 `json:"attempts"`
	Outcome       *models.OutcomeCall `json:"outcome,omitempty"`
	BoxScore      *models.BoxScore    `json:"box_score,omitempty"`
	ScoreFallback bool                `json:"score_fallback"`
	Trace         []State             `json:"trace"`
}

// Clone copies the result including its rosters, trace and score.
func (r *PlayResult) Clone() *PlayResult {
	out := *r
	out.Home = r.Home.Clone()
	out.Away = r.Away.Clone()
	out.Trace = append([]State(nil), r.Trace...)
	if r.Outcome != nil {
		outcome := *r.Outcome
		out.Outcome = &outcome
	}
	if r.BoxScore != nil {
		box := *r.BoxScore
		out.BoxScore = &box
	}
	return &out
}

func (r *PlayResult) Succeeded() bool {
	return r.State == StateDone
}

// Unavailable reports a failure caused by missing shared resources rather than
// by the request itself.
func (r *PlayResult) Unavailable() bool {
	return r.State == StateFail &&
		(errors.Is(r.Err, predictor.ErrModelUnavailable) || errors.Is(r.Err, catalog.ErrUnavailable))
}

// Engine runs the play pipeline: team check, away sampling, feature
// extraction, prediction, then score synthesis. No stage retries another.
type Engine struct {
	catalogs  CatalogSource
	sampler   *sampler.TeamSampler
	adapter   *features.Adapter
	predictor Predictor
	scores    *simulator.ScoreSynthesizer
	seed      func() int64
	logger    *logrus.Logger
}

func NewEngine(
	catalogs CatalogSource,
	teamSampler *sampler.TeamSampler,
	adapter *features.Adapter,
	outcomePredictor Predictor,
	scores *simulator.ScoreSynthesizer,
	logger *logrus.Logger,
) *Engine {
	return &Engine{
		catalogs:  catalogs,
		sampler:   teamSampler,
		adapter:   adapter,
		predictor: outcomePredictor,
		scores:    scores,
		seed:      func() int64 { return time.Now().UnixNano() },
		logger:    logger,
	}
}

// SetSeedFunc replaces the per-request seed source.
func (e *Engine) SetSeedFunc(seed func() int64) {
	e.seed = seed
}

// Play runs one request to DONE or FAIL. Failures are reported in the result,
// never as a panic; the returned result is always non-nil.
func (e *Engine) Play(req PlayRequest) *PlayResult {
	rng := rand.New(rand.NewSource(e.seed()))
	log := logger.WithPlayContext(e.logger, req.SessionID, req.Difficulty.Name, req.MaxAttempts)

	res := &PlayResult{State: StateIdle, Home: req.Home, Trace: []State{StateIdle}}
	enter := func(s State) {
		res.State = s
		res.Trace = append(res.Trace, s)
	}
	fail := func(err error, msg string) *PlayResult {
		res.FailedStage = res.State
		res.Err = err
		res.Message = msg
		enter(StateFail)
		log.WithError(err).WithField("stage", res.FailedStage).Warn("Play failed")
		return res
	}

	enter(StateTeamCheck)
	if err := req.Home.Validate(); err != nil {
		if errors.Is(err, models.ErrDuplicatePlayer) {
			return fail(err, MsgDuplicate)
		}
		return fail(err, MsgTeamSize)
	}

	enter(StateSampleAway)
	if req.Away != nil && req.Away.Validate() == nil {
		res.Away = *req.Away
		res.AwayReused = true
	} else {
		cat, err := e.catalogs.Get()
		if err != nil {
			return fail(err, MsgCatalog)
		}
		sel, err := e.sampler.Assemble(cat, req.Difficulty, req.MaxAttempts, rng)
		if err != nil {
			return fail(err, MsgPoolExhausted)
		}
		res.Away = sel.Team
		res.Attempts = sel.Attempts
	}

	enter(StateFeatureExtract)
	vectors, err := e.adapter.FlattenTeams(res.Home, res.Away)
	if err != nil {
		return fail(err, MsgFeatures)
	}

	enter(StatePredict)
	call, err := e.predictor.Predict(vectors.Combined)
	if err != nil {
		if errors.Is(err, predictor.ErrModelUnavailable) {
			return fail(err, MsgModel)
		}
		return fail(err, MsgFeatures)
	}
	res.Outcome = call

	enter(StateScoreSynth)
	box, fellBack, err := e.scores.BoxScore(call.Winner, rng)
	if err != nil {
		return fail(err, MsgScore)
	}
	res.BoxScore = box
	res.ScoreFallback = fellBack

	enter(StateDone)
	log.WithFields(logrus.Fields{
		"winner":      call.Winner,
		"probability": call.Probability,
		"home_final":  box.Home.Final(),
		"away_final":  box.Away.Final(),
		"away_reused": res.AwayReused,
	}).Info("Play completed")
	return res
}
