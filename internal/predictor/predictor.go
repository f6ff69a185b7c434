package predictor

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/hoops-sim/internal/models"
)

var (
	ErrInvalidFeatureShape = errors.New("invalid feature vector shape")
	ErrModelUnavailable    = errors.New("winner model unavailable")
)

// OutcomePredictor validates feature vectors and turns classifier output into a winner call.
type OutcomePredictor struct {
	models    *ModelCache
	inputSize int
	logger    *logrus.Logger
}

func NewOutcomePredictor(cache *ModelCache, inputSize int, logger *logrus.Logger) *OutcomePredictor {
	return &OutcomePredictor{
		models:    cache,
		inputSize: inputSize,
		logger:    logger,
	}
}

func (p *OutcomePredictor) InputSize() int {
	return p.inputSize
}

// Predict rejects a vector of the wrong length before the classifier is touched.
func (p *OutcomePredictor) Predict(combined []float64) (*models.OutcomeCall, error) {
	if len(combined) != p.inputSize {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidFeatureShape, p.inputSize, len(combined))
	}

	model, err := p.models.Get()
	if err != nil {
		return nil, err
	}
	if model.InputSize() != p.inputSize {
		return nil, fmt.Errorf("%w: model expects %d features, engine produces %d",
			ErrModelUnavailable, model.InputSize(), p.inputSize)
	}

	probability, err := model.Predict(combined)
	if err != nil {
		return nil, fmt.Errorf("%w: inference failed: %v", ErrModelUnavailable, err)
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return nil, fmt.Errorf("%w: output %v is not a probability", ErrModelUnavailable, probability)
	}

	call := &models.OutcomeCall{
		Probability: probability,
		Winner:      Decide(probability),
	}
	p.logger.WithFields(logrus.Fields{
		"probability": fmt.Sprintf("%.4f", probability),
		"winner":      call.Winner,
	}).Info("Prediction complete")
	return call, nil
}

// Decide rounds the probability to the nearest integer, half to even, so 0.5
// goes to the away side. 1 means the home side wins.
func Decide(probability float64) models.Side {
	if math.RoundToEven(probability) == 1 {
		return models.SideHome
	}
	return models.SideAway
}
