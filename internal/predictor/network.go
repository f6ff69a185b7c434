package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Classifier maps a fixed-length feature vector to a win probability.
type Classifier interface {
	Predict(features []float64) (float64, error)
	InputSize() int
}

// Activation names accepted in a network artifact
const (
	ActivationLinear  = "linear"
	ActivationReLU    = "relu"
	ActivationSigmoid = "sigmoid"
	ActivationTanh    = "tanh"
)

// LayerConfig is one dense layer as stored in the artifact. Weights are out x in.
type LayerConfig struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

// NetworkConfig is the on-disk form of an exported winner model.
type NetworkConfig struct {
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	InputSize int           `json:"input_size"`
	Mean      []float64     `json:"mean,omitempty"`
	Scale     []float64     `json:"scale,omitempty"`
	Layers    []LayerConfig `json:"layers"`
}

type denseLayer struct {
	weights    *mat.Dense
	bias       *mat.VecDense
	activation string
}

// DenseNetwork is a feed-forward network evaluated with gonum.
type DenseNetwork struct {
	name      string
	version   string
	inputSize int
	mean      []float64
	scale     []float64
	layers    []denseLayer
}

// LoadNetwork reads and validates a JSON network artifact.
func LoadNetwork(path string) (*DenseNetwork, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var cfg NetworkConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact %s: %w", path, err)
	}
	return NewDenseNetwork(cfg)
}

// NewDenseNetwork checks that layer shapes chain from InputSize to a single output.
func NewDenseNetwork(cfg NetworkConfig) (*DenseNetwork, error) {
	if cfg.InputSize <= 0 {
		return nil, fmt.Errorf("model input size must be positive, got %d", cfg.InputSize)
	}
	if len(cfg.Layers) == 0 {
		return nil, fmt.Errorf("model has no layers")
	}
	if cfg.Mean != nil && len(cfg.Mean) != cfg.InputSize {
		return nil, fmt.Errorf("model mean has %d entries, expected %d", len(cfg.Mean), cfg.InputSize)
	}
	if cfg.Scale != nil && len(cfg.Scale) != cfg.InputSize {
		return nil, fmt.Errorf("model scale has %d entries, expected %d", len(cfg.Scale), cfg.InputSize)
	}
	for i, s := range cfg.Scale {
		if s == 0 {
			return nil, fmt.Errorf("model scale[%d] is zero", i)
		}
	}

	net := &DenseNetwork{
		name:      cfg.Name,
		version:   cfg.Version,
		inputSize: cfg.InputSize,
		mean:      cfg.Mean,
		scale:     cfg.Scale,
		layers:    make([]denseLayer, 0, len(cfg.Layers)),
	}

	in := cfg.InputSize
	for li, layer := range cfg.Layers {
		out := len(layer.Weights)
		if out == 0 {
			return nil, fmt.Errorf("layer %d has no units", li)
		}
		if len(layer.Bias) != out {
			return nil, fmt.Errorf("layer %d has %d biases for %d units", li, len(layer.Bias), out)
		}
		flat := make([]float64, 0, out*in)
		for ui, row := range layer.Weights {
			if len(row) != in {
				return nil, fmt.Errorf("layer %d unit %d has %d weights, expected %d", li, ui, len(row), in)
			}
			flat = append(flat, row...)
		}
		switch layer.Activation {
		case ActivationLinear, ActivationReLU, ActivationSigmoid, ActivationTanh:
		case "":
			layer.Activation = ActivationLinear
		default:
			return nil, fmt.Errorf("layer %d has unknown activation %q", li, layer.Activation)
		}

		bias := make([]float64, out)
		copy(bias, layer.Bias)
		net.layers = append(net.layers, denseLayer{
			weights:    mat.NewDense(out, in, flat),
			bias:       mat.NewVecDense(out, bias),
			activation: layer.Activation,
		})
		in = out
	}
	if in != 1 {
		return nil, fmt.Errorf("model must end in a single output unit, got %d", in)
	}
	return net, nil
}

func (n *DenseNetwork) InputSize() int {
	return n.inputSize
}

func (n *DenseNetwork) Name() string {
	return n.name
}

func (n *DenseNetwork) Version() string {
	return n.version
}

// Predict runs a forward pass and returns the single output activation.
func (n *DenseNetwork) Predict(features []float64) (float64, error) {
	if len(features) != n.inputSize {
		return 0, fmt.Errorf("model expects %d features, got %d", n.inputSize, len(features))
	}

	input := make([]float64, len(features))
	copy(input, features)
	for i := range input {
		if n.mean != nil {
			input[i] -= n.mean[i]
		}
		if n.scale != nil {
			input[i] /= n.scale[i]
		}
	}

	x := mat.NewVecDense(len(input), input)
	for _, layer := range n.layers {
		rows, _ := layer.weights.Dims()
		y := mat.NewVecDense(rows, nil)
		y.MulVec(layer.weights, x)
		y.AddVec(y, layer.bias)
		for i := 0; i < rows; i++ {
			y.SetVec(i, activate(layer.activation, y.AtVec(i)))
		}
		x = y
	}
	return x.AtVec(0), nil
}

func activate(name string, v float64) float64 {
	switch name {
	case ActivationReLU:
		return math.Max(0, v)
	case ActivationSigmoid:
		return 1 / (1 + math.Exp(-v))
	case ActivationTanh:
		return math.Tanh(v)
	}
	return v
}
