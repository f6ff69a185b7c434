package features

import (
	"errors"
	"fmt"

	"github.com/stitts-dev/hoops-sim/internal/models"
)

var ErrShapeMismatch = errors.New("stat row shape mismatch")

// Vectors holds the flattened home and away rows and their concatenation.
type Vectors struct {
	Home     []float64 `json:"home"`
	Away     []float64 `json:"away"`
	Combined []float64 `json:"combined"`
}

// Adapter turns rosters into the fixed-order feature vector the classifier was fit on.
type Adapter struct {
	columns []string
}

func NewAdapter(columns []string) *Adapter {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Adapter{columns: cols}
}

// NewDefaultAdapter uses models.StatColumns.
func NewDefaultAdapter() *Adapter {
	return NewAdapter(models.StatColumns)
}

// Width is the number of stat columns per player.
func (a *Adapter) Width() int {
	return len(a.columns)
}

// VectorLength is the combined length expected for two teams of teamSize.
func (a *Adapter) VectorLength(teamSize int) int {
	return 2 * teamSize * len(a.columns)
}

func (a *Adapter) Columns() []string {
	out := make([]string, len(a.columns))
	copy(out, a.columns)
	return out
}

// Rows extracts each player's stats in column order.
func (a *Adapter) Rows(team models.Team) ([][]float64, error) {
	rows := make([][]float64, 0, len(team.Players))
	for _, p := range team.Players {
		row, err := p.StatRow(a.columns)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Flatten concatenates home rows then away rows. Every row must have Width() columns.
func (a *Adapter) Flatten(homeRows, awayRows [][]float64) (*Vectors, error) {
	home, err := a.flattenSide("home", homeRows)
	if err != nil {
		return nil, err
	}
	away, err := a.flattenSide("away", awayRows)
	if err != nil {
		return nil, err
	}

	combined := make([]float64, 0, len(home)+len(away))
	combined = append(combined, home...)
	combined = append(combined, away...)

	return &Vectors{Home: home, Away: away, Combined: combined}, nil
}

// FlattenTeams is Rows on both teams followed by Flatten.
func (a *Adapter) FlattenTeams(home, away models.Team) (*Vectors, error) {
	homeRows, err := a.Rows(home)
	if err != nil {
		return nil, err
	}
	awayRows, err := a.Rows(away)
	if err != nil {
		return nil, err
	}
	return a.Flatten(homeRows, awayRows)
}

func (a *Adapter) flattenSide(side string, rows [][]float64) ([]float64, error) {
	k := len(a.columns)
	flat := make([]float64, 0, len(rows)*k)
	for i, row := range rows {
		if len(row) != k {
			return nil, fmt.Errorf("%w: %s row %d has %d columns, expected %d", ErrShapeMismatch, side, i, len(row), k)
		}
		flat = append(flat, row...)
	}
	return flat, nil
}
