package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/hoops-sim/internal/models"
)

func TestPrintSummary_UsesGivenPresets(t *testing.T) {
	records := []models.PlayerRecord{
		{FullName: "A B", PTS: 500, REB: 200, AST: 100, STL: 30},
		{FullName: "C D", PTS: 50, REB: 20, AST: 10, STL: 3},
	}
	set, err := models.NewDifficultySet([]models.DifficultyPreset{
		{Name: "Pickup", PTS: 10, REB: 10, AST: 10, STL: 10},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	printSummary(&out, records, set)

	assert.Contains(t, out.String(), "2 players")
	assert.Contains(t, out.String(), "Pickup")
	assert.Contains(t, out.String(), "PTS>10: 2")
	assert.Contains(t, out.String(), "STL>10: 1")
	assert.NotContains(t, out.String(), "Regular")
}
