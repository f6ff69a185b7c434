package models

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DifficultyPreset bundles the four career-stat thresholds an opposing roster is drawn against.
type DifficultyPreset struct {
	Name string `json:"name" yaml:"name"`
	PTS  int    `json:"pts" yaml:"pts"`
	REB  int    `json:"reb" yaml:"reb"`
	AST  int    `json:"ast" yaml:"ast"`
	STL  int    `json:"stl" yaml:"stl"`
}

func (d DifficultyPreset) Validate() error {
	if d.PTS < 0 || d.REB < 0 || d.AST < 0 || d.STL < 0 {
		return fmt.Errorf("difficulty %q: thresholds must be non-negative", d.Name)
	}
	return nil
}

// Thresholds returns (pts, reb, ast, stl).
func (d DifficultyPreset) Thresholds() [4]int {
	return [4]int{d.PTS, d.REB, d.AST, d.STL}
}

// DifficultySet is an ordered list of presets, easiest first.
type DifficultySet struct {
	presets []DifficultyPreset
}

// DefaultDifficulties returns the built-in presets.
func DefaultDifficulties() *DifficultySet {
	return &DifficultySet{presets: []DifficultyPreset{
		{Name: "Regular", PTS: 850, REB: 400, AST: 200, STL: 60},
		{Name: "93' Bulls", PTS: 1050, REB: 500, AST: 300, STL: 80},
		{Name: "All-Stars", PTS: 1250, REB: 600, AST: 400, STL: 100},
		{Name: "Dream Team", PTS: 1450, REB: 700, AST: 500, STL: 120},
	}}
}

// NewDifficultySet validates presets and orders them by points threshold.
func NewDifficultySet(presets []DifficultyPreset) (*DifficultySet, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("at least one difficulty preset is required")
	}
	seen := make(map[string]bool, len(presets))
	for _, p := range presets {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("difficulty preset has empty name")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate difficulty preset %q", p.Name)
		}
		seen[p.Name] = true
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	ordered := make([]DifficultyPreset, len(presets))
	copy(ordered, presets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PTS < ordered[j].PTS
	})
	return &DifficultySet{presets: ordered}, nil
}

// LoadDifficultyFile reads presets from a YAML file of the form
//
//	difficulties:
//	  - {name: Regular, pts: 850, reb: 400, ast: 200, stl: 60}
func LoadDifficultyFile(path string) (*DifficultySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read difficulty file: %w", err)
	}

	var doc struct {
		Difficulties []DifficultyPreset `yaml:"difficulties"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse difficulty file: %w", err)
	}
	return NewDifficultySet(doc.Difficulties)
}

// LoadDifficulties returns the presets from path, or the built-in presets
// when path is empty.
func LoadDifficulties(path string) (*DifficultySet, error) {
	if path == "" {
		return DefaultDifficulties(), nil
	}
	set, err := LoadDifficultyFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load difficulty presets: %w", err)
	}
	return set, nil
}

func (s *DifficultySet) All() []DifficultyPreset {
	out := make([]DifficultyPreset, len(s.presets))
	copy(out, s.presets)
	return out
}

func (s *DifficultySet) Get(name string) (DifficultyPreset, bool) {
	for _, p := range s.presets {
		if p.Name == name {
			return p, true
		}
	}
	return DifficultyPreset{}, false
}

func (s *DifficultySet) Names() []string {
	names := make([]string, len(s.presets))
	for i, p := range s.presets {
		names[i] = p.Name
	}
	return names
}
