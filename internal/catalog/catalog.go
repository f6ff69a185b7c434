package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/stitts-dev/hoops-sim/internal/models"
)

var (
	ErrNotFound     = errors.New("player not found")
	ErrPoolTooSmall = errors.New("pool has too few candidates")
)

// Rand is the subset of *rand.Rand the catalog samples with.
type Rand interface {
	Intn(n int) int
}

// Predicate selects catalog rows.
type Predicate func(p models.PlayerRecord) bool

// Catalog is a read-only table of player career statistics.
type Catalog interface {
	Filter(pred Predicate) Pool
	Lookup(names ...string) ([]models.PlayerRecord, error)
	Search(term string) []string
	Len() int
}

// Pool is a filtered subset of the catalog.
type Pool []models.PlayerRecord

// Sample draws n distinct records without replacement, skipping any identity in exclude.
// It returns ErrPoolTooSmall instead of panicking when fewer than n candidates remain.
func (p Pool) Sample(rng Rand, n int, exclude map[string]struct{}) ([]models.PlayerRecord, error) {
	candidates := make([]models.PlayerRecord, 0, len(p))
	for _, rec := range p {
		if _, skip := exclude[rec.FullName]; !skip {
			candidates = append(candidates, rec)
		}
	}
	if n <= 0 {
		return nil, nil
	}
	if len(candidates) < n {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrPoolTooSmall, n, len(candidates))
	}

	// partial Fisher-Yates
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	out := make([]models.PlayerRecord, n)
	copy(out, candidates[:n])
	return out, nil
}

// MemoryCatalog is a Catalog held entirely in memory.
type MemoryCatalog struct {
	records []models.PlayerRecord
	byName  map[string]int
}

// NewMemoryCatalog validates records and rejects duplicate full names.
func NewMemoryCatalog(records []models.PlayerRecord) (*MemoryCatalog, error) {
	c := &MemoryCatalog{
		records: make([]models.PlayerRecord, 0, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog row: %w", err)
		}
		if _, dup := c.byName[rec.FullName]; dup {
			return nil, fmt.Errorf("duplicate player %q in catalog", rec.FullName)
		}
		c.byName[rec.FullName] = len(c.records)
		c.records = append(c.records, rec)
	}
	return c, nil
}

func (c *MemoryCatalog) Filter(pred Predicate) Pool {
	pool := make(Pool, 0)
	for _, rec := range c.records {
		if pred(rec) {
			pool = append(pool, rec)
		}
	}
	return pool
}

// Lookup returns records in the order of names. Unknown names fail with ErrNotFound.
func (c *MemoryCatalog) Lookup(names ...string) ([]models.PlayerRecord, error) {
	out := make([]models.PlayerRecord, 0, len(names))
	for _, name := range names {
		idx, ok := c.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		out = append(out, c.records[idx])
	}
	return out, nil
}

// Search returns the sorted full names matching term as a full, first or last name.
func (c *MemoryCatalog) Search(term string) []string {
	names := make([]string, 0)
	for _, rec := range c.records {
		if rec.MatchesName(term) {
			names = append(names, rec.FullName)
		}
	}
	sort.Strings(names)
	return names
}

func (c *MemoryCatalog) Len() int {
	return len(c.records)
}

// Exceeds builds a predicate for column > threshold.
func Exceeds(column string, threshold int) Predicate {
	return func(p models.PlayerRecord) bool {
		v, err := p.Stat(column)
		if err != nil {
			return false
		}
		return v > float64(threshold)
	}
}
