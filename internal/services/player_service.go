package services

import (
	"github.com/stitts-dev/hoops-sim/internal/catalog"
	"github.com/stitts-dev/hoops-sim/internal/models"
)

// PlayerService answers catalog queries for roster building.
type PlayerService struct {
	catalogs *catalog.Cache
}

func NewPlayerService(catalogs *catalog.Cache) *PlayerService {
	return &PlayerService{catalogs: catalogs}
}

// Search validates term and returns matching full names.
func (s *PlayerService) Search(term string) ([]string, error) {
	cleaned, err := catalog.ValidateSearchTerm(term)
	if err != nil {
		return nil, err
	}
	cat, err := s.catalogs.Get()
	if err != nil {
		return nil, err
	}
	return cat.Search(cleaned), nil
}

func (s *PlayerService) Get(fullName string) (*models.PlayerRecord, error) {
	records, err := s.Lookup([]string{fullName})
	if err != nil {
		return nil, err
	}
	return &records[0], nil
}

// Lookup returns records in the order of names.
func (s *PlayerService) Lookup(names []string) ([]models.PlayerRecord, error) {
	cat, err := s.catalogs.Get()
	if err != nil {
		return nil, err
	}
	return cat.Lookup(names...)
}
