package models

import (
	"fmt"
	"strings"
)

// Stat column names as they appear in the catalog source
const (
	ColAST    = "AST"
	ColBLK    = "BLK"
	ColDREB   = "DREB"
	ColFG3A   = "FG3A"
	ColFG3M   = "FG3M"
	ColFG3Pct = "FG3_PCT"
	ColFGA    = "FGA"
	ColFGM    = "FGM"
	ColFGPct  = "FG_PCT"
	ColFTA    = "FTA"
	ColFTM    = "FTM"
	ColFTPct  = "FT_PCT"
	ColGP     = "GP"
	ColGS     = "GS"
	ColMIN    = "MIN"
	ColOREB   = "OREB"
	ColPF     = "PF"
	ColPTS    = "PTS"
	ColREB    = "REB"
	ColSTL    = "STL"
	ColTOV    = "TOV"
)

// StatColumns is the per-player column order the winner classifier was fit on.
var StatColumns = []string{
	ColPTS, ColOREB, ColDREB, ColAST, ColSTL, ColBLK, ColTOV, ColFG3Pct, ColFTPct, ColFGM,
}

// PlayerRecord is one row of career statistics, keyed by full name.
type PlayerRecord struct {
	FullName  string  `gorm:"primaryKey;size:100" json:"full_name"`
	FirstName string  `gorm:"size:50;index" json:"first_name"`
	LastName  string  `gorm:"size:50;index" json:"last_name"`
	IsActive  bool    `gorm:"default:false" json:"is_active"`
	AST       int     `gorm:"column:ast;not null" json:"ast"`
	BLK       int     `gorm:"column:blk;not null" json:"blk"`
	DREB      int     `gorm:"column:dreb;not null" json:"dreb"`
	FG3A      int     `gorm:"column:fg3a;not null" json:"fg3a"`
	FG3M      int     `gorm:"column:fg3m;not null" json:"fg3m"`
	FG3Pct    float64 `gorm:"column:fg3_pct;not null" json:"fg3_pct"`
	FGA       int     `gorm:"column:fga;not null" json:"fga"`
	FGM       int     `gorm:"column:fgm;not null" json:"fgm"`
	FGPct     float64 `gorm:"column:fg_pct;not null" json:"fg_pct"`
	FTA       int     `gorm:"column:fta;not null" json:"fta"`
	FTM       int     `gorm:"column:ftm;not null" json:"ftm"`
	FTPct     float64 `gorm:"column:ft_pct;not null" json:"ft_pct"`
	GP        int     `gorm:"column:gp;not null" json:"gp"`
	GS        int     `gorm:"column:gs;not null" json:"gs"`
	MIN       int     `gorm:"column:min;not null" json:"min"`
	OREB      int     `gorm:"column:oreb;not null" json:"oreb"`
	PF        int     `gorm:"column:pf;not null" json:"pf"`
	PTS       int     `gorm:"column:pts;not null;index" json:"pts"`
	REB       int     `gorm:"column:reb;not null;index" json:"reb"`
	STL       int     `gorm:"column:stl;not null;index" json:"stl"`
	TOV       int     `gorm:"column:tov;not null" json:"tov"`
}

// TableName specifies the table name for GORM
func (PlayerRecord) TableName() string {
	return "players"
}

// Stat returns the value of a named stat column.
func (p PlayerRecord) Stat(column string) (float64, error) {
	switch column {
	case ColAST:
		return float64(p.AST), nil
	case ColBLK:
		return float64(p.BLK), nil
	case ColDREB:
		return float64(p.DREB), nil
	case ColFG3A:
		return float64(p.FG3A), nil
	case ColFG3M:
		return float64(p.FG3M), nil
	case ColFG3Pct:
		return p.FG3Pct, nil
	case ColFGA:
		return float64(p.FGA), nil
	case ColFGM:
		return float64(p.FGM), nil
	case ColFGPct:
		return p.FGPct, nil
	case ColFTA:
		return float64(p.FTA), nil
	case ColFTM:
		return float64(p.FTM), nil
	case ColFTPct:
		return p.FTPct, nil
	case ColGP:
		return float64(p.GP), nil
	case ColGS:
		return float64(p.GS), nil
	case ColMIN:
		return float64(p.MIN), nil
	case ColOREB:
		return float64(p.OREB), nil
	case ColPF:
		return float64(p.PF), nil
	case ColPTS:
		return float64(p.PTS), nil
	case ColREB:
		return float64(p.REB), nil
	case ColSTL:
		return float64(p.STL), nil
	case ColTOV:
		return float64(p.TOV), nil
	}
	return 0, fmt.Errorf("unknown stat column %q", column)
}

// StatRow returns the player's stats in the given column order.
func (p PlayerRecord) StatRow(columns []string) ([]float64, error) {
	row := make([]float64, len(columns))
	for i, col := range columns {
		v, err := p.Stat(col)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// MatchesName reports whether term equals the full, first or last name, ignoring case.
func (p PlayerRecord) MatchesName(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	return strings.ToLower(p.FullName) == term ||
		strings.ToLower(p.FirstName) == term ||
		strings.ToLower(p.LastName) == term
}

// Validate checks the record against the catalog's value ranges.
func (p PlayerRecord) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("player record has empty full name")
	}
	if len(p.FullName) > 100 {
		return fmt.Errorf("player %q: full name exceeds 100 characters", p.FullName)
	}

	counts := map[string]int{
		ColAST: p.AST, ColBLK: p.BLK, ColDREB: p.DREB, ColFG3A: p.FG3A, ColFG3M: p.FG3M,
		ColFGA: p.FGA, ColFGM: p.FGM, ColFTA: p.FTA, ColFTM: p.FTM, ColGP: p.GP, ColGS: p.GS,
		ColMIN: p.MIN, ColOREB: p.OREB, ColPF: p.PF, ColPTS: p.PTS, ColREB: p.REB,
		ColSTL: p.STL, ColTOV: p.TOV,
	}
	for col, v := range counts {
		if v < 0 {
			return fmt.Errorf("player %q: %s must be non-negative, got %d", p.FullName, col, v)
		}
	}

	pcts := map[string]float64{ColFG3Pct: p.FG3Pct, ColFGPct: p.FGPct, ColFTPct: p.FTPct}
	for col, v := range pcts {
		if v < 0 || v > 1 {
			return fmt.Errorf("player %q: %s must be within [0,1], got %v", p.FullName, col, v)
		}
	}
	return nil
}
