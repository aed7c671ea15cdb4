package selection

import (
	"slices"

	"scenario-mcp/internal/scenario"
)

// Weights turn a metrics bundle into a single score:
//
//	score = NAV/NAVScale + ROE*ROEWeight - dilution*DilutionWeight
//
// Missing figures are replaced by the Missing* values. Dilution defaults to the maximal
// penalty so that an incomplete bundle never wins by omission.
type Weights struct {
	NAVScale        float64 `json:"nav_scale"`
	ROEWeight       float64 `json:"roe_weight"`
	DilutionWeight  float64 `json:"dilution_weight"`
	MissingNAV      float64 `json:"missing_nav"`
	MissingROE      float64 `json:"missing_roe"`
	MissingDilution float64 `json:"missing_dilution"`
}

// DefaultWeights: NAV in millions, ROE and dilution in percentage points.
func DefaultWeights() Weights {
	return Weights{
		NAVScale:        1_000_000,
		ROEWeight:       100,
		DilutionWeight:  100,
		MissingNAV:      0,
		MissingROE:      0,
		MissingDilution: 1,
	}
}

// Scored is a candidate with its score. Rank is 1-based in descending score order.
type Scored struct {
	scenario.Candidate
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
	Reason string  `json:"reason,omitempty"`
}

// Score is a pure function of the candidate's NAV, ROE and dilution.
func Score(m scenario.Metrics, w Weights) float64 {
	nav, ok := m.NAVValue()
	if !ok {
		nav = w.MissingNAV
	}
	roe, ok := m.ROEValue()
	if !ok {
		roe = w.MissingROE
	}
	dilution, ok := m.DilutionValue()
	if !ok {
		dilution = w.MissingDilution
	}
	return nav/w.NAVScale + roe*w.ROEWeight - dilution*w.DilutionWeight
}

// Rank scores every candidate and orders them by descending score. Ties keep the input
// order. Each result's OriginalIndex is its position in cands. The input slice is not
// modified.
func Rank(cands []scenario.Candidate, w Weights) []Scored {
	ranked := make([]Scored, len(cands))
	for i, c := range cands {
		c.OriginalIndex = i
		ranked[i] = Scored{Candidate: c, Score: Score(c.Metrics, w)}
	}
	slices.SortStableFunc(ranked, func(a, b Scored) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
