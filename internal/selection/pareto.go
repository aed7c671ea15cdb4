package selection

import "scenario-mcp/internal/scenario"

type objectives struct {
	nav, roe, dilution float64
}

func objectivesOf(m scenario.Metrics, w Weights) objectives {
	o := objectives{nav: w.MissingNAV, roe: w.MissingROE, dilution: w.MissingDilution}
	if v, ok := m.NAVValue(); ok {
		o.nav = v
	}
	if v, ok := m.ROEValue(); ok {
		o.roe = v
	}
	if v, ok := m.DilutionValue(); ok {
		o.dilution = v
	}
	return o
}

// dominates: higher NAV and ROE are better, lower dilution is better.
func (a objectives) dominates(b objectives) bool {
	if a.nav < b.nav || a.roe < b.roe || a.dilution > b.dilution {
		return false
	}
	return a.nav > b.nav || a.roe > b.roe || a.dilution < b.dilution
}

// ParetoFrontier returns the candidates no other candidate dominates on NAV, ROE and
// dilution, in rank order. Missing figures use the same substitutes as scoring.
// O(n^2) dominance check.
func ParetoFrontier(cands []scenario.Candidate, w Weights) []Scored {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	ranked := Rank(cands, w)
	objs := make([]objectives, len(ranked))
	for i, c := range ranked {
		objs[i] = objectivesOf(c.Metrics, w)
	}

	frontier := make([]Scored, 0, len(ranked))
	for i := range ranked {
		dominated := false
		for j := range ranked {
			if i != j && objs[j].dominates(objs[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, ranked[i])
		}
	}
	return frontier
}
