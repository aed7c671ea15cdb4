package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"scenario-mcp/internal/scenario"
	"scenario-mcp/internal/selection"
	"scenario-mcp/internal/stats"
)

type GeneratorConfig struct {
	Scenario   string // "uniform", "stressed" or "degenerate"
	Paths      int
	Steps      int // months
	Candidates int
	Seed       int64
}

// market describes the NAV process of a scenario.
type market struct {
	drift, vol float64
	leverage   float64 // debt as a share of initial NAV
}

const initialNAV = 10_000_000

var structures = []string{"Loan", "Convertible", "PIPE", "ATM", "Loan+PIPE", "Convertible+ATM"}

func marketFor(name string) market {
	switch name {
	case "stressed":
		return market{drift: -0.04, vol: 0.65, leverage: 0.35}
	case "degenerate":
		return market{drift: 0, vol: 0, leverage: 0}
	default:
		return market{drift: 0.06, vol: 0.35, leverage: 0.25}
	}
}

// Generate produces a baseline result and an optimized result with candidates. The same
// seed always yields the same documents.
func Generate(cfg GeneratorConfig) (*scenario.ScenarioResult, *scenario.ScenarioResult) {
	if cfg.Paths <= 0 {
		cfg.Paths = 500
	}
	if cfg.Steps <= 0 {
		cfg.Steps = 24
	}
	if cfg.Candidates <= 0 {
		cfg.Candidates = 8
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	m := marketFor(cfg.Scenario)

	nav := navPaths(rng, cfg.Paths, cfg.Steps, m)
	baseline := &scenario.ScenarioResult{
		Metrics: summarize(rng, nav, m.leverage*initialNAV, 0.5, 0.10, m),
	}
	baseline.TermSheet = map[string]any{"structure": "as-is"}

	optimized := &scenario.ScenarioResult{}
	for i := 0; i < cfg.Candidates; i++ {
		optimized.Candidates = append(optimized.Candidates, candidate(rng, i, nav, m))
	}

	// The optimized aggregate reports the best-scoring candidate with its paths.
	ranked := selection.Rank(optimized.Candidates, selection.DefaultWeights())
	best := ranked[0].Candidate
	optimized.Metrics = best.Metrics
	optimized.TermSheet = map[string]any{"structure": best.Structure(), "original_index": best.OriginalIndex}
	return baseline, optimized
}

// navPaths simulates geometric Brownian motion with monthly steps. Column 0 is the
// initial NAV.
func navPaths(rng *rand.Rand, n, steps int, m market) scenario.PathMatrix {
	dt := 1.0 / 12
	out := make(scenario.PathMatrix, n)
	for i := range out {
		row := make([]float64, steps+1)
		row[0] = initialNAV
		for t := 1; t <= steps; t++ {
			shock := m.vol * math.Sqrt(dt) * rng.NormFloat64()
			row[t] = row[t-1] * math.Exp((m.drift-m.vol*m.vol/2)*dt+shock)
		}
		out[i] = row
	}
	return out
}

// summarize derives a metrics bundle from NAV paths and a fixed debt amount.
func summarize(rng *rand.Rand, nav scenario.PathMatrix, debt, ltvCap, dilution float64, m market) scenario.Metrics {
	n, steps, _ := nav.Dims()
	terminal := nav.Column(steps - 1)

	avg, _ := stats.Mean(terminal)
	eroded := 0
	for _, v := range terminal {
		if v < initialNAV {
			eroded++
		}
	}
	cutoff, _ := stats.Quantile(terminal, 0.05)
	var tail []float64
	for _, v := range terminal {
		if v <= cutoff {
			tail = append(tail, v)
		}
	}
	cvar, _ := stats.Mean(tail)

	ltv := make(scenario.PathMatrix, n)
	breached := 0
	for i, row := range nav {
		ltv[i] = make([]float64, steps)
		for t, v := range row {
			if debt > 0 {
				ltv[i][t] = debt / v
			}
		}
		if ltv[i][steps-1] >= ltvCap {
			breached++
		}
	}

	dil := make(scenario.SampleSeries, n)
	for i := range dil {
		if m.vol == 0 {
			dil[i] = dilution
			continue
		}
		dil[i] = math.Max(0, dilution+0.02*rng.NormFloat64())
	}
	avgDil, _ := stats.Mean(dil)

	runway := 18 + 12*m.drift - 10*m.leverage
	roe := (avg - initialNAV) / initialNAV / 2

	return scenario.Metrics{
		NAV: &scenario.NAVMetrics{
			AvgNAV:      scenario.Float(avg),
			ErosionProb: scenario.Float(float64(eroded) / float64(n)),
			CVaR:        scenario.Float(cvar),
			Paths:       &scenario.Paths{Matrix: nav},
		},
		LTV: &scenario.LTVMetrics{
			ExceedProb: scenario.Float(float64(breached) / float64(n)),
			Paths:      &scenario.Paths{Matrix: ltv},
		},
		Dilution: &scenario.DilutionMetrics{
			AvgDilution:  scenario.Float(avgDil),
			BaseDilution: scenario.Float(dilution),
			Paths:        &scenario.Paths{Series: dil},
		},
		ROE:    &scenario.ROEMetrics{AvgROE: scenario.Float(roe), Sharpe: scenario.Float(roe / math.Max(m.vol, 0.01))},
		Runway: &scenario.RunwayMetrics{DistMean: scenario.Float(runway), P95: scenario.Float(runway * 1.4)},
	}
}

// candidate builds one financing proposal. Debt-bearing structures shift LTV risk,
// equity structures add dilution.
func candidate(rng *rand.Rand, i int, nav scenario.PathMatrix, m market) scenario.Candidate {
	structure := structures[i%len(structures)]
	amount := math.Round((1+4*rng.Float64())*1e6/1e5) * 1e5
	params := scenario.Params{Structure: structure, Amount: scenario.Float(amount)}

	debt := m.leverage * initialNAV
	dilution := 0.10
	for _, mech := range strings.Split(structure, "+") {
		switch mech {
		case "Loan":
			debt += amount
			params.Rate = scenario.Float(0.06 + 0.04*rng.Float64())
			params.LTVCap = scenario.Float(0.5 + 0.1*float64(rng.Intn(3)))
		case "Convertible":
			debt += amount / 2
			dilution += 0.02
			params.Rate = scenario.Float(0.02 + 0.03*rng.Float64())
			params.Premium = scenario.Float(0.2 + 0.2*rng.Float64())
		case "PIPE":
			dilution += amount / initialNAV
			params.Discount = scenario.Float(0.05 + 0.1*rng.Float64())
		case "ATM":
			dilution += amount / initialNAV / 2
			params.Discount = scenario.Float(0.02 * rng.Float64())
		}
	}

	// Raised capital lifts every path proportionally.
	lift := 1 + amount/initialNAV*(0.5+rng.Float64())
	lifted := make(scenario.PathMatrix, len(nav))
	for p, row := range nav {
		lifted[p] = make([]float64, len(row))
		for t, v := range row {
			lifted[p][t] = v * lift
		}
	}

	ltvCap := 0.5
	if params.LTVCap != nil {
		ltvCap = *params.LTVCap
	}
	return scenario.Candidate{
		Type:          structure,
		Params:        params,
		Metrics:       summarize(rng, lifted, debt, ltvCap, dilution, m),
		OriginalIndex: i,
	}
}

// Save writes <prefix>_baseline.json and <prefix>_optimized.json into outDir.
func Save(outDir, prefix string, baseline, optimized *scenario.ScenarioResult) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	docs := []struct {
		name string
		res  *scenario.ScenarioResult
	}{{"baseline", baseline}, {"optimized", optimized}}

	var written []string
	for _, d := range docs {
		path := filepath.Join(outDir, fmt.Sprintf("%s_%s.json", prefix, d.name))
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d.res); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}
