// Package selection scores optimizer candidates and builds a short-list that is both
// high-performing and spread across financing mechanisms.
package selection

import (
	"strings"

	"scenario-mcp/internal/scenario"
)

const (
	DefaultPoolSize = 5
	DefaultSize     = 3
)

// DefaultPriority is the order in which structure kinds are offered a slot.
func DefaultPriority() []string {
	return []string{"Loan", "Convertible", "PIPE", "ATM", "Hybrid"}
}

// Policy configures Select. The zero value of any field falls back to its default.
type Policy struct {
	Weights  Weights  `json:"weights"`
	PoolSize int      `json:"pool_size"`
	Size     int      `json:"size"`
	Priority []string `json:"priority"`
}

func DefaultPolicy() Policy {
	return Policy{
		Weights:  DefaultWeights(),
		PoolSize: DefaultPoolSize,
		Size:     DefaultSize,
		Priority: DefaultPriority(),
	}
}

func (p Policy) normalized() Policy {
	if p.Weights == (Weights{}) {
		p.Weights = DefaultWeights()
	}
	if p.PoolSize <= 0 {
		p.PoolSize = DefaultPoolSize
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if len(p.Priority) == 0 {
		p.Priority = DefaultPriority()
	}
	return p
}

// SelectionResult is the ordered short-list. Each entry keeps its OriginalIndex.
type SelectionResult struct {
	Candidates []Scored `json:"candidates"`
	PoolSize   int      `json:"pool_size"`
}

// Default is the pick used when the user has not chosen a candidate.
func (r SelectionResult) Default() (Scored, bool) {
	if len(r.Candidates) == 0 {
		return Scored{}, false
	}
	return r.Candidates[0], true
}

// Find returns the short-listed candidate with the given original index.
func (r SelectionResult) Find(originalIndex int) (Scored, bool) {
	for _, c := range r.Candidates {
		if c.OriginalIndex == originalIndex {
			return c, true
		}
	}
	return Scored{}, false
}

// Contains reports whether the candidate is on the short-list.
func (r SelectionResult) Contains(originalIndex int) bool {
	_, ok := r.Find(originalIndex)
	return ok
}

// Select builds the short-list:
//
//  1. rank all candidates by score and keep the top PoolSize;
//  2. walk Priority and, for each token, take the first pooled candidate whose structure
//     label contains the token and whose exact label has not been taken yet;
//  3. fill the remaining slots from the pool in score order.
func Select(cands []scenario.Candidate, p Policy) SelectionResult {
	p = p.normalized()
	res := SelectionResult{Candidates: []Scored{}}
	if len(cands) == 0 {
		return res
	}

	pool := Rank(cands, p.Weights)
	if len(pool) > p.PoolSize {
		pool = pool[:p.PoolSize]
	}
	res.PoolSize = len(pool)

	taken := make(map[int]bool)
	usedLabels := make(map[string]bool)

	for _, token := range p.Priority {
		if len(res.Candidates) >= p.Size {
			break
		}
		for _, c := range pool {
			label := c.Structure()
			if !strings.Contains(label, token) || usedLabels[label] {
				continue
			}
			c.Reason = "priority:" + token
			res.Candidates = append(res.Candidates, c)
			usedLabels[label] = true
			taken[c.OriginalIndex] = true
			break
		}
	}

	for _, c := range pool {
		if len(res.Candidates) >= p.Size {
			break
		}
		if taken[c.OriginalIndex] {
			continue
		}
		c.Reason = "score"
		res.Candidates = append(res.Candidates, c)
		taken[c.OriginalIndex] = true
	}

	if len(res.Candidates) > p.Size {
		res.Candidates = res.Candidates[:p.Size]
	}
	return res
}
