package scenario

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths_UnmarshalJSON(t *testing.T) {
	t.Run("FlatSeries", func(t *testing.T) {
		var p Paths
		require.NoError(t, json.Unmarshal([]byte(`[1, 2.5, null, 4]`), &p))
		assert.False(t, p.IsMatrix())
		require.Len(t, p.Series, 4)
		assert.True(t, math.IsNaN(p.Series[2]))
		assert.Equal(t, SampleSeries{1, 2.5, 4}, p.Series.Finite())
	})

	t.Run("Matrix", func(t *testing.T) {
		var p Paths
		require.NoError(t, json.Unmarshal([]byte(`[[1, 2], [3, null]]`), &p))
		require.True(t, p.IsMatrix())
		assert.Equal(t, 1.0, p.Matrix[0][0])
		assert.True(t, math.IsNaN(p.Matrix[1][1]))
	})

	t.Run("Mixed", func(t *testing.T) {
		var p Paths
		err := json.Unmarshal([]byte(`[[1, 2], 3]`), &p)
		assert.True(t, errors.Is(err, ErrMixedPaths))
	})

	t.Run("EmptyArray", func(t *testing.T) {
		var p Paths
		require.NoError(t, json.Unmarshal([]byte(`[]`), &p))
		assert.True(t, p.Empty())
	})
}

func TestPaths_MarshalJSON(t *testing.T) {
	p := Paths{Matrix: PathMatrix{{1, math.NaN()}, {2.5, 3}}}
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[[1,null],[2.5,3]]`, string(out))
}

func TestPathMatrix_Dims(t *testing.T) {
	tests := []struct {
		name      string
		matrix    PathMatrix
		paths     int
		steps     int
		wantError bool
	}{
		{"Empty", PathMatrix{}, 0, 0, false},
		{"Rectangular", PathMatrix{{1, 2, 3}, {4, 5, 6}}, 2, 3, false},
		{"ZeroSteps", PathMatrix{{}, {}}, 2, 0, false},
		{"Ragged", PathMatrix{{1, 2, 3}, {4, 5}}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, steps, err := tt.matrix.Dims()
			if tt.wantError {
				if !errors.Is(err, ErrRaggedMatrix) {
					t.Fatalf("expected ErrRaggedMatrix, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != tt.paths || steps != tt.steps {
				t.Errorf("Dims() = (%d, %d), want (%d, %d)", n, steps, tt.paths, tt.steps)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	flat := Paths{Series: SampleSeries{1, 2}}
	got, err := Terminal(flat)
	require.NoError(t, err)
	assert.Equal(t, SampleSeries{1, 2}, got)

	matrix := Paths{Matrix: PathMatrix{{1, 2, 3}, {4, 5, 6}}}
	got, err = Terminal(matrix)
	require.NoError(t, err)
	assert.Equal(t, SampleSeries{3, 6}, got)

	_, err = Terminal(Paths{Matrix: PathMatrix{{1}, {1, 2}}})
	assert.ErrorIs(t, err, ErrRaggedMatrix)
}

func TestLoadFile_Baseline(t *testing.T) {
	res, err := LoadFile(filepath.Join("..", "testdata", "baseline.json"))
	require.NoError(t, err)

	nav, ok := res.NAVValue()
	require.True(t, ok)
	assert.Equal(t, 100.0, nav)

	assert.True(t, res.NAVPaths().IsMatrix())
	assert.Len(t, res.NAVPaths().Matrix, 4)
	assert.False(t, res.DilutionPaths().IsMatrix())
	assert.Equal(t, "as-is", res.TermSheet["note"])
	assert.Empty(t, res.Candidates)
}

func TestLoadFile_OptimizedNumbersCandidates(t *testing.T) {
	res, err := LoadFile(filepath.Join("..", "testdata", "optimized.json"))
	require.NoError(t, err)
	require.Len(t, res.Candidates, 5)

	for i, c := range res.Candidates {
		assert.Equal(t, i, c.OriginalIndex)
	}
	assert.Equal(t, "Convertible", res.Candidates[1].Structure())
	require.NotNil(t, res.Candidates[0].Params.LTVCap)
	assert.Equal(t, 0.5, *res.Candidates[0].Params.LTVCap)
}

func TestDecode_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"NotJSON", `{"nav":`},
		{"WrongScalarType", `{"nav": {"avg_nav": "lots"}}`},
		{"CandidateWithoutStructure", `{"candidates": [{"params": {"amount": 1}}]}`},
		{"PathsNotArray", `{"ltv": {"ltv_paths": 3}}`},
		{"TopLevelArray", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestCandidate_Structure(t *testing.T) {
	c := Candidate{Type: "Loan"}
	assert.Equal(t, "Loan", c.Structure())

	c.Params.Structure = "Loan + PIPE"
	assert.Equal(t, "Loan + PIPE", c.Structure())
	assert.True(t, c.IsHybrid())
	assert.Equal(t, []string{"Loan", "PIPE"}, c.Mechanisms())
}

func TestMetrics_MissingValues(t *testing.T) {
	var m Metrics
	_, ok := m.NAVValue()
	assert.False(t, ok)
	_, ok = m.DilutionValue()
	assert.False(t, ok)

	m.ROE = &ROEMetrics{AvgROE: Float(0)}
	v, ok := m.ROEValue()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.True(t, m.LTVPaths().Empty())
}
