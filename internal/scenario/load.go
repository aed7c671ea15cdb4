package scenario

import (
	"encoding/json"
	"fmt"
	"os"
)

// Decode validates a scenario document against Schema and decodes it. Candidates are
// numbered in document order.
func Decode(data []byte) (*ScenarioResult, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	rs, err := resolvedSchema()
	if err != nil {
		return nil, fmt.Errorf("resolving scenario schema: %w", err)
	}
	if err := rs.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	var res ScenarioResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	for i := range res.Candidates {
		res.Candidates[i].OriginalIndex = i
	}
	return &res, nil
}

// LoadFile reads and decodes a scenario document.
func LoadFile(path string) (*ScenarioResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	res, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
