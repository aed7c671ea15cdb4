package scenario

import (
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

func nullable(s *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{s, {Type: "null"}}}
}

func number() *jsonschema.Schema {
	return nullable(&jsonschema.Schema{Type: "number"})
}

func object(desc string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return nullable(&jsonschema.Schema{Type: "object", Description: desc, Properties: props})
}

func pathsSchema(desc string) *jsonschema.Schema {
	cell := number()
	return nullable(&jsonschema.Schema{
		Type:        "array",
		Description: desc,
		Items: &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
			cell,
			{Type: "array", Items: cell},
		}},
	})
}

func metricsProperties() map[string]*jsonschema.Schema {
	free := func(desc string) *jsonschema.Schema {
		return object(desc, nil)
	}
	return map[string]*jsonschema.Schema{
		"nav": object("Net asset value figures", map[string]*jsonschema.Schema{
			"avg_nav":      number(),
			"erosion_prob": number(),
			"cvar":         number(),
			"nav_paths":    pathsSchema("NAV per path, flat or [path][step]"),
		}),
		"ltv": object("Loan-to-value figures", map[string]*jsonschema.Schema{
			"exceed_prob": number(),
			"ltv_paths":   pathsSchema("LTV per path, flat or [path][step]"),
		}),
		"dilution": object("Dilution figures", map[string]*jsonschema.Schema{
			"avg_dilution":   number(),
			"base_dilution":  number(),
			"dilution_paths": pathsSchema("Dilution per path, flat or [path][step]"),
		}),
		"roe": object("Return on equity", map[string]*jsonschema.Schema{
			"avg_roe": number(),
			"sharpe":  number(),
		}),
		"runway": object("Runway in months", map[string]*jsonschema.Schema{
			"dist_mean": number(),
			"p95":       number(),
		}),
		"term_sheet":           free("Pass-through term sheet"),
		"scenario_metrics":     free("Pass-through scenario metrics"),
		"distribution_metrics": free("Pass-through distribution metrics"),
		"business_impact":      free("Pass-through business impact"),
	}
}

// Schema returns the JSON schema of a scenario result document.
func Schema() *jsonschema.Schema {
	candidate := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"params"},
		Properties: map[string]*jsonschema.Schema{
			"type": {Type: "string"},
			"params": {
				Type:     "object",
				Required: []string{"structure"},
				Properties: map[string]*jsonschema.Schema{
					"structure": {Type: "string", Description: "Loan, Convertible, PIPE, ATM or a '+'-joined hybrid"},
					"amount":    number(),
					"rate":      number(),
					"discount":  number(),
					"ltv_cap":   number(),
					"premium":   number(),
				},
			},
			"metrics": object("Candidate metrics bundle", metricsProperties()),
		},
	}

	props := metricsProperties()
	props["candidates"] = nullable(&jsonschema.Schema{Type: "array", Items: candidate})

	return &jsonschema.Schema{
		Title:       "ScenarioResult",
		Description: "Monte-Carlo scenario result with optional optimizer candidates",
		Type:        "object",
		Properties:  props,
	}
}

var resolvedSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	return Schema().Resolve(nil)
})
