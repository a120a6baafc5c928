package lineage

import (
	"regexp"
	"strings"
)

// layerRule maps a name predicate to an inferred layer tag. Rules are
// evaluated top to bottom; the first match wins, so the list is mutually
// exclusive by construction.
type layerRule struct {
	match func(name string) bool
	layer string
}

// eightDigitRun matches names containing eight consecutive digits, a
// convention for date-partitioned base tables (e.g. "events_20240115").
var eightDigitRun = regexp.MustCompile(`\d{8}`)

func prefixRule(layer string, prefixes ...string) layerRule {
	return layerRule{
		layer: layer,
		match: func(name string) bool {
			for _, p := range prefixes {
				if strings.HasPrefix(name, p) {
					return true
				}
			}
			return false
		},
	}
}

var layerRules = []layerRule{
	{layer: LayerBase, match: func(name string) bool {
		return eightDigitRun.MatchString(name) ||
			strings.HasPrefix(name, "base__") ||
			strings.HasPrefix(name, "stage__")
	}},
	prefixRule(LayerRaw, "raw_"),
	prefixRule(LayerStaging, "stg_", "staging_"),
	prefixRule(LayerIntermediate, "int_", "int__", "intermediate_"),
	prefixRule(LayerCore, "core__"),
	prefixRule(LayerMartInternal, "internal__"),
	prefixRule(LayerMartPublic, "public__"),
	prefixRule(LayerMart, "mart_", "mart__", "fct_", "dim_"),
}

// InferLayer classifies an entity name into exactly one layer tag.
// Matching is case-insensitive; names matching no rule default to mart.
func InferLayer(name string) string {
	name = strings.ToLower(name)
	for _, r := range layerRules {
		if r.match(name) {
			return r.layer
		}
	}
	return LayerMart
}
