package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies a cached response by the logical parameters of the
// request that produced it.
type Key struct {
	// Kind is the request category (e.g., "search", "object").
	Kind string

	// Params are the logical request parameters
	// (e.g., {"q": "flower", "hasImages": "true"} or {"id": "436535"}).
	Params map[string]string
}

// String generates a deterministic cache key string.
// Format: met:kind:param1=val1:param2=val2
//
// Example:
//
//	met:search:hasImages=true:q=flower
func (k Key) String() string {
	parts := []string{"met"}

	if k.Kind != "" {
		parts = append(parts, k.Kind)
	}

	// Params sorted for determinism
	if len(k.Params) > 0 {
		paramKeys := make([]string, 0, len(k.Params))
		for key := range k.Params {
			paramKeys = append(paramKeys, key)
		}
		sort.Strings(paramKeys)

		for _, key := range paramKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Params[key]))
		}
	}

	return strings.Join(parts, ":")
}
