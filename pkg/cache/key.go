package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached BDL response.
type Key struct {
	// Endpoint is the BDL endpoint path (e.g. "/units/search").
	Endpoint string

	// Params are the query parameters of the request.
	Params url.Values
}

// String generates a deterministic cache key string.
// Format: bdl:endpoint:param1=val1:param2=val2
//
// Example:
//
//	bdl:units/search:level=6:name=warszawa
func (k Key) String() string {
	parts := []string{"bdl"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Sorted params for determinism; repeatable params (var-id, year)
	// keep their value order within one key segment.
	if len(k.Params) > 0 {
		keys := make([]string, 0, len(k.Params))
		for key := range k.Params {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(k.Params[key], ",")))
		}
	}

	return strings.Join(parts, ":")
}
