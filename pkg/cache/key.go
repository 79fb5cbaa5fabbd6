package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies one cached API response.
type Key struct {
	// Endpoint is the request URL without query string
	// (e.g., "https://store.steampowered.com/api/appdetails")
	Endpoint string

	// Query are the request's query parameters (e.g., {"appids": "570"})
	Query url.Values
}

// String generates a deterministic Redis key.
// Format: steamharvest:endpoint:param1=val1:param2=val2
//
// Example:
//
//	steamharvest:https://steamspy.com/api.php:appid=570:request=appdetails
func (k Key) String() string {
	parts := []string{"steamharvest"}

	endpoint := strings.TrimRight(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Sorted for determinism
	if len(k.Query) > 0 {
		queryKeys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
