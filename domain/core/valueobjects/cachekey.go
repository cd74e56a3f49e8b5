package valueobjects

import (
	"encoding/base64"
	"strings"
)

// NormalizeSPARQL collapses runs of whitespace in a query so that two
// queries differing only in formatting produce the same cache key.
func NormalizeSPARQL(query string) string {
	fields := strings.Fields(query)
	return strings.Join(fields, " ")
}

// QueryCacheKey derives the deterministic cache key for a normalized SPARQL
// query against a given endpoint: base64(normalized query)[:50] joined with
// the endpoint URL.
func QueryCacheKey(query, endpoint string) string {
	normalized := NormalizeSPARQL(query)
	encoded := base64.StdEncoding.EncodeToString([]byte(normalized))
	if len(encoded) > 50 {
		encoded = encoded[:50]
	}
	return encoded + "|" + endpoint
}
