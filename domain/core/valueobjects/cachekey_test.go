package valueobjects

import "testing"

func TestQueryCacheKey_WhitespaceInsensitive(t *testing.T) {
	a := QueryCacheKey("SELECT  ?s\n WHERE { ?s ?p ?o }", "http://example.org/sparql")
	b := QueryCacheKey("SELECT ?s WHERE { ?s ?p ?o }", "http://example.org/sparql")
	if a != b {
		t.Fatalf("expected whitespace-insensitive keys to match, got %q vs %q", a, b)
	}
}

func TestQueryCacheKey_DifferentEndpointsDiffer(t *testing.T) {
	a := QueryCacheKey("SELECT ?s WHERE { ?s ?p ?o }", "http://a.example.org/sparql")
	b := QueryCacheKey("SELECT ?s WHERE { ?s ?p ?o }", "http://b.example.org/sparql")
	if a == b {
		t.Fatalf("expected different endpoints to produce different keys")
	}
}

func TestQueryCacheKey_Deterministic(t *testing.T) {
	query := "SELECT ?s WHERE { ?s a <http://example.org/Thing> }"
	endpoint := "http://example.org/sparql"
	first := QueryCacheKey(query, endpoint)
	second := QueryCacheKey(query, endpoint)
	if first != second {
		t.Fatalf("expected deterministic key, got %q vs %q", first, second)
	}
}
