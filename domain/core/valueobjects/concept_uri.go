package valueobjects

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// ConceptNamespace is the base URI concept minting hangs new concept
// resources off of, mirroring the navigation/content graph convention of a
// project-local vocabulary alongside ragno/zpt.
const ConceptNamespace = "http://hyperdata.it/semem/concept/"

// NormalizeConceptLabel trims and lower-cases a raw concept string. This is
// the canonicalization both ConceptURI minting and concept deduplication
// rely on.
func NormalizeConceptLabel(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ConceptURI deterministically mints a URI from a normalized label: same
// label always yields the same URI, across process restarts, satisfying
// idempotent re-ingest.
func ConceptURI(label string) string {
	normalized := NormalizeConceptLabel(label)
	sum := sha1.Sum([]byte(normalized))
	return ConceptNamespace + hex.EncodeToString(sum[:])
}
