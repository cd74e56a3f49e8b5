package entities

import "github.com/danja/semem-go/domain/core/valueobjects"

// Concept is a typed lexical marker extracted from ingested text.
type Concept struct {
	Label     string // canonical: lower-cased, trimmed
	URI       string // deterministic hash of Label
	Embedding valueobjects.Embedding
	Domain    string // optional domain tag
}

// NewConcept normalizes label and mints its URI, making construction the
// single place label→URI idempotence is enforced.
func NewConcept(rawLabel string) Concept {
	label := valueobjects.NormalizeConceptLabel(rawLabel)
	return Concept{
		Label: label,
		URI:   valueobjects.ConceptURI(label),
	}
}

// WithDomain returns a copy tagged with a domain.
func (c Concept) WithDomain(domain string) Concept {
	c.Domain = domain
	return c
}

// WithEmbedding returns a copy carrying a computed embedding.
func (c Concept) WithEmbedding(e valueobjects.Embedding) Concept {
	c.Embedding = e
	return c
}
