package specifications

import (
	"strings"

	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
)

// These specifications mirror the SPARQL query builder's pan clauses
// (§4.F) so the same filter logic can be re-applied in-process — e.g. to
// re-check a cached result set without a round trip to the graph store.

// DomainSpecification matches a node whose content contains any of the
// configured domain strings (case-insensitive), the OR-within-dimension
// rule for pan.domains.
func DomainSpecification(domains []string) Specification[*entities.KnowledgeNode] {
	return NewBaseSpecification(func(node *entities.KnowledgeNode) bool {
		if len(domains) == 0 {
			return true
		}
		content := strings.ToLower(node.Content)
		for _, d := range domains {
			if strings.Contains(content, strings.ToLower(d)) {
				return true
			}
		}
		return false
	})
}

// KeywordSpecification matches a node whose content or label contains any
// of the configured keywords.
func KeywordSpecification(keywords []string) Specification[*entities.KnowledgeNode] {
	return NewBaseSpecification(func(node *entities.KnowledgeNode) bool {
		if len(keywords) == 0 {
			return true
		}
		content := strings.ToLower(node.Content)
		label := strings.ToLower(node.Label)
		for _, k := range keywords {
			lk := strings.ToLower(k)
			if strings.Contains(content, lk) || strings.Contains(label, lk) {
				return true
			}
		}
		return false
	})
}

// EntitySpecification matches a node that connectsTo any of the given
// entity URIs.
func EntitySpecification(entityURIs []string) Specification[*entities.KnowledgeNode] {
	set := make(map[string]bool, len(entityURIs))
	for _, uri := range entityURIs {
		set[uri] = true
	}
	return NewBaseSpecification(func(node *entities.KnowledgeNode) bool {
		if len(set) == 0 {
			return true
		}
		for _, link := range node.Links {
			if link.Predicate == "connectsTo" && set[link.TargetURI] {
				return true
			}
		}
		return false
	})
}

// TemporalSpecification matches a node created within the given bounds.
func TemporalSpecification(r *valueobjects.TemporalRange) Specification[*entities.KnowledgeNode] {
	return NewBaseSpecification(func(node *entities.KnowledgeNode) bool {
		if r == nil {
			return true
		}
		if !r.Start.IsZero() && node.CreatedAt.Before(r.Start) {
			return false
		}
		if !r.End.IsZero() && node.CreatedAt.After(r.End) {
			return false
		}
		return true
	})
}

// BuildPanSpecification ANDs together a specification per non-empty pan
// dimension, matching §4.F: "Multiple pan dimensions are combined with
// logical AND; within a dimension, values are OR'd."
func BuildPanSpecification(pan valueobjects.Pan) Specification[*entities.KnowledgeNode] {
	var spec Specification[*entities.KnowledgeNode] = NewBaseSpecification(func(*entities.KnowledgeNode) bool { return true })

	if len(pan.Domains) > 0 {
		spec = spec.And(DomainSpecification(pan.Domains))
	}
	if len(pan.Keywords) > 0 {
		spec = spec.And(KeywordSpecification(pan.Keywords))
	}
	if len(pan.Entities) > 0 {
		spec = spec.And(EntitySpecification(pan.Entities))
	}
	if pan.Temporal != nil {
		spec = spec.And(TemporalSpecification(pan.Temporal))
	}
	return spec
}
