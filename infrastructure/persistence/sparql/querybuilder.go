package sparql

import (
	"fmt"
	"strings"

	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
)

// prefixBlock is prepended to every executed query (§4.F).
const prefixBlock = `PREFIX ragno: <http://purl.org/stuff/ragno/>
PREFIX zpt: <http://purl.org/stuff/zpt/>
PREFIX dcterms: <http://purl.org/dc/terms/>
PREFIX prov: <http://www.w3.org/ns/prov#>
PREFIX skos: <http://www.w3.org/2004/02/skos/core#>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
PREFIX semem: <http://hyperdata.it/semem/>
`

// resultLimit terminates every executed query (§4.F).
const resultLimit = 50

// EscapeLiteral escapes a string for safe inclusion inside a SPARQL string
// literal: backslash, double quote, newline, carriage return, tab.
func EscapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return replacer.Replace(s)
}

// Builder constructs zoom/pan/tilt SELECT queries over a single content
// graph, per §4.F's per-zoom base-query table, pan filter clauses, and
// tilt projections.
type Builder struct {
	ContentGraph string
}

// NewBuilder creates a query builder scoped to a named content graph.
func NewBuilder(contentGraph string) *Builder {
	return &Builder{ContentGraph: contentGraph}
}

// Build assembles the full SELECT for a navigate call.
func (b *Builder) Build(params valueobjects.Params) (string, error) {
	nodeType, ok := entities.ZoomNodeType[params.Zoom]
	if !ok {
		return "", fmt.Errorf("unsupported zoom %q", params.Zoom)
	}

	var sb strings.Builder
	sb.WriteString(prefixBlock)
	sb.WriteString("SELECT ?node ?label ?content ?created")
	sb.WriteString(b.extraProjections(params.Zoom))
	sb.WriteString("\nWHERE {\n")
	fmt.Fprintf(&sb, "  GRAPH <%s> {\n", b.ContentGraph)
	fmt.Fprintf(&sb, "    ?node a ragno:%s .\n", nodeType)
	sb.WriteString("    ?node rdfs:label ?label .\n")
	sb.WriteString("    ?node dcterms:created ?created .\n")
	sb.WriteString("    OPTIONAL { ?node semem:content ?content }\n")
	sb.WriteString(b.zoomClauses(params.Zoom))
	sb.WriteString(b.panClauses(params.Pan))
	sb.WriteString(b.tiltClauses(params.Tilt))
	sb.WriteString("  }\n")
	sb.WriteString("}\n")
	sb.WriteString(b.tiltOrdering(params.Tilt))
	fmt.Fprintf(&sb, "LIMIT %d\n", resultLimit)

	return sb.String(), nil
}

// extraProjections adds the per-zoom projected variables from §4.F's table.
func (b *Builder) extraProjections(zoom valueobjects.Zoom) string {
	switch zoom {
	case valueobjects.ZoomMicro:
		return " ?attributeType ?owner"
	case valueobjects.ZoomEntity:
		return " ?entryPoint ?frequency"
	case valueobjects.ZoomUnit:
		return " ?embeddingHandle"
	case valueobjects.ZoomText:
		return " ?sourceDocument"
	case valueobjects.ZoomCommunity:
		return " ?memberCount"
	case valueobjects.ZoomCorpus:
		return " ?elementCount"
	default:
		return ""
	}
}

func (b *Builder) zoomClauses(zoom valueobjects.Zoom) string {
	switch zoom {
	case valueobjects.ZoomMicro:
		return "    OPTIONAL { ?node ragno:attributeType ?attributeType }\n    OPTIONAL { ?node ragno:hasAttribute ?owner }\n"
	case valueobjects.ZoomEntity:
		return "    OPTIONAL { ?node ragno:isEntryPoint ?entryPoint }\n    OPTIONAL { ?node ragno:frequency ?frequency }\n"
	case valueobjects.ZoomUnit:
		return "    OPTIONAL { ?node ragno:hasEmbedding ?embeddingHandle }\n"
	case valueobjects.ZoomText:
		return "    OPTIONAL { ?node dcterms:source ?sourceDocument }\n"
	case valueobjects.ZoomCommunity:
		return "    OPTIONAL { SELECT ?node (COUNT(?m) AS ?memberCount) WHERE { ?node skos:member ?m } GROUP BY ?node }\n"
	case valueobjects.ZoomCorpus:
		return "    OPTIONAL { SELECT ?node (COUNT(?e) AS ?elementCount) WHERE { ?node ragno:hasTextElement ?e } GROUP BY ?node }\n"
	default:
		return ""
	}
}

// panClauses renders pan.{domains,keywords,entities,temporal} as AND'd
// filter blocks, OR'd within each dimension (§4.F).
func (b *Builder) panClauses(pan valueobjects.Pan) string {
	var sb strings.Builder

	if len(pan.Domains) > 0 {
		sb.WriteString("    FILTER(")
		sb.WriteString(orFilters(pan.Domains, func(v string) string {
			return fmt.Sprintf(`CONTAINS(LCASE(?content), "%s")`, EscapeLiteral(strings.ToLower(v)))
		}))
		sb.WriteString(")\n")
	}
	if len(pan.Keywords) > 0 {
		sb.WriteString("    FILTER(")
		sb.WriteString(orFilters(pan.Keywords, func(v string) string {
			lv := strings.ToLower(EscapeLiteral(v))
			return fmt.Sprintf(`CONTAINS(LCASE(?content), "%s") || CONTAINS(LCASE(?label), "%s")`, lv, lv)
		}))
		sb.WriteString(")\n")
	}
	if len(pan.Entities) > 0 {
		sb.WriteString("    ?node ragno:connectsTo ?panEntity .\n")
		sb.WriteString("    FILTER(?panEntity IN (")
		uris := make([]string, len(pan.Entities))
		for i, e := range pan.Entities {
			uris[i] = fmt.Sprintf("<%s>", e)
		}
		sb.WriteString(strings.Join(uris, ", "))
		sb.WriteString("))\n")
	}
	if pan.Temporal != nil {
		if !pan.Temporal.Start.IsZero() {
			fmt.Fprintf(&sb, `    FILTER(?created >= "%s"^^xsd:dateTime)`+"\n", pan.Temporal.Start.Format("2006-01-02T15:04:05Z"))
		}
		if !pan.Temporal.End.IsZero() {
			fmt.Fprintf(&sb, `    FILTER(?created <= "%s"^^xsd:dateTime)`+"\n", pan.Temporal.End.Format("2006-01-02T15:04:05Z"))
		}
	}

	return sb.String()
}

func orFilters(values []string, clause func(string) string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = clause(v)
	}
	return strings.Join(parts, " || ")
}

// tiltClauses adds the tilt's extra join/projection (§4.F).
func (b *Builder) tiltClauses(tilt valueobjects.Tilt) string {
	switch tilt {
	case valueobjects.TiltEmbedding:
		return "    OPTIONAL { ?node ragno:hasEmbedding ?vectorContent . ?vectorContent semem:model ?model ; semem:dimension ?dimension }\n"
	case valueobjects.TiltKeywords:
		return "    BIND(STRLEN(?content) AS ?contentLength)\n"
	default:
		return ""
	}
}

// tiltOrdering renders the ORDER BY clause per tilt (§4.F).
func (b *Builder) tiltOrdering(tilt valueobjects.Tilt) string {
	switch tilt {
	case valueobjects.TiltKeywords:
		return "ORDER BY DESC(?contentLength) DESC(?frequency)\n"
	case valueobjects.TiltGraph:
		return "ORDER BY DESC(?frequency) DESC(?entryPoint)\n"
	case valueobjects.TiltTemporal:
		return "ORDER BY DESC(?created)\n"
	default:
		return ""
	}
}
