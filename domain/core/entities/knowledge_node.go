package entities

import (
	"time"

	"github.com/danja/semem-go/domain/core/valueobjects"
)

// NodeType is the ragno RDF type a KnowledgeNode is addressed by at a given
// zoom level.
type NodeType string

const (
	NodeTypeAttribute   NodeType = "Attribute"
	NodeTypeEntity      NodeType = "Entity"
	NodeTypeUnit        NodeType = "Unit"
	NodeTypeTextElement NodeType = "TextElement"
	NodeTypeCommunity   NodeType = "Community"
	NodeTypeCorpus      NodeType = "Corpus"
)

// ZoomNodeType maps a navigation zoom level to the ragno type its base
// query selects, the one-to-one table in §4.F.
var ZoomNodeType = map[valueobjects.Zoom]NodeType{
	valueobjects.ZoomMicro:     NodeTypeAttribute,
	valueobjects.ZoomEntity:    NodeTypeEntity,
	valueobjects.ZoomUnit:      NodeTypeUnit,
	valueobjects.ZoomText:      NodeTypeTextElement,
	valueobjects.ZoomCommunity: NodeTypeCommunity,
	valueobjects.ZoomCorpus:    NodeTypeCorpus,
}

// Link is a typed edge out of a KnowledgeNode: hasEmbedding, hasAttribute,
// hasTextElement, connectsTo, or skos:member.
type Link struct {
	Predicate string
	TargetURI string
}

// KnowledgeNode is a ZPT-addressable RDF entity, the unit returned from a
// navigate call as a corpuscle once projected by a tilt.
type KnowledgeNode struct {
	URI           string
	Type          NodeType
	Label         string
	Content       string
	CreatedAt     time.Time
	EmbeddingURI  string // reference into a vector store, or "" if inline
	Links         []Link
	EntryPoint    bool // entity-zoom flag: surfaces preferentially
	Frequency     int
	MemberCount   int // community-zoom only
	ElementCount  int // corpus-zoom only
	SourceURI     string
}
