package valueobjects

import (
	"time"

	apperrors "github.com/danja/semem-go/pkg/errors"
)

// Zoom is the granularity of a navigation query, modeled as a closed sum
// type rather than a free-form string so the navigator's query builder can
// switch exhaustively over it.
type Zoom string

const (
	ZoomMicro     Zoom = "micro"
	ZoomEntity    Zoom = "entity"
	ZoomUnit      Zoom = "unit"
	ZoomText      Zoom = "text"
	ZoomCommunity Zoom = "community"
	ZoomCorpus    Zoom = "corpus"
)

// ParseZoom validates a raw zoom string against the supported set.
// Unsupported values are a domain error, never retried.
func ParseZoom(raw string) (Zoom, error) {
	switch Zoom(raw) {
	case ZoomMicro, ZoomEntity, ZoomUnit, ZoomText, ZoomCommunity, ZoomCorpus:
		return Zoom(raw), nil
	default:
		return "", apperrors.NewDomain("unsupported zoom level %q", raw)
	}
}

// Tilt is the analytic projection layered on top of a zoom query.
type Tilt string

const (
	TiltKeywords  Tilt = "keywords"
	TiltEmbedding Tilt = "embedding"
	TiltGraph     Tilt = "graph"
	TiltTemporal  Tilt = "temporal"
)

// ParseTilt validates a raw tilt string, defaulting to TiltKeywords when
// empty (matching §4.F's "keywords (default)").
func ParseTilt(raw string) (Tilt, error) {
	if raw == "" {
		return TiltKeywords, nil
	}
	switch Tilt(raw) {
	case TiltKeywords, TiltEmbedding, TiltGraph, TiltTemporal:
		return Tilt(raw), nil
	default:
		return "", apperrors.NewDomain("unknown tilt projection %q", raw)
	}
}

// TemporalRange bounds a pan filter's date window. Either bound may be zero.
type TemporalRange struct {
	Start time.Time
	End   time.Time
}

// Pan is the conjunctive filter set applied over a zoom's base query.
// Within a dimension, values are OR'd; across dimensions, AND'd.
type Pan struct {
	Domains  []string
	Keywords []string
	Entities []string // URIs
	Temporal *TemporalRange
}

// IsEmpty reports whether the pan contributes no filtering.
func (p Pan) IsEmpty() bool {
	return len(p.Domains) == 0 && len(p.Keywords) == 0 && len(p.Entities) == 0 && p.Temporal == nil
}

// Params bundles the three ZPT dimensions plus the query text that drove a
// navigation call, mirroring the navigation session's current-state record.
type Params struct {
	Zoom     Zoom
	Pan      Pan
	Tilt     Tilt
	Query    string
}
