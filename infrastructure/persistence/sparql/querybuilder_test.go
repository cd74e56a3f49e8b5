package sparql

import (
	"strings"
	"testing"

	"github.com/danja/semem-go/domain/core/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLiteral_EscapesSpecialCharacters(t *testing.T) {
	got := EscapeLiteral("a\\b\"c\nd\re\tf")
	assert.Equal(t, `a\\b\"c\nd\re\tf`, got)
}

func TestBuilder_Build_RejectsUnsupportedZoom(t *testing.T) {
	b := NewBuilder("http://example.org/content")
	_, err := b.Build(valueobjects.Params{Zoom: "bogus"})
	assert.Error(t, err, "expected an unsupported zoom level to error")
}

func TestBuilder_Build_IncludesPerZoomProjection(t *testing.T) {
	b := NewBuilder("http://example.org/content")
	query, err := b.Build(valueobjects.Params{Zoom: valueobjects.ZoomEntity, Tilt: valueobjects.TiltKeywords})
	require.NoError(t, err)
	assert.Contains(t, query, "?entryPoint")
	assert.Contains(t, query, "?frequency")
}

func TestBuilder_Build_AlwaysEndsWithFixedLimit(t *testing.T) {
	b := NewBuilder("http://example.org/content")
	query, err := b.Build(valueobjects.Params{Zoom: valueobjects.ZoomUnit, Tilt: valueobjects.TiltKeywords})
	require.NoError(t, err)
	assert.Contains(t, query, "LIMIT 50")
}

func TestBuilder_Build_PanFiltersAreConjoinedAcrossDimensions(t *testing.T) {
	b := NewBuilder("http://example.org/content")
	query, err := b.Build(valueobjects.Params{
		Zoom: valueobjects.ZoomUnit,
		Pan: valueobjects.Pan{
			Domains:  []string{"physics"},
			Keywords: []string{"relativity"},
		},
		Tilt: valueobjects.TiltKeywords,
	})
	require.NoError(t, err)

	filterCount := strings.Count(query, "FILTER(")
	assert.Equal(t, 2, filterCount, "expected one FILTER clause per pan dimension (conjoined), got:\n%s", query)
	assert.Contains(t, query, `CONTAINS(LCASE(?content), "physics")`)
	assert.Contains(t, query, `CONTAINS(LCASE(?content), "relativity")`)
}

func TestBuilder_Build_PanKeywordsAreOredWithinDimension(t *testing.T) {
	b := NewBuilder("http://example.org/content")
	query, err := b.Build(valueobjects.Params{
		Zoom: valueobjects.ZoomUnit,
		Pan:  valueobjects.Pan{Keywords: []string{"alpha", "beta"}},
		Tilt: valueobjects.TiltKeywords,
	})
	require.NoError(t, err)
	assert.Contains(t, query, `"alpha") || CONTAINS`, "expected keyword values within a dimension to be OR'd")
}

func TestBuilder_Build_EscapesPanLiteralsAgainstInjection(t *testing.T) {
	b := NewBuilder("http://example.org/content")
	query, err := b.Build(valueobjects.Params{
		Zoom: valueobjects.ZoomUnit,
		Pan:  valueobjects.Pan{Keywords: []string{`"; DROP ALL ;"`}},
		Tilt: valueobjects.TiltKeywords,
	})
	require.NoError(t, err)
	assert.NotContains(t, query, `"; DROP ALL ;"`, "expected pan literal to be escaped")
}

func TestBuilder_Build_TiltOrderingMatchesTilt(t *testing.T) {
	b := NewBuilder("http://example.org/content")

	temporal, err := b.Build(valueobjects.Params{Zoom: valueobjects.ZoomUnit, Tilt: valueobjects.TiltTemporal})
	require.NoError(t, err)
	assert.Contains(t, temporal, "ORDER BY DESC(?created)")

	graph, err := b.Build(valueobjects.Params{Zoom: valueobjects.ZoomUnit, Tilt: valueobjects.TiltGraph})
	require.NoError(t, err)
	assert.Contains(t, graph, "ORDER BY DESC(?frequency)")
}
