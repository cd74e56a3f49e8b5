package queries

import (
	"context"
	"testing"
	"time"

	"github.com/danja/semem-go/application/services"
	"github.com/danja/semem-go/domain/core/valueobjects"
	"github.com/danja/semem-go/infrastructure/persistence/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueryBuilder struct{ err error }

func (f fakeQueryBuilder) Build(params valueobjects.Params) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "SELECT ?node WHERE { ?node a <http://example.org/Thing> }", nil
}

func newTestNavigateHandler(builderErr error) *NavigateHandler {
	qc := cache.NewQueryCache(10, time.Minute)
	navigator := services.NewZPTNavigator(fakeGraph{}, qc, fakeQueryBuilder{err: builderErr}, services.NavigatorConfig{}, nil)
	return NewNavigateHandler(navigator, nil)
}

func TestNavigateHandler_Success(t *testing.T) {
	handler := newTestNavigateHandler(nil)
	result := handler.Handle(context.Background(), NavigateQuery{Params: valueobjects.Params{Zoom: valueobjects.ZoomUnit, Tilt: valueobjects.TiltKeywords}})

	require.True(t, result.Success, "expected a successful navigate, got %+v", result)
}

func TestNavigateHandler_BuilderFailureReturnsUnsuccessfulResult(t *testing.T) {
	handler := newTestNavigateHandler(errFake)
	result := handler.Handle(context.Background(), NavigateQuery{Params: valueobjects.Params{Zoom: valueobjects.ZoomUnit, Tilt: valueobjects.TiltKeywords}})

	assert.False(t, result.Success, "expected a query-builder failure to surface as an unsuccessful result")
	assert.NotEmpty(t, result.Error, "expected an error message to be populated")
}
