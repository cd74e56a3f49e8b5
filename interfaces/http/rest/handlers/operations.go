// Package handlers adapts the five inbound operations (tell, ask,
// augment, navigate, iterate) to plain net/http JSON endpoints, grounded
// on the teacher's interfaces/http/rest/handlers package shape: one
// handler struct per resource, holding only the command/query handlers it
// dispatches to, decoding/encoding JSON itself rather than through a
// generic mediator layer (the teacher's bus/mediator indirection is
// dropped — see DESIGN.md — since five fixed operations do not need a
// dynamic command registry).
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/danja/semem-go/application/commands"
	"github.com/danja/semem-go/application/queries"
	"github.com/danja/semem-go/application/services"
	"github.com/danja/semem-go/domain/core/valueobjects"
	"github.com/danja/semem-go/interfaces/http/rest/validation"
	"go.uber.org/zap"
)

// Operations bundles the five handlers behind a single HTTP-facing type.
type Operations struct {
	tell     *commands.TellHandler
	augment  *commands.AugmentHandler
	iterate  *commands.IterateHandler
	ask      *queries.AskHandler
	navigate *queries.NavigateHandler
	memory   *services.MemoryStore
	logger   *zap.Logger
}

// New wires the five operation handlers behind one HTTP surface. memory is
// used only by the diagnostic Stats endpoint.
func New(tell *commands.TellHandler, augment *commands.AugmentHandler, iterate *commands.IterateHandler, ask *queries.AskHandler, navigate *queries.NavigateHandler, memory *services.MemoryStore, logger *zap.Logger) *Operations {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Operations{tell: tell, augment: augment, iterate: iterate, ask: ask, navigate: navigate, memory: memory, logger: logger}
}

// Stats handles GET /api/v1/stats: a diagnostic view of the Memory
// Store's current working set, served through the memory-data cache
// (§4.D) rather than recomputed on every call.
func (o *Operations) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, o.memory.CachedSnapshot())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

// Tell handles POST /api/v1/tell.
func (o *Operations) Tell(w http.ResponseWriter, r *http.Request) {
	var req TellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		badRequest(w, err)
		return
	}

	cmd := commands.TellCommand{Content: req.Content, Type: commands.ContentType(req.Type), Metadata: req.Metadata}
	result := o.tell.Handle(r.Context(), cmd)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// Ask handles POST /api/v1/ask.
func (o *Operations) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		badRequest(w, err)
		return
	}

	q := queries.AskQuery{Question: req.Question}
	result := o.ask.Handle(r.Context(), q)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// Augment handles POST /api/v1/augment.
func (o *Operations) Augment(w http.ResponseWriter, r *http.Request) {
	var req AugmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		badRequest(w, err)
		return
	}

	cmd := commands.AugmentCommand{Target: req.Target, Operation: commands.AugmentOperation(req.Operation), Options: req.Options}
	result := o.augment.Handle(r.Context(), cmd)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// Navigate handles POST /api/v1/navigate.
func (o *Operations) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		badRequest(w, err)
		return
	}

	zoom, err := valueobjects.ParseZoom(req.Zoom)
	if err != nil {
		badRequest(w, err)
		return
	}
	tilt, err := valueobjects.ParseTilt(req.Tilt)
	if err != nil {
		badRequest(w, err)
		return
	}

	params := valueobjects.Params{
		Zoom:  zoom,
		Tilt:  tilt,
		Query: req.Query,
		Pan: valueobjects.Pan{
			Domains:  req.Pan.Domains,
			Keywords: req.Pan.Keywords,
			Entities: req.Pan.Entities,
		},
	}

	result := o.navigate.Handle(r.Context(), queries.NavigateQuery{SessionID: req.SessionID, Params: params})
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// Iterate handles POST /api/v1/iterate.
func (o *Operations) Iterate(w http.ResponseWriter, r *http.Request) {
	var req IterateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		badRequest(w, err)
		return
	}

	cmd := commands.IterateCommand{
		Input: services.IterationInput{
			Question:        req.Question,
			InitialResponse: req.InitialResponse,
			Context:         req.Context,
		},
		Options: services.DefaultIterationControllerConfig(),
	}
	result := o.iterate.Handle(r.Context(), req.OperationID, cmd)
	status := http.StatusOK
	if result.ErrorOccurred {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}
