package handlers

// This file carries OpenAPI/Swagger documentation for the five Operations
// endpoints; it declares nothing and compiles into every build (unlike
// cmd/server/doc.go, swag itself only needs the annotation comments, not a
// build tag, matching the teacher's node_handler_docs.go).

// Tell stores new content in the memory store.
// @Summary Tell the memory store about new content
// @Description Embeds, extracts concepts from, and persists a document, interaction, concept, or fact
// @Tags operations
// @Accept json
// @Produce json
// @Param request body TellRequest true "Tell request"
// @Success 200 {object} commands.TellResult
// @Failure 400 {object} map[string]string "invalid request"
// @Failure 422 {object} commands.TellResult "validation or storage failure"
// @Router /tell [post]

// Ask answers a question from the memory store's retained context.
// @Summary Ask a question against retained memory
// @Description Retrieves the most relevant prior interactions and synthesizes an answer
// @Tags operations
// @Accept json
// @Produce json
// @Param request body AskRequest true "Ask request"
// @Success 200 {object} queries.AskResult
// @Failure 400 {object} map[string]string "invalid request"
// @Failure 422 {object} queries.AskResult "synthesis failure"
// @Router /ask [post]

// Augment extracts concepts or concept embeddings from existing content.
// @Summary Augment stored content with derived concepts or embeddings
// @Tags operations
// @Accept json
// @Produce json
// @Param request body AugmentRequest true "Augment request"
// @Success 200 {object} commands.AugmentResult
// @Failure 400 {object} map[string]string "invalid request"
// @Failure 422 {object} commands.AugmentResult "augmentation failure"
// @Router /augment [post]

// Navigate runs a zoom/pan/tilt query against the knowledge graph.
// @Summary Navigate the knowledge graph with zoom/pan/tilt parameters
// @Tags operations
// @Accept json
// @Produce json
// @Param request body NavigateRequest true "Navigate request"
// @Success 200 {object} queries.NavigateResult
// @Failure 400 {object} map[string]string "invalid request"
// @Failure 422 {object} queries.NavigateResult "navigation failure"
// @Router /navigate [post]

// Iterate drives the analyze/research/synthesize loop to completion.
// @Summary Iterate towards a more complete answer
// @Tags operations
// @Accept json
// @Produce json
// @Param request body IterateRequest true "Iterate request"
// @Success 200 {object} commands.IterateResult
// @Failure 400 {object} map[string]string "invalid request"
// @Router /iterate [post]

// Stats returns a diagnostic snapshot of the memory store's working set.
// @Summary Get memory store diagnostics
// @Tags operations
// @Produce json
// @Success 200 {object} ports.MemoryDataSnapshot
// @Router /stats [get]
