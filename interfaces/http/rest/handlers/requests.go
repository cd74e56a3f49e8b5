package handlers

// Named, validator-tagged request DTOs for the five inbound operations,
// grounded on the teacher's node_handler.go request structs (validate tags
// mirroring its required/omitempty/oneof/dive vocabulary) rather than the
// anonymous inline structs this handler previously decoded into directly.

// TellRequest is the wire shape of POST /api/v1/tell.
type TellRequest struct {
	Content  string            `json:"content" validate:"required"`
	Type     string            `json:"type" validate:"required,oneof=document interaction concept fact"`
	Metadata map[string]string `json:"metadata,omitempty" validate:"omitempty,max=50"`
}

// AskZPTRequest is the optional ZPT-context fragment of an AskRequest.
type AskZPTRequest struct {
	Zoom string `json:"zoom" validate:"omitempty,oneof=micro entity unit text community corpus"`
	Tilt string `json:"tilt" validate:"omitempty,oneof=embedding keywords graph temporal"`
}

// AskRequest is the wire shape of POST /api/v1/ask.
type AskRequest struct {
	Question string         `json:"question" validate:"required"`
	ZPT      *AskZPTRequest `json:"zpt,omitempty" validate:"omitempty"`
}

// AugmentRequest is the wire shape of POST /api/v1/augment.
type AugmentRequest struct {
	Target    string            `json:"target" validate:"required"`
	Operation string            `json:"operation" validate:"required,oneof=concepts concept_embeddings"`
	Options   map[string]string `json:"options,omitempty" validate:"omitempty,max=20"`
}

// NavigatePanRequest is the wire shape of a NavigateRequest's pan filter.
type NavigatePanRequest struct {
	Domains  []string `json:"domains,omitempty" validate:"omitempty,max=20,dive,max=200"`
	Keywords []string `json:"keywords,omitempty" validate:"omitempty,max=20,dive,max=200"`
	Entities []string `json:"entities,omitempty" validate:"omitempty,max=20,dive,max=200"`
}

// NavigateRequest is the wire shape of POST /api/v1/navigate.
type NavigateRequest struct {
	SessionID string             `json:"sessionId,omitempty" validate:"omitempty,max=100"`
	Zoom      string             `json:"zoom" validate:"required,oneof=micro entity unit text community corpus"`
	Tilt      string             `json:"tilt" validate:"required,oneof=embedding keywords graph temporal"`
	Query     string             `json:"query,omitempty" validate:"omitempty,max=2000"`
	Pan       NavigatePanRequest `json:"pan"`
}

// IterateRequest is the wire shape of POST /api/v1/iterate.
type IterateRequest struct {
	OperationID     string   `json:"operationId,omitempty" validate:"omitempty,max=100"`
	Question        string   `json:"question" validate:"required"`
	InitialResponse string   `json:"initialResponse,omitempty" validate:"omitempty,max=10000"`
	Context         []string `json:"context,omitempty" validate:"omitempty,max=50,dive,max=2000"`
}
