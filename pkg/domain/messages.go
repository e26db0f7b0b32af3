package domain

// Envelope is the single message shape exchanged with the presentation layer,
// one JSON object per message.
type Envelope struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Inbound message types (presentation → core).
const (
	MsgInit              = "init"
	MsgCreateInteraction = "create-interaction"
	MsgGetComponents     = "get-components"
	MsgCleanup           = "cleanup"
	MsgCleanupStoredData = "cleanup-stored-data"
	MsgCancel            = "cancel"
)

// Outbound message types (core → presentation).
const (
	MsgSelectionChanged   = "selection-changed"
	MsgInitSuccess        = "init-success"
	MsgError              = "error"
	MsgComponentsData     = "components-data"
	MsgInteractionCreated = "interaction-created"
	MsgCleanupComplete    = "cleanup-complete"
)

// InitSuccess is the payload of an init-success message.
type InitSuccess struct {
	SelectedInstance     string                 `json:"selectedInstance"`
	Components           []Group                `json:"components"`
	ExistingInteractions map[string]Interaction `json:"existingInteractions"`
}
