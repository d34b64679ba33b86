package daemon

import (
	"encoding/json"
	"fmt"

	"taskboard/internal/domain/repository"
)

// Request types
const (
	RequestPing   = "ping"
	RequestQuery  = "query"
	RequestInsert = "insert"
	RequestPatch  = "patch"
	RequestRemove = "remove"
)

// Error codes carried in Response.Code
const (
	CodeNotFound = "not_found"
	CodeInvalid  = "invalid_request"
	CodeInternal = "internal"
)

// Request represents a client request to the daemon
type Request struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Response represents a daemon response to the client
type Response struct {
	ID      string      `json:"id,omitempty"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// OwnerPayload addresses an owner's whole collection
type OwnerPayload struct {
	OwnerID string `json:"owner_id"`
}

// InsertPayload contains a document to insert
type InsertPayload struct {
	OwnerID  string                  `json:"owner_id"`
	Document repository.TaskDocument `json:"document"`
}

// PatchPayload contains the fields to write on one document
type PatchPayload struct {
	OwnerID string                 `json:"owner_id"`
	DocID   string                 `json:"doc_id"`
	Fields  map[string]interface{} `json:"fields"`
}

// RemovePayload addresses one document
type RemovePayload struct {
	OwnerID string `json:"owner_id"`
	DocID   string `json:"doc_id"`
}

// InsertResult is the data of a successful insert
type InsertResult struct {
	ID string `json:"id"`
}

// decodeInto re-encodes a generically decoded value into target
func decodeInto(value interface{}, target interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
