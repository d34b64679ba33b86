package repository

import (
	"context"
	"errors"
	"time"
)

var ErrDocumentNotFound = errors.New("document not found")

// Wire field names of a task document
const (
	FieldOwnerID     = "ownerId"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldCategory    = "category"
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
	FieldStartTime   = "startTime"
	FieldEndTime     = "endTime"
	FieldStatus      = "status"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

// TaskDocument is the stored representation of a task. Absent dates are
// stored as null, never omitted.
type TaskDocument struct {
	ID          string     `json:"id" yaml:"-" bson:"-"`
	OwnerID     string     `json:"ownerId" yaml:"ownerId" bson:"ownerId"`
	Title       string     `json:"title" yaml:"title" bson:"title"`
	Description string     `json:"description" yaml:"-" bson:"description"`
	Priority    string     `json:"priority" yaml:"priority" bson:"priority"`
	Category    string     `json:"category" yaml:"category" bson:"category"`
	StartDate   *time.Time `json:"startDate" yaml:"startDate" bson:"startDate"`
	EndDate     *time.Time `json:"endDate" yaml:"endDate" bson:"endDate"`
	StartTime   string     `json:"startTime" yaml:"startTime" bson:"startTime"`
	EndTime     string     `json:"endTime" yaml:"endTime" bson:"endTime"`
	Status      string     `json:"status" yaml:"status" bson:"status"`
	CreatedAt   int64      `json:"createdAt" yaml:"createdAt" bson:"createdAt"`
	UpdatedAt   int64      `json:"updatedAt" yaml:"updatedAt" bson:"updatedAt"`
}

// FieldSet is a partial document keyed by wire field name. Date fields hold
// *time.Time (nil meaning null), timestamps hold int64, the rest strings.
type FieldSet map[string]interface{}

// DocumentStore is the wire-level contract of the remote document database.
// Collections are scoped by owner.
type DocumentStore interface {
	// Query returns all documents of the owner ordered by createdAt descending
	Query(ctx context.Context, ownerID string) ([]TaskDocument, error)

	// Insert stores doc and returns the assigned document ID
	Insert(ctx context.Context, ownerID string, doc TaskDocument) (string, error)

	// Patch writes the given fields; ErrDocumentNotFound if the document is missing
	Patch(ctx context.Context, ownerID, docID string, fields FieldSet) error

	// Remove deletes a document; ErrDocumentNotFound if it is missing
	Remove(ctx context.Context, ownerID, docID string) error
}
