package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"taskboard/internal/domain/repository"
	"taskboard/internal/infrastructure/persistence/mapper"
)

// Operation names a DocumentStore method for failure injection
type Operation string

const (
	OpQuery  Operation = "query"
	OpInsert Operation = "insert"
	OpPatch  Operation = "patch"
	OpRemove Operation = "remove"
)

// Call records one write against the store
type Call struct {
	Op      Operation
	OwnerID string
	DocID   string
	Fields  repository.FieldSet
}

type record struct {
	doc repository.TaskDocument
	seq uint64
}

// DocumentStore is an in-process DocumentStore. It backs the "memory"
// storage backend and lets tests inject failures per operation.
type DocumentStore struct {
	mu       sync.Mutex
	owners   map[string]map[string]*record
	seq      uint64
	failures map[Operation]error
	calls    []Call
}

// NewDocumentStore creates an empty store
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		owners:   make(map[string]map[string]*record),
		failures: make(map[Operation]error),
	}
}

// FailOn makes every subsequent call of op return err until Recover
func (s *DocumentStore) FailOn(op Operation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// Recover clears an injected failure
func (s *DocumentStore) Recover(op Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, op)
}

// Calls returns the recorded write calls
func (s *DocumentStore) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Query returns the owner's documents, newest created first
func (s *DocumentStore) Query(ctx context.Context, ownerID string) ([]repository.TaskDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[OpQuery]; err != nil {
		return nil, err
	}

	records := make([]*record, 0, len(s.owners[ownerID]))
	for _, r := range s.owners[ownerID] {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].doc.CreatedAt != records[j].doc.CreatedAt {
			return records[i].doc.CreatedAt > records[j].doc.CreatedAt
		}
		return records[i].seq > records[j].seq
	})

	docs := make([]repository.TaskDocument, len(records))
	for i, r := range records {
		docs[i] = copyDocument(r.doc)
	}
	return docs, nil
}

// Insert stores doc under a fresh id
func (s *DocumentStore) Insert(ctx context.Context, ownerID string, doc repository.TaskDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Op: OpInsert, OwnerID: ownerID})
	if err := s.failures[OpInsert]; err != nil {
		return "", err
	}

	id := uuid.NewString()
	doc = copyDocument(doc)
	doc.ID = id
	doc.OwnerID = ownerID

	if s.owners[ownerID] == nil {
		s.owners[ownerID] = make(map[string]*record)
	}
	s.seq++
	s.owners[ownerID][id] = &record{doc: doc, seq: s.seq}
	return id, nil
}

// Patch writes fields onto an existing document
func (s *DocumentStore) Patch(ctx context.Context, ownerID, docID string, fields repository.FieldSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Op: OpPatch, OwnerID: ownerID, DocID: docID, Fields: copyFields(fields)})
	if err := s.failures[OpPatch]; err != nil {
		return err
	}

	r, ok := s.owners[ownerID][docID]
	if !ok {
		return repository.ErrDocumentNotFound
	}

	doc := copyDocument(r.doc)
	if err := mapper.ApplyFieldSet(&doc, fields); err != nil {
		return err
	}
	r.doc = doc
	return nil
}

// Remove deletes a document
func (s *DocumentStore) Remove(ctx context.Context, ownerID, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Op: OpRemove, OwnerID: ownerID, DocID: docID})
	if err := s.failures[OpRemove]; err != nil {
		return err
	}

	if _, ok := s.owners[ownerID][docID]; !ok {
		return repository.ErrDocumentNotFound
	}
	delete(s.owners[ownerID], docID)
	return nil
}

func copyDocument(doc repository.TaskDocument) repository.TaskDocument {
	out := doc
	if doc.StartDate != nil {
		t := *doc.StartDate
		out.StartDate = &t
	}
	if doc.EndDate != nil {
		t := *doc.EndDate
		out.EndDate = &t
	}
	return out
}

func copyFields(fields repository.FieldSet) repository.FieldSet {
	out := make(repository.FieldSet, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
