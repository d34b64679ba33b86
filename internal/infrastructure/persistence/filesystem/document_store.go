package filesystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"taskboard/internal/domain/repository"
	"taskboard/internal/infrastructure/persistence/mapper"
	"taskboard/internal/infrastructure/serialization"
	"taskboard/pkg/filesystem"
)

// DocumentStore implements repository.DocumentStore with one markdown file
// per task: YAML frontmatter for the fields, the body for the description.
type DocumentStore struct {
	pathBuilder *PathBuilder
	logger      *slog.Logger
	mu          sync.Mutex
}

// NewDocumentStore creates a filesystem document store rooted at dataPath
func NewDocumentStore(dataPath string, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{
		pathBuilder: NewPathBuilder(dataPath),
		logger:      logger.With("component", "fs-store"),
	}
}

// Paths exposes the layout, used by the watcher
func (s *DocumentStore) Paths() *PathBuilder {
	return s.pathBuilder
}

// Query loads all documents of the owner, newest created first
func (s *DocumentStore) Query(ctx context.Context, ownerID string) ([]repository.TaskDocument, error) {
	tasksDir := s.pathBuilder.TasksDir(ownerID)

	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []repository.TaskDocument{}, nil
		}
		return nil, fmt.Errorf("failed to read tasks directory: %w", err)
	}

	docs := make([]repository.TaskDocument, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		docID, ok := docIDFromFile(entry.Name())
		if !ok {
			continue
		}

		doc, err := s.load(ownerID, docID)
		if err != nil {
			// Skip documents that can't be parsed
			s.logger.Warn("skipping unreadable task", "owner", ownerID, "id", docID, "error", err)
			continue
		}
		docs = append(docs, *doc)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].CreatedAt != docs[j].CreatedAt {
			return docs[i].CreatedAt > docs[j].CreatedAt
		}
		return docs[i].ID > docs[j].ID
	})

	return docs, nil
}

// Insert writes a new document and returns its id
func (s *DocumentStore) Insert(ctx context.Context, ownerID string, doc repository.TaskDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc.ID = uuid.NewString()
	doc.OwnerID = ownerID

	if err := s.save(ownerID, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// Patch rewrites the document with the given fields applied
func (s *DocumentStore) Patch(ctx context.Context, ownerID, docID string, fields repository.FieldSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validDocID(docID) {
		return repository.ErrDocumentNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ownerID, docID)
	if err != nil {
		return err
	}

	if err := mapper.ApplyFieldSet(doc, fields); err != nil {
		return err
	}

	return s.save(ownerID, *doc)
}

// Remove deletes the document file
func (s *DocumentStore) Remove(ctx context.Context, ownerID, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validDocID(docID) {
		return repository.ErrDocumentNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathBuilder.TaskFile(ownerID, docID)); err != nil {
		if os.IsNotExist(err) {
			return repository.ErrDocumentNotFound
		}
		return fmt.Errorf("failed to remove task file: %w", err)
	}
	return nil
}

func (s *DocumentStore) load(ownerID, docID string) (*repository.TaskDocument, error) {
	data, err := os.ReadFile(s.pathBuilder.TaskFile(ownerID, docID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	var doc repository.TaskDocument
	body, err := serialization.Decode(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	doc.ID = docID
	doc.Description = body
	if doc.OwnerID == "" {
		doc.OwnerID = ownerID
	}
	return &doc, nil
}

func (s *DocumentStore) save(ownerID string, doc repository.TaskDocument) error {
	data, err := serialization.Encode(doc, doc.Description)
	if err != nil {
		return fmt.Errorf("failed to serialize task: %w", err)
	}

	if err := filesystem.SafeWrite(s.pathBuilder.TaskFile(ownerID, doc.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write task file: %w", err)
	}
	return nil
}

func validDocID(docID string) bool {
	_, err := uuid.Parse(docID)
	return err == nil
}

var _ repository.DocumentStore = (*DocumentStore)(nil)
