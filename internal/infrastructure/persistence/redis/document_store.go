package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"taskboard/internal/domain/repository"
	"taskboard/internal/infrastructure/persistence/mapper"
)

const maxPatchRetries = 5

// DocumentStore implements repository.DocumentStore on Redis.
//
// Each task is a JSON string at <prefix>:task:<owner>:<id>. The owner's
// index is a sorted set <prefix>:tasks:<owner> scored by createdAt.
type DocumentStore struct {
	rdb    redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// NewDocumentStore creates a store over an existing client
func NewDocumentStore(rdb redis.UniversalClient, prefix string, logger *slog.Logger) *DocumentStore {
	if prefix == "" {
		prefix = "taskboard"
	}
	return &DocumentStore{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.With("component", "redis-store"),
	}
}

func (s *DocumentStore) indexKey(ownerID string) string {
	return fmt.Sprintf("%s:tasks:%s", s.prefix, ownerID)
}

func (s *DocumentStore) taskKey(ownerID, docID string) string {
	return fmt.Sprintf("%s:task:%s:%s", s.prefix, ownerID, docID)
}

// Query returns the owner's documents, newest created first
func (s *DocumentStore) Query(ctx context.Context, ownerID string) ([]repository.TaskDocument, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.indexKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read task index: %w", err)
	}
	if len(ids) == 0 {
		return []repository.TaskDocument{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.taskKey(ownerID, id)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	docs := make([]repository.TaskDocument, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a body
			s.logger.Warn("dangling task index entry", "owner", ownerID, "id", ids[i])
			continue
		}
		var doc repository.TaskDocument
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			s.logger.Warn("skipping unreadable task", "owner", ownerID, "id", ids[i], "error", err)
			continue
		}
		doc.ID = ids[i]
		doc.OwnerID = ownerID
		docs = append(docs, doc)
	}
	return docs, nil
}

// Insert stores doc under a new uuid and indexes it
func (s *DocumentStore) Insert(ctx context.Context, ownerID string, doc repository.TaskDocument) (string, error) {
	doc.ID = uuid.NewString()
	doc.OwnerID = ownerID

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode task: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.taskKey(ownerID, doc.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(ownerID), redis.Z{Score: float64(doc.CreatedAt), Member: doc.ID})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert task: %w", err)
	}
	return doc.ID, nil
}

// Patch merges fields into the stored document under optimistic locking
func (s *DocumentStore) Patch(ctx context.Context, ownerID, docID string, fields repository.FieldSet) error {
	key := s.taskKey(ownerID, docID)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return repository.ErrDocumentNotFound
		}
		if err != nil {
			return err
		}

		var doc repository.TaskDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to decode task: %w", err)
		}
		if err := mapper.ApplyFieldSet(&doc, fields); err != nil {
			return err
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode task: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxPatchRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, repository.ErrDocumentNotFound) {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return err
	}
	return fmt.Errorf("failed to update task: %w", redis.TxFailedErr)
}

// Remove deletes a document and its index entry
func (s *DocumentStore) Remove(ctx context.Context, ownerID, docID string) error {
	var del *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.taskKey(ownerID, docID))
		pipe.ZRem(ctx, s.indexKey(ownerID), docID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if del.Val() == 0 {
		return repository.ErrDocumentNotFound
	}
	return nil
}

var _ repository.DocumentStore = (*DocumentStore)(nil)
