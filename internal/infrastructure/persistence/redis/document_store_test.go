package redis

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"

	"taskboard/internal/domain/repository"
	"taskboard/internal/infrastructure/config"
)

func TestKeyLayout(t *testing.T) {
	s := NewDocumentStore(nil, "", slog.New(slog.DiscardHandler))

	if got := s.indexKey("alice"); got != "taskboard:tasks:alice" {
		t.Errorf("index key = %s", got)
	}
	if got := s.taskKey("alice", "42"); got != "taskboard:task:alice:42" {
		t.Errorf("task key = %s", got)
	}
}

// Runs against a real server when TASKBOARD_TEST_REDIS_URL is set
func TestRoundTripAgainstServer(t *testing.T) {
	url := os.Getenv("TASKBOARD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TASKBOARD_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	rdb, err := NewClient(ctx, config.RedisConfig{URL: url}, logger)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer rdb.Close()

	prefix := "taskboard-test-" + uuid.NewString()
	store := NewDocumentStore(rdb, prefix, logger)
	defer func() {
		keys, _ := rdb.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
	}()

	older, err := store.Insert(ctx, "alice", repository.TaskDocument{Title: "older", Status: "todo", CreatedAt: 1})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, "alice", repository.TaskDocument{Title: "newer", Status: "todo", CreatedAt: 2}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := store.Patch(ctx, "alice", older, repository.FieldSet{
		repository.FieldStatus:    "done",
		repository.FieldUpdatedAt: int64(3),
	}); err != nil {
		t.Fatalf("patch failed: %v", err)
	}

	docs, err := store.Query(ctx, "alice")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(docs) != 2 || docs[0].Title != "newer" || docs[1].Status != "done" || docs[1].UpdatedAt != 3 {
		t.Fatalf("unexpected docs %+v", docs)
	}

	if err := store.Patch(ctx, "alice", "missing", repository.FieldSet{repository.FieldStatus: "done"}); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	if err := store.Remove(ctx, "alice", older); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := store.Remove(ctx, "alice", older); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Errorf("second remove should report not found, got %v", err)
	}
}
