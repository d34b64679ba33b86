package mongo

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard/internal/domain/repository"
	"taskboard/internal/infrastructure/config"
)

func TestFromRecordUsesObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	end := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)

	doc := fromRecord(taskRecord{
		ObjectID:     oid,
		TaskDocument: repository.TaskDocument{Title: "t", EndDate: &end},
	})

	if doc.ID != oid.Hex() {
		t.Errorf("id = %s, want %s", doc.ID, oid.Hex())
	}
	if doc.EndDate.Location() != time.UTC {
		t.Errorf("dates should come back in UTC, got %v", doc.EndDate.Location())
	}
}

// Runs against a real server when TASKBOARD_TEST_MONGO_URI is set
func TestRoundTripAgainstServer(t *testing.T) {
	uri := os.Getenv("TASKBOARD_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TASKBOARD_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	store, err := Connect(ctx, config.MongoConfig{
		URI:        uri,
		Database:   "taskboard_test",
		Collection: "tasks_" + primitive.NewObjectID().Hex(),
	}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer func() {
		_ = store.collection.Drop(ctx)
		_ = store.Close(ctx)
	}()

	id, err := store.Insert(ctx, "alice", repository.TaskDocument{Title: "a", Status: "todo", CreatedAt: 1})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, "alice", repository.TaskDocument{Title: "b", CreatedAt: 2}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := store.Patch(ctx, "alice", id, repository.FieldSet{repository.FieldStatus: "done"}); err != nil {
		t.Fatalf("patch failed: %v", err)
	}

	docs, err := store.Query(ctx, "alice")
	if err != nil || len(docs) != 2 || docs[0].Title != "b" || docs[1].Status != "done" {
		t.Fatalf("unexpected query result %+v, %v", docs, err)
	}

	if err := store.Remove(ctx, "bob", id); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Errorf("another owner must not remove alice's task, got %v", err)
	}
}
