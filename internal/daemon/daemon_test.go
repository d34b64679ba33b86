package daemon

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskboard/internal/domain/repository"
	"taskboard/internal/infrastructure/persistence/memory"
)

func startServer(t *testing.T, store repository.DocumentStore) (*Server, *Client) {
	t.Helper()

	// unix socket paths are length limited, keep them short
	dir, err := os.MkdirTemp("", "tbd")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	logger := slog.New(slog.DiscardHandler)
	server := NewServer(store, filepath.Join(dir, "d.sock"), logger)
	if err := server.Listen(); err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- server.Serve() }()
	t.Cleanup(func() {
		server.Stop()
		if err := <-done; err != nil {
			t.Errorf("serve returned error: %v", err)
		}
	})

	return server, NewClient(server.SocketPath(), logger)
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, client := startServer(t, memory.NewDocumentStore())

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	end := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	id, err := client.Insert(ctx, "alice", repository.TaskDocument{
		Title:     "Ship",
		Status:    "todo",
		Priority:  "high",
		EndDate:   &end,
		CreatedAt: 100,
		UpdatedAt: 100,
	})
	if err != nil || id == "" {
		t.Fatalf("insert failed: %q, %v", id, err)
	}

	err = client.Patch(ctx, "alice", id, repository.FieldSet{
		repository.FieldStatus:    "done",
		repository.FieldEndDate:   (*time.Time)(nil),
		repository.FieldUpdatedAt: int64(200),
	})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}

	docs, err := client.Query(ctx, "alice")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(docs))
	}
	got := docs[0]
	if got.ID != id || got.Status != "done" || got.EndDate != nil || got.UpdatedAt != 200 {
		t.Errorf("unexpected document %+v", got)
	}

	if err := client.Remove(ctx, "alice", id); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	docs, _ = client.Query(ctx, "alice")
	if len(docs) != 0 {
		t.Errorf("expected empty collection, got %d", len(docs))
	}
}

func TestClientMapsNotFound(t *testing.T) {
	ctx := context.Background()
	_, client := startServer(t, memory.NewDocumentStore())

	err := client.Remove(ctx, "alice", "missing")
	if !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestClientReportsBackendFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	store.FailOn(memory.OpQuery, errors.New("disk on fire"))
	_, client := startServer(t, store)

	_, err := client.Query(ctx, "alice")
	if err == nil || errors.Is(err, repository.ErrDocumentNotFound) {
		t.Fatalf("expected a daemon error, got %v", err)
	}
}

func TestUnknownRequestType(t *testing.T) {
	_, client := startServer(t, memory.NewDocumentStore())

	_, err := client.sendRequest(context.Background(), "explode", nil)
	if err == nil {
		t.Fatal("expected error for unknown request type")
	}
}

func TestClientWithoutDaemon(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "none.sock"), slog.New(slog.DiscardHandler))

	if err := client.Ping(context.Background()); !errors.Is(err, ErrDaemonUnavailable) {
		t.Fatalf("expected ErrDaemonUnavailable, got %v", err)
	}
}
