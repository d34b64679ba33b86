package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain/repository"
)

// ErrDaemonUnavailable is returned when the socket cannot be reached
var ErrDaemonUnavailable = errors.New("daemon unavailable")

const defaultDialTimeout = 2 * time.Second

// Client talks to a running daemon. It implements repository.DocumentStore
// so the rest of the application can use the daemon as a backend.
type Client struct {
	socketPath string
	logger     *slog.Logger
}

// NewClient creates a new daemon client
func NewClient(socketPath string, logger *slog.Logger) *Client {
	return &Client{
		socketPath: socketPath,
		logger:     logger.With("component", "daemon-client"),
	}
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: defaultDialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	return conn, nil
}

// sendRequest sends one request and reads its response
func (c *Client) sendRequest(ctx context.Context, reqType string, payload interface{}) (*Response, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// unblock the read when ctx is cancelled without a deadline
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	req := &Request{ID: uuid.NewString(), Type: reqType, Payload: payload}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !resp.Success {
		if resp.Code == CodeNotFound {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Ping checks if the daemon is running and responding
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.sendRequest(ctx, RequestPing, nil)
	return err
}

// Query implements repository.DocumentStore
func (c *Client) Query(ctx context.Context, ownerID string) ([]repository.TaskDocument, error) {
	resp, err := c.sendRequest(ctx, RequestQuery, OwnerPayload{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	docs := []repository.TaskDocument{}
	if resp.Data == nil {
		return docs, nil
	}
	if err := decodeInto(resp.Data, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Insert implements repository.DocumentStore
func (c *Client) Insert(ctx context.Context, ownerID string, doc repository.TaskDocument) (string, error) {
	resp, err := c.sendRequest(ctx, RequestInsert, InsertPayload{OwnerID: ownerID, Document: doc})
	if err != nil {
		return "", err
	}

	var result InsertResult
	if err := decodeInto(resp.Data, &result); err != nil {
		return "", err
	}
	return result.ID, nil
}

// Patch implements repository.DocumentStore
func (c *Client) Patch(ctx context.Context, ownerID, docID string, fields repository.FieldSet) error {
	_, err := c.sendRequest(ctx, RequestPatch, PatchPayload{
		OwnerID: ownerID,
		DocID:   docID,
		Fields:  fields,
	})
	return err
}

// Remove implements repository.DocumentStore
func (c *Client) Remove(ctx context.Context, ownerID, docID string) error {
	_, err := c.sendRequest(ctx, RequestRemove, RemovePayload{OwnerID: ownerID, DocID: docID})
	return err
}

var _ repository.DocumentStore = (*Client)(nil)
