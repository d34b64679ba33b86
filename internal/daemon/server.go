package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"taskboard/internal/domain/repository"
	"taskboard/internal/infrastructure/logger"
	"taskboard/internal/infrastructure/persistence/mapper"
)

// Server serves a DocumentStore over a unix socket
type Server struct {
	store      repository.DocumentStore
	socketPath string
	logger     *slog.Logger
	listener   net.Listener
	mu         sync.RWMutex

	conns   map[net.Conn]struct{}
	connsMu sync.Mutex
	wg      sync.WaitGroup
}

// NewServer creates a new daemon server
func NewServer(store repository.DocumentStore, socketPath string, logger *slog.Logger) *Server {
	return &Server{
		store:      store,
		socketPath: socketPath,
		logger:     logger.With("component", "daemon"),
		conns:      make(map[net.Conn]struct{}),
	}
}

// SocketPath returns the path the server listens on
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Listen binds the socket, replacing a stale one
func (s *Server) Listen() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	if err := os.RemoveAll(s.socketPath); err != nil {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	s.listener = listener
	s.logger.Info("daemon listening", "socket", s.socketPath)
	return nil
}

// Start listens and blocks serving connections until Stop is called
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Serve accepts connections on a bound listener
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		s.connsMu.Lock()
		s.conns[conn] = struct{}{}
		s.connsMu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				s.connsMu.Lock()
				delete(s.conns, conn)
				s.connsMu.Unlock()
			}()
			s.handleConnection(conn)
		}()
	}
}

// Stop closes the listener and open connections and waits for handlers
func (s *Server) Stop() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	_ = os.Remove(s.socketPath)
	return err
}

// handleConnection serves requests until the client hangs up
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			return
		}

		ctx := logger.ContextWithRequestID(context.Background(), req.ID)
		resp := s.handleRequest(ctx, &req)
		resp.ID = req.ID
		if err := encoder.Encode(resp); err != nil {
			s.logger.Warn("failed to encode response", "request_id", req.ID, "error", err)
			return
		}
	}
}

// handleRequest processes a request and returns a response
func (s *Server) handleRequest(ctx context.Context, req *Request) *Response {
	log := logger.WithRequestID(ctx, s.logger)
	log.Debug("request", "type", req.Type)

	switch req.Type {
	case RequestPing:
		return &Response{Success: true, Data: "pong"}
	case RequestQuery:
		return s.handleQuery(ctx, req)
	case RequestInsert:
		return s.handleInsert(ctx, req)
	case RequestPatch:
		return s.handlePatch(ctx, req)
	case RequestRemove:
		return s.handleRemove(ctx, req)
	default:
		return &Response{
			Success: false,
			Error:   fmt.Sprintf("unknown request type: %s", req.Type),
			Code:    CodeInvalid,
		}
	}
}

func (s *Server) handleQuery(ctx context.Context, req *Request) *Response {
	var payload OwnerPayload
	if err := decodeInto(req.Payload, &payload); err != nil {
		return invalid(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.store.Query(ctx, payload.OwnerID)
	if err != nil {
		return s.failure(ctx, req, err)
	}
	return &Response{Success: true, Data: docs}
}

func (s *Server) handleInsert(ctx context.Context, req *Request) *Response {
	var payload InsertPayload
	if err := decodeInto(req.Payload, &payload); err != nil {
		return invalid(err)
	}

	s.mu.Lock()
	id, err := s.store.Insert(ctx, payload.OwnerID, payload.Document)
	s.mu.Unlock()
	if err != nil {
		return s.failure(ctx, req, err)
	}

	return &Response{Success: true, Data: InsertResult{ID: id}}
}

func (s *Server) handlePatch(ctx context.Context, req *Request) *Response {
	var payload PatchPayload
	if err := decodeInto(req.Payload, &payload); err != nil {
		return invalid(err)
	}

	fields, err := mapper.DecodeFieldSet(payload.Fields)
	if err != nil {
		return invalid(err)
	}

	s.mu.Lock()
	err = s.store.Patch(ctx, payload.OwnerID, payload.DocID, fields)
	s.mu.Unlock()
	if err != nil {
		return s.failure(ctx, req, err)
	}

	return &Response{Success: true}
}

func (s *Server) handleRemove(ctx context.Context, req *Request) *Response {
	var payload RemovePayload
	if err := decodeInto(req.Payload, &payload); err != nil {
		return invalid(err)
	}

	s.mu.Lock()
	err := s.store.Remove(ctx, payload.OwnerID, payload.DocID)
	s.mu.Unlock()
	if err != nil {
		return s.failure(ctx, req, err)
	}

	return &Response{Success: true}
}

func (s *Server) failure(ctx context.Context, req *Request, err error) *Response {
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return &Response{Success: false, Error: err.Error(), Code: CodeNotFound}
	}
	logger.WithRequestID(ctx, s.logger).Error("request failed", "type", req.Type, "error", err)
	return &Response{Success: false, Error: err.Error(), Code: CodeInternal}
}

func invalid(err error) *Response {
	return &Response{Success: false, Error: err.Error(), Code: CodeInvalid}
}
