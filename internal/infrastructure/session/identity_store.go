package session

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"taskboard/pkg/filesystem"
)

// ErrEmptyUserID is returned when signing in without an id
var ErrEmptyUserID = errors.New("user id cannot be empty")

// Identity is the persisted sign-in record
type Identity struct {
	UserID     string    `yaml:"user_id"`
	SignedInAt time.Time `yaml:"signed_in_at"`
}

// IdentityStore keeps the signed-in user id in a YAML file
type IdentityStore struct {
	path string
	now  func() time.Time
}

// NewIdentityStore creates a store backed by path
func NewIdentityStore(path string) *IdentityStore {
	return &IdentityStore{path: path, now: time.Now}
}

// Path returns the session file location
func (s *IdentityStore) Path() string {
	return s.path
}

// Current returns the signed-in user id, or "" when signed out
func (s *IdentityStore) Current() (string, error) {
	identity, err := s.load()
	if err != nil || identity == nil {
		return "", err
	}
	return identity.UserID, nil
}

// Info returns the full sign-in record, nil when signed out
func (s *IdentityStore) Info() (*Identity, error) {
	return s.load()
}

// Login records userID as the current identity
func (s *IdentityStore) Login(userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrEmptyUserID
	}

	data, err := yaml.Marshal(Identity{UserID: userID, SignedInAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := filesystem.SafeWrite(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Logout forgets the current identity
func (s *IdentityStore) Logout() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *IdentityStore) load() (*Identity, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var identity Identity
	if err := yaml.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if identity.UserID == "" {
		return nil, nil
	}
	return &identity, nil
}
