// Package session holds the client's authentication state: the bearer token
// and the profile of the signed-in user.
//
// The pair is mirrored to a metadata.Repository so a session survives
// restarts. Token and user are always written and removed together, and the
// in-memory state is only ever Anonymous (neither) or Authenticated (both).
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/identity-client/internal/claims"
	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/dmitrijs2005/identity-client/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/identity-client/internal/logging"
)

// Storage keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var ErrNoSession = errors.New("no active session")

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

type Store struct {
	repo metadata.Repository
	log  logging.Logger

	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{repo: repo, log: log.With("component", "session")}
}

// Restore loads a previously persisted session. A half-written or corrupt
// pair is discarded and the store stays anonymous.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("restore session error: %w", err)
	}
	rawUser, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("restore session error: %w", err)
	}

	if len(token) == 0 && len(rawUser) == 0 {
		return nil
	}

	var user models.User
	if len(token) == 0 || len(rawUser) == 0 || json.Unmarshal(rawUser, &user) != nil {
		s.log.Warn(ctx, "discarding incomplete stored session")
		if err := s.repo.DeleteMany(ctx, KeyToken, KeyUser); err != nil {
			return fmt.Errorf("restore session error: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	s.token = string(token)
	s.user = &user
	s.mu.Unlock()

	s.log.Debug(ctx, "session restored", "username", user.Username)
	return nil
}

// Set persists token and user in one write, then publishes them.
func (s *Store) Set(ctx context.Context, token string, user models.User) error {
	if token == "" {
		return errors.New("set session error: empty token")
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("set session error: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetMany(ctx, map[string][]byte{
		KeyToken: []byte(token),
		KeyUser:  rawUser,
	}); err != nil {
		return fmt.Errorf("set session error: %w", err)
	}

	s.token = token
	s.user = &user
	return nil
}

// ReplaceToken swaps the token of the current session and keeps the user.
func (s *Store) ReplaceToken(ctx context.Context, token string) error {
	user, ok := s.User()
	if !ok {
		return ErrNoSession
	}
	return s.Set(ctx, token, user)
}

// Clear removes the session. Memory is cleared even when the persisted copy
// could not be deleted; that error is returned.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	if err := s.repo.DeleteMany(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("clear session error: %w", err)
	}
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Store) State() State {
	if s.IsAuthenticated() {
		return Authenticated
	}
	return Anonymous
}

// Claims inspects the current token.
func (s *Store) Claims() claims.Claims {
	return claims.Inspect(s.Token())
}
