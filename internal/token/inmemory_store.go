package token

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore keeps tokens in process memory. One mutex guards the whole
// table, which gives get-or-create the same per-user atomicity the Postgres
// store gets from its transaction. Intended for development and tests.
type InMemoryStore struct {
	mu     sync.Mutex
	tokens map[string]AuthToken // keyed by token id
}

// NewInMemory builds an empty in-memory token store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{tokens: make(map[string]AuthToken)}
}

func (s *InMemoryStore) GetOrCreate(_ context.Context, userID string) (AuthToken, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tokens {
		if t.UserID == userID && t.Active() {
			return t, OutcomeFetched, nil
		}
	}

	t := AuthToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	s.tokens[t.ID] = t
	return t, OutcomeCreated, nil
}

func (s *InMemoryStore) Invalidate(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[tokenID]
	if !ok || !t.Active() {
		return ErrInvalidToken
	}
	now := time.Now().UTC()
	t.InvalidatedAt = &now
	s.tokens[tokenID] = t
	return nil
}

func (s *InMemoryStore) IsActive(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[tokenID]
	return ok && t.Active(), nil
}

func (s *InMemoryStore) Find(_ context.Context, tokenID string) (AuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[tokenID]
	if !ok {
		return AuthToken{}, ErrInvalidToken
	}
	return t, nil
}

// ActiveCount reports how many active tokens the user currently holds.
// Test helper for asserting the one-active-token invariant.
func (s *InMemoryStore) ActiveCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tokens {
		if t.UserID == userID && t.Active() {
			n++
		}
	}
	return n
}

// Ensure InMemoryStore implements Store.
var _ Store = (*InMemoryStore)(nil)
