package sessionStore

import (
	"context"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

type memoryEntry struct {
	mu      sync.Mutex
	payload []byte
	deleted bool
}

// memorySessionStore keeps sessions encoded so callers never share slices
// with the stored copy.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore keeps sessions in process. A zero ttl disables expiry.
func NewMemorySessionStore(ttl time.Duration) contracts.SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *memorySessionStore) Create(ctx context.Context, state *models.SessionState) error {
	stampSession(state, s.now(), s.ttl)
	payload, err := json.Marshal(state)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.SessionID] = &memoryEntry{payload: payload}
	return nil
}

func (s *memorySessionStore) Find(ctx context.Context, sessionID string) (*models.SessionState, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.decode(sessionID, entry)
}

func (s *memorySessionStore) Update(ctx context.Context, sessionID string, fn func(state *models.SessionState) error) (*models.SessionState, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	state, err := s.decode(sessionID, entry)
	if err != nil {
		return nil, err
	}

	err = fn(state)
	if err != nil {
		return nil, err
	}

	stampSession(state, s.now(), s.ttl)
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	entry.payload = payload
	return state, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if ok {
		entry.mu.Lock()
		entry.deleted = true
		entry.mu.Unlock()
	}
	return nil
}

func (s *memorySessionStore) entry(sessionID string) (*memoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, exceptions.ErrSessionNotFound(nil, sessionID)
	}
	return entry, nil
}

// decode expects entry.mu to be held.
func (s *memorySessionStore) decode(sessionID string, entry *memoryEntry) (*models.SessionState, error) {
	if entry.deleted {
		return nil, exceptions.ErrSessionNotFound(nil, sessionID)
	}

	state := new(models.SessionState)
	err := json.Unmarshal(entry.payload, state)
	if err != nil {
		return nil, exceptions.ErrServerProcess(err)
	}

	if isExpired(state, s.now()) {
		entry.deleted = true
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, exceptions.ErrSessionNotFound(nil, sessionID)
	}
	return state, nil
}
