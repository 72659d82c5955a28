package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Store is the durable mirror of a session's cart. Load returns an empty
// slice when nothing is stored; corrupt payloads surface as errors so the
// caller can discard them wholesale.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Erase(ctx context.Context, sessionID string) error
}

// EncodeLines and DecodeLines are the single serialization point shared by
// every Store implementation.
func EncodeLines(lines []Line) ([]byte, error) {
	return json.Marshal(lines)
}

func DecodeLines(raw []byte) ([]Line, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

// MemoryStore keeps serialized carts in a map. Used in tests and as a
// fallback when no Redis is configured.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]Line, error) {
	s.mu.Lock()
	raw := s.data[sessionID]
	s.mu.Unlock()
	return DecodeLines(raw)
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, lines []Line) error {
	raw, err := EncodeLines(lines)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[sessionID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Erase(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.data, sessionID)
	s.mu.Unlock()
	return nil
}

// Seed stores a raw payload verbatim, bypassing encoding. Tests use it to
// plant corrupt data.
func (s *MemoryStore) Seed(sessionID string, raw []byte) {
	s.mu.Lock()
	s.data[sessionID] = raw
	s.mu.Unlock()
}
