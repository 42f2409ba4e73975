package memory

import (
	"context"
	"sync"

	"ai-hub-be/internal/repository/contract"
)

// StateRepository keeps the durable key in process memory. Default backend
// for development and tests.
type StateRepository struct {
	mu  sync.RWMutex
	raw []byte
}

func NewStateRepository() *StateRepository {
	return &StateRepository{}
}

func (r *StateRepository) Load(ctx context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.raw == nil {
		return nil, contract.ErrStateNotFound
	}
	cp := make([]byte, len(r.raw))
	copy(cp, r.raw)
	return cp, nil
}

func (r *StateRepository) Save(ctx context.Context, raw []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]byte, len(raw))
	copy(cp, raw)
	r.raw = cp
	return nil
}
