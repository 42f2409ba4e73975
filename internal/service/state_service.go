package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-hub-be/internal/constant"
	"ai-hub-be/internal/entity"
	"ai-hub-be/internal/pkg/apperror"
	"ai-hub-be/internal/pkg/logger"
	"ai-hub-be/internal/repository/contract"
	"ai-hub-be/internal/store"

	"github.com/google/uuid"
)

// StateService keeps the in-memory snapshot and the durable key in sync.
// Load runs once at startup; Persist runs after every committed mutation.
type StateService interface {
	Load(ctx context.Context)
	Persist(ctx context.Context) error
	Snapshot() (*entity.Snapshot, error)
}

type stateService struct {
	store *store.SessionStore
	repo  contract.StateRepository
	log   logger.ILogger
}

var _ StateService = &stateService{}

func NewStateService(st *store.SessionStore, repo contract.StateRepository, log logger.ILogger) StateService {
	return &stateService{store: st, repo: repo, log: log}
}

// Load reads the durable key and bootstraps the store. It never fails the
// caller: a missing key, unreachable backend, unreadable payload or
// wrong-shaped snapshot all fall back to the seeded default state. Nothing
// is written during load; the defaults reach the durable key with the first
// persisted mutation.
func (s *stateService) Load(ctx context.Context) {
	raw, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, contract.ErrStateNotFound) {
			s.log.Info("state", "no stored state found, seeding defaults", nil)
		} else {
			s.log.Warn("state", "stored state unreadable, seeding defaults", map[string]interface{}{
				"error": err.Error(),
			})
		}
		s.store.Bootstrap(constant.DefaultSnapshot())
		return
	}

	snap, err := decodeSnapshot(raw)
	if err != nil {
		s.log.Warn("state", "stored state rejected, seeding defaults", map[string]interface{}{
			"error": err.Error(),
		})
		s.store.Bootstrap(constant.DefaultSnapshot())
		return
	}

	s.store.Bootstrap(snap)
	s.log.Info("state", "stored state restored", map[string]interface{}{
		"containers": len(snap.Containers),
	})
}

// Persist serializes the snapshot under the store lock and writes it to the
// durable key. Failures are logged and returned but never interrupt the
// mutation that triggered the save; callers decide whether to surface them.
func (s *stateService) Persist(ctx context.Context) error {
	raw, err := s.store.MarshalSnapshot()
	if err != nil {
		return apperror.Wrap(apperror.KindPersistence, "serialize snapshot", err)
	}
	if err := s.repo.Save(ctx, raw); err != nil {
		s.log.Error("state", "failed to write snapshot", map[string]interface{}{
			"error": err.Error(),
		})
		return apperror.Wrap(apperror.KindPersistence, "write snapshot", err)
	}
	return nil
}

func (s *stateService) Snapshot() (*entity.Snapshot, error) {
	return s.store.CloneSnapshot()
}

// decodeSnapshot unmarshals and shape-checks a stored payload. The check is
// structural only: the top-level collections must be present and every
// container must carry an id. Anything less and the whole payload is
// rejected rather than partially merged.
func decodeSnapshot(raw []byte) (*entity.Snapshot, error) {
	var probe struct {
		Containers      json.RawMessage `json:"containers"`
		Branding        json.RawMessage `json:"branding"`
		AvailableModels json.RawMessage `json:"availableModels"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("unmarshal stored state: %w", err)
	}
	if probe.Containers == nil || probe.Branding == nil || probe.AvailableModels == nil {
		return nil, errors.New("stored state is missing top-level collections")
	}

	var snap entity.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal stored state: %w", err)
	}
	for i, c := range snap.Containers {
		if c == nil {
			return nil, fmt.Errorf("container at index %d is null", i)
		}
		if c.Id == uuid.Nil {
			return nil, fmt.Errorf("container at index %d has no id", i)
		}
		if c.ActiveChatId != nil && c.Chat(*c.ActiveChatId) == nil {
			// Repair rather than reject: the reference is advisory.
			c.ActiveChatId = nil
		}
	}
	return &snap, nil
}
