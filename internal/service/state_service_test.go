package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ai-hub-be/internal/constant"
	"ai-hub-be/internal/entity"
	"ai-hub-be/internal/repository/contract"
	"ai-hub-be/internal/repository/memory"
	"ai-hub-be/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStateRepository struct{}

func (failingStateRepository) Load(context.Context) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStateRepository) Save(context.Context, []byte) error {
	return errors.New("connection refused")
}

func newStateFixture() (*store.SessionStore, *memory.StateRepository, StateService) {
	st := store.NewSessionStore()
	repo := memory.NewStateRepository()
	return st, repo, NewStateService(st, repo, nopLogger{})
}

func TestLoadSeedsDefaultsWhenEmpty(t *testing.T) {
	st, repo, svc := newStateFixture()

	svc.Load(context.Background())

	snap, err := st.CloneSnapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Containers, 2)
	assert.Equal(t, constant.DefaultBranding.HubHeaderTitle, snap.Branding.HubHeaderTitle)

	// Load is read-only; the defaults reach the key with the first mutation.
	_, err = repo.Load(context.Background())
	assert.ErrorIs(t, err, contract.ErrStateNotFound)
}

func TestLoadSeedsDefaultsOnBackendFailure(t *testing.T) {
	st := store.NewSessionStore()
	svc := NewStateService(st, failingStateRepository{}, nopLogger{})

	// An unreachable backend must never prevent the hub from serving.
	svc.Load(context.Background())

	snap, err := st.CloneSnapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Containers, 2)
}

func TestLoadSeedsDefaultsOnCorruptPayload(t *testing.T) {
	st, repo, svc := newStateFixture()
	require.NoError(t, repo.Save(context.Background(), []byte("{not json")))

	svc.Load(context.Background())

	snap, err := st.CloneSnapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Containers, 2)
}

func TestLoadRejectsWrongShape(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing containers", `{"branding":{},"availableModels":[]}`},
		{"missing branding", `{"containers":[],"availableModels":[]}`},
		{"null container entry", `{"containers":[null],"branding":{},"availableModels":[]}`},
		{"container without id", `{"containers":[{"name":"x"}],"branding":{},"availableModels":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, repo, svc := newStateFixture()
			require.NoError(t, repo.Save(context.Background(), []byte(tt.payload)))

			svc.Load(context.Background())

			// Wrong shape falls back to the seeded defaults wholesale.
			snap, err := st.CloneSnapshot()
			require.NoError(t, err)
			assert.Len(t, snap.Containers, 2)
		})
	}
}

func TestLoadRestoresStoredState(t *testing.T) {
	st, repo, svc := newStateFixture()

	stored := constant.DefaultSnapshot()
	stored.Containers = stored.Containers[:1]
	stored.Containers[0].Name = "Only One"
	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), raw))

	svc.Load(context.Background())

	snap, err := st.CloneSnapshot()
	require.NoError(t, err)
	require.Len(t, snap.Containers, 1)
	assert.Equal(t, "Only One", snap.Containers[0].Name)
}

func TestLoadRepairsDanglingActiveChat(t *testing.T) {
	st, repo, svc := newStateFixture()

	stored := constant.DefaultSnapshot()
	dangling := uuid.New()
	stored.Containers[0].ActiveChatId = &dangling
	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), raw))

	svc.Load(context.Background())

	snap, err := st.CloneSnapshot()
	require.NoError(t, err)
	assert.Nil(t, snap.Container(stored.Containers[0].Id).ActiveChatId)
}

func TestPersistRoundTrip(t *testing.T) {
	st, repo, svc := newStateFixture()
	svc.Load(context.Background())

	snap, err := st.CloneSnapshot()
	require.NoError(t, err)
	containerId := snap.Containers[0].Id

	chatId, err := st.EnsureActiveChat(containerId)
	require.NoError(t, err)
	_, err = st.AppendTurn(containerId, chatId, entity.Turn{
		Role:  constant.ChatRoleUser,
		Parts: []entity.Part{{Text: "hello"}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Persist(context.Background()))

	// A fresh service over the same repo sees the committed turn.
	st2 := store.NewSessionStore()
	svc2 := NewStateService(st2, repo, nopLogger{})
	svc2.Load(context.Background())

	history, err := st2.ChatHistory(containerId, chatId)
	require.NoError(t, err)
	require.Len(t, history, 1)
	text, _ := history[0].FirstText()
	assert.Equal(t, "hello", text)
}
