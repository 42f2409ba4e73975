package store

import (
	"testing"

	"ai-hub-be/internal/constant"
	"ai-hub-be/internal/entity"
	"ai-hub-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWithContainer(t *testing.T) (*SessionStore, uuid.UUID) {
	t.Helper()
	s := NewSessionStore()
	snap := constant.DefaultSnapshot()
	s.Bootstrap(snap)
	return s, snap.Containers[0].Id
}

func textTurn(role, text string) entity.Turn {
	return entity.Turn{Role: role, Parts: []entity.Part{{Text: text}}}
}

func TestEnsureActiveChatCreatesLazily(t *testing.T) {
	s, containerId := newStoreWithContainer(t)

	chatId, err := s.EnsureActiveChat(containerId)
	require.NoError(t, err)

	name, err := s.ChatName(containerId, chatId)
	require.NoError(t, err)
	assert.Equal(t, constant.PlaceholderChatName, name)

	// A second call reuses the active chat.
	again, err := s.EnsureActiveChat(containerId)
	require.NoError(t, err)
	assert.Equal(t, chatId, again)
}

func TestNewChatDoesNotCreateEntries(t *testing.T) {
	s, containerId := newStoreWithContainer(t)

	require.NoError(t, s.NewChat(containerId))
	active, err := s.ActiveChatId(containerId)
	require.NoError(t, err)
	assert.Nil(t, active)

	snap, err := s.CloneSnapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Container(containerId).Chats)
}

func TestAppendTurnRejectsEmptyParts(t *testing.T) {
	s, containerId := newStoreWithContainer(t)
	chatId, _ := s.EnsureActiveChat(containerId)

	_, err := s.AppendTurn(containerId, chatId, entity.Turn{Role: constant.ChatRoleUser})
	assert.True(t, apperror.IsValidation(err))
}

func TestAppendTurnReturnsHistoryLength(t *testing.T) {
	s, containerId := newStoreWithContainer(t)
	chatId, _ := s.EnsureActiveChat(containerId)

	n, err := s.AppendTurn(containerId, chatId, textTurn(constant.ChatRoleUser, "hi"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.AppendTurn(containerId, chatId, textTurn(constant.ChatRoleModel, "hello"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDeleteChatClearsActiveReference(t *testing.T) {
	s, containerId := newStoreWithContainer(t)
	chatId, _ := s.EnsureActiveChat(containerId)

	require.NoError(t, s.DeleteChat(containerId, chatId))

	active, err := s.ActiveChatId(containerId)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = s.ChatHistory(containerId, chatId)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteChatKeepsOtherActive(t *testing.T) {
	s, containerId := newStoreWithContainer(t)
	first, _ := s.EnsureActiveChat(containerId)
	require.NoError(t, s.NewChat(containerId))
	second, _ := s.EnsureActiveChat(containerId)
	require.NotEqual(t, first, second)

	require.NoError(t, s.DeleteChat(containerId, first))

	active, err := s.ActiveChatId(containerId)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second, *active)
}

func TestResumeUnknownChatIsNoOp(t *testing.T) {
	s, containerId := newStoreWithContainer(t)
	chatId, _ := s.EnsureActiveChat(containerId)

	require.NoError(t, s.ResumeChat(containerId, uuid.New()))

	active, err := s.ActiveChatId(containerId)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, chatId, *active)
}

func TestDispatchGuard(t *testing.T) {
	s, containerId := newStoreWithContainer(t)

	assert.True(t, s.BeginDispatch(containerId))
	assert.False(t, s.BeginDispatch(containerId))

	// Other containers are unaffected.
	other := uuid.New()
	assert.True(t, s.BeginDispatch(other))

	s.EndDispatch(containerId)
	assert.True(t, s.BeginDispatch(containerId))
}

func TestPendingDeletionSlot(t *testing.T) {
	s, containerId := newStoreWithContainer(t)

	assert.Nil(t, s.TakePendingDeletion())

	s.RequestDeletion(entity.PendingDeletion{Kind: entity.DeletionKindContainer, ContainerId: containerId})
	chatId := uuid.New()
	// A second request replaces the first.
	s.RequestDeletion(entity.PendingDeletion{Kind: entity.DeletionKindChat, ContainerId: containerId, ChatId: &chatId})

	desc := s.TakePendingDeletion()
	require.NotNil(t, desc)
	assert.Equal(t, entity.DeletionKindChat, desc.Kind)

	// Take clears the slot.
	assert.Nil(t, s.TakePendingDeletion())
}

func TestPendingDeletionPeek(t *testing.T) {
	s, containerId := newStoreWithContainer(t)

	assert.Nil(t, s.PendingDeletion())

	s.RequestDeletion(entity.PendingDeletion{Kind: entity.DeletionKindContainer, ContainerId: containerId})

	// Peek returns the descriptor without clearing the slot.
	require.NotNil(t, s.PendingDeletion())
	require.NotNil(t, s.PendingDeletion())

	require.NotNil(t, s.TakePendingDeletion())
	assert.Nil(t, s.PendingDeletion())
}

func TestCancelDeletionHasNoSideEffects(t *testing.T) {
	s, containerId := newStoreWithContainer(t)
	chatId, _ := s.EnsureActiveChat(containerId)

	s.RequestDeletion(entity.PendingDeletion{Kind: entity.DeletionKindChat, ContainerId: containerId, ChatId: &chatId})
	s.CancelDeletion()

	assert.Nil(t, s.TakePendingDeletion())
	_, err := s.ChatHistory(containerId, chatId)
	assert.NoError(t, err)
}

func TestAddKnowledgeFileRejectsDuplicates(t *testing.T) {
	s, containerId := newStoreWithContainer(t)

	file := entity.KnowledgeFile{Name: "doc.txt", MimeType: "text/plain"}
	require.NoError(t, s.AddKnowledgeFile(containerId, file))

	err := s.AddKnowledgeFile(containerId, file)
	assert.True(t, apperror.IsValidation(err))

	files, err := s.KnowledgeFiles(containerId)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDeleteKnowledgeFile(t *testing.T) {
	s, containerId := newStoreWithContainer(t)
	require.NoError(t, s.AddKnowledgeFile(containerId, entity.KnowledgeFile{Name: "a.txt"}))
	require.NoError(t, s.AddKnowledgeFile(containerId, entity.KnowledgeFile{Name: "b.txt"}))

	require.NoError(t, s.DeleteKnowledgeFile(containerId, "a.txt"))

	files, err := s.KnowledgeFiles(containerId)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "b.txt", files[0].Name)
}

func TestDeleteContainer(t *testing.T) {
	s, containerId := newStoreWithContainer(t)

	require.NoError(t, s.DeleteContainer(containerId))

	_, err := s.ActiveChatId(containerId)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUnknownContainerIsNotFound(t *testing.T) {
	s, _ := newStoreWithContainer(t)

	_, err := s.EnsureActiveChat(uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}
