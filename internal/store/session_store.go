package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ai-hub-be/internal/constant"
	"ai-hub-be/internal/entity"
	"ai-hub-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

// SessionStore exclusively owns the application snapshot and all nested
// entities. Every mutation goes through its methods; no caller holds a
// competing copy. The mutex serializes mutations so request concurrency can
// never interleave appends for one container.
type SessionStore struct {
	mu       sync.Mutex
	snapshot *entity.Snapshot

	// dispatching tracks containers with a send in flight. A second send for
	// the same container while set is a no-op.
	dispatching map[uuid.UUID]bool

	// pending is the delete-confirmation slot: nil means no deletion is
	// awaiting confirmation.
	pending *entity.PendingDeletion
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		snapshot:    &entity.Snapshot{},
		dispatching: make(map[uuid.UUID]bool),
	}
}

// Bootstrap installs a freshly loaded snapshot. Called once at startup,
// before any request is served.
func (s *SessionStore) Bootstrap(snap *entity.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// MarshalSnapshot serializes the full snapshot under the store lock so the
// persistence synchronizer always writes a consistent whole.
func (s *SessionStore) MarshalSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.snapshot)
}

// CloneSnapshot returns a deep copy for read-only consumers.
func (s *SessionStore) CloneSnapshot() (*entity.Snapshot, error) {
	raw, err := s.MarshalSnapshot()
	if err != nil {
		return nil, err
	}
	var cp entity.Snapshot
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *SessionStore) container(id uuid.UUID) (*entity.Container, error) {
	c := s.snapshot.Container(id)
	if c == nil {
		return nil, apperror.New(apperror.KindNotFound, fmt.Sprintf("container %s not found", id))
	}
	return c, nil
}

// BeginDispatch marks the container as dispatching. Returns false when a
// dispatch is already in flight, in which case the caller must treat the
// send as a no-op.
func (s *SessionStore) BeginDispatch(containerId uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dispatching[containerId] {
		return false
	}
	s.dispatching[containerId] = true
	return true
}

func (s *SessionStore) EndDispatch(containerId uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dispatching, containerId)
}

// ContainerSettings returns the dispatch inputs of a container: selected
// model, persona and a copy of the knowledge base.
func (s *SessionStore) ContainerSettings(containerId uuid.UUID) (model, persona string, knowledge []entity.KnowledgeFile, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return "", "", nil, err
	}
	knowledge = append([]entity.KnowledgeFile{}, c.KnowledgeBase...)
	return c.SelectedModel, c.SelectedPersona, knowledge, nil
}

// NewChat clears the active chat. The next send creates an entry lazily, so
// empty chats are never persisted.
func (s *SessionStore) NewChat(containerId uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return err
	}
	c.ActiveChatId = nil
	return nil
}

// EnsureActiveChat returns the active chat id, creating an entry with the
// placeholder name when none is active.
func (s *SessionStore) EnsureActiveChat(containerId uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return uuid.Nil, err
	}
	if c.ActiveChatId != nil {
		if active := c.Chat(*c.ActiveChatId); active != nil {
			return active.Id, nil
		}
	}
	chat := &entity.ChatEntry{
		Id:      uuid.New(),
		Name:    constant.PlaceholderChatName,
		History: []entity.Turn{},
	}
	c.Chats = append(c.Chats, chat)
	id := chat.Id
	c.ActiveChatId = &id
	return chat.Id, nil
}

// AppendTurn appends a turn to a chat's history and returns the new history
// length. Turns with no parts are rejected.
func (s *SessionStore) AppendTurn(containerId, chatId uuid.UUID, turn entity.Turn) (int, error) {
	if len(turn.Parts) == 0 {
		return 0, apperror.New(apperror.KindValidation, "turn must have at least one part")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return 0, err
	}
	chat := c.Chat(chatId)
	if chat == nil {
		return 0, apperror.New(apperror.KindNotFound, fmt.Sprintf("chat %s not found", chatId))
	}
	chat.History = append(chat.History, turn)
	return len(chat.History), nil
}

// ChatHistory returns a copy of a chat's history.
func (s *SessionStore) ChatHistory(containerId, chatId uuid.UUID) ([]entity.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return nil, err
	}
	chat := c.Chat(chatId)
	if chat == nil {
		return nil, apperror.New(apperror.KindNotFound, fmt.Sprintf("chat %s not found", chatId))
	}
	return append([]entity.Turn{}, chat.History...), nil
}

// RenameChat overwrites a chat's name. Used exactly once per chat by the
// automatic naming step.
func (s *SessionStore) RenameChat(containerId, chatId uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return err
	}
	chat := c.Chat(chatId)
	if chat == nil {
		return apperror.New(apperror.KindNotFound, fmt.Sprintf("chat %s not found", chatId))
	}
	chat.Name = name
	return nil
}

// ChatName returns the current name of a chat.
func (s *SessionStore) ChatName(containerId, chatId uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return "", err
	}
	chat := c.Chat(chatId)
	if chat == nil {
		return "", apperror.New(apperror.KindNotFound, fmt.Sprintf("chat %s not found", chatId))
	}
	return chat.Name, nil
}

// ResumeChat activates an existing chat. Unknown ids are a no-op.
func (s *SessionStore) ResumeChat(containerId, chatId uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return err
	}
	if c.Chat(chatId) == nil {
		return nil
	}
	id := chatId
	c.ActiveChatId = &id
	return nil
}

// DeleteChat removes an entry; when it was active the reference is nulled
// out so the invariant holds.
func (s *SessionStore) DeleteChat(containerId, chatId uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return err
	}
	kept := c.Chats[:0]
	for _, ch := range c.Chats {
		if ch.Id != chatId {
			kept = append(kept, ch)
		}
	}
	c.Chats = kept
	if c.ActiveChatId != nil && *c.ActiveChatId == chatId {
		c.ActiveChatId = nil
	}
	return nil
}

// AddKnowledgeFile ingests a file into a container's knowledge base.
// Duplicate names are rejected, never overwritten.
func (s *SessionStore) AddKnowledgeFile(containerId uuid.UUID, file entity.KnowledgeFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return err
	}
	if c.HasKnowledgeFile(file.Name) {
		return apperror.New(apperror.KindValidation, fmt.Sprintf("file %q already exists", file.Name))
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}
	c.KnowledgeBase = append(c.KnowledgeBase, file)
	return nil
}

// KnowledgeFiles returns a copy of a container's knowledge base.
func (s *SessionStore) KnowledgeFiles(containerId uuid.UUID) ([]entity.KnowledgeFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return nil, err
	}
	return append([]entity.KnowledgeFile{}, c.KnowledgeBase...), nil
}

// DeleteKnowledgeFile removes a file by name.
func (s *SessionStore) DeleteKnowledgeFile(containerId uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return err
	}
	kept := c.KnowledgeBase[:0]
	for _, f := range c.KnowledgeBase {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	c.KnowledgeBase = kept
	return nil
}

// DeleteContainer removes a whole container and its nested entities.
func (s *SessionStore) DeleteContainer(containerId uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.snapshot.Containers[:0]
	for _, c := range s.snapshot.Containers {
		if c.Id != containerId {
			kept = append(kept, c)
		}
	}
	s.snapshot.Containers = kept
	return nil
}

// RequestDeletion records the pending descriptor; a previous unconfirmed
// request is replaced.
func (s *SessionStore) RequestDeletion(desc entity.PendingDeletion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &desc
}

// PendingDeletion returns a copy of the pending descriptor without
// consuming it, nil when none is parked.
func (s *SessionStore) PendingDeletion() *entity.PendingDeletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	cp := *s.pending
	return &cp
}

// TakePendingDeletion returns and clears the pending descriptor.
func (s *SessionStore) TakePendingDeletion() *entity.PendingDeletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	desc := s.pending
	s.pending = nil
	return desc
}

// CancelDeletion discards the pending descriptor without side effects.
func (s *SessionStore) CancelDeletion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// ActiveChatId returns the active chat id of a container, nil when none.
func (s *SessionStore) ActiveChatId(containerId uuid.UUID) (*uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.container(containerId)
	if err != nil {
		return nil, err
	}
	if c.ActiveChatId == nil {
		return nil, nil
	}
	id := *c.ActiveChatId
	return &id, nil
}
