package service

import (
	"context"
	"strings"

	"ai-hub-be/internal/constant"
	"ai-hub-be/internal/entity"
	"ai-hub-be/internal/eventbus"
	"ai-hub-be/internal/pkg/apperror"
	"ai-hub-be/internal/pkg/logger"
	"ai-hub-be/internal/repository/contract"
	"ai-hub-be/internal/store"
	"ai-hub-be/pkg/events"
	"ai-hub-be/pkg/llm"

	"github.com/google/uuid"
)

// OutwardPublisher emits hub events to external consumers. Delivery is
// best-effort; the conversation flow never waits on it.
type OutwardPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// KnowledgeResolver answers a query from the curated catalog, or reports a
// miss. Any resolver failure is a miss; it can never fail a send.
type KnowledgeResolver interface {
	Resolve(ctx context.Context, query string) (string, bool)
}

// SendResult is the outcome of one send attempt.
type SendResult struct {
	// Skipped is true when the send was dropped without side effects: empty
	// input with nothing staged, or a dispatch already in flight.
	Skipped  bool
	ChatId   uuid.UUID
	ChatName string
	Answer   string
	// FromKnowledge marks answers served by the catalog instead of the model.
	FromKnowledge bool
}

// ChatService drives the conversation lifecycle of a container: sending
// turns, resuming and creating chats, and the two-phase deletion flow.
type ChatService interface {
	Send(ctx context.Context, containerId uuid.UUID, message string) (*SendResult, error)
	NewChat(ctx context.Context, containerId uuid.UUID) error
	ResumeChat(ctx context.Context, containerId, chatId uuid.UUID) error
	RequestDeletion(desc entity.PendingDeletion)
	ConfirmDeletion(ctx context.Context) error
	CancelDeletion()
	PendingDeletion() *entity.PendingDeletion
}

type chatService struct {
	store    *store.SessionStore
	state    StateService
	staging  contract.AttachmentRepository
	resolver KnowledgeResolver
	provider llm.CompletionProvider
	bus      *eventbus.Bus
	outward  OutwardPublisher
	log      logger.ILogger
}

var _ ChatService = &chatService{}

func NewChatService(
	st *store.SessionStore,
	state StateService,
	staging contract.AttachmentRepository,
	resolver KnowledgeResolver,
	provider llm.CompletionProvider,
	bus *eventbus.Bus,
	outward OutwardPublisher,
	log logger.ILogger,
) ChatService {
	return &chatService{
		store:    st,
		state:    state,
		staging:  staging,
		resolver: resolver,
		provider: provider,
		bus:      bus,
		outward:  outward,
		log:      log,
	}
}

// Send runs one full conversation turn. The staged attachment is consumed
// unconditionally, the user turn is committed before any answer is sought,
// and exactly one model turn is appended afterwards, even when the stream
// fails. Concurrent sends for the same container are dropped.
func (s *chatService) Send(ctx context.Context, containerId uuid.UUID, message string) (*SendResult, error) {
	message = strings.TrimSpace(message)

	if !s.store.BeginDispatch(containerId) {
		s.log.Debug("chat", "send dropped, dispatch in flight", map[string]interface{}{
			"container": containerId.String(),
		})
		return &SendResult{Skipped: true}, nil
	}
	defer s.store.EndDispatch(containerId)

	attachment, hasAttachment := s.staging.Take(containerId)
	if message == "" && !hasAttachment {
		return &SendResult{Skipped: true}, nil
	}

	chatId, err := s.store.EnsureActiveChat(containerId)
	if err != nil {
		return nil, err
	}

	userTurn := entity.Turn{Role: constant.ChatRoleUser}
	if message != "" {
		userTurn.Parts = append(userTurn.Parts, entity.Part{Text: message})
	}
	if hasAttachment {
		userTurn.Parts = append(userTurn.Parts, entity.Part{
			InlineData: &entity.InlineData{
				MimeType: attachment.MimeType,
				Data:     llm.StripBase64Envelope(attachment.Base64),
			},
		})
	}
	if _, err := s.store.AppendTurn(containerId, chatId, userTurn); err != nil {
		return nil, err
	}
	s.persist(ctx, containerId, "userTurn")

	answer, fromKnowledge := s.answer(ctx, containerId, chatId, message, userTurn.Parts)

	historyLen, err := s.store.AppendTurn(containerId, chatId, entity.Turn{
		Role:  constant.ChatRoleModel,
		Parts: []entity.Part{{Text: answer}},
	})
	if err != nil {
		return nil, err
	}
	s.persist(ctx, containerId, "modelTurn")

	s.bus.PublishStreamUpdate(eventbus.StreamUpdate{
		ContainerId: containerId,
		ChatId:      chatId,
		Text:        answer,
		Done:        true,
	})

	if historyLen == 2 {
		s.nameChat(ctx, containerId, chatId)
	}

	s.announce(ctx, events.NewChatTurnEvent(containerId, chatId, constant.ChatRoleModel))

	name, _ := s.store.ChatName(containerId, chatId)
	return &SendResult{ChatId: chatId, ChatName: name, Answer: answer, FromKnowledge: fromKnowledge}, nil
}

// answer resolves the reply for a committed user turn. Catalog hits take
// precedence over the model; a failed stream yields the fallback apology,
// which is a real turn like any other.
func (s *chatService) answer(ctx context.Context, containerId, chatId uuid.UUID, message string, parts []entity.Part) (string, bool) {
	if message != "" && s.resolver != nil {
		if hit, ok := s.resolver.Resolve(ctx, message); ok {
			return hit, true
		}
	}

	model, persona, knowledge, err := s.store.ContainerSettings(containerId)
	if err != nil {
		s.log.Error("chat", "container settings unavailable", map[string]interface{}{
			"container": containerId.String(),
			"error":     err.Error(),
		})
		return constant.CompletionFallbackText, false
	}

	stream, err := s.provider.StreamChat(ctx, model, persona, knowledge, parts)
	if err != nil {
		s.log.Error("chat", "completion dispatch failed", map[string]interface{}{
			"container": containerId.String(),
			"model":     model,
			"error":     err.Error(),
		})
		return constant.CompletionFallbackText, false
	}

	text, err := llm.Accumulate(stream, func(accumulated string) {
		s.bus.PublishStreamUpdate(eventbus.StreamUpdate{
			ContainerId: containerId,
			ChatId:      chatId,
			Text:        accumulated,
		})
	})
	if err != nil {
		s.log.Error("chat", "fragment stream failed", map[string]interface{}{
			"container": containerId.String(),
			"model":     model,
			"error":     err.Error(),
		})
		return constant.CompletionFallbackText, false
	}
	return text, false
}

// nameChat titles a chat after its first exchange. It runs once per chat and
// never fails the send; the placeholder survives any failure here.
func (s *chatService) nameChat(ctx context.Context, containerId, chatId uuid.UUID) {
	current, err := s.store.ChatName(containerId, chatId)
	if err != nil || current != constant.PlaceholderChatName {
		return
	}
	history, err := s.store.ChatHistory(containerId, chatId)
	if err != nil {
		return
	}
	name, err := s.provider.NameConversation(ctx, history)
	if err != nil {
		s.log.Warn("chat", "conversation naming failed", map[string]interface{}{
			"container": containerId.String(),
			"chat":      chatId.String(),
			"error":     err.Error(),
		})
		return
	}
	name = strings.TrimSpace(name)
	if name == "" || name == constant.PlaceholderChatName {
		return
	}
	if err := s.store.RenameChat(containerId, chatId, name); err != nil {
		return
	}
	s.persist(ctx, containerId, "chatRenamed")
}

// NewChat deactivates the current chat so the next send starts a fresh one.
// No entry is created here; empty chats are never materialized.
func (s *chatService) NewChat(ctx context.Context, containerId uuid.UUID) error {
	if err := s.store.NewChat(containerId); err != nil {
		return err
	}
	s.persist(ctx, containerId, "newChat")
	return nil
}

// ResumeChat reactivates a previous chat by id.
func (s *chatService) ResumeChat(ctx context.Context, containerId, chatId uuid.UUID) error {
	if err := s.store.ResumeChat(containerId, chatId); err != nil {
		return err
	}
	s.persist(ctx, containerId, "resumeChat")
	return nil
}

// RequestDeletion parks a deletion descriptor until the client confirms.
// Nothing is removed yet.
func (s *chatService) RequestDeletion(desc entity.PendingDeletion) {
	s.store.RequestDeletion(desc)
}

// ConfirmDeletion executes the parked deletion and saves. With nothing
// pending it returns a validation error.
func (s *chatService) ConfirmDeletion(ctx context.Context) error {
	desc := s.store.TakePendingDeletion()
	if desc == nil {
		return apperror.New(apperror.KindValidation, "no deletion awaiting confirmation")
	}

	var err error
	switch desc.Kind {
	case entity.DeletionKindChat:
		if desc.ChatId == nil {
			return apperror.New(apperror.KindValidation, "chat deletion without chat id")
		}
		err = s.store.DeleteChat(desc.ContainerId, *desc.ChatId)
	case entity.DeletionKindContainer:
		err = s.store.DeleteContainer(desc.ContainerId)
	case entity.DeletionKindKnowledgeFile:
		err = s.store.DeleteKnowledgeFile(desc.ContainerId, desc.FileName)
	default:
		return apperror.New(apperror.KindValidation, "unknown deletion kind")
	}
	if err != nil {
		return err
	}

	s.persist(ctx, desc.ContainerId, "deletionConfirmed")
	s.announce(ctx, events.NewDeletionConfirmedEvent(string(desc.Kind), desc.ContainerId))
	return nil
}

// announce publishes an outward event when a publisher is wired. Failures
// are logged and forgotten.
func (s *chatService) announce(ctx context.Context, event events.Event) {
	if s.outward == nil {
		return
	}
	if err := s.outward.Publish(ctx, event); err != nil {
		s.log.Warn("chat", "outward event publish failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

// CancelDeletion drops the parked descriptor without side effects.
func (s *chatService) CancelDeletion() {
	s.store.CancelDeletion()
}

// PendingDeletion peeks at the parked descriptor without consuming it.
func (s *chatService) PendingDeletion() *entity.PendingDeletion {
	return s.store.PendingDeletion()
}

// persist saves the snapshot and announces the change. Persistence failures
// are logged, not propagated: the in-memory state already advanced and stays
// authoritative.
func (s *chatService) persist(ctx context.Context, containerId uuid.UUID, reason string) {
	if err := s.state.Persist(ctx); err != nil {
		s.log.Warn("chat", "persist failed", map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
	} else {
		s.announce(ctx, events.NewStatePersistedEvent(reason))
	}
	s.bus.PublishStateChanged(eventbus.StateChanged{ContainerId: containerId, Reason: reason})
}
