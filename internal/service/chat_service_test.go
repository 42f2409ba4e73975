package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ai-hub-be/internal/constant"
	"ai-hub-be/internal/entity"
	"ai-hub-be/internal/eventbus"
	"ai-hub-be/internal/pkg/apperror"
	"ai-hub-be/internal/repository/memory"
	"ai-hub-be/internal/store"
	"ai-hub-be/pkg/events"
	"ai-hub-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeProvider struct {
	fragments   []string
	streamErr   error
	dispatchErr error
	name        string
	nameErr     error
	streamCalls int
	nameCalls   int
}

func (p *fakeProvider) StreamChat(_ context.Context, _, _ string, _ []entity.KnowledgeFile, _ []entity.Part) (llm.Stream, error) {
	p.streamCalls++
	if p.dispatchErr != nil {
		return nil, p.dispatchErr
	}
	return llm.NewStaticStream(p.fragments, p.streamErr), nil
}

func (p *fakeProvider) NameConversation(_ context.Context, _ []entity.Turn) (string, error) {
	p.nameCalls++
	return p.name, p.nameErr
}

type fakeOutward struct {
	types []string
}

func (o *fakeOutward) Publish(_ context.Context, ev events.Event) error {
	o.types = append(o.types, ev.EventType())
	return nil
}

type fakeResolver struct {
	answer string
	hit    bool
	calls  int
}

func (r *fakeResolver) Resolve(_ context.Context, _ string) (string, bool) {
	r.calls++
	return r.answer, r.hit
}

type chatFixture struct {
	store       *store.SessionStore
	stateRepo   *memory.StateRepository
	staging     *memory.AttachmentRepository
	provider    *fakeProvider
	resolver    *fakeResolver
	service     ChatService
	containerId uuid.UUID
}

func newChatFixture(t *testing.T, provider *fakeProvider, resolver *fakeResolver) *chatFixture {
	t.Helper()

	st := store.NewSessionStore()
	snap := constant.DefaultSnapshot()
	st.Bootstrap(snap)

	stateRepo := memory.NewStateRepository()
	stateService := NewStateService(st, stateRepo, nopLogger{})
	staging := memory.NewAttachmentRepository()
	bus := eventbus.NewBus(nopLogger{})

	svc := NewChatService(st, stateService, staging, resolver, provider, bus, nil, nopLogger{})

	return &chatFixture{
		store:       st,
		stateRepo:   stateRepo,
		staging:     staging,
		provider:    provider,
		resolver:    resolver,
		service:     svc,
		containerId: snap.Containers[0].Id,
	}
}

func (f *chatFixture) history(t *testing.T, chatId uuid.UUID) []entity.Turn {
	t.Helper()
	history, err := f.store.ChatHistory(f.containerId, chatId)
	require.NoError(t, err)
	return history
}

func (f *chatFixture) persistedSnapshot(t *testing.T) *entity.Snapshot {
	t.Helper()
	raw, err := f.stateRepo.Load(context.Background())
	require.NoError(t, err)
	var snap entity.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	return &snap
}

func TestSendEmptyMessageIsNoOp(t *testing.T) {
	f := newChatFixture(t, &fakeProvider{}, &fakeResolver{})

	res, err := f.service.Send(context.Background(), f.containerId, "   ")
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	snap, err := f.store.CloneSnapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Container(f.containerId).Chats)
	assert.Zero(t, f.provider.streamCalls)
}

func TestSendFullTurn(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"Phishing ", "is bad."}, name: "Phishing Basics"}
	f := newChatFixture(t, provider, &fakeResolver{})

	res, err := f.service.Send(context.Background(), f.containerId, "What is phishing?")
	require.NoError(t, err)
	require.False(t, res.Skipped)
	assert.Equal(t, "Phishing is bad.", res.Answer)
	assert.False(t, res.FromKnowledge)

	history := f.history(t, res.ChatId)
	require.Len(t, history, 2)
	assert.Equal(t, constant.ChatRoleUser, history[0].Role)
	assert.Equal(t, constant.ChatRoleModel, history[1].Role)

	// Named exactly once after the first exchange.
	assert.Equal(t, 1, provider.nameCalls)
	assert.Equal(t, "Phishing Basics", res.ChatName)

	// The whole exchange landed in the durable key.
	snap := f.persistedSnapshot(t)
	chat := snap.Container(f.containerId).Chat(res.ChatId)
	require.NotNil(t, chat)
	assert.Len(t, chat.History, 2)
	assert.Equal(t, "Phishing Basics", chat.Name)
}

func TestSendNamesOnlyOnce(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"answer"}, name: "First Title"}
	f := newChatFixture(t, provider, &fakeResolver{})

	first, err := f.service.Send(context.Background(), f.containerId, "question one")
	require.NoError(t, err)
	_, err = f.service.Send(context.Background(), f.containerId, "question two")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.nameCalls)
	assert.Len(t, f.history(t, first.ChatId), 4)
}

func TestSendNamingFailureKeepsPlaceholder(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"answer"}, nameErr: errors.New("naming down")}
	f := newChatFixture(t, provider, &fakeResolver{})

	res, err := f.service.Send(context.Background(), f.containerId, "hello")
	require.NoError(t, err)

	assert.Equal(t, constant.PlaceholderChatName, res.ChatName)
	assert.Len(t, f.history(t, res.ChatId), 2)
}

func TestSendKnowledgeShortCircuit(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"model answer"}, name: "Title"}
	resolver := &fakeResolver{answer: "curated answer", hit: true}
	f := newChatFixture(t, provider, resolver)

	res, err := f.service.Send(context.Background(), f.containerId, "What is the Hub?")
	require.NoError(t, err)

	assert.True(t, res.FromKnowledge)
	assert.Equal(t, "curated answer", res.Answer)
	assert.Zero(t, provider.streamCalls)

	// The curated answer is a committed model turn like any other.
	history := f.history(t, res.ChatId)
	require.Len(t, history, 2)
	text, _ := history[1].FirstText()
	assert.Equal(t, "curated answer", text)
}

func TestSendStreamFailureAppendsFallback(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"partial "}, streamErr: errors.New("connection reset")}
	f := newChatFixture(t, provider, &fakeResolver{})

	res, err := f.service.Send(context.Background(), f.containerId, "hello")
	require.NoError(t, err)
	assert.Equal(t, constant.CompletionFallbackText, res.Answer)

	// The fallback turn is persisted; the partial text is not.
	snap := f.persistedSnapshot(t)
	chat := snap.Container(f.containerId).Chat(res.ChatId)
	require.NotNil(t, chat)
	require.Len(t, chat.History, 2)
	text, _ := chat.History[1].FirstText()
	assert.Equal(t, constant.CompletionFallbackText, text)
}

func TestSendDispatchFailureAppendsFallback(t *testing.T) {
	provider := &fakeProvider{dispatchErr: errors.New("dns failure")}
	f := newChatFixture(t, provider, &fakeResolver{})

	res, err := f.service.Send(context.Background(), f.containerId, "hello")
	require.NoError(t, err)
	assert.Equal(t, constant.CompletionFallbackText, res.Answer)
}

func TestSendConsumesAttachment(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"got it"}, name: "Title"}
	f := newChatFixture(t, provider, &fakeResolver{})

	f.staging.Stage(f.containerId, &entity.AttachedFile{
		Name:     "doc.txt",
		MimeType: "text/plain",
		Base64:   "data:text/plain;base64,aGVsbG8=",
	})

	res, err := f.service.Send(context.Background(), f.containerId, "see attachment")
	require.NoError(t, err)

	// The staged envelope is stripped; the wire part carries the bare payload.
	history := f.history(t, res.ChatId)
	require.Len(t, history[0].Parts, 2)
	require.NotNil(t, history[0].Parts[1].InlineData)
	assert.Equal(t, "aGVsbG8=", history[0].Parts[1].InlineData.Data)

	// The staging slot is empty afterwards.
	_, found := f.staging.Get(f.containerId)
	assert.False(t, found)
}

func TestSendAttachmentOnlyTurn(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"described"}, name: "Title"}
	resolver := &fakeResolver{answer: "should not fire", hit: true}
	f := newChatFixture(t, provider, resolver)

	f.staging.Stage(f.containerId, &entity.AttachedFile{Name: "img.png", MimeType: "image/png", Base64: "data:image/png;base64,abcd"})

	res, err := f.service.Send(context.Background(), f.containerId, "")
	require.NoError(t, err)
	require.False(t, res.Skipped)

	// No text means no catalog lookup.
	assert.Zero(t, resolver.calls)
	assert.Equal(t, 1, provider.streamCalls)

	history := f.history(t, res.ChatId)
	require.Len(t, history[0].Parts, 1)
	require.NotNil(t, history[0].Parts[0].InlineData)
}

func TestSendDroppedWhileDispatching(t *testing.T) {
	f := newChatFixture(t, &fakeProvider{fragments: []string{"x"}}, &fakeResolver{})

	require.True(t, f.store.BeginDispatch(f.containerId))
	defer f.store.EndDispatch(f.containerId)

	res, err := f.service.Send(context.Background(), f.containerId, "hello")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
}

func TestSendUnknownContainer(t *testing.T) {
	f := newChatFixture(t, &fakeProvider{fragments: []string{"x"}}, &fakeResolver{})

	_, err := f.service.Send(context.Background(), uuid.New(), "hello")
	assert.True(t, apperror.IsNotFound(err))
}

func TestConfirmDeletionChat(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"x"}, name: "T"}
	f := newChatFixture(t, provider, &fakeResolver{})

	res, err := f.service.Send(context.Background(), f.containerId, "hello")
	require.NoError(t, err)

	chatId := res.ChatId
	f.service.RequestDeletion(entity.PendingDeletion{
		Kind:        entity.DeletionKindChat,
		ContainerId: f.containerId,
		ChatId:      &chatId,
	})
	require.NoError(t, f.service.ConfirmDeletion(context.Background()))

	snap := f.persistedSnapshot(t)
	assert.Nil(t, snap.Container(f.containerId).Chat(chatId))
	assert.Nil(t, snap.Container(f.containerId).ActiveChatId)
}

func TestConfirmDeletionWithoutRequest(t *testing.T) {
	f := newChatFixture(t, &fakeProvider{}, &fakeResolver{})

	err := f.service.ConfirmDeletion(context.Background())
	assert.True(t, apperror.IsValidation(err))
}

func TestCancelDeletionKeepsState(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"x"}, name: "T"}
	f := newChatFixture(t, provider, &fakeResolver{})

	res, err := f.service.Send(context.Background(), f.containerId, "hello")
	require.NoError(t, err)

	chatId := res.ChatId
	f.service.RequestDeletion(entity.PendingDeletion{
		Kind:        entity.DeletionKindChat,
		ContainerId: f.containerId,
		ChatId:      &chatId,
	})
	f.service.CancelDeletion()

	assert.True(t, apperror.IsValidation(f.service.ConfirmDeletion(context.Background())))
	assert.NotNil(t, f.history(t, chatId))
}

func TestSendAnnouncesOutwardEvents(t *testing.T) {
	st := store.NewSessionStore()
	snap := constant.DefaultSnapshot()
	st.Bootstrap(snap)

	stateService := NewStateService(st, memory.NewStateRepository(), nopLogger{})
	outward := &fakeOutward{}
	svc := NewChatService(
		st,
		stateService,
		memory.NewAttachmentRepository(),
		&fakeResolver{},
		&fakeProvider{fragments: []string{"x"}, name: "T"},
		eventbus.NewBus(nopLogger{}),
		outward,
		nopLogger{},
	)

	_, err := svc.Send(context.Background(), snap.Containers[0].Id, "hello")
	require.NoError(t, err)

	assert.Contains(t, outward.types, "STATE_PERSISTED")
	assert.Contains(t, outward.types, "CHAT_TURN")
}

func TestPendingDeletionPeekDoesNotConsume(t *testing.T) {
	f := newChatFixture(t, &fakeProvider{}, &fakeResolver{})

	f.service.RequestDeletion(entity.PendingDeletion{
		Kind:        entity.DeletionKindContainer,
		ContainerId: f.containerId,
	})

	require.NotNil(t, f.service.PendingDeletion())
	require.NotNil(t, f.service.PendingDeletion())

	// The descriptor is still parked, so confirmation succeeds.
	require.NoError(t, f.service.ConfirmDeletion(context.Background()))
}

func TestNewChatThenResume(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"x"}, name: "T"}
	f := newChatFixture(t, provider, &fakeResolver{})

	first, err := f.service.Send(context.Background(), f.containerId, "hello")
	require.NoError(t, err)

	require.NoError(t, f.service.NewChat(context.Background(), f.containerId))
	second, err := f.service.Send(context.Background(), f.containerId, "another")
	require.NoError(t, err)
	require.NotEqual(t, first.ChatId, second.ChatId)

	require.NoError(t, f.service.ResumeChat(context.Background(), f.containerId, first.ChatId))
	third, err := f.service.Send(context.Background(), f.containerId, "back again")
	require.NoError(t, err)
	assert.Equal(t, first.ChatId, third.ChatId)
	assert.Len(t, f.history(t, first.ChatId), 4)
}
