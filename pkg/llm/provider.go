package llm

import (
	"context"
	"strings"

	"ai-hub-be/internal/entity"
)

// CompletionProvider defines the contract for any completion backend.
type CompletionProvider interface {
	// StreamChat sends the user parts, persona and knowledge attachments to
	// the model and returns a lazy fragment stream.
	StreamChat(ctx context.Context, model, persona string, knowledge []entity.KnowledgeFile, parts []entity.Part) (Stream, error)

	// NameConversation produces a short title (max 5 words) for the first
	// exchange of a chat. Best-effort; callers must tolerate failure.
	NameConversation(ctx context.Context, history []entity.Turn) (string, error)
}

// StripBase64Envelope removes a data:<mime>;base64, prefix from a stored
// payload. Inline parts on the wire carry the bare payload only.
func StripBase64Envelope(content string) string {
	if strings.HasPrefix(content, "data:") {
		if i := strings.Index(content, ","); i >= 0 {
			return content[i+1:]
		}
	}
	return content
}
