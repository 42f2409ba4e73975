package constant

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"

	// PlaceholderChatName is assigned to a lazily created chat entry until the
	// first exchange triggers automatic naming.
	PlaceholderChatName = "New Conversation"

	// CompletionFallbackText is appended as a model turn when the completion
	// service rejects, so the conversation is never left truncated.
	CompletionFallbackText = "Sorry, I encountered an error. Please try again."
)
