package dto

import (
	"time"

	"ai-hub-be/internal/entity"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	ContainerId uuid.UUID `json:"container_id" validate:"required"`
	Message     string    `json:"message"`
}

type SendChatResponse struct {
	// Skipped marks a send that was dropped without side effects.
	Skipped       bool      `json:"skipped,omitempty"`
	ChatId        uuid.UUID `json:"chat_id,omitempty"`
	ChatName      string    `json:"chat_name,omitempty"`
	Answer        string    `json:"answer,omitempty"`
	FromKnowledge bool      `json:"from_knowledge,omitempty"`
}

type NewChatRequest struct {
	ContainerId uuid.UUID `json:"container_id" validate:"required"`
}

type ResumeChatRequest struct {
	ContainerId uuid.UUID `json:"container_id" validate:"required"`
	ChatId      uuid.UUID `json:"chat_id" validate:"required"`
}

type AttachmentResponse struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
}

type KnowledgeFileResponse struct {
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type RemoteImportRequest struct {
	SiteId   string `json:"site_id" validate:"required"`
	ItemId   string `json:"item_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type RequestDeletionRequest struct {
	Kind        entity.DeletionKind `json:"kind" validate:"required,oneof=container chat knowledgeFile"`
	ContainerId uuid.UUID           `json:"container_id" validate:"required"`
	ChatId      *uuid.UUID          `json:"chat_id,omitempty"`
	FileName    string              `json:"file_name,omitempty"`
}

type PendingDeletionResponse struct {
	Pending  bool                    `json:"pending"`
	Deletion *entity.PendingDeletion `json:"deletion,omitempty"`
}

type KnowledgeAnswerResponse struct {
	Query  string  `json:"query"`
	Answer *string `json:"answer"`
	Found  bool    `json:"found"`
}
