package entity

import "github.com/google/uuid"

type DeletionKind string

const (
	DeletionKindContainer     DeletionKind = "container"
	DeletionKindChat          DeletionKind = "chat"
	DeletionKindKnowledgeFile DeletionKind = "knowledgeFile"
)

// PendingDeletion describes a requested but not yet confirmed deletion.
// It exists only between "delete requested" and "delete confirmed/cancelled";
// discarding it has no side effects.
type PendingDeletion struct {
	Kind        DeletionKind `json:"kind"`
	ContainerId uuid.UUID    `json:"containerId"`
	ChatId      *uuid.UUID   `json:"chatId,omitempty"`
	FileName    string       `json:"fileName,omitempty"`
}
