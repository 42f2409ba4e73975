package contract

import (
	"ai-hub-be/internal/entity"

	"github.com/google/uuid"
)

// AttachmentRepository stages at most one file per container for the next
// outgoing turn. Staged files are transient and never persisted.
type AttachmentRepository interface {
	Stage(containerId uuid.UUID, file *entity.AttachedFile)
	Get(containerId uuid.UUID) (*entity.AttachedFile, bool)
	Take(containerId uuid.UUID) (*entity.AttachedFile, bool)
	Clear(containerId uuid.UUID)
}
