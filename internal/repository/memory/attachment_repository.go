package memory

import (
	"time"

	"ai-hub-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// AttachmentRepository stages the file queued for a container's next outgoing
// turn. Entries are transient: never persisted, at most one per container,
// and evicted after 30 minutes of inactivity.
type AttachmentRepository struct {
	cache *cache.Cache
}

func NewAttachmentRepository() *AttachmentRepository {
	c := cache.New(30*time.Minute, 10*time.Minute)
	return &AttachmentRepository{cache: c}
}

func (r *AttachmentRepository) Stage(containerId uuid.UUID, file *entity.AttachedFile) {
	r.cache.Set(containerId.String(), file, cache.DefaultExpiration)
}

func (r *AttachmentRepository) Get(containerId uuid.UUID) (*entity.AttachedFile, bool) {
	if x, found := r.cache.Get(containerId.String()); found {
		return x.(*entity.AttachedFile), true
	}
	return nil, false
}

// Take returns the staged file and clears it in one step. Send uses this so
// the attachment is consumed unconditionally, hit or miss.
func (r *AttachmentRepository) Take(containerId uuid.UUID) (*entity.AttachedFile, bool) {
	file, found := r.Get(containerId)
	if found {
		r.cache.Delete(containerId.String())
	}
	return file, found
}

func (r *AttachmentRepository) Clear(containerId uuid.UUID) {
	r.cache.Delete(containerId.String())
}
