package entity

import "github.com/google/uuid"

// Snapshot is the complete serializable application state. Persistence always
// reads and writes it as a whole; there is no partial merge.
type Snapshot struct {
	Containers      []*Container `json:"containers"`
	Branding        Branding     `json:"branding"`
	AvailableModels []AIModel    `json:"availableModels"`
}

// Container returns the container with the given id, or nil.
func (s *Snapshot) Container(id uuid.UUID) *Container {
	for _, c := range s.Containers {
		if c.Id == id {
			return c
		}
	}
	return nil
}
