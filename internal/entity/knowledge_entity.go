package entity

import "time"

// KnowledgeFile is a document attached to a container's knowledge base.
// Base64Content keeps the data:<mime>;base64, envelope produced at ingestion.
// Name is unique within one container's knowledge base.
type KnowledgeFile struct {
	Name          string    `json:"name"`
	MimeType      string    `json:"mimeType"`
	Size          int64     `json:"size"`
	UploadedAt    time.Time `json:"uploadedAt"`
	Base64Content string    `json:"base64Content"`
}

// AttachedFile is the file staged for the next outgoing turn. It is
// session-scoped and never persisted; at most one exists per container.
type AttachedFile struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Base64   string `json:"base64"` // with data: envelope, stripped at dispatch
}
