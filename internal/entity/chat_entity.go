package entity

import (
	"github.com/google/uuid"
)

// InlineData carries a binary content part. Data is the raw base64 payload
// without a data: scheme prefix.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Part is one atomic content unit of a turn: either Text or InlineData is set.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// Turn is a single message in a chat history. Parts is never empty.
type Turn struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// FirstText returns the first text part of the turn, if any.
func (t Turn) FirstText() (string, bool) {
	for _, p := range t.Parts {
		if p.InlineData == nil {
			return p.Text, true
		}
	}
	return "", false
}

// ChatEntry is a named conversation. History is append-only; turns are never
// reordered or removed individually.
type ChatEntry struct {
	Id      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	History []Turn    `json:"history"`
}
