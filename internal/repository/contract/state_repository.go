package contract

import (
	"context"
	"errors"
)

// ErrStateNotFound signals that the durable key has never been written.
var ErrStateNotFound = errors.New("app state not found")

// StateRepository is the durable store for the whole application snapshot,
// addressed by a single key. There is no partial-write API: Save overwrites
// the key with the full serialized snapshot, last-writer-wins.
type StateRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, raw []byte) error
}
