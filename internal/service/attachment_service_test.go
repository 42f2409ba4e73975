package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"ai-hub-be/internal/pkg/apperror"
	"ai-hub-be/internal/repository/memory"
	"ai-hub-be/pkg/graph"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk error")
}

func TestIngestStagesEncodedFile(t *testing.T) {
	staging := memory.NewAttachmentRepository()
	svc := NewAttachmentService(staging, nil, nopLogger{})
	containerId := uuid.New()

	file, err := svc.Ingest(context.Background(), containerId, "doc.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)

	assert.Equal(t, "doc.txt", file.Name)
	assert.Equal(t, "data:text/plain;base64,"+base64.StdEncoding.EncodeToString([]byte("hello")), file.Base64)

	staged, found := svc.Staged(containerId)
	require.True(t, found)
	assert.Equal(t, file, staged)
}

func TestIngestReplacesPreviousStagedFile(t *testing.T) {
	staging := memory.NewAttachmentRepository()
	svc := NewAttachmentService(staging, nil, nopLogger{})
	containerId := uuid.New()

	_, err := svc.Ingest(context.Background(), containerId, "first.txt", "text/plain", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), containerId, "second.txt", "text/plain", strings.NewReader("b"))
	require.NoError(t, err)

	staged, found := svc.Staged(containerId)
	require.True(t, found)
	assert.Equal(t, "second.txt", staged.Name)
}

func TestIngestReadFailureLeavesSlotUntouched(t *testing.T) {
	staging := memory.NewAttachmentRepository()
	svc := NewAttachmentService(staging, nil, nopLogger{})
	containerId := uuid.New()

	_, err := svc.Ingest(context.Background(), containerId, "old.txt", "text/plain", strings.NewReader("keep"))
	require.NoError(t, err)

	_, err = svc.Ingest(context.Background(), containerId, "bad.txt", "text/plain", failingReader{})
	require.Error(t, err)
	assert.Equal(t, apperror.KindRead, apperror.KindOf(err))

	staged, found := svc.Staged(containerId)
	require.True(t, found)
	assert.Equal(t, "old.txt", staged.Name)
}

func TestRemoveClearsSlot(t *testing.T) {
	staging := memory.NewAttachmentRepository()
	svc := NewAttachmentService(staging, nil, nopLogger{})
	containerId := uuid.New()

	_, err := svc.Ingest(context.Background(), containerId, "doc.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)

	svc.Remove(containerId)
	_, found := svc.Staged(containerId)
	assert.False(t, found)
}

func TestIngestRemoteWithoutDriveConfigured(t *testing.T) {
	staging := memory.NewAttachmentRepository()
	svc := NewAttachmentService(staging, nil, nopLogger{})

	_, err := svc.IngestRemote(context.Background(), uuid.New(), "site", graph.DriveItem{Id: "1", Name: "f.txt"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
}
