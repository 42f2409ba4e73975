package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"ai-hub-be/internal/entity"
	"ai-hub-be/internal/pkg/apperror"
	"ai-hub-be/internal/pkg/logger"
	"ai-hub-be/internal/repository/contract"
	"ai-hub-be/pkg/graph"

	"github.com/google/uuid"
)

// AttachmentService ingests files into the per-container staging slot. A
// staged file rides along with the next send and is consumed by it, whether
// the dispatch succeeds or not.
type AttachmentService interface {
	Ingest(ctx context.Context, containerId uuid.UUID, name, mimeType string, r io.Reader) (*entity.AttachedFile, error)
	IngestRemote(ctx context.Context, containerId uuid.UUID, siteID string, item graph.DriveItem) (*entity.AttachedFile, error)
	Staged(containerId uuid.UUID) (*entity.AttachedFile, bool)
	Remove(containerId uuid.UUID)
}

type attachmentService struct {
	staging contract.AttachmentRepository
	drive   *graph.Client
	log     logger.ILogger
}

var _ AttachmentService = &attachmentService{}

func NewAttachmentService(staging contract.AttachmentRepository, drive *graph.Client, log logger.ILogger) AttachmentService {
	return &attachmentService{staging: staging, drive: drive, log: log}
}

// Ingest reads the upload, encodes it and replaces whatever was staged for
// the container. A read failure aborts without touching the slot.
func (s *attachmentService) Ingest(ctx context.Context, containerId uuid.UUID, name, mimeType string, r io.Reader) (*entity.AttachedFile, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindRead, "read uploaded file", err)
	}
	file := &entity.AttachedFile{
		Name:     name,
		MimeType: mimeType,
		Base64:   fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw)),
	}
	s.staging.Stage(containerId, file)
	s.log.Debug("attachment", "file staged", map[string]interface{}{
		"container": containerId.String(),
		"name":      name,
		"bytes":     len(raw),
	})
	return file, nil
}

// IngestRemote pulls a drive item from the document source and stages it.
// Token failures surface as auth errors; transfer failures as read errors.
func (s *attachmentService) IngestRemote(ctx context.Context, containerId uuid.UUID, siteID string, item graph.DriveItem) (*entity.AttachedFile, error) {
	if s.drive == nil {
		return nil, apperror.New(apperror.KindAuth, "document source is not configured")
	}
	raw, err := s.drive.FetchContent(ctx, siteID, item.Id)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindAuth {
			return nil, err
		}
		return nil, apperror.Wrap(apperror.KindRead, "fetch remote file", err)
	}
	file := &entity.AttachedFile{
		Name:     item.Name,
		MimeType: item.MimeType,
		Base64:   fmt.Sprintf("data:%s;base64,%s", item.MimeType, base64.StdEncoding.EncodeToString(raw)),
	}
	s.staging.Stage(containerId, file)
	s.log.Debug("attachment", "remote file staged", map[string]interface{}{
		"container": containerId.String(),
		"name":      item.Name,
	})
	return file, nil
}

func (s *attachmentService) Staged(containerId uuid.UUID) (*entity.AttachedFile, bool) {
	return s.staging.Get(containerId)
}

func (s *attachmentService) Remove(containerId uuid.UUID) {
	s.staging.Clear(containerId)
}
