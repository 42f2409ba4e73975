package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"ai-hub-be/internal/entity"
	"ai-hub-be/internal/eventbus"
	"ai-hub-be/internal/pkg/apperror"
	"ai-hub-be/internal/pkg/logger"
	"ai-hub-be/internal/store"
	"ai-hub-be/pkg/graph"

	"github.com/google/uuid"
)

// KnowledgeService manages the persistent per-container knowledge base.
// Unlike staged attachments, knowledge files survive restarts and ride
// along with every dispatch of their container.
type KnowledgeService interface {
	Ingest(ctx context.Context, containerId uuid.UUID, name, mimeType string, size int64, r io.Reader) (*entity.KnowledgeFile, error)
	ImportRemote(ctx context.Context, containerId uuid.UUID, siteID string, item graph.DriveItem) (*entity.KnowledgeFile, error)
	List(containerId uuid.UUID) ([]entity.KnowledgeFile, error)
	BrowseRemote(ctx context.Context, siteID, itemID string) ([]graph.DriveItem, error)
}

type knowledgeService struct {
	store *store.SessionStore
	state StateService
	bus   *eventbus.Bus
	drive *graph.Client
	log   logger.ILogger
}

var _ KnowledgeService = &knowledgeService{}

func NewKnowledgeService(st *store.SessionStore, state StateService, bus *eventbus.Bus, drive *graph.Client, log logger.ILogger) KnowledgeService {
	return &knowledgeService{store: st, state: state, bus: bus, drive: drive, log: log}
}

// Ingest adds an uploaded file to the container's knowledge base and saves.
// Duplicate names are rejected before any bytes are read into the base.
func (s *knowledgeService) Ingest(ctx context.Context, containerId uuid.UUID, name, mimeType string, size int64, r io.Reader) (*entity.KnowledgeFile, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindRead, "read uploaded file", err)
	}
	file := entity.KnowledgeFile{
		Name:          name,
		MimeType:      mimeType,
		Size:          size,
		UploadedAt:    time.Now().UTC(),
		Base64Content: fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw)),
	}
	if err := s.store.AddKnowledgeFile(containerId, file); err != nil {
		return nil, err
	}
	if err := s.state.Persist(ctx); err != nil {
		s.log.Warn("knowledge", "persist after ingest failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.bus.PublishStateChanged(eventbus.StateChanged{ContainerId: containerId, Reason: "knowledgeFileAdded"})
	return &file, nil
}

// ImportRemote downloads a drive item and adds it to the knowledge base.
func (s *knowledgeService) ImportRemote(ctx context.Context, containerId uuid.UUID, siteID string, item graph.DriveItem) (*entity.KnowledgeFile, error) {
	if s.drive == nil {
		return nil, apperror.New(apperror.KindAuth, "document source is not configured")
	}
	file, err := s.drive.DownloadFile(ctx, siteID, item.Id, item.Name, item.MimeType, item.Size)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindAuth {
			return nil, err
		}
		return nil, apperror.Wrap(apperror.KindRead, "download remote file", err)
	}
	if err := s.store.AddKnowledgeFile(containerId, *file); err != nil {
		return nil, err
	}
	if err := s.state.Persist(ctx); err != nil {
		s.log.Warn("knowledge", "persist after import failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.bus.PublishStateChanged(eventbus.StateChanged{ContainerId: containerId, Reason: "knowledgeFileAdded"})
	return file, nil
}

func (s *knowledgeService) List(containerId uuid.UUID) ([]entity.KnowledgeFile, error) {
	return s.store.KnowledgeFiles(containerId)
}

// BrowseRemote lists a document source folder for the import picker.
func (s *knowledgeService) BrowseRemote(ctx context.Context, siteID, itemID string) ([]graph.DriveItem, error) {
	if s.drive == nil {
		return nil, apperror.New(apperror.KindAuth, "document source is not configured")
	}
	items, err := s.drive.ListChildren(ctx, siteID, itemID)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindAuth {
			return nil, err
		}
		return nil, apperror.Wrap(apperror.KindRead, "list remote folder", err)
	}
	return items, nil
}
