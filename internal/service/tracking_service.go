package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/errs"
	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/repository"
	"rfortes/gym-studio/internal/storage"
	"rfortes/gym-studio/internal/validation"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoUpload is the result of initiating a progress photo upload: the
// persisted metadata plus a presigned PUT URL the caller uploads to.
type PhotoUpload struct {
	Photo     domain.ProgressPhoto `json:"photo"`
	UploadURL string               `json:"uploadUrl"`
}

// PhotoView pairs a photo's metadata with a presigned GET URL.
type PhotoView struct {
	Photo       domain.ProgressPhoto `json:"photo"`
	DownloadURL string               `json:"downloadUrl"`
}

// TrackingService records physical measurement snapshots and brokers
// progress photo transfers through object storage.
type TrackingService interface {
	Create(ctx context.Context, record *domain.PhysicalTracking) (*domain.PhysicalTracking, error)
	GetByID(ctx context.Context, recordID string) (*domain.PhysicalTracking, error)
	GetByClient(ctx context.Context, clientID string) ([]domain.PhysicalTracking, error)
	Update(ctx context.Context, recordID string, update *domain.PhysicalTracking) (*domain.PhysicalTracking, error)
	Delete(ctx context.Context, recordID string) error

	// InitiatePhotoUpload registers photo metadata on the record and
	// returns a presigned URL for the client to PUT the file against.
	InitiatePhotoUpload(ctx context.Context, recordID, contentType, description string) (*PhotoUpload, error)
	// PhotoViews returns presigned download URLs for a record's photos.
	PhotoViews(ctx context.Context, recordID string) ([]PhotoView, error)
}

type trackingService struct {
	records repository.PhysicalTrackingRepository
	clients repository.ClientRepository
	files   storage.FileStorage
	log     *logger.Logger
}

// NewTrackingService creates a new instance of trackingService.
func NewTrackingService(
	records repository.PhysicalTrackingRepository,
	clients repository.ClientRepository,
	files storage.FileStorage,
	log *logger.Logger,
) TrackingService {
	return &trackingService{records: records, clients: clients, files: files, log: log}
}

func (s *trackingService) Create(ctx context.Context, record *domain.PhysicalTracking) (*domain.PhysicalTracking, error) {
	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	if err := validation.PhysicalTracking(record); err != nil {
		return nil, err
	}

	if _, err := s.clients.GetByID(ctx, record.ClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("client", record.ClientID.Hex())
		}
		return nil, err
	}

	id, err := s.records.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("creating tracking record: %w", err)
	}
	record.ID = id

	s.log.Info("tracking record created", "recordId", id.Hex(), "clientId", record.ClientID.Hex())
	return record, nil
}

func (s *trackingService) GetByID(ctx context.Context, recordID string) (*domain.PhysicalTracking, error) {
	oid, err := parseID(recordID)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, oid, recordID)
}

func (s *trackingService) get(ctx context.Context, oid primitive.ObjectID, recordID string) (*domain.PhysicalTracking, error) {
	record, err := s.records.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("tracking record", recordID)
		}
		return nil, err
	}
	return record, nil
}

func (s *trackingService) GetByClient(ctx context.Context, clientID string) ([]domain.PhysicalTracking, error) {
	oid, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	return s.records.GetByClientID(ctx, oid)
}

func (s *trackingService) Update(ctx context.Context, recordID string, update *domain.PhysicalTracking) (*domain.PhysicalTracking, error) {
	oid, err := parseID(recordID)
	if err != nil {
		return nil, err
	}

	existing, err := s.get(ctx, oid, recordID)
	if err != nil {
		return nil, err
	}

	update.ID = oid
	update.ClientID = existing.ClientID
	update.ContractID = existing.ContractID
	update.Photos = existing.Photos // photos only change through the upload flow
	if err := validation.PhysicalTracking(update); err != nil {
		return nil, err
	}

	if err := s.records.Update(ctx, update); err != nil {
		return nil, fmt.Errorf("updating tracking record: %w", err)
	}

	return s.records.GetByID(ctx, oid)
}

// Delete removes a record and best-effort deletes its photos from
// object storage. A failed object delete only logs: the record is gone
// and an orphaned object is harmless.
func (s *trackingService) Delete(ctx context.Context, recordID string) error {
	oid, err := parseID(recordID)
	if err != nil {
		return err
	}

	record, err := s.get(ctx, oid, recordID)
	if err != nil {
		return err
	}

	if err := s.records.Delete(ctx, oid); err != nil {
		return fmt.Errorf("deleting tracking record: %w", err)
	}

	for _, photo := range record.Photos {
		if err := s.files.DeleteObject(ctx, photo.ObjectKey); err != nil {
			s.log.Warn("failed to delete progress photo object", "key", photo.ObjectKey, "error", err)
		}
	}

	s.log.Info("tracking record deleted", "recordId", recordID)
	return nil
}

func (s *trackingService) InitiatePhotoUpload(ctx context.Context, recordID, contentType, description string) (*PhotoUpload, error) {
	oid, err := parseID(recordID)
	if err != nil {
		return nil, err
	}

	record, err := s.get(ctx, oid, recordID)
	if err != nil {
		return nil, err
	}

	ext := extensionFor(contentType)
	if ext == "" {
		return nil, errs.NewValidation("progress photo", []string{
			fmt.Sprintf("unsupported content type %q", contentType),
		})
	}

	photo := domain.ProgressPhoto{
		ID:          primitive.NewObjectID(),
		ObjectKey:   path.Join("progress", record.ClientID.Hex(), uuid.NewString()+ext),
		Description: description,
		UploadedAt:  time.Now(),
	}

	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, photo.ObjectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning photo upload: %w", err)
	}

	if err := s.records.AddPhoto(ctx, oid, photo); err != nil {
		return nil, fmt.Errorf("registering photo: %w", err)
	}

	s.log.Info("photo upload initiated", "recordId", recordID, "key", photo.ObjectKey)
	return &PhotoUpload{Photo: photo, UploadURL: uploadURL}, nil
}

func (s *trackingService) PhotoViews(ctx context.Context, recordID string) ([]PhotoView, error) {
	oid, err := parseID(recordID)
	if err != nil {
		return nil, err
	}

	record, err := s.get(ctx, oid, recordID)
	if err != nil {
		return nil, err
	}

	views := make([]PhotoView, 0, len(record.Photos))
	for _, photo := range record.Photos {
		url, err := s.files.GeneratePresignedDownloadURL(ctx, photo.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("presigning photo download: %w", err)
		}
		views = append(views, PhotoView{Photo: photo, DownloadURL: url})
	}
	return views, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
