package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/errs"
	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubTrackingRepo struct {
	records map[primitive.ObjectID]*domain.PhysicalTracking
}

func newStubTrackingRepo() *stubTrackingRepo {
	return &stubTrackingRepo{records: make(map[primitive.ObjectID]*domain.PhysicalTracking)}
}

func (s *stubTrackingRepo) add(record *domain.PhysicalTracking) primitive.ObjectID {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	s.records[record.ID] = record
	return record.ID
}

func (s *stubTrackingRepo) Create(_ context.Context, record *domain.PhysicalTracking) (primitive.ObjectID, error) {
	return s.add(record), nil
}

func (s *stubTrackingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PhysicalTracking, error) {
	record, ok := s.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *stubTrackingRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.PhysicalTracking, error) {
	var result []domain.PhysicalTracking
	for _, record := range s.records {
		if record.ClientID == clientID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (s *stubTrackingRepo) Update(_ context.Context, record *domain.PhysicalTracking) error {
	if _, ok := s.records[record.ID]; !ok {
		return repository.ErrNotFound
	}
	s.records[record.ID] = record
	return nil
}

func (s *stubTrackingRepo) AddPhoto(_ context.Context, id primitive.ObjectID, photo domain.ProgressPhoto) error {
	record, ok := s.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	record.Photos = append(record.Photos, photo)
	return nil
}

func (s *stubTrackingRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type stubFileStorage struct {
	deleted []string
}

func (s *stubFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.example.com/upload/" + objectKey, nil
}

func (s *stubFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.example.com/download/" + objectKey, nil
}

func (s *stubFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func newTrackingFixture() (*stubTrackingRepo, *stubClientRepo, *stubFileStorage, TrackingService) {
	records := newStubTrackingRepo()
	clients := newStubClientRepo()
	files := &stubFileStorage{}
	svc := NewTrackingService(records, clients, files, logger.NewNop())
	return records, clients, files, svc
}

func TestCreateTrackingRequiresExistingClient(t *testing.T) {
	_, clients, _, svc := newTrackingFixture()
	clientID := clients.add(activeTestClient())

	weight := 80.0
	record, err := svc.Create(context.Background(), &domain.PhysicalTracking{
		ClientID:   clientID,
		ContractID: primitive.NewObjectID(),
		Weight:     &weight,
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if record.Date.IsZero() {
		t.Fatalf("expected a default measurement date")
	}

	_, err = svc.Create(context.Background(), &domain.PhysicalTracking{
		ClientID:   primitive.NewObjectID(),
		ContractID: primitive.NewObjectID(),
	})
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not found for unknown client, got %v", err)
	}
}

func TestInitiatePhotoUpload(t *testing.T) {
	records, clients, _, svc := newTrackingFixture()
	clientID := clients.add(activeTestClient())
	recordID := records.add(&domain.PhysicalTracking{
		ClientID:   clientID,
		ContractID: primitive.NewObjectID(),
		Date:       time.Now(),
	})

	upload, err := svc.InitiatePhotoUpload(context.Background(), recordID.Hex(), "image/jpeg", "front pose")
	if err != nil {
		t.Fatalf("InitiatePhotoUpload() unexpected error: %v", err)
	}
	if upload.UploadURL == "" {
		t.Fatalf("expected a presigned upload URL")
	}
	if !strings.HasPrefix(upload.Photo.ObjectKey, "progress/"+clientID.Hex()+"/") {
		t.Fatalf("expected object key scoped to the client, got %q", upload.Photo.ObjectKey)
	}
	if !strings.HasSuffix(upload.Photo.ObjectKey, ".jpg") {
		t.Fatalf("expected jpg extension, got %q", upload.Photo.ObjectKey)
	}

	stored, err := records.GetByID(context.Background(), recordID)
	if err != nil {
		t.Fatalf("record lookup failed: %v", err)
	}
	if len(stored.Photos) != 1 {
		t.Fatalf("expected the photo metadata registered on the record")
	}
}

func TestInitiatePhotoUploadRejectsUnknownContentType(t *testing.T) {
	records, clients, _, svc := newTrackingFixture()
	clientID := clients.add(activeTestClient())
	recordID := records.add(&domain.PhysicalTracking{
		ClientID:   clientID,
		ContractID: primitive.NewObjectID(),
		Date:       time.Now(),
	})

	if _, err := svc.InitiatePhotoUpload(context.Background(), recordID.Hex(), "application/pdf", ""); !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteTrackingRemovesPhotos(t *testing.T) {
	records, clients, files, svc := newTrackingFixture()
	clientID := clients.add(activeTestClient())
	recordID := records.add(&domain.PhysicalTracking{
		ClientID:   clientID,
		ContractID: primitive.NewObjectID(),
		Date:       time.Now(),
		Photos: []domain.ProgressPhoto{
			{ID: primitive.NewObjectID(), ObjectKey: "progress/a/1.jpg"},
			{ID: primitive.NewObjectID(), ObjectKey: "progress/a/2.jpg"},
		},
	})

	if err := svc.Delete(context.Background(), recordID.Hex()); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if len(files.deleted) != 2 {
		t.Fatalf("expected both photo objects deleted, got %v", files.deleted)
	}
}

func TestPhotoViews(t *testing.T) {
	records, clients, _, svc := newTrackingFixture()
	clientID := clients.add(activeTestClient())
	recordID := records.add(&domain.PhysicalTracking{
		ClientID:   clientID,
		ContractID: primitive.NewObjectID(),
		Date:       time.Now(),
		Photos: []domain.ProgressPhoto{
			{ID: primitive.NewObjectID(), ObjectKey: "progress/a/1.jpg"},
		},
	})

	views, err := svc.PhotoViews(context.Background(), recordID.Hex())
	if err != nil {
		t.Fatalf("PhotoViews() unexpected error: %v", err)
	}
	if len(views) != 1 || !strings.Contains(views[0].DownloadURL, "progress/a/1.jpg") {
		t.Fatalf("expected a presigned download URL per photo, got %#v", views)
	}
}
