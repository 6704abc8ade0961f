package api

import (
	"net/http"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrackingHandler struct {
	trackingService service.TrackingService
}

func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// --- DTOs ---

type CreateTrackingRequest struct {
	ClientID     string             `json:"clientId" binding:"required"`
	ContractID   string             `json:"contractId" binding:"required"`
	Date         time.Time          `json:"date"`
	Weight       *float64           `json:"weight"`
	BodyFat      *float64           `json:"bodyFat"`
	MuscleMass   *float64           `json:"muscleMass"`
	Measurements map[string]float64 `json:"measurements"`
	Notes        string             `json:"notes"`
}

func (r *CreateTrackingRequest) toDomain() (*domain.PhysicalTracking, error) {
	clientID, err := primitive.ObjectIDFromHex(r.ClientID)
	if err != nil {
		return nil, err
	}
	contractID, err := primitive.ObjectIDFromHex(r.ContractID)
	if err != nil {
		return nil, err
	}
	return &domain.PhysicalTracking{
		ClientID:     clientID,
		ContractID:   contractID,
		Date:         r.Date,
		Weight:       r.Weight,
		BodyFat:      r.BodyFat,
		MuscleMass:   r.MuscleMass,
		Measurements: r.Measurements,
		Notes:        r.Notes,
	}, nil
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
	Description string `json:"description"`
}

// --- Handler Methods ---

func (h *TrackingHandler) CreateTracking(c *gin.Context) {
	var req CreateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	candidate, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client or contract ID format")
		return
	}

	record, err := h.trackingService.Create(c.Request.Context(), candidate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *TrackingHandler) GetTracking(c *gin.Context) {
	record, err := h.trackingService.GetByID(c.Request.Context(), c.Param("recordId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *TrackingHandler) GetTrackingByClient(c *gin.Context) {
	records, err := h.trackingService.GetByClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []domain.PhysicalTracking{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *TrackingHandler) UpdateTracking(c *gin.Context) {
	var req CreateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	candidate, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client or contract ID format")
		return
	}

	record, err := h.trackingService.Update(c.Request.Context(), c.Param("recordId"), candidate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *TrackingHandler) DeleteTracking(c *gin.Context) {
	if err := h.trackingService.Delete(c.Request.Context(), c.Param("recordId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// InitiatePhotoUpload godoc
// @Summary Start a progress photo upload
// @Description Registers photo metadata and returns a presigned PUT URL.
// @Tags Tracking
// @Accept json
// @Produce json
// @Param recordId path string true "Tracking record ObjectID Hex"
// @Param upload body PhotoUploadRequest true "Content type and optional description"
// @Success 201 {object} service.PhotoUpload
// @Failure 404 {object} gin.H "Record not found"
// @Failure 422 {object} gin.H "Unsupported content type"
// @Router /tracking/{recordId}/photos [post]
func (h *TrackingHandler) InitiatePhotoUpload(c *gin.Context) {
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	upload, err := h.trackingService.InitiatePhotoUpload(c.Request.Context(), c.Param("recordId"), req.ContentType, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// ListPhotos returns the record's photos with presigned download URLs.
func (h *TrackingHandler) ListPhotos(c *gin.Context) {
	views, err := h.trackingService.PhotoViews(c.Request.Context(), c.Param("recordId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if views == nil {
		views = []service.PhotoView{}
	}
	c.JSON(http.StatusOK, views)
}
