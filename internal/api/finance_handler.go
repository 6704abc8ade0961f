package api

import (
	"net/http"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/repository"
	"rfortes/gym-studio/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FinanceHandler struct {
	financeService service.FinanceService
}

func NewFinanceHandler(financeService service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// --- DTOs ---

type CreateFinancialRecordRequest struct {
	Type          domain.RecordType    `json:"type" binding:"required,oneof=income expense"`
	Category      string               `json:"category" binding:"required"`
	Amount        float64              `json:"amount" binding:"required,gt=0"`
	Description   string               `json:"description"`
	Date          time.Time            `json:"date"`
	ClientID      string               `json:"clientId"`
	ContractID    string               `json:"contractId"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=cash card transfer"`
	Reference     string               `json:"reference"`
}

func (r *CreateFinancialRecordRequest) toDomain() (*domain.FinancialRecord, error) {
	record := &domain.FinancialRecord{
		Type:          r.Type,
		Category:      r.Category,
		Amount:        r.Amount,
		Description:   r.Description,
		Date:          r.Date,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
	}
	if r.ClientID != "" {
		oid, err := primitive.ObjectIDFromHex(r.ClientID)
		if err != nil {
			return nil, err
		}
		record.ClientID = &oid
	}
	if r.ContractID != "" {
		oid, err := primitive.ObjectIDFromHex(r.ContractID)
		if err != nil {
			return nil, err
		}
		record.ContractID = &oid
	}
	return record, nil
}

func financialFilterFromQuery(c *gin.Context) (repository.FinancialFilter, bool) {
	filter := repository.FinancialFilter{Type: c.Query("type")}

	if raw := c.Query("clientId"); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return filter, false
		}
		filter.ClientID = &oid
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, false
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, false
		}
		filter.To = &to
	}
	return filter, true
}

// --- Handler Methods ---

func (h *FinanceHandler) CreateRecord(c *gin.Context) {
	var req CreateFinancialRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	candidate, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client or contract ID format")
		return
	}

	record, err := h.financeService.Record(c.Request.Context(), candidate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *FinanceHandler) GetRecord(c *gin.Context) {
	record, err := h.financeService.GetByID(c.Request.Context(), c.Param("recordId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *FinanceHandler) ListRecords(c *gin.Context) {
	filter, ok := financialFilterFromQuery(c)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid filter parameters")
		return
	}

	records, err := h.financeService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []domain.FinancialRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// Summary returns the aggregate income, expense and balance for the
// filtered period.
func (h *FinanceHandler) Summary(c *gin.Context) {
	filter, ok := financialFilterFromQuery(c)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid filter parameters")
		return
	}

	summary, err := h.financeService.Summary(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
