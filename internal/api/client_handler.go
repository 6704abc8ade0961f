package api

import (
	"net/http"
	"strconv"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/repository"
	"rfortes/gym-studio/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs ---

type EmergencyContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

type CreateClientRequest struct {
	FirstName         string                  `json:"firstName" binding:"required"`
	LastName          string                  `json:"lastName" binding:"required"`
	Email             string                  `json:"email" binding:"required"`
	Phone             string                  `json:"phone" binding:"required"`
	BirthDate         time.Time               `json:"birthDate" binding:"required"`
	Gender            string                  `json:"gender" binding:"required"`
	EmergencyContact  EmergencyContactRequest `json:"emergencyContact" binding:"required"`
	MedicalConditions []string                `json:"medicalConditions"`
	Goals             []string                `json:"goals"`
}

func (r *CreateClientRequest) toDomain() *domain.Client {
	return &domain.Client{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		BirthDate: r.BirthDate,
		Gender:    r.Gender,
		EmergencyContact: domain.EmergencyContact{
			Name:  r.EmergencyContact.Name,
			Phone: r.EmergencyContact.Phone,
		},
		MedicalConditions: r.MedicalConditions,
		Goals:             r.Goals,
	}
}

// --- Handler Methods ---

// CreateClient godoc
// @Summary Register a new gym client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body CreateClientRequest true "Client details"
// @Success 201 {object} domain.Client
// @Failure 409 {object} gin.H "Email or phone already registered"
// @Failure 422 {object} gin.H "Validation failure"
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// ListClients godoc
// @Summary List clients, optionally filtered by status or a name/email search
// @Tags Clients
// @Produce json
// @Param status query string false "Filter by status (active, inactive, suspended)"
// @Param search query string false "Substring match on name or email"
// @Success 200 {array} domain.Client
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	opts := repository.ClientListOptions{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if limit, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil {
		opts.Limit = limit
	}
	if skip, err := strconv.ParseInt(c.Query("skip"), 10, 64); err == nil {
		opts.Skip = skip
	}

	clients, err := h.clientService.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.GetByID(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// GetClientWithContracts returns the client together with its contract
// history, newest first.
func (h *ClientHandler) GetClientWithContracts(c *gin.Context) {
	result, err := h.clientService.GetWithContracts(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), c.Param("clientId"), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient godoc
// @Summary Delete a client and cancel their non-active contracts
// @Tags Clients
// @Produce json
// @Param clientId path string true "Client ObjectID Hex"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 409 {object} gin.H "Client still has active contracts"
// @Router /clients/{clientId} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientService.Delete(c.Request.Context(), c.Param("clientId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) DeactivateClient(c *gin.Context) {
	client, err := h.clientService.Deactivate(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) ReactivateClient(c *gin.Context) {
	client, err := h.clientService.Reactivate(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) ClientStats(c *gin.Context) {
	stats, err := h.clientService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
