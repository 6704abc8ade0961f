package api

import (
	"net/http"
	"strconv"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/service"

	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	contractService service.ContractService
}

func NewContractHandler(contractService service.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// --- DTOs ---

type AssignPlanRequest struct {
	ClientID  string    `json:"clientId" binding:"required"`
	PlanID    string    `json:"planId" binding:"required"`
	StartDate time.Time `json:"startDate"` // zero value means "today"
}

type RenewContractRequest struct {
	AdditionalWeeks int `json:"additionalWeeks" binding:"required,min=1"`
}

type CancelContractRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// --- Handler Methods ---

// AssignPlan godoc
// @Summary Assign a training plan to a client, creating an active contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param assignment body AssignPlanRequest true "Client, plan and optional start date"
// @Success 201 {object} domain.Contract
// @Failure 404 {object} gin.H "Client or plan not found"
// @Failure 409 {object} gin.H "Inactive client/plan or duplicate active contract"
// @Router /contracts [post]
func (h *ContractHandler) AssignPlan(c *gin.Context) {
	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	contract, err := h.contractService.AssignPlan(c.Request.Context(), req.ClientID, req.PlanID, req.StartDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

// RenewContract godoc
// @Summary Extend a contract and force it back to active
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contractId path string true "Contract ObjectID Hex"
// @Param renewal body RenewContractRequest true "Weeks to add"
// @Success 200 {object} domain.Contract
// @Failure 409 {object} gin.H "Contract is cancelled"
// @Router /contracts/{contractId}/renew [post]
func (h *ContractHandler) RenewContract(c *gin.Context) {
	var req RenewContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	contract, err := h.contractService.Renew(c.Request.Context(), c.Param("contractId"), req.AdditionalWeeks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// CancelContract godoc
// @Summary Cancel an active contract with a reason
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contractId path string true "Contract ObjectID Hex"
// @Param cancellation body CancelContractRequest true "Cancellation reason"
// @Success 200 {object} domain.Contract
// @Failure 409 {object} gin.H "Contract is not active"
// @Router /contracts/{contractId}/cancel [post]
func (h *ContractHandler) CancelContract(c *gin.Context) {
	var req CancelContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	contract, err := h.contractService.Cancel(c.Request.Context(), c.Param("contractId"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// CompleteContract godoc
// @Summary Mark an active contract as completed
// @Tags Contracts
// @Produce json
// @Param contractId path string true "Contract ObjectID Hex"
// @Success 200 {object} domain.Contract
// @Failure 409 {object} gin.H "Contract is not active"
// @Router /contracts/{contractId}/complete [post]
func (h *ContractHandler) CompleteContract(c *gin.Context) {
	contract, err := h.contractService.Complete(c.Request.Context(), c.Param("contractId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) GetContract(c *gin.Context) {
	contract, err := h.contractService.GetByID(c.Request.Context(), c.Param("contractId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// GetContractDetails returns the contract joined with its client and plan.
func (h *ContractHandler) GetContractDetails(c *gin.Context) {
	details, err := h.contractService.GetWithDetails(c.Request.Context(), c.Param("contractId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *ContractHandler) GetContractsByClient(c *gin.Context) {
	contracts, err := h.contractService.GetByClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *ContractHandler) GetContractsByPlan(c *gin.Context) {
	contracts, err := h.contractService.GetByPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *ContractHandler) ActiveContracts(c *gin.Context) {
	contracts, err := h.contractService.ActiveContracts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	c.JSON(http.StatusOK, contracts)
}

// ExpiringContracts lists active contracts whose end date falls inside
// the warning window.
func (h *ContractHandler) ExpiringContracts(c *gin.Context) {
	window := service.ExpiryWarningWindow
	if raw := c.Query("withinDays"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			abortWithError(c, http.StatusBadRequest, "withinDays must be a positive integer")
			return
		}
		window = time.Duration(days) * 24 * time.Hour
	}

	contracts, err := h.contractService.ExpiringContracts(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *ContractHandler) ExpiredContracts(c *gin.Context) {
	contracts, err := h.contractService.ExpiredContracts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	c.JSON(http.StatusOK, contracts)
}
