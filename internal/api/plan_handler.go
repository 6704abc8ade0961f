package api

import (
	"net/http"
	"strconv"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/repository"
	"rfortes/gym-studio/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService service.TrainingPlanService
}

func NewPlanHandler(planService service.TrainingPlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type PlanExerciseRequest struct {
	Name         string   `json:"name" binding:"required"`
	Sets         int      `json:"sets" binding:"required,min=1"`
	Reps         int      `json:"reps" binding:"required,min=1"`
	Weight       *float64 `json:"weight"`
	RestSeconds  int      `json:"restSeconds"`
	Instructions string   `json:"instructions"`
}

type CreatePlanRequest struct {
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description" binding:"required"`
	DurationWeeks int                   `json:"duration" binding:"required,min=1,max=52"`
	Level         domain.PlanLevel      `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	Goals         []string              `json:"goals"`
	Exercises     []PlanExerciseRequest `json:"exercises"`
	Price         float64               `json:"price" binding:"required,gt=0"`
}

func (r *CreatePlanRequest) toDomain() *domain.TrainingPlan {
	exercises := make([]domain.PlanExercise, 0, len(r.Exercises))
	for _, e := range r.Exercises {
		rest := e.RestSeconds
		if rest == 0 {
			rest = domain.DefaultRestSeconds
		}
		exercises = append(exercises, domain.PlanExercise{
			ID:           primitive.NewObjectID(),
			Name:         e.Name,
			Sets:         e.Sets,
			Reps:         e.Reps,
			Weight:       e.Weight,
			RestSeconds:  rest,
			Instructions: e.Instructions,
		})
	}
	return &domain.TrainingPlan{
		Name:          r.Name,
		Description:   r.Description,
		DurationWeeks: r.DurationWeeks,
		Level:         r.Level,
		Goals:         r.Goals,
		Exercises:     exercises,
		Price:         r.Price,
	}
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Add a training plan to the catalogue
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} domain.TrainingPlan
// @Failure 422 {object} gin.H "Validation failure"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	opts := repository.PlanListOptions{
		Level:  c.Query("level"),
		Search: c.Query("search"),
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		opts.Active = &active
	}
	if min, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		opts.MinPrice = &min
	}
	if max, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		opts.MaxPrice = &max
	}
	if limit, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil {
		opts.Limit = limit
	}
	if skip, err := strconv.ParseInt(c.Query("skip"), 10, 64); err == nil {
		opts.Skip = skip
	}

	plans, err := h.planService.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.GetByID(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetPlanWithClients returns the plan together with its contracts and
// the clients signed to them.
func (h *PlanHandler) GetPlanWithClients(c *gin.Context) {
	result, err := h.planService.GetWithClients(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), c.Param("planId"), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan godoc
// @Summary Remove a plan and cancel its non-active contracts
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ObjectID Hex"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 409 {object} gin.H "Plan still has active contracts"
// @Router /plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.planService.Delete(c.Request.Context(), c.Param("planId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	plan, err := h.planService.Deactivate(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) ReactivatePlan(c *gin.Context) {
	plan, err := h.planService.Reactivate(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) PlanStats(c *gin.Context) {
	stats, err := h.planService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
