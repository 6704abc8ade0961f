package api

import (
	"net/http"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NutritionHandler struct {
	nutritionService service.NutritionPlanService
}

func NewNutritionHandler(nutritionService service.NutritionPlanService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

// --- DTOs ---

type FoodRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
}

type MealRequest struct {
	Name  string        `json:"name" binding:"required"`
	Time  string        `json:"time"`
	Foods []FoodRequest `json:"foods" binding:"required,min=1"`
}

type CreateNutritionPlanRequest struct {
	ClientID      string         `json:"clientId" binding:"required"`
	ContractID    string         `json:"contractId" binding:"required"`
	Name          string         `json:"name" binding:"required"`
	Description   string         `json:"description"`
	DailyCalories float64        `json:"dailyCalories" binding:"required"`
	Macros        *domain.Macros `json:"macros"`
	Meals         []MealRequest  `json:"meals"`
	Restrictions  []string       `json:"restrictions"`
}

func (r *CreateNutritionPlanRequest) toDomain() (*domain.NutritionPlan, error) {
	clientID, err := primitive.ObjectIDFromHex(r.ClientID)
	if err != nil {
		return nil, err
	}
	contractID, err := primitive.ObjectIDFromHex(r.ContractID)
	if err != nil {
		return nil, err
	}

	meals := make([]domain.Meal, 0, len(r.Meals))
	for _, m := range r.Meals {
		foods := make([]domain.Food, 0, len(m.Foods))
		for _, f := range m.Foods {
			foods = append(foods, domain.Food{Name: f.Name, Quantity: f.Quantity, Calories: f.Calories})
		}
		meals = append(meals, domain.Meal{
			ID:            primitive.NewObjectID(),
			Name:          m.Name,
			Time:          m.Time,
			Foods:         foods,
			TotalCalories: domain.MealCalories(foods),
		})
	}

	return &domain.NutritionPlan{
		ClientID:      clientID,
		ContractID:    contractID,
		Name:          r.Name,
		Description:   r.Description,
		DailyCalories: r.DailyCalories,
		Macros:        r.Macros,
		Meals:         meals,
		Restrictions:  r.Restrictions,
		IsActive:      true,
	}, nil
}

// --- Handler Methods ---

func (h *NutritionHandler) CreateNutritionPlan(c *gin.Context) {
	var req CreateNutritionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	candidate, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client or contract ID format")
		return
	}

	plan, err := h.nutritionService.Create(c.Request.Context(), candidate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *NutritionHandler) GetNutritionPlan(c *gin.Context) {
	plan, err := h.nutritionService.GetByID(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *NutritionHandler) GetNutritionPlansByClient(c *gin.Context) {
	plans, err := h.nutritionService.GetByClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if plans == nil {
		plans = []domain.NutritionPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

func (h *NutritionHandler) UpdateNutritionPlan(c *gin.Context) {
	var req CreateNutritionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	candidate, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client or contract ID format")
		return
	}

	plan, err := h.nutritionService.Update(c.Request.Context(), c.Param("planId"), candidate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *NutritionHandler) DeleteNutritionPlan(c *gin.Context) {
	if err := h.nutritionService.Delete(c.Request.Context(), c.Param("planId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
