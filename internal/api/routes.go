package api

import (
	"net/http"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/service"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every API handler for route registration.
type Handlers struct {
	Auth      *AuthHandler
	Clients   *ClientHandler
	Plans     *PlanHandler
	Contracts *ContractHandler
	Nutrition *NutritionHandler
	Tracking  *TrackingHandler
	Finance   *FinanceHandler
}

// NewHandlers builds the handler set from the service layer.
func NewHandlers(
	authService service.AuthService,
	clientService service.ClientService,
	planService service.TrainingPlanService,
	contractService service.ContractService,
	nutritionService service.NutritionPlanService,
	trackingService service.TrackingService,
	financeService service.FinanceService,
) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(authService),
		Clients:   NewClientHandler(clientService),
		Plans:     NewPlanHandler(planService),
		Contracts: NewContractHandler(contractService),
		Nutrition: NewNutritionHandler(nutritionService),
		Tracking:  NewTrackingHandler(trackingService),
		Finance:   NewFinanceHandler(financeService),
	}
}

// SetupRoutes registers the full HTTP surface. Everything except
// /ping and /auth/* sits behind JWT auth; financial reads and the
// destructive catalogue operations additionally require the admin role.
func SetupRoutes(router *gin.Engine, jwtSecret string, h *Handlers) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
		})

		adminOnly := RoleMiddleware(domain.RoleAdmin)

		clients := protected.Group("/clients")
		{
			clients.POST("", h.Clients.CreateClient)
			clients.GET("", h.Clients.ListClients)
			clients.GET("/stats", h.Clients.ClientStats)
			clients.GET("/:clientId", h.Clients.GetClient)
			clients.GET("/:clientId/contracts", h.Contracts.GetContractsByClient)
			clients.GET("/:clientId/full", h.Clients.GetClientWithContracts)
			clients.GET("/:clientId/nutrition", h.Nutrition.GetNutritionPlansByClient)
			clients.GET("/:clientId/tracking", h.Tracking.GetTrackingByClient)
			clients.PUT("/:clientId", h.Clients.UpdateClient)
			clients.POST("/:clientId/deactivate", h.Clients.DeactivateClient)
			clients.POST("/:clientId/reactivate", h.Clients.ReactivateClient)
			clients.DELETE("/:clientId", adminOnly, h.Clients.DeleteClient)
		}

		plans := protected.Group("/plans")
		{
			plans.GET("", h.Plans.ListPlans)
			plans.GET("/stats", h.Plans.PlanStats)
			plans.GET("/:planId", h.Plans.GetPlan)
			plans.GET("/:planId/contracts", h.Contracts.GetContractsByPlan)
			plans.GET("/:planId/full", h.Plans.GetPlanWithClients)
			plans.POST("", adminOnly, h.Plans.CreatePlan)
			plans.PUT("/:planId", adminOnly, h.Plans.UpdatePlan)
			plans.POST("/:planId/deactivate", adminOnly, h.Plans.DeactivatePlan)
			plans.POST("/:planId/reactivate", adminOnly, h.Plans.ReactivatePlan)
			plans.DELETE("/:planId", adminOnly, h.Plans.DeletePlan)
		}

		contracts := protected.Group("/contracts")
		{
			contracts.POST("", h.Contracts.AssignPlan)
			contracts.GET("/active", h.Contracts.ActiveContracts)
			contracts.GET("/expiring", h.Contracts.ExpiringContracts)
			contracts.GET("/expired", h.Contracts.ExpiredContracts)
			contracts.GET("/:contractId", h.Contracts.GetContract)
			contracts.GET("/:contractId/details", h.Contracts.GetContractDetails)
			contracts.POST("/:contractId/renew", h.Contracts.RenewContract)
			contracts.POST("/:contractId/cancel", h.Contracts.CancelContract)
			contracts.POST("/:contractId/complete", h.Contracts.CompleteContract)
		}

		nutrition := protected.Group("/nutrition")
		{
			nutrition.POST("", h.Nutrition.CreateNutritionPlan)
			nutrition.GET("/:planId", h.Nutrition.GetNutritionPlan)
			nutrition.PUT("/:planId", h.Nutrition.UpdateNutritionPlan)
			nutrition.DELETE("/:planId", h.Nutrition.DeleteNutritionPlan)
		}

		tracking := protected.Group("/tracking")
		{
			tracking.POST("", h.Tracking.CreateTracking)
			tracking.GET("/:recordId", h.Tracking.GetTracking)
			tracking.PUT("/:recordId", h.Tracking.UpdateTracking)
			tracking.DELETE("/:recordId", h.Tracking.DeleteTracking)
			tracking.POST("/:recordId/photos", h.Tracking.InitiatePhotoUpload)
			tracking.GET("/:recordId/photos", h.Tracking.ListPhotos)
		}

		finance := protected.Group("/finance")
		finance.Use(adminOnly)
		{
			finance.POST("/records", h.Finance.CreateRecord)
			finance.GET("/records", h.Finance.ListRecords)
			finance.GET("/records/:recordId", h.Finance.GetRecord)
			finance.GET("/summary", h.Finance.Summary)
		}
	}
}
