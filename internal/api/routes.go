package api

import (
	"coachsync/internal/domain"
	"coachsync/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	linkService service.LinkService,
	planService service.PlanService,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(linkService, planService)
	planHandler := NewPlanHandler(planService, linkService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Coach Routes ---
		// Authenticated AND role 'coach'.
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			// POST /api/v1/coach/clients/{clientId}/sheet
			coachGroup.POST("/clients/:clientId/sheet", coachHandler.LinkSheet)
			// POST /api/v1/coach/clients/{clientId}/sheet/sync
			coachGroup.POST("/clients/:clientId/sheet/sync", coachHandler.ResyncSheet)
			// GET /api/v1/coach/clients/{clientId}/plan
			coachGroup.GET("/clients/:clientId/plan", coachHandler.GetClientPlan)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			// GET /api/v1/client/plan
			clientGroup.GET("/plan", planHandler.GetMyPlan)
			// POST /api/v1/client/plan/sync
			clientGroup.POST("/plan/sync", planHandler.ResyncMyPlan)
		}
	}
}
