// internal/api/plan_handler.go
package api

import (
	"coachsync/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves the authenticated client's own plan.
type PlanHandler struct {
	planService service.PlanService
	linkService service.LinkService
}

func NewPlanHandler(planService service.PlanService, linkService service.LinkService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		linkService: linkService,
	}
}

// GetMyPlan godoc
// @Summary Get my current workout plan
// @Description Returns the caller's plan from the cache, filling it from the linked spreadsheet when absent.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.PlanResult "Current plan (personalized=false when nothing is linked)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/plan [get]
func (h *PlanHandler) GetMyPlan(c *gin.Context) {
	clientID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	result, err := h.planService.GetPlan(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plan.")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ResyncMyPlan godoc
// @Summary Refresh my plan from the spreadsheet
// @Description Forces a fresh fetch and parse of the caller's linked spreadsheet.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.PlanResult "Refreshed plan"
// @Failure 404 {object} gin.H "No linked spreadsheet"
// @Failure 502 {object} gin.H "Document unreachable"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/plan/sync [post]
func (h *PlanHandler) ResyncMyPlan(c *gin.Context) {
	clientID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	result, err := h.linkService.Resync(c.Request.Context(), clientID)
	if err != nil {
		mapSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
