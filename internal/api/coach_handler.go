// internal/api/coach_handler.go
package api

import (
	"coachsync/internal/gsheets"
	"coachsync/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CoachHandler struct {
	linkService service.LinkService
	planService service.PlanService
}

func NewCoachHandler(linkService service.LinkService, planService service.PlanService) *CoachHandler {
	return &CoachHandler{
		linkService: linkService,
		planService: planService,
	}
}

// --- DTOs ---

type LinkSheetRequest struct {
	DocumentURL string `json:"documentUrl" binding:"required,url"`
}

type LinkSheetResponse struct {
	Success       bool     `json:"success"`
	SpreadsheetID string   `json:"spreadsheetId"`
	SheetURL      string   `json:"sheetUrl"`
	ExerciseCount int      `json:"exerciseCount"`
	MuscleGroups  []string `json:"muscleGroups"`
}

// --- Handler Methods ---

// LinkSheet godoc
// @Summary Link a client to a workout spreadsheet
// @Description Associates the client with the given shareable spreadsheet URL, parses it, and caches the plan.
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param linkRequest body LinkSheetRequest true "Shareable spreadsheet URL"
// @Success 200 {object} LinkSheetResponse "Sheet linked and parsed"
// @Failure 400 {object} gin.H "Invalid input or document URL"
// @Failure 404 {object} gin.H "Coach or client not found"
// @Failure 422 {object} gin.H "Document reached but no usable exercises"
// @Failure 502 {object} gin.H "Document unreachable or not shared"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /coach/clients/{clientId}/sheet [post]
func (h *CoachHandler) LinkSheet(c *gin.Context) {
	var req LinkSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, ok := objectIDFromToken(c)
	if !ok {
		return
	}
	clientID, ok := objectIDFromParam(c, "clientId")
	if !ok {
		return
	}

	result, err := h.linkService.LinkClientToDocument(c.Request.Context(), coachID, clientID, req.DocumentURL)
	if err != nil {
		mapSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, LinkSheetResponse{
		Success:       true,
		SpreadsheetID: result.SpreadsheetID,
		SheetURL:      gsheets.SpreadsheetURL(result.SpreadsheetID),
		ExerciseCount: result.ExerciseCount,
		MuscleGroups:  result.MuscleGroups,
	})
}

// ResyncSheet godoc
// @Summary Re-sync a client's linked spreadsheet
// @Description Forces a fresh fetch and parse of the linked spreadsheet, refreshing the cached plan.
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} service.PlanResult "Refreshed plan"
// @Failure 404 {object} gin.H "Client has no linked spreadsheet"
// @Failure 502 {object} gin.H "Document unreachable or not shared"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /coach/clients/{clientId}/sheet/sync [post]
func (h *CoachHandler) ResyncSheet(c *gin.Context) {
	clientID, ok := objectIDFromParam(c, "clientId")
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

// GetClientPlan godoc
// @Summary Get a client's current plan
// @Description Returns the cached plan for the client, filling the cache from the spreadsheet when absent.
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} service.PlanResult "Current plan (may be unlinked or unavailable)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /coach/clients/{clientId}/plan [get]
func (h *CoachHandler) GetClientPlan(c *gin.Context) {
	clientID, ok := objectIDFromParam(c, "clientId")
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

// --- Helpers ---

// objectIDFromToken resolves the authenticated caller's id. Aborts the
// request itself on failure.
func objectIDFromToken(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// objectIDFromParam parses a path parameter as an ObjectID. Aborts the
// request itself on failure.
func objectIDFromParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// mapSyncError translates sync pipeline errors into HTTP responses with
// human-actionable messages. Coaches are told to fix sharing or layout;
// nothing upstream-specific leaks through.
func mapSyncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDocumentURL):
		abortWithError(c, http.StatusBadRequest, "The document URL is not a shareable spreadsheet link.")
	case errors.Is(err, service.ErrUnknownCoach), errors.Is(err, service.ErrClientNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotLinked):
		abortWithError(c, http.StatusNotFound, "No spreadsheet is linked for this client.")
	case errors.Is(err, gsheets.ErrAccessDenied):
		abortWithError(c, http.StatusBadGateway, "The spreadsheet is not shared with the service account. Share the document with the service account email and try again.")
	case errors.Is(err, gsheets.ErrTabNotFound):
		abortWithError(c, http.StatusBadGateway, "The expected tab was not found in the spreadsheet. Check the tab name.")
	case errors.Is(err, service.ErrDocumentUnavailable):
		abortWithError(c, http.StatusBadGateway, "The spreadsheet could not be reached. Check the link and sharing settings.")
	case errors.Is(err, gsheets.ErrUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, "The spreadsheet service is temporarily unavailable. Please try again.")
	case errors.Is(err, service.ErrEmptyDocument):
		abortWithError(c, http.StatusUnprocessableEntity, "The spreadsheet tab is empty.")
	case errors.Is(err, service.ErrNoExercisesFound):
		abortWithError(c, http.StatusUnprocessableEntity, "No exercises were found in the spreadsheet. Check your column layout.")
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to sync the spreadsheet.")
	}
}
