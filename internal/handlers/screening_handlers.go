package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cwhuang/valuescan/internal/models"
	"github.com/cwhuang/valuescan/internal/repository"
	"github.com/cwhuang/valuescan/internal/services"
)

// ScreeningRunner is the slice of ScanService the handlers need.
type ScreeningRunner interface {
	RunScreen(ctx context.Context, req *models.ScreenRequest) (*models.RunPayload, error)
	LatestRun(ctx context.Context, tag string) (*models.RunPayload, error)
	ListRuns(ctx context.Context, limit int) ([]repository.RunInfo, error)
}

// ScreeningHandler handles screening endpoints
type ScreeningHandler struct {
	scanSvc ScreeningRunner
}

// NewScreeningHandler creates a new ScreeningHandler
func NewScreeningHandler(scanSvc ScreeningRunner) *ScreeningHandler {
	return &ScreeningHandler{scanSvc: scanSvc}
}

// Screen handles POST /api/screen
// @Summary Run a screening pass over a ticker list or named universe
// @Description Fetches metrics (through the local cache), screens with the dual-track or legacy absolute pipeline, persists the run, and returns it
// @Tags screening
// @Accept json
// @Produce json
// @Param request body models.ScreenRequest true "Screening parameters"
// @Success 200 {object} models.RunPayload
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/screen [post]
func (h *ScreeningHandler) Screen(c *gin.Context) {
	var req models.ScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	payload, err := h.scanSvc.RunScreen(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUnknownUniverse) ||
			errors.Is(err, services.ErrUnknownMode) ||
			errors.Is(err, services.ErrEmptyUniverse) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, payload)
}

// Latest handles GET /api/screening/latest
// @Summary Get the most recent screening run for a tag
// @Tags screening
// @Produce json
// @Param tag query string false "Run tag" default(layer1_dual)
// @Success 200 {object} models.RunPayload
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/screening/latest [get]
func (h *ScreeningHandler) Latest(c *gin.Context) {
	tag := c.DefaultQuery("tag", services.TagDualTrack)

	payload, err := h.scanSvc.LatestRun(c.Request.Context(), tag)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	if payload == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "no screening run found for tag " + tag,
		})
		return
	}

	c.JSON(http.StatusOK, payload)
}

// ListRuns handles GET /api/screening/runs
// @Summary List recent screening runs
// @Tags screening
// @Produce json
// @Param limit query int false "Maximum runs to return" default(20)
// @Success 200 {array} repository.RunInfo
// @Failure 500 {object} models.ErrorResponse
// @Router /api/screening/runs [get]
func (h *ScreeningHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	runs, err := h.scanSvc.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, runs)
}
