package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gridsim/internal/models"
	"gridsim/internal/repository"
	"gridsim/internal/service"
)

// Common response/status messages to avoid magic strings and typos.
const (
	errCreateSystem    = "failed to create system"
	errListSystems     = "failed to list systems"
	errUpdateSystem    = "failed to update system"
	errDeleteSystem    = "failed to delete system"
	errSimulate        = "simulation failed"
	errSystemNotFound  = "system not found"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for creating/updating a system.
type systemRequest struct {
	Name       string                  `json:"name" binding:"required"`
	Definition models.SystemDefinition `json:"definition" binding:"required"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// @Summary      Create grid system
// @Description  Stores a named system definition: buses, generators, lines and 24 hourly load factors
// @Tags         systems
// @Accept       json
// @Produce      json
// @Param        body  body   systemRequest  true  "System payload"
// @Success      201   {object}  models.GridSystem
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/systems [post]
// @Security     BearerAuth
func (h *Handler) createSystem(c *gin.Context) {
	var req systemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	sys, err := h.services.Catalog.Create(c.Request.Context(), req.Name, req.Definition)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateSystem, "system_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, sys)
}

// @Summary      List grid systems
// @Tags         systems
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, systems"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/systems [get]
// @Security     BearerAuth
func (h *Handler) listSystems(c *gin.Context) {
	systems, err := h.services.Catalog.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListSystems, "system_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(systems),
		"systems": systems,
	})
}

// @Summary      Get grid system
// @Tags         systems
// @Produce      json
// @Param        id   path      string  true  "System id"
// @Success      200  {object}  models.GridSystem
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/systems/{id} [get]
// @Security     BearerAuth
func (h *Handler) getSystem(c *gin.Context) {
	sys, err := h.services.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errSystemNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListSystems, "system_get_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, sys)
}

// @Summary      Update grid system
// @Description  Replaces the stored definition; the background scheduler re-simulates edited systems
// @Tags         systems
// @Accept       json
// @Produce      json
// @Param        id    path   string         true  "System id"
// @Param        body  body   systemRequest  true  "System payload"
// @Success      200   {object}  models.GridSystem
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/systems/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateSystem(c *gin.Context) {
	var req systemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	sys, err := h.services.Catalog.Update(c.Request.Context(), c.Param("id"), req.Name, req.Definition)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errSystemNotFound})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errUpdateSystem, "system_update_failed", err, "id", c.Param("id"))
		}
		return
	}
	c.JSON(http.StatusOK, sys)
}

// @Summary      Delete grid system
// @Tags         systems
// @Produce      json
// @Param        id   path      string  true  "System id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/systems/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteSystem(c *gin.Context) {
	if err := h.services.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errSystemNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteSystem, "system_delete_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary      Simulate grid system
// @Description  Runs the 24-hour commitment/dispatch/power-flow simulation and records the run
// @Tags         systems
// @Produce      json
// @Param        id   path      string  true  "System id"
// @Success      200  {object}  models.SimulationRun
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/systems/{id}/simulate [post]
// @Security     BearerAuth
func (h *Handler) simulateSystem(c *gin.Context) {
	run, err := h.services.Planner.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errSystemNotFound})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errSimulate, "simulate_failed", err, "id", c.Param("id"))
		}
		return
	}
	c.JSON(http.StatusOK, run)
}

// isValidationError reports whether err is one of the catalog's input
// validation errors, mapped to 400 rather than 500.
func isValidationError(err error) bool {
	for _, target := range []error{
		service.ErrNoBuses,
		service.ErrDuplicateBus,
		service.ErrUnknownBusRef,
		service.ErrBadLoadFactors,
		service.ErrBadGeneratorSpan,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
