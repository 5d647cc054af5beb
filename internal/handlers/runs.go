package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gridsim/internal/repository"
	"gridsim/internal/service"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errRunNotFound = "run not found"
	errListRuns    = "failed to load runs"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List simulation runs
// @Description  Filter runs by start date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and/or system id. If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         runs
// @Produce      json
// @Param        from       query   string  false  "Start of range"  example(2026-08-01)
// @Param        to         query   string  false  "End of range, date-only treated as end of day"  example(2026-08-31)
// @Param        system_id  query   string  false  "Owning system id"
// @Success      200   {object}  map[string]interface{}  "count, runs"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/runs [get]
// @Security     BearerAuth
func (h *Handler) listRuns(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		// Date-only "to" means end of that day inclusive.
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	runs, err := h.services.RunLog.List(ctx, service.RunFilter{
		From:     from,
		To:       to,
		SystemID: c.Query("system_id"),
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListRuns, "runs_list_failed", err, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// @Summary      Latest simulation run
// @Tags         runs
// @Produce      json
// @Success      200  {object}  models.SimulationRun
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/runs/latest [get]
// @Security     BearerAuth
func (h *Handler) latestRun(c *gin.Context) {
	run, err := h.services.RunLog.Latest(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errRunNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListRuns, "runs_latest_failed", err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary      Get simulation run
// @Description  Returns the run summary with all 24 hourly result records
// @Tags         runs
// @Produce      json
// @Param        id   path      string  true  "Run id"
// @Success      200  {object}  models.SimulationRun
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/runs/{id} [get]
// @Security     BearerAuth
func (h *Handler) getRun(c *gin.Context) {
	run, err := h.services.RunLog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errRunNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListRuns, "runs_get_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, run)
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
