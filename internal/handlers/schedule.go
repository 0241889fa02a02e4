package handlers

import (
	"errors"
	"net/http"

	"hvac_control/internal/service"

	"github.com/gin-gonic/gin"
)

// scheduleUpdateRequest is a partial schedule edit. Absent fields keep
// their stored value.
type scheduleUpdateRequest struct {
	Enabled   *bool   `json:"enabled"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

func (h *Handler) getSchedule(c *gin.Context) {
	sched, err := h.services.Schedule.Get(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load schedule", "schedule_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, sched)
}

func (h *Handler) updateSchedule(c *gin.Context) {
	var req scheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	sched, err := h.services.Schedule.Update(c.Request.Context(), service.ScheduleUpdate{
		Enabled:   req.Enabled,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyUpdate) || errors.Is(err, service.ErrBadClock) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to update schedule", "schedule_update_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   statusAccepted,
		"schedule": sched,
	})
}
