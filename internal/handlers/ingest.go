package handlers

import (
	"net/http"
	"time"

	"hvac_control/internal/models"

	"github.com/gin-gonic/gin"
)

// dataRequest is the hub's periodic push: room conditions plus the full
// settings snapshot.
type dataRequest struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	HVAC        hvacDTO `json:"hvac"`
}

// ingestData accepts the hub's state push. A malformed body is rejected
// whole; the hub will simply push again on its next cadence.
func (h *Handler) ingestData(c *gin.Context) {
	var req dataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	room := models.RoomConditions{Temperature: req.Temperature, Humidity: req.Humidity}
	if err := h.services.Control.Ingest(c.Request.Context(), room, req.HVAC.settings()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to store data", "ingest_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// getCommand is the hub's settings poll. The payload always declares
// its provenance; the hub acts only on remote-originated state, so
// serving back a panel-tagged snapshot is harmless.
func (h *Handler) getCommand(c *gin.Context) {
	settings, source, ok := h.services.Control.Command(c.Request.Context())
	if !ok {
		// Nothing written yet from either side.
		c.JSON(http.StatusOK, gin.H{"source": ""})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source":    source.String(),
		"power":     settings.Power,
		"set_temp":  settings.SetTemp,
		"mode":      settings.Mode,
		"fan_speed": settings.FanSpeed,
		"timer":     settings.Timer,
		"swing":     settings.Swing,
	})
}

// getScheduleStatus evaluates the schedule at server time for the
// hub's poll.
func (h *Handler) getScheduleStatus(c *gin.Context) {
	st, err := h.services.Schedule.Status(c.Request.Context(), time.Now())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to evaluate schedule", "schedule_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
