package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"hvac_control/internal/models"
	"hvac_control/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusAccepted = "accepted"

	errGetHistory      = "failed to load history"
	errGetLogs         = "failed to load logs"
	errUpdateHVAC      = "failed to update settings"
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

// hvacDTO is the snake_case wire shape of a settings snapshot. The
// serial link between panel and hub uses different field names; this is
// the only place both worlds meet.
type hvacDTO struct {
	Power    models.Toggle   `json:"power"`
	SetTemp  int             `json:"set_temp"`
	Mode     models.Mode     `json:"mode"`
	FanSpeed models.FanSpeed `json:"fan_speed"`
	Timer    int             `json:"timer"`
	Swing    models.Toggle   `json:"swing"`
}

func toHVACDTO(s models.Settings) hvacDTO {
	return hvacDTO{
		Power:    s.Power,
		SetTemp:  s.SetTemp,
		Mode:     s.Mode,
		FanSpeed: s.FanSpeed,
		Timer:    s.Timer,
		Swing:    s.Swing,
	}
}

func (d hvacDTO) settings() models.Settings {
	return models.Settings{
		Power:    d.Power,
		SetTemp:  d.SetTemp,
		Mode:     d.Mode,
		FanSpeed: d.FanSpeed,
		Timer:    d.Timer,
		Swing:    d.Swing,
	}
}

// hvacPatchDTO is a partial settings edit. Absent fields stay nil and
// leave the stored value untouched.
type hvacPatchDTO struct {
	Power    *models.Toggle   `json:"power"`
	SetTemp  *int             `json:"set_temp"`
	Mode     *models.Mode     `json:"mode"`
	FanSpeed *models.FanSpeed `json:"fan_speed"`
	Timer    *int             `json:"timer"`
	Swing    *models.Toggle   `json:"swing"`
}

func (d hvacPatchDTO) patch() models.SettingsPatch {
	return models.SettingsPatch{
		Power:    d.Power,
		SetTemp:  d.SetTemp,
		Mode:     d.Mode,
		FanSpeed: d.FanSpeed,
		Timer:    d.Timer,
		Swing:    d.Swing,
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// getCurrent serves the combined telemetry and settings snapshot.
func (h *Handler) getCurrent(c *gin.Context) {
	cur := h.services.Control.Current(c.Request.Context())
	resp := gin.H{
		"known":       cur.Known,
		"temperature": cur.Room.Temperature,
		"humidity":    cur.Room.Humidity,
		"hvac":        toHVACDTO(cur.HVAC),
		"source":      cur.Source.String(),
	}
	if !cur.UpdatedAt.IsZero() {
		resp["updated_at"] = cur.UpdatedAt
	}
	c.JSON(http.StatusOK, resp)
}

// getHVAC serves just the settings and their provenance.
func (h *Handler) getHVAC(c *gin.Context) {
	cur := h.services.Control.Current(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"hvac":   toHVACDTO(cur.HVAC),
		"source": cur.Source.String(),
		"known":  cur.Known,
	})
}

// updateHVAC accepts a partial edit from an authenticated web client.
// Validation failures are the client's problem (400); everything else
// is ours (500).
func (h *Handler) updateHVAC(c *gin.Context) {
	var req hvacPatchDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	snapshot, err := h.services.Control.WebUpdate(c.Request.Context(), req.patch())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTempOutOfRange),
			errors.Is(err, service.ErrTimerOutOfRange),
			errors.Is(err, service.ErrEmptyUpdate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errUpdateHVAC, "hvac_update_failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": statusAccepted,
		"hvac":   toHVACDTO(snapshot),
	})
}

// getHistory returns stored readings, newest first.
func (h *Handler) getHistory(c *gin.Context) {
	limit := 0
	if qs := c.Query("limit"); qs != "" {
		if v, err := strconv.Atoi(qs); err == nil {
			limit = v
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit': must be an integer"})
			return
		}
	}

	readings, err := h.services.History.List(c.Request.Context(), limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetHistory, "history_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}
