// Package remote is the hub's client for the coordination service's
// polling API. Field names map to the service's snake_case wire format
// here and nowhere else.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hvac_control/internal/logger"
	"hvac_control/internal/models"
)

// requestTimeout bounds a single request so a stalled service costs at
// most one cycle of the hub loop instead of wedging it.
const requestTimeout = 2 * time.Second

// Client talks to the coordination service. An unreachable service is
// indistinguishable from transport absence to callers: they get an
// error, skip the cycle, and try again on the next one.
type Client struct {
	base string
	hc   *http.Client
	log  *logger.Logger
}

func NewClient(base string, log *logger.Logger) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: requestTimeout},
		log:  log,
	}
}

// statePayload is the POST /api/data body.
type statePayload struct {
	Temperature float64     `json:"temperature"`
	Humidity    float64     `json:"humidity"`
	HVAC        hvacPayload `json:"hvac"`
}

type hvacPayload struct {
	Power    models.Toggle   `json:"power"`
	SetTemp  int             `json:"set_temp"`
	Mode     models.Mode     `json:"mode"`
	FanSpeed models.FanSpeed `json:"fan_speed"`
	Timer    int             `json:"timer"`
	Swing    models.Toggle   `json:"swing"`
}

// commandPayload is the GET /api/hvac/command response. Absent fields
// stay nil and are a no-op on the hub.
type commandPayload struct {
	Source   string           `json:"source"`
	Power    *models.Toggle   `json:"power,omitempty"`
	SetTemp  *int             `json:"set_temp,omitempty"`
	Mode     *models.Mode     `json:"mode,omitempty"`
	FanSpeed *models.FanSpeed `json:"fan_speed,omitempty"`
	Timer    *int             `json:"timer,omitempty"`
	Swing    *models.Toggle   `json:"swing,omitempty"`
}

// PushState uploads room conditions and the full settings snapshot.
func (c *Client) PushState(ctx context.Context, room models.RoomConditions, s models.Settings) error {
	body := statePayload{
		Temperature: room.Temperature,
		Humidity:    room.Humidity,
		HVAC: hvacPayload{
			Power:    s.Power,
			SetTemp:  s.SetTemp,
			Mode:     s.Mode,
			FanSpeed: s.FanSpeed,
			Timer:    s.Timer,
			Swing:    s.Swing,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/data", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("push state: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push state: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// FetchCommand polls for pending settings. ok=false means no usable
// payload arrived. The declared source is handed up as-is; gating on it
// is the reconciler's decision, not the transport's.
func (c *Client) FetchCommand(ctx context.Context) (models.SettingsPatch, models.Origin, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/hvac/command", nil)
	if err != nil {
		return models.SettingsPatch{}, models.OriginSynced, false, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return models.SettingsPatch{}, models.OriginSynced, false, fmt.Errorf("fetch command: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.SettingsPatch{}, models.OriginSynced, false, fmt.Errorf("fetch command: unexpected status %d", resp.StatusCode)
	}

	var cmd commandPayload
	if err := json.NewDecoder(resp.Body).Decode(&cmd); err != nil {
		return models.SettingsPatch{}, models.OriginSynced, false, fmt.Errorf("decode command: %w", err)
	}
	if cmd.Source == "" {
		return models.SettingsPatch{}, models.OriginSynced, false, nil
	}
	declared, err := models.ParseOrigin(cmd.Source)
	if err != nil {
		// Unknown provenance is treated as a non-command, not an error.
		return models.SettingsPatch{}, models.OriginSynced, false, nil
	}
	patch := models.SettingsPatch{
		Power:    cmd.Power,
		SetTemp:  cmd.SetTemp,
		Mode:     cmd.Mode,
		FanSpeed: cmd.FanSpeed,
		Timer:    cmd.Timer,
		Swing:    cmd.Swing,
	}
	return patch, declared, true, nil
}

// ScheduleStatus asks whether the schedule wants the appliance on.
func (c *Client) ScheduleStatus(ctx context.Context) (models.ScheduleStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/schedule/status", nil)
	if err != nil {
		return models.ScheduleStatus{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return models.ScheduleStatus{}, fmt.Errorf("schedule status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.ScheduleStatus{}, fmt.Errorf("schedule status: unexpected status %d", resp.StatusCode)
	}
	var st models.ScheduleStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return models.ScheduleStatus{}, fmt.Errorf("decode schedule status: %w", err)
	}
	return st, nil
}
