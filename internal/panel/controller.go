package panel

import (
	"context"
	"time"

	"hvac_control/internal/display"
	"hvac_control/internal/logger"
	"hvac_control/internal/models"
	"hvac_control/internal/sensor"
	"hvac_control/internal/transport/serialjson"
)

// Link is the panel's view of the hub connection.
type Link interface {
	Send(serialjson.Message) error
	Poll() (*serialjson.Message, error)
}

// Intervals are the panel's fixed cadences. Zero values fall back to
// the defaults below.
type Intervals struct {
	Tick     time.Duration // scheduler tick (also the input sampling rate)
	Sensor   time.Duration // room conditions read
	Display  time.Duration // screen refresh
	Send     time.Duration // full state push to the hub
	Debounce time.Duration // minimum interval between button triggers
}

func DefaultIntervals() Intervals {
	return Intervals{
		Tick:     5 * time.Millisecond,
		Sensor:   2 * time.Second,
		Display:  100 * time.Millisecond,
		Send:     1 * time.Second,
		Debounce: 200 * time.Millisecond,
	}
}

func (iv *Intervals) fillDefaults() {
	def := DefaultIntervals()
	if iv.Tick <= 0 {
		iv.Tick = def.Tick
	}
	if iv.Sensor <= 0 {
		iv.Sensor = def.Sensor
	}
	if iv.Display <= 0 {
		iv.Display = def.Display
	}
	if iv.Send <= 0 {
		iv.Send = def.Send
	}
	if iv.Debounce <= 0 {
		iv.Debounce = def.Debounce
	}
}

// Controller is the panel node: it owns the menu state machine and the
// local settings copy, samples inputs, and exchanges frames with the
// hub. Everything runs on one cooperative loop; nothing here blocks.
type Controller struct {
	iv   Intervals
	log  *logger.Logger
	menu *Menu
	dec  *Decoder

	in   InputSource
	link Link
	sens sensor.Sensor
	disp display.Display

	settings models.Settings
	room     models.RoomConditions

	lastConfirm time.Time
	lastPower   time.Time
	lastSensor  time.Time
	lastDisplay time.Time
	lastSend    time.Time
}

func NewController(in InputSource, link Link, sens sensor.Sensor, disp display.Display, iv Intervals, log *logger.Logger) *Controller {
	iv.fillDefaults()
	return &Controller{
		iv:       iv,
		log:      log,
		menu:     NewMenu(),
		dec:      NewDecoder(),
		in:       in,
		link:     link,
		sens:     sens,
		disp:     disp,
		settings: models.DefaultSettings(),
	}
}

// Settings returns the panel's current settings copy.
func (c *Controller) Settings() models.Settings { return c.settings }

// Menu exposes the navigation state, mainly for rendering.
func (c *Controller) Menu() *Menu { return c.menu }

// Run drives the control loop until the context is canceled.
func (c *Controller) Run(ctx context.Context) {
	t := time.NewTicker(c.iv.Tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			c.Step(now)
		}
	}
}

// Step executes one scheduler pass: inputs and inbound frames first,
// then the periodic outbound work.
func (c *Controller) Step(now time.Time) {
	if in, err := c.in.Sample(); err == nil {
		c.dec.Sample(in.Clk, in.Dt)
		if delta := c.dec.Delta(); delta != 0 {
			c.menu.Rotate(delta, &c.settings)
		}
		c.handleButtons(in, now)
	} else {
		c.log.Debugw("input_sample_failed", "err", err)
	}

	c.pollHub()

	if now.Sub(c.lastSensor) >= c.iv.Sensor {
		c.lastSensor = now
		if cond, ok := c.sens.Read(); ok {
			c.room = cond
		}
	}

	if now.Sub(c.lastDisplay) >= c.iv.Display {
		c.lastDisplay = now
		c.disp.ShowRoom(c.room)
		c.disp.ShowSettings(c.settings, c.menu.Highlighted().String(), c.menu.State() == Edit)
	}

	if now.Sub(c.lastSend) >= c.iv.Send {
		c.lastSend = now
		c.sendState()
	}
}

// handleButtons applies the debounce contract: triggers closer together
// than the debounce interval are dropped, not queued.
func (c *Controller) handleButtons(in InputState, now time.Time) {
	if in.Confirm && now.Sub(c.lastConfirm) >= c.iv.Debounce {
		c.lastConfirm = now
		c.menu.Confirm()
	}
	// The power button works in any menu state and leaves it unchanged.
	if in.Power && now.Sub(c.lastPower) >= c.iv.Debounce {
		c.lastPower = now
		c.settings.Power = c.settings.Power.Flip()
	}
}

// pollHub applies at most one inbound frame per pass. A frame that
// fails to decode is dropped whole.
func (c *Controller) pollHub() {
	msg, err := c.link.Poll()
	if err != nil {
		c.log.Debugw("panel_frame_dropped", "err", err)
		return
	}
	if msg == nil || msg.HVAC == nil {
		return
	}
	if msg.HVAC.Apply(&c.settings) {
		c.log.Infow("settings_updated_from_hub",
			"power", c.settings.Power.String(), "set_temp", c.settings.SetTemp)
	}
}

// sendState pushes the full snapshot plus room conditions to the hub.
func (c *Controller) sendState() {
	temp, hum := c.room.Temperature, c.room.Humidity
	patch := c.settings.Patch()
	msg := serialjson.Message{
		RoomTemp:     &temp,
		RoomHumidity: &hum,
		HVAC:         &patch,
	}
	if err := c.link.Send(msg); err != nil {
		c.log.Debugw("panel_send_failed", "err", err)
	}
}
