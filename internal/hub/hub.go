// Package hub is the reconciling node between the panel, the remote
// coordination service, and the physical appliance.
package hub

import (
	"context"
	"time"

	"hvac_control/internal/actuator"
	"hvac_control/internal/logger"
	"hvac_control/internal/models"
	"hvac_control/internal/transport/serialjson"
)

// Link is the hub's view of the panel connection.
type Link interface {
	Send(serialjson.Message) error
	Poll() (*serialjson.Message, error)
}

// RemoteAPI is the polled coordination service. A stalled or
// unreachable service degrades to skipped cycles; there is no retry or
// backoff.
type RemoteAPI interface {
	PushState(ctx context.Context, room models.RoomConditions, s models.Settings) error
	FetchCommand(ctx context.Context) (models.SettingsPatch, models.Origin, bool, error)
	ScheduleStatus(ctx context.Context) (models.ScheduleStatus, error)
}

// Intervals are the hub's fixed cadences.
type Intervals struct {
	Tick          time.Duration
	ServerUpdate  time.Duration // unconditional push to remote
	CommandCheck  time.Duration // remote command poll
	PanelSend     time.Duration // conditional push back to panel
	ScheduleCheck time.Duration
}

func DefaultIntervals() Intervals {
	return Intervals{
		Tick:          50 * time.Millisecond,
		ServerUpdate:  2 * time.Second,
		CommandCheck:  500 * time.Millisecond,
		PanelSend:     250 * time.Millisecond,
		ScheduleCheck: 30 * time.Second,
	}
}

func (iv *Intervals) fillDefaults() {
	def := DefaultIntervals()
	if iv.Tick <= 0 {
		iv.Tick = def.Tick
	}
	if iv.ServerUpdate <= 0 {
		iv.ServerUpdate = def.ServerUpdate
	}
	if iv.CommandCheck <= 0 {
		iv.CommandCheck = def.CommandCheck
	}
	if iv.PanelSend <= 0 {
		iv.PanelSend = def.PanelSend
	}
	if iv.ScheduleCheck <= 0 {
		iv.ScheduleCheck = def.ScheduleCheck
	}
}

// Hub runs the reconciliation loop. Within a pass, inbound events are
// processed before periodic outbound pushes, so a freshly accepted
// change can ride the same pass's push when the cadence allows.
type Hub struct {
	rec    *Reconciler
	link   Link
	remote RemoteAPI
	iv     Intervals
	log    *logger.Logger

	room models.RoomConditions

	ctx               context.Context
	lastServerUpdate  time.Time
	lastCommandCheck  time.Time
	lastPanelSend     time.Time
	lastScheduleCheck time.Time
}

func New(link Link, remote RemoteAPI, act actuator.Actuator, iv Intervals, log *logger.Logger) *Hub {
	iv.fillDefaults()
	h := &Hub{
		link:   link,
		remote: remote,
		iv:     iv,
		log:    log,
		ctx:    context.Background(),
	}
	h.rec = NewReconciler(act, Hooks{
		PushRemote: h.pushRemote,
		PushPanel:  h.pushPanel,
	}, log)
	return h
}

// Reconciler exposes the settings-of-record owner, mainly for tests and
// diagnostics.
func (h *Hub) Reconciler() *Reconciler { return h.rec }

// Run drives the control loop until the context is canceled.
func (h *Hub) Run(ctx context.Context) {
	h.ctx = ctx
	t := time.NewTicker(h.iv.Tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			h.Step(now)
		}
	}
}

// Step executes one scheduler pass.
func (h *Hub) Step(now time.Time) {
	// Inbound first. Panel frames are polled every pass; the remote is
	// polled on its own cadences.
	h.pollPanel()
	if now.Sub(h.lastCommandCheck) >= h.iv.CommandCheck {
		h.lastCommandCheck = now
		h.checkRemoteCommands()
	}
	if now.Sub(h.lastScheduleCheck) >= h.iv.ScheduleCheck {
		h.lastScheduleCheck = now
		h.checkSchedule()
	}

	// Physical actuation fires at most once per pass, after all inbound
	// paths had their chance to mark the record dirty.
	h.rec.Actuate()

	// Outbound cadences.
	if now.Sub(h.lastServerUpdate) >= h.iv.ServerUpdate {
		h.lastServerUpdate = now
		h.pushRemote()
	}
	if now.Sub(h.lastPanelSend) >= h.iv.PanelSend {
		h.lastPanelSend = now
		if s, ok := h.rec.PanelSync(); ok {
			h.sendPanel(s)
		}
	}
}

// pollPanel applies at most one inbound frame per pass. No bytes on the
// wire is the common case and stays silent; a malformed line is dropped
// whole.
func (h *Hub) pollPanel() {
	msg, err := h.link.Poll()
	if err != nil {
		h.log.Debugw("panel_frame_dropped", "err", err)
		return
	}
	if msg == nil {
		return
	}
	if msg.RoomTemp != nil {
		h.room.Temperature = *msg.RoomTemp
	}
	if msg.RoomHumidity != nil {
		h.room.Humidity = *msg.RoomHumidity
	}
	if msg.HVAC != nil {
		h.rec.ApplyPanel(*msg.HVAC)
	}
}

func (h *Hub) checkRemoteCommands() {
	patch, declared, ok, err := h.remote.FetchCommand(h.ctx)
	if err != nil {
		h.log.Debugw("command_check_skipped", "err", err)
		return
	}
	if !ok {
		return
	}
	h.rec.ApplyRemote(patch, declared)
}

func (h *Hub) checkSchedule() {
	st, err := h.remote.ScheduleStatus(h.ctx)
	if err != nil {
		h.log.Debugw("schedule_check_skipped", "err", err)
		return
	}
	h.rec.ApplySchedule(st)
}

// pushRemote sends the full snapshot plus room conditions. Used both on
// the fixed cadence and as the out-of-band hook.
func (h *Hub) pushRemote() {
	if err := h.remote.PushState(h.ctx, h.room, h.rec.Snapshot()); err != nil {
		h.log.Debugw("remote_push_skipped", "err", err)
	}
}

// pushPanel is the out-of-band hook: it forwards the current record
// immediately so the panel's screens catch up without waiting for the
// cadence. A remote-originated change is handed out through PanelSync,
// which flips the origin to synced so the periodic push won't repeat
// it; a schedule change goes out as-is.
func (h *Hub) pushPanel() {
	if s, ok := h.rec.PanelSync(); ok {
		h.sendPanel(s)
		return
	}
	h.sendPanel(h.rec.Snapshot())
}

func (h *Hub) sendPanel(s models.Settings) {
	patch := s.Patch()
	if err := h.link.Send(serialjson.Message{HVAC: &patch}); err != nil {
		h.log.Debugw("panel_push_skipped", "err", err)
	}
}
