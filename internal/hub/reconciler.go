package hub

import (
	"hvac_control/internal/actuator"
	"hvac_control/internal/logger"
	"hvac_control/internal/models"
)

// Hooks are the out-of-band transmissions the reconciler triggers the
// moment a change is accepted, ahead of the normal cadence. They must
// not block; the hub wires them to best-effort sends.
type Hooks struct {
	PushRemote func()
	PushPanel  func()
}

// Reconciler owns the settings-of-record. Changes arrive from the
// panel, the remote service, and the schedule; whichever writes last
// wins, per full snapshot. There is no timestamp ordering and no merge
// of concurrent divergent edits: a panel and a remote write landing in
// the same pass resolve in processing order. That nondeterminism is an
// accepted property of the protocol, not a bug.
//
// All methods must be called from the hub's single control loop.
type Reconciler struct {
	record models.Settings
	origin models.Origin
	dirty  bool

	act   actuator.Actuator
	hooks Hooks
	log   *logger.Logger
}

func NewReconciler(act actuator.Actuator, hooks Hooks, log *logger.Logger) *Reconciler {
	return &Reconciler{
		record: models.DefaultSettings(),
		origin: models.OriginSynced,
		act:    act,
		hooks:  hooks,
		log:    log,
	}
}

// Snapshot returns the current settings-of-record.
func (r *Reconciler) Snapshot() models.Settings { return r.record }

// Origin returns the provenance of the last accepted change.
func (r *Reconciler) Origin() models.Origin { return r.origin }

// Dirty reports whether the record changed since the last actuation.
func (r *Reconciler) Dirty() bool { return r.dirty }

// ApplyPanel merges a panel-originated patch. On any field change the
// record is marked dirty and pushed to the remote service immediately,
// so an in-flight stale poll cannot overwrite the user's edit.
func (r *Reconciler) ApplyPanel(p models.SettingsPatch) bool {
	if !p.Apply(&r.record) {
		return false
	}
	r.origin = models.OriginPanel
	r.dirty = true
	r.log.Infow("settings_updated", "from", "panel")
	if r.hooks.PushRemote != nil {
		r.hooks.PushRemote()
	}
	return true
}

// ApplyRemote merges a remotely-polled patch, but only when the payload
// declares itself remote-originated. Anything else is the hub's own
// state reflected back and must not loop.
func (r *Reconciler) ApplyRemote(p models.SettingsPatch, declared models.Origin) bool {
	if declared != models.OriginRemote {
		return false
	}
	if !p.Apply(&r.record) {
		return false
	}
	r.origin = models.OriginRemote
	r.dirty = true
	r.log.Infow("settings_updated", "from", "remote")
	if r.hooks.PushPanel != nil {
		r.hooks.PushPanel()
	}
	return true
}

// ApplySchedule enforces the scheduled power state. Only the power
// field is touched; both sides are notified out-of-band.
func (r *Reconciler) ApplySchedule(st models.ScheduleStatus) bool {
	if !st.ScheduleActive || st.ShouldBeOn == nil {
		return false
	}
	want := models.Off
	if *st.ShouldBeOn {
		want = models.On
	}
	if r.record.Power == want {
		return false
	}
	r.record.Power = want
	r.origin = models.OriginSchedule
	r.dirty = true
	r.log.Infow("settings_updated", "from", "schedule", "power", want.String())
	if r.hooks.PushRemote != nil {
		r.hooks.PushRemote()
	}
	if r.hooks.PushPanel != nil {
		r.hooks.PushPanel()
	}
	return true
}

// Actuate issues the physical command once if the record changed since
// the last call, then clears the dirty flag. The command is
// fire-and-forget: a failure is logged and will only be reissued if the
// record changes again.
func (r *Reconciler) Actuate() bool {
	if !r.dirty {
		return false
	}
	r.dirty = false
	if err := r.act.Apply(r.record); err != nil {
		r.log.Errorw("actuation_failed", "err", err)
	}
	return true
}

// PanelSync returns the snapshot to push to the panel on the periodic
// cadence. Only remote-originated state flows back: echoing a change
// to the panel that just made it would re-trigger its edit logic. Once
// handed out, the origin flips to synced so the push happens exactly
// once.
func (r *Reconciler) PanelSync() (models.Settings, bool) {
	if r.origin != models.OriginRemote {
		return models.Settings{}, false
	}
	r.origin = models.OriginSynced
	return r.record, true
}
