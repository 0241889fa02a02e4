package hub

import (
	"errors"
	"testing"

	"hvac_control/internal/logger"
	"hvac_control/internal/models"
)

var errFailedIR = errors.New("ir send failed")

// recordingActuator captures every snapshot handed to it.
type recordingActuator struct {
	applied []models.Settings
	err     error
}

func (a *recordingActuator) Apply(s models.Settings) error {
	a.applied = append(a.applied, s)
	return a.err
}

type hookCounter struct {
	remote int
	panel  int
}

func newReconcilerFixture() (*Reconciler, *recordingActuator, *hookCounter) {
	act := &recordingActuator{}
	hooks := &hookCounter{}
	r := NewReconciler(act, Hooks{
		PushRemote: func() { hooks.remote++ },
		PushPanel:  func() { hooks.panel++ },
	}, logger.Get(logger.ErrorLevel))
	return r, act, hooks
}

func intPtr(v int) *int                         { return &v }
func togglePtr(v models.Toggle) *models.Toggle  { return &v }
func modePtr(v models.Mode) *models.Mode        { return &v }
func fanPtr(v models.FanSpeed) *models.FanSpeed { return &v }
func boolPtr(v bool) *bool                      { return &v }

func TestReconciler_ApplyPanel(t *testing.T) {
	r, _, hooks := newReconcilerFixture()

	if !r.ApplyPanel(models.SettingsPatch{SetTemp: intPtr(20)}) {
		t.Fatalf("expected change to be accepted")
	}
	if r.Snapshot().SetTemp != 20 || r.Origin() != models.OriginPanel || !r.Dirty() {
		t.Fatalf("record=%+v origin=%s dirty=%v", r.Snapshot(), r.Origin(), r.Dirty())
	}
	if hooks.remote != 1 || hooks.panel != 0 {
		t.Fatalf("panel change must push remote out-of-band only, remote=%d panel=%d",
			hooks.remote, hooks.panel)
	}

	// The same value again is a no-op and must not re-fire anything.
	if r.ApplyPanel(models.SettingsPatch{SetTemp: intPtr(20)}) {
		t.Fatalf("identical patch must report no change")
	}
	if hooks.remote != 1 {
		t.Fatalf("no-op patch must not push, remote=%d", hooks.remote)
	}
}

func TestReconciler_ApplyRemoteGatesOnDeclaredSource(t *testing.T) {
	r, _, hooks := newReconcilerFixture()
	patch := models.SettingsPatch{SetTemp: intPtr(18)}

	// The hub's own state echoed back declares panel provenance and must
	// not loop.
	for _, declared := range []models.Origin{models.OriginPanel, models.OriginSchedule, models.OriginSynced} {
		if r.ApplyRemote(patch, declared) {
			t.Fatalf("declared %s must be ignored", declared)
		}
	}
	if r.Snapshot().SetTemp != 24 || r.Dirty() {
		t.Fatalf("record must be untouched: %+v dirty=%v", r.Snapshot(), r.Dirty())
	}

	if !r.ApplyRemote(patch, models.OriginRemote) {
		t.Fatalf("declared remote must be applied")
	}
	if r.Snapshot().SetTemp != 18 || r.Origin() != models.OriginRemote {
		t.Fatalf("record=%+v origin=%s", r.Snapshot(), r.Origin())
	}
	if hooks.panel != 1 {
		t.Fatalf("remote change must push the panel out-of-band, panel=%d", hooks.panel)
	}
}

func TestReconciler_EchoRoundTrip(t *testing.T) {
	r, _, _ := newReconcilerFixture()

	// A remote edit lands and is handed to the panel.
	r.ApplyRemote(models.SettingsPatch{SetTemp: intPtr(19)}, models.OriginRemote)
	if _, ok := r.PanelSync(); !ok {
		t.Fatalf("remote change must be offered to the panel")
	}

	// The panel echoes the full state back over serial. Values are
	// identical, so nothing changes and the origin stays synced.
	echo := r.Snapshot().Patch()
	if r.ApplyPanel(echo) {
		t.Fatalf("echoed state must be a no-op")
	}
	if r.Origin() != models.OriginSynced {
		t.Fatalf("origin must stay synced after echo, got %s", r.Origin())
	}
	if _, ok := r.PanelSync(); ok {
		t.Fatalf("nothing further must flow back to the panel")
	}
}

func TestReconciler_ApplySchedule(t *testing.T) {
	r, _, hooks := newReconcilerFixture()

	// Disabled schedule or unknown desire is ignored.
	if r.ApplySchedule(models.ScheduleStatus{ScheduleActive: false, ShouldBeOn: boolPtr(false)}) {
		t.Fatalf("inactive schedule must not actuate")
	}
	if r.ApplySchedule(models.ScheduleStatus{ScheduleActive: true}) {
		t.Fatalf("nil desire must not actuate")
	}

	// Power follows the schedule; the rest of the record is untouched.
	if !r.ApplySchedule(models.ScheduleStatus{ScheduleActive: true, ShouldBeOn: boolPtr(false)}) {
		t.Fatalf("expected power change")
	}
	s := r.Snapshot()
	if s.Power != models.Off || s.SetTemp != 24 || r.Origin() != models.OriginSchedule {
		t.Fatalf("record=%+v origin=%s", s, r.Origin())
	}
	if hooks.remote != 1 || hooks.panel != 1 {
		t.Fatalf("schedule change must notify both sides, remote=%d panel=%d",
			hooks.remote, hooks.panel)
	}

	// Already in the desired state: no change, no notifications.
	if r.ApplySchedule(models.ScheduleStatus{ScheduleActive: true, ShouldBeOn: boolPtr(false)}) {
		t.Fatalf("matching power must be a no-op")
	}
	if hooks.remote != 1 || hooks.panel != 1 {
		t.Fatalf("no-op must not notify")
	}
}

func TestReconciler_ActuateExactlyOnce(t *testing.T) {
	r, act, _ := newReconcilerFixture()

	if r.Actuate() {
		t.Fatalf("clean record must not actuate")
	}

	r.ApplyPanel(models.SettingsPatch{Mode: modePtr(models.ModeHeat)})
	if !r.Actuate() {
		t.Fatalf("dirty record must actuate")
	}
	if r.Actuate() {
		t.Fatalf("second call without changes must be a no-op")
	}
	if len(act.applied) != 1 || act.applied[0].Mode != models.ModeHeat {
		t.Fatalf("applied=%+v", act.applied)
	}

	// Two changes between actuations collapse into one command.
	r.ApplyPanel(models.SettingsPatch{FanSpeed: fanPtr(models.FanHigh)})
	r.ApplyPanel(models.SettingsPatch{Swing: togglePtr(models.Off)})
	r.Actuate()
	if len(act.applied) != 2 {
		t.Fatalf("expected one command for both changes, got %d", len(act.applied))
	}
	got := act.applied[1]
	if got.FanSpeed != models.FanHigh || got.Swing != models.Off {
		t.Fatalf("command must carry the latest snapshot: %+v", got)
	}
}

func TestReconciler_ActuationFailureIsNotRetried(t *testing.T) {
	r, act, _ := newReconcilerFixture()
	act.err = errFailedIR

	r.ApplyPanel(models.SettingsPatch{SetTemp: intPtr(26)})
	r.Actuate()
	if r.Dirty() {
		t.Fatalf("failure must still clear the dirty flag")
	}
	if r.Actuate() {
		t.Fatalf("no retry without a new change")
	}
	if len(act.applied) != 1 {
		t.Fatalf("applied=%d", len(act.applied))
	}
}

func TestReconciler_PanelSyncOnlyForRemoteChanges(t *testing.T) {
	r, _, _ := newReconcilerFixture()

	if _, ok := r.PanelSync(); ok {
		t.Fatalf("boot state must not flow to the panel")
	}

	r.ApplyPanel(models.SettingsPatch{SetTemp: intPtr(21)})
	if _, ok := r.PanelSync(); ok {
		t.Fatalf("panel's own change must not echo back")
	}

	r.ApplyRemote(models.SettingsPatch{SetTemp: intPtr(22)}, models.OriginRemote)
	s, ok := r.PanelSync()
	if !ok || s.SetTemp != 22 {
		t.Fatalf("remote change must be offered once, ok=%v s=%+v", ok, s)
	}
	if _, ok := r.PanelSync(); ok {
		t.Fatalf("sync must happen exactly once")
	}
	if r.Origin() != models.OriginSynced {
		t.Fatalf("origin must flip to synced, got %s", r.Origin())
	}
}
