package hub

import (
	"context"
	"testing"
	"time"

	"hvac_control/internal/logger"
	"hvac_control/internal/models"
	"hvac_control/internal/transport/serialjson"
)

// fakeLink serves queued panel frames and records everything sent.
type fakeLink struct {
	inbound []*serialjson.Message
	sent    []serialjson.Message
}

func (l *fakeLink) Send(m serialjson.Message) error {
	l.sent = append(l.sent, m)
	return nil
}

func (l *fakeLink) Poll() (*serialjson.Message, error) {
	if len(l.inbound) == 0 {
		return nil, nil
	}
	m := l.inbound[0]
	l.inbound = l.inbound[1:]
	return m, nil
}

// fakeRemote is the coordination service seen from the hub.
type fakeRemote struct {
	pushes    []models.Settings
	pushRooms []models.RoomConditions

	cmdPatch  models.SettingsPatch
	cmdSource models.Origin
	cmdOK     bool

	status    models.ScheduleStatus
	statusErr error
}

func (r *fakeRemote) PushState(_ context.Context, room models.RoomConditions, s models.Settings) error {
	r.pushes = append(r.pushes, s)
	r.pushRooms = append(r.pushRooms, room)
	return nil
}

func (r *fakeRemote) FetchCommand(context.Context) (models.SettingsPatch, models.Origin, bool, error) {
	return r.cmdPatch, r.cmdSource, r.cmdOK, nil
}

func (r *fakeRemote) ScheduleStatus(context.Context) (models.ScheduleStatus, error) {
	return r.status, r.statusErr
}

func newHubFixture(link *fakeLink, rem *fakeRemote) (*Hub, *recordingActuator) {
	act := &recordingActuator{}
	h := New(link, rem, act, Intervals{
		Tick:          50 * time.Millisecond,
		ServerUpdate:  2 * time.Second,
		CommandCheck:  500 * time.Millisecond,
		PanelSend:     250 * time.Millisecond,
		ScheduleCheck: 30 * time.Second,
	}, logger.Get(logger.ErrorLevel))
	return h, act
}

func TestHub_PanelFrameReachesRemoteAndAppliance(t *testing.T) {
	temp, hum := 23.5, 48.0
	patch := models.SettingsPatch{SetTemp: intPtr(20)}
	link := &fakeLink{inbound: []*serialjson.Message{
		{RoomTemp: &temp, RoomHumidity: &hum, HVAC: &patch},
	}}
	rem := &fakeRemote{}
	h, act := newHubFixture(link, rem)

	h.Step(time.Now())

	// The edit pushed out-of-band plus the due periodic push.
	if len(rem.pushes) < 1 {
		t.Fatalf("panel change must reach the remote service")
	}
	last := rem.pushes[len(rem.pushes)-1]
	if last.SetTemp != 20 {
		t.Fatalf("pushed snapshot=%+v", last)
	}
	lastRoom := rem.pushRooms[len(rem.pushRooms)-1]
	if lastRoom.Temperature != 23.5 || lastRoom.Humidity != 48 {
		t.Fatalf("room conditions must ride the push: %+v", lastRoom)
	}

	// Actuation fires in the same pass.
	if len(act.applied) != 1 || act.applied[0].SetTemp != 20 {
		t.Fatalf("applied=%+v", act.applied)
	}

	// The panel's own change must not be sent back to it.
	for _, m := range link.sent {
		if m.HVAC != nil && m.HVAC.SetTemp != nil && *m.HVAC.SetTemp == 20 {
			t.Fatalf("panel edit echoed back: %+v", m)
		}
	}
}

func TestHub_RemoteCommandFlowsToPanel(t *testing.T) {
	link := &fakeLink{}
	rem := &fakeRemote{
		cmdPatch:  models.SettingsPatch{SetTemp: intPtr(18)},
		cmdSource: models.OriginRemote,
		cmdOK:     true,
	}
	h, act := newHubFixture(link, rem)

	h.Step(time.Now())

	if h.Reconciler().Snapshot().SetTemp != 18 {
		t.Fatalf("record=%+v", h.Reconciler().Snapshot())
	}
	if len(act.applied) != 1 {
		t.Fatalf("remote command must actuate once, applied=%d", len(act.applied))
	}
	found := false
	for _, m := range link.sent {
		if m.HVAC != nil && m.HVAC.SetTemp != nil && *m.HVAC.SetTemp == 18 {
			found = true
		}
	}
	if !found {
		t.Fatalf("remote command must be forwarded to the panel, sent=%+v", link.sent)
	}
}

func TestHub_NonRemoteCommandIsIgnored(t *testing.T) {
	link := &fakeLink{}
	rem := &fakeRemote{
		cmdPatch:  models.SettingsPatch{SetTemp: intPtr(18)},
		cmdSource: models.OriginPanel, // the hub's own state reflected back
		cmdOK:     true,
	}
	h, act := newHubFixture(link, rem)

	h.Step(time.Now())

	if h.Reconciler().Snapshot().SetTemp != 24 {
		t.Fatalf("echoed command must not change the record: %+v", h.Reconciler().Snapshot())
	}
	if len(act.applied) != 0 {
		t.Fatalf("echoed command must not actuate, applied=%d", len(act.applied))
	}
}

func TestHub_ScheduleDrivesPower(t *testing.T) {
	link := &fakeLink{}
	rem := &fakeRemote{status: models.ScheduleStatus{
		ScheduleActive: true,
		ShouldBeOn:     boolPtr(false),
	}}
	h, act := newHubFixture(link, rem)

	h.Step(time.Now())

	if h.Reconciler().Snapshot().Power != models.Off {
		t.Fatalf("schedule must turn the appliance off: %+v", h.Reconciler().Snapshot())
	}
	if len(act.applied) != 1 || act.applied[0].Power != models.Off {
		t.Fatalf("applied=%+v", act.applied)
	}

	// Both sides hear about it.
	if len(rem.pushes) == 0 {
		t.Fatalf("schedule change must be pushed to the remote service")
	}
	if len(link.sent) == 0 {
		t.Fatalf("schedule change must be pushed to the panel")
	}
}

func TestHub_QuietPassDoesNothing(t *testing.T) {
	link := &fakeLink{}
	rem := &fakeRemote{}
	h, act := newHubFixture(link, rem)

	base := time.Now()
	h.Step(base)

	// The first pass runs every due cadence; afterwards a quiet tick
	// inside all windows produces no traffic and no actuation.
	pushes, sent := len(rem.pushes), len(link.sent)
	h.Step(base.Add(50 * time.Millisecond))
	if len(rem.pushes) != pushes || len(link.sent) != sent {
		t.Fatalf("quiet pass must not transmit")
	}
	if len(act.applied) != 0 {
		t.Fatalf("nothing changed, applied=%d", len(act.applied))
	}
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	h, _ := newHubFixture(&fakeLink{}, &fakeRemote{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop on cancel")
	}
}
