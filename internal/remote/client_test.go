package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hvac_control/internal/logger"
	"hvac_control/internal/models"
)

func TestClient_PushState(t *testing.T) {
	var got statePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/data" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.Get(logger.ErrorLevel))
	s := models.DefaultSettings()
	s.SetTemp = 21
	room := models.RoomConditions{Temperature: 23.5, Humidity: 48}
	if err := c.PushState(context.Background(), room, s); err != nil {
		t.Fatalf("push: %v", err)
	}

	if got.Temperature != 23.5 || got.Humidity != 48 {
		t.Fatalf("room not transmitted: %+v", got)
	}
	if got.HVAC.SetTemp != 21 || got.HVAC.Mode != models.ModeCool {
		t.Fatalf("settings not transmitted: %+v", got.HVAC)
	}
}

func TestClient_PushStateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.Get(logger.ErrorLevel))
	err := c.PushState(context.Background(), models.RoomConditions{}, models.DefaultSettings())
	if err == nil {
		t.Fatalf("rejected push must surface an error")
	}
}

func TestClient_FetchCommand(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantOK   bool
		wantErr  bool
		wantSrc  models.Origin
		wantTemp *int
	}{
		{
			name:     "remote_command",
			body:     `{"source":"remote","set_temp":18}`,
			wantOK:   true,
			wantSrc:  models.OriginRemote,
			wantTemp: intPtr(18),
		},
		{
			name:    "panel_echo_handed_up",
			body:    `{"source":"panel","set_temp":18}`,
			wantOK:  true,
			wantSrc: models.OriginPanel,
		},
		{
			name:   "empty_source_means_no_command",
			body:   `{"source":""}`,
			wantOK: false,
		},
		{
			name:   "unknown_source_means_no_command",
			body:   `{"source":"martian","set_temp":18}`,
			wantOK: false,
		},
		{
			name:    "garbage_body",
			body:    `{{{`,
			wantErr: true,
		},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/hvac/command" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, logger.Get(logger.ErrorLevel))
			patch, declared, ok, err := c.FetchCommand(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if declared != tt.wantSrc {
				t.Fatalf("declared=%s, want %s", declared, tt.wantSrc)
			}
			if tt.wantTemp != nil {
				if patch.SetTemp == nil || *patch.SetTemp != *tt.wantTemp {
					t.Fatalf("patch=%+v", patch)
				}
			}
		})
	}
}

func TestClient_FetchCommandServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, logger.Get(logger.ErrorLevel))
	_, _, ok, err := c.FetchCommand(context.Background())
	if err == nil || ok {
		t.Fatalf("unreachable service must error, ok=%v err=%v", ok, err)
	}
}

func TestClient_ScheduleStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/schedule/status" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"schedule_active":true,"should_be_on":false,"start_time":"23:00","end_time":"05:00"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.Get(logger.ErrorLevel))
	st, err := c.ScheduleStatus(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.ScheduleActive || st.ShouldBeOn == nil || *st.ShouldBeOn {
		t.Fatalf("status=%+v", st)
	}
	if st.StartTime != "23:00" || st.EndTime != "05:00" {
		t.Fatalf("window=%s..%s", st.StartTime, st.EndTime)
	}
}

func intPtr(v int) *int { return &v }
