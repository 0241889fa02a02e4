package models

import (
	"encoding/json"
	"fmt"
)

// Domain limits for user-adjustable settings. Values outside these
// ranges are clamped at the point of mutation, never rejected.
const (
	MinSetTemp = 16
	MaxSetTemp = 30

	MinTimer     = 0
	MaxTimer     = 720
	TimerStepMin = 15
)

// Toggle is a two-state setting (power, swing).
type Toggle uint8

const (
	Off Toggle = iota
	On
)

func (t Toggle) String() string {
	if t == On {
		return "on"
	}
	return "off"
}

// Flip returns the opposite state.
func (t Toggle) Flip() Toggle {
	if t == On {
		return Off
	}
	return On
}

func ParseToggle(s string) (Toggle, error) {
	switch s {
	case "on":
		return On, nil
	case "off":
		return Off, nil
	}
	return Off, fmt.Errorf("unknown toggle value %q", s)
}

func (t Toggle) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *Toggle) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseToggle(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Mode is the operating mode of the appliance.
type Mode uint8

const (
	ModeCool Mode = iota
	ModeHeat
	ModeFan
	ModeDry
	ModeAuto
)

var modeNames = map[Mode]string{
	ModeCool: "cool",
	ModeHeat: "heat",
	ModeFan:  "fan",
	ModeDry:  "dry",
	ModeAuto: "auto",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "cool"
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeCool, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

func (m *Mode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// FanSpeed is the blower speed. The order of the constants is the order
// the panel cycles through when editing.
type FanSpeed uint8

const (
	FanLow FanSpeed = iota
	FanMedium
	FanHigh
	FanAuto
)

var fanNames = map[FanSpeed]string{
	FanLow:    "low",
	FanMedium: "medium",
	FanHigh:   "high",
	FanAuto:   "auto",
}

func (f FanSpeed) String() string {
	if s, ok := fanNames[f]; ok {
		return s
	}
	return "auto"
}

// Next advances one rank through low→medium→high→auto and wraps.
func (f FanSpeed) Next() FanSpeed {
	switch f {
	case FanLow:
		return FanMedium
	case FanMedium:
		return FanHigh
	case FanHigh:
		return FanAuto
	default:
		return FanLow
	}
}

func ParseFanSpeed(s string) (FanSpeed, error) {
	for f, name := range fanNames {
		if name == s {
			return f, nil
		}
	}
	return FanAuto, fmt.Errorf("unknown fan speed %q", s)
}

func (f FanSpeed) MarshalJSON() ([]byte, error) { return json.Marshal(f.String()) }

func (f *FanSpeed) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseFanSpeed(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Origin records which actor last validated a settings change. It is
// reconciliation metadata, never shown to the user.
type Origin uint8

const (
	OriginPanel Origin = iota
	OriginRemote
	OriginSchedule
	OriginSynced
)

var originNames = map[Origin]string{
	OriginPanel:    "panel",
	OriginRemote:   "remote",
	OriginSchedule: "schedule",
	OriginSynced:   "synced",
}

func (o Origin) String() string {
	if s, ok := originNames[o]; ok {
		return s
	}
	return "synced"
}

func ParseOrigin(s string) (Origin, error) {
	for o, name := range originNames {
		if name == s {
			return o, nil
		}
	}
	return OriginSynced, fmt.Errorf("unknown origin %q", s)
}

func (o Origin) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }

func (o *Origin) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseOrigin(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Settings is the full set of HVAC settings at one instant. Every node
// holds exactly one live snapshot; there is no history.
type Settings struct {
	Power    Toggle   `json:"power"`
	SetTemp  int      `json:"setTemp"`
	Mode     Mode     `json:"mode"`
	FanSpeed FanSpeed `json:"fanSpeed"`
	Timer    int      `json:"timer"` // minutes
	Swing    Toggle   `json:"swing"`
}

// DefaultSettings is the convention baseline every node boots with.
func DefaultSettings() Settings {
	return Settings{
		Power:    On,
		SetTemp:  24,
		Mode:     ModeCool,
		FanSpeed: FanMedium,
		Timer:    0,
		Swing:    On,
	}
}

// ClampTemp bounds a target temperature to the supported range.
func ClampTemp(v int) int {
	if v < MinSetTemp {
		return MinSetTemp
	}
	if v > MaxSetTemp {
		return MaxSetTemp
	}
	return v
}

// ClampTimer bounds a timer value to the supported range.
func ClampTimer(v int) int {
	if v < MinTimer {
		return MinTimer
	}
	if v > MaxTimer {
		return MaxTimer
	}
	return v
}

// SettingsPatch is a partial settings update. A nil field means the
// sender did not include it and the receiver must keep its current
// value; it is never a reset to default.
type SettingsPatch struct {
	Power    *Toggle   `json:"power,omitempty"`
	SetTemp  *int      `json:"setTemp,omitempty"`
	Mode     *Mode     `json:"mode,omitempty"`
	FanSpeed *FanSpeed `json:"fanSpeed,omitempty"`
	Timer    *int      `json:"timer,omitempty"`
	Swing    *Toggle   `json:"swing,omitempty"`
}

// IsZero reports whether the patch carries no fields at all.
func (p SettingsPatch) IsZero() bool {
	return p.Power == nil && p.SetTemp == nil && p.Mode == nil &&
		p.FanSpeed == nil && p.Timer == nil && p.Swing == nil
}

// Apply overwrites the fields present in the patch, clamping numeric
// values to their domains. Returns true if anything actually changed.
func (p SettingsPatch) Apply(s *Settings) bool {
	changed := false
	if p.Power != nil && *p.Power != s.Power {
		s.Power = *p.Power
		changed = true
	}
	if p.SetTemp != nil {
		if v := ClampTemp(*p.SetTemp); v != s.SetTemp {
			s.SetTemp = v
			changed = true
		}
	}
	if p.Mode != nil && *p.Mode != s.Mode {
		s.Mode = *p.Mode
		changed = true
	}
	if p.FanSpeed != nil && *p.FanSpeed != s.FanSpeed {
		s.FanSpeed = *p.FanSpeed
		changed = true
	}
	if p.Timer != nil {
		if v := ClampTimer(*p.Timer); v != s.Timer {
			s.Timer = v
			changed = true
		}
	}
	if p.Swing != nil && *p.Swing != s.Swing {
		s.Swing = *p.Swing
		changed = true
	}
	return changed
}

// Patch converts a full snapshot into a patch carrying every field.
func (s Settings) Patch() SettingsPatch {
	power, temp, mode := s.Power, s.SetTemp, s.Mode
	fan, timer, swing := s.FanSpeed, s.Timer, s.Swing
	return SettingsPatch{
		Power:    &power,
		SetTemp:  &temp,
		Mode:     &mode,
		FanSpeed: &fan,
		Timer:    &timer,
		Swing:    &swing,
	}
}
