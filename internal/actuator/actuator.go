// Package actuator is the hub's boundary to the physical appliance.
// Actuation is fire-and-forget: the hub never sees a success signal
// and never retries within a cycle.
package actuator

import (
	"hvac_control/internal/logger"
	"hvac_control/internal/models"
)

// Actuator accepts a full snapshot and issues the corresponding
// physical command.
type Actuator interface {
	Apply(s models.Settings) error
}

// Log records the would-be command instead of transmitting. Used on
// development machines without IR hardware.
type Log struct {
	log *logger.Logger
}

func NewLog(log *logger.Logger) *Log { return &Log{log: log} }

func (a *Log) Apply(s models.Settings) error {
	a.log.Infow("actuate",
		"power", s.Power.String(),
		"set_temp", s.SetTemp,
		"mode", s.Mode.String(),
		"fan", s.FanSpeed.String(),
		"timer", s.Timer,
		"swing", s.Swing.String(),
	)
	return nil
}
