package display

import (
	"hvac_control/internal/logger"
	"hvac_control/internal/models"
)

// Display renders the two panel screens: room conditions and the
// settings grid. Pixel output is a boundary concern; implementations
// receive abstract values only.
type Display interface {
	ShowRoom(c models.RoomConditions)
	ShowSettings(s models.Settings, highlighted string, editing bool)
}

// Log writes frames to the logger at debug level. Stands in for the
// OLED pair during development.
type Log struct {
	log *logger.Logger
}

func NewLog(log *logger.Logger) *Log { return &Log{log: log} }

func (d *Log) ShowRoom(c models.RoomConditions) {
	d.log.Debugw("display_room", "temp", c.Temperature, "humidity", c.Humidity)
}

func (d *Log) ShowSettings(s models.Settings, highlighted string, editing bool) {
	d.log.Debugw("display_settings",
		"power", s.Power.String(),
		"set_temp", s.SetTemp,
		"mode", s.Mode.String(),
		"fan", s.FanSpeed.String(),
		"timer", s.Timer,
		"swing", s.Swing.String(),
		"highlighted", highlighted,
		"editing", editing,
	)
}
