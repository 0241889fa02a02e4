package sensor

import "hvac_control/internal/models"

// Sensor produces room observations. ok=false signals "no valid
// reading" (a DHT returning NaN, a disconnected probe); callers keep
// the last known values and try again next cycle.
type Sensor interface {
	Read() (c models.RoomConditions, ok bool)
}

// Fixed always reports the same conditions. Used on benches without a
// probe attached.
type Fixed struct {
	Temperature float64
	Humidity    float64
}

func (f Fixed) Read() (models.RoomConditions, bool) {
	return models.RoomConditions{Temperature: f.Temperature, Humidity: f.Humidity}, true
}
