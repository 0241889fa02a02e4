package models

// RoomConditions is the read-only observation produced by the panel's
// sensor and forwarded to the hub and the coordination service. It only
// ever flows in that direction and needs no reconciliation.
type RoomConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}
