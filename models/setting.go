package models

// Actuator states stored in the settings table.
const (
	StateOn  = "ON"
	StateOff = "OFF"
)

// Known setting keys.
const (
	SettingPump   = "pump"
	SettingCamera = "camera"
)

// Setting is a named actuator state (pump, camera). Every key has exactly
// one row; an absent key reads as OFF.
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey"`
	Value string `json:"value" gorm:"not null"`
}
