package models

// Activity entry types, matching the dashboard's filter buttons.
const (
	ActivityGeneral = "general"
	ActivityPump    = "pump"
	ActivityCamera  = "camera"
	ActivityLeaf    = "leaf"
	ActivitySensor  = "sensor"
)

// ActivityEntry is one audit-log record of a state change or event.
type ActivityEntry struct {
	ID          uint   `json:"-" gorm:"primaryKey"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Type        string `json:"type" gorm:"default:general"`
}
