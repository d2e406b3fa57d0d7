package models

// TimeLayout is the wall-clock format used for reading and activity
// timestamps. Zero-padded and fixed-width, so lexicographic order matches
// chronological order.
const TimeLayout = "2006-01-02 15:04:05"

// SensorReading is one timestamped sensor sample. Append-only, ordered by ID.
type SensorReading struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Timestamp    string  `json:"timestamp"`
	Temperature  float64 `json:"temperature"`
	Humidity     int     `json:"humidity"`
	SoilMoisture int     `json:"soil_moisture"`
}
