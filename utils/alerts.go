package utils

import "github.com/Aulia153/Leafie-Website/models"

// CheckAbnormal reports whether any sensor value is outside its safe band.
func CheckAbnormal(r models.SensorReading) bool {
	return r.Temperature < 20 || r.Temperature > 50 ||
		r.Humidity < 30 || r.Humidity > 90 ||
		r.SoilMoisture < 5 || r.SoilMoisture > 95
}

// AbnormalField names the first sensor reading that is out of band.
func AbnormalField(r models.SensorReading) string {
	if r.Temperature < 20 || r.Temperature > 50 {
		return "Suhu"
	}
	if r.Humidity < 30 || r.Humidity > 90 {
		return "Kelembapan udara"
	}
	if r.SoilMoisture < 5 || r.SoilMoisture > 95 {
		return "Kelembapan tanah"
	}
	return ""
}
