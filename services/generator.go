package services

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Aulia153/Leafie-Website/models"
)

// Generator produces synthetic sensor samples for the dashboard when no
// hardware is pushing readings. Ranges mimic a tropical indoor plant.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// Generate returns a fresh reading: temperature uniform in [25.0, 31.0]
// rounded to one decimal, humidity in [50, 85], soil moisture in [45, 80].
func (g *Generator) Generate() models.SensorReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	return models.SensorReading{
		Timestamp:    g.now().Format(models.TimeLayout),
		Temperature:  math.Round((25.0+g.rnd.Float64()*6.0)*10) / 10,
		Humidity:     50 + g.rnd.Intn(36),
		SoilMoisture: 45 + g.rnd.Intn(36),
	}
}
