package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Aulia153/Leafie-Website/config"
	"github.com/Aulia153/Leafie-Website/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := config.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return New(db, zerolog.Nop())
}

func TestGetSetting_DefaultsToOff(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, models.StateOff, s.GetSetting(models.SettingPump))
	assert.Equal(t, models.StateOff, s.GetSetting(models.SettingCamera))
	assert.Equal(t, models.StateOff, s.GetSetting("never-set"))
}

func TestSetSetting_Upserts(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetSetting(models.SettingPump, models.StateOn))
	assert.Equal(t, models.StateOn, s.GetSetting(models.SettingPump))

	// Idempotent on repeat, and overwrites on change.
	require.NoError(t, s.SetSetting(models.SettingPump, models.StateOn))
	assert.Equal(t, models.StateOn, s.GetSetting(models.SettingPump))
	require.NoError(t, s.SetSetting(models.SettingPump, models.StateOff))
	assert.Equal(t, models.StateOff, s.GetSetting(models.SettingPump))
}

func TestToggle_IsItsOwnInverse(t *testing.T) {
	s := newTestStore(t)

	// Never-set key defaults off and toggles on.
	v1, err := s.Toggle(models.SettingPump)
	require.NoError(t, err)
	assert.Equal(t, models.StateOn, v1)

	v2, err := s.Toggle(models.SettingPump)
	require.NoError(t, err)
	assert.Equal(t, models.StateOff, v2)

	// Anything other than ON is treated as off.
	require.NoError(t, s.SetSetting(models.SettingCamera, "weird"))
	v3, err := s.Toggle(models.SettingCamera)
	require.NoError(t, err)
	assert.Equal(t, models.StateOn, v3)
}

func TestAppendAndLatestReading(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LatestReading()
	assert.ErrorIs(t, err, ErrNotFound)

	first := models.SensorReading{Timestamp: "2026-08-31 10:00:00", Temperature: 26.5, Humidity: 60, SoilMoisture: 55}
	require.NoError(t, s.AppendReading(&first))
	assert.NotZero(t, first.ID)

	second := models.SensorReading{Timestamp: "2026-08-31 10:00:05", Temperature: 27.1, Humidity: 61, SoilMoisture: 54}
	require.NoError(t, s.AppendReading(&second))
	assert.Greater(t, second.ID, first.ID)

	latest, err := s.LatestReading()
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestHistory_OrderAndCap(t *testing.T) {
	s := newTestStore(t)

	var appended []int
	for i := 0; i < 10; i++ {
		r := models.SensorReading{
			Timestamp:    time.Date(2026, 8, 31, 10, 0, i, 0, time.UTC).Format(models.TimeLayout),
			Temperature:  25.0,
			Humidity:     50 + i,
			SoilMoisture: 45 + i,
		}
		require.NoError(t, s.AppendReading(&r))
		appended = append(appended, r.Humidity)
	}

	records, err := s.History(4)
	require.NoError(t, err)
	require.Len(t, records, 4)

	// Oldest first, ending with the most recent appends.
	for i, r := range records {
		assert.Equal(t, appended[len(appended)-4+i], r.Humidity)
	}

	all, err := s.History(100)
	require.NoError(t, err)
	assert.Len(t, all, 10)

	// Non-positive limit falls back to the default cap.
	def, err := s.History(0)
	require.NoError(t, err)
	assert.Len(t, def, 10)
}

func TestAllReadings_Uncapped(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < DefaultHistoryLimit+5; i++ {
		require.NoError(t, s.AppendReading(&models.SensorReading{Timestamp: "2026-08-31 10:00:00"}))
	}
	all, err := s.AllReadings()
	require.NoError(t, err)
	assert.Len(t, all, DefaultHistoryLimit+5)
}

func TestActivityLog_Order(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	i := 0
	s.now = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Second)
	}

	s.RecordActivity("Pompa air ON", models.ActivityPump)
	s.RecordActivity("Kamera ON", models.ActivityCamera)
	s.RecordActivity("Deteksi daun: Sehat (45.0%)", models.ActivityLeaf)

	asc, err := s.ListActivity(false)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, models.ActivityPump, asc[0].Type)
	assert.Equal(t, models.ActivityLeaf, asc[2].Type)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, asc[0].Time)

	desc, err := s.ListActivity(true)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, models.ActivityLeaf, desc[0].Type)
	assert.Equal(t, models.ActivityPump, desc[2].Type)
}
