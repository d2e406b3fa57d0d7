package store

import (
	"errors"
	"time"

	"github.com/Aulia153/Leafie-Website/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DefaultHistoryLimit caps history queries when the caller passes no limit.
const DefaultHistoryLimit = 50

// Store is the persistence layer: actuator settings, the append-only
// readings log and the activity journal, all in the embedded database.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
	now func() time.Time
}

func New(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log, now: time.Now}
}

// GetSetting returns the stored value for key, or OFF when the key has
// never been set. It never fails: on a storage fault it logs and falls
// back to OFF so the dashboard keeps rendering.
func (s *Store) GetSetting(key string) string {
	var setting models.Setting
	if err := s.db.First(&setting, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("read setting failed, assuming OFF")
		}
		return models.StateOff
	}
	return setting.Value
}

// SetSetting upserts the value for key. Idempotent.
func (s *Store) SetSetting(key, value string) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
}

// Toggle flips the setting between ON and OFF, treating any value other
// than ON as off, and returns the new value. Safe to call on a key that
// was never set: it defaults to OFF and toggles to ON.
func (s *Store) Toggle(key string) (string, error) {
	next := models.StateOn
	if s.GetSetting(key) == models.StateOn {
		next = models.StateOff
	}
	if err := s.SetSetting(key, next); err != nil {
		return "", err
	}
	return next, nil
}

// AppendReading inserts a reading; the database assigns the next id.
func (s *Store) AppendReading(r *models.SensorReading) error {
	return s.db.Create(r).Error
}

// LatestReading returns the most recent reading by id.
func (s *Store) LatestReading() (*models.SensorReading, error) {
	var r models.SensorReading
	if err := s.db.Order("id desc").First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// History returns up to limit readings, oldest first, ending with the most
// recent. A non-positive limit uses DefaultHistoryLimit.
func (s *Store) History(limit int) ([]models.SensorReading, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var records []models.SensorReading
	if err := s.db.Order("id desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// AllReadings returns the complete readings log, oldest first. Used by the
// CSV export, which is not capped.
func (s *Store) AllReadings() ([]models.SensorReading, error) {
	var records []models.SensorReading
	if err := s.db.Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// RecordActivity appends a journal entry with the current timestamp.
// Activity logging is a non-critical path: a storage fault is logged and
// swallowed so it never fails the parent operation.
func (s *Store) RecordActivity(description, entryType string) {
	entry := models.ActivityEntry{
		Time:        s.now().Format(models.TimeLayout),
		Description: description,
		Type:        entryType,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Warn().Err(err).Str("type", entryType).Msg("record activity failed")
	}
}

// ListActivity returns all journal entries ordered by time. Timestamps are
// zero-padded fixed-width strings, so string ordering is chronological.
func (s *Store) ListActivity(descending bool) ([]models.ActivityEntry, error) {
	order := "time asc, id asc"
	if descending {
		order = "time desc, id desc"
	}
	var entries []models.ActivityEntry
	if err := s.db.Order(order).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
