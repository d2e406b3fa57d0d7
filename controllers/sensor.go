package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Aulia153/Leafie-Website/models"
	"github.com/Aulia153/Leafie-Website/store"
	"github.com/Aulia153/Leafie-Website/utils"

	"github.com/gin-gonic/gin"
)

// GetSensor returns the current reading plus the actuator states. In
// simulator mode each poll synthesizes and persists a fresh sample;
// otherwise the latest pushed reading is served.
func (h *Handler) GetSensor(c *gin.Context) {
	var reading models.SensorReading

	if h.cfg.SimulateSensor {
		reading = h.gen.Generate()
		// A persistence fault must not blank the dashboard: log and serve
		// the generated sample anyway.
		if err := h.store.AppendReading(&reading); err != nil {
			h.log.Warn().Err(err).Msg("persist generated reading failed")
		}
		h.observeReading(reading)
	} else {
		latest, err := h.store.LatestReading()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No sensor data yet"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sensor data"})
			return
		}
		reading = *latest
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            reading.ID,
		"timestamp":     reading.Timestamp,
		"temperature":   reading.Temperature,
		"humidity":      reading.Humidity,
		"soil_moisture": reading.SoilMoisture,
		"pump":          h.store.GetSetting(models.SettingPump),
		"camera":        h.store.GetSetting(models.SettingCamera),
	})
}

// Ingest accepts a reading pushed by sensor hardware. The timestamp is
// assigned server-side so the board does not need a clock.
func (h *Handler) Ingest(c *gin.Context) {
	var reading models.SensorReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	reading.ID = 0
	reading.Timestamp = time.Now().Format(models.TimeLayout)

	if err := h.store.AppendReading(&reading); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store data"})
		return
	}
	h.observeReading(reading)

	c.JSON(http.StatusOK, gin.H{"message": "Data received successfully"})
}

// GetHistory returns up to `limit` readings, oldest first.
func (h *Handler) GetHistory(c *gin.Context) {
	limit := store.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	records, err := h.store.History(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetActivity returns the journal for the dashboard's activity panel,
// newest first unless order=asc.
func (h *Handler) GetActivity(c *gin.Context) {
	entries, err := h.store.ListActivity(c.Query("order") != "asc")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ExportCSV streams the readings log (or, with ?data=activity, the journal)
// as a CSV attachment. Zero rows is answered distinctly from a storage
// fault.
func (h *Handler) ExportCSV(c *gin.Context) {
	var (
		filename string
		header   []string
		rows     [][]string
	)

	switch c.Query("data") {
	case "", "readings":
		records, err := h.store.AllReadings()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data"})
			return
		}
		filename = "sensor_data.csv"
		header = []string{"id", "timestamp", "temperature", "humidity", "soil_moisture"}
		for _, r := range records {
			rows = append(rows, []string{
				strconv.FormatUint(uint64(r.ID), 10),
				r.Timestamp,
				fmt.Sprintf("%.1f", r.Temperature),
				strconv.Itoa(r.Humidity),
				strconv.Itoa(r.SoilMoisture),
			})
		}
	case "activity":
		entries, err := h.store.ListActivity(false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data"})
			return
		}
		filename = "activity_log.csv"
		header = []string{"time", "type", "description"}
		for _, e := range entries {
			rows = append(rows, []string{e.Time, e.Type, e.Description})
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown export type"})
		return
	}

	var buf bytes.Buffer
	if err := utils.WriteCSV(&buf, header, rows); err != nil {
		if errors.Is(err, utils.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No data to export"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// observeReading broadcasts the reading to websocket clients and journals
// transitions in and out of the abnormal band. The comparison state is
// process-wide and mutex-guarded.
func (h *Handler) observeReading(reading models.SensorReading) {
	h.hub.Broadcast(reading)

	h.mu.Lock()
	prev := h.last
	h.last = &reading
	h.mu.Unlock()

	abnormal := utils.CheckAbnormal(reading)
	wasAbnormal := prev != nil && utils.CheckAbnormal(*prev)

	switch {
	case abnormal && !wasAbnormal:
		h.store.RecordActivity(
			fmt.Sprintf("%s di luar batas normal", utils.AbnormalField(reading)),
			models.ActivitySensor,
		)
	case !abnormal && wasAbnormal:
		h.store.RecordActivity("Pembacaan sensor kembali normal", models.ActivitySensor)
	}
}
