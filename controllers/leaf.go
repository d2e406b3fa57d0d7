package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Aulia153/Leafie-Website/models"
	"github.com/Aulia153/Leafie-Website/services"

	"github.com/gin-gonic/gin"
)

const latestCaptureName = "leaf_latest.jpg"

// imageRoute is the route prefix the image directory is served under.
const imageRoute = "/images"

// CaptureLeaf grabs one frame from the live camera and stores it under the
// fixed "latest capture" name. A camera fault fails the request and leaves
// no trace: no file, no journal entry.
func (h *Handler) CaptureLeaf(c *gin.Context) {
	frame, err := h.camera.Frame(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoFrame) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Kamera tidak tersedia"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Gagal mengambil gambar dari kamera"})
		return
	}

	if err := os.MkdirAll(h.cfg.ImageDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Gagal menyimpan gambar"})
		return
	}
	if err := os.WriteFile(filepath.Join(h.cfg.ImageDir, latestCaptureName), frame, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Gagal menyimpan gambar"})
		return
	}

	h.store.RecordActivity("Gambar daun terbaru diambil", models.ActivityLeaf)
	c.JSON(http.StatusOK, gin.H{"success": true, "path": imageRoute + "/" + latestCaptureName})
}

// DetectLeaf runs the color-heuristic health check on a frame: the live
// camera if present, otherwise the fallback sample. With no source image at
// all it fails without side effects.
func (h *Handler) DetectLeaf(c *gin.Context) {
	frame, err := h.frames.Frame(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoFrame) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Tidak ada gambar daun yang tersedia"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "error": "Gagal mengambil gambar dari kamera"})
		return
	}

	result, err := services.ClassifyLeaf(frame)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Gagal memproses gambar"})
		return
	}

	name := "leaf_" + time.Now().Format("20060102_150405") + ".jpg"
	if err := services.SaveJPEG(filepath.Join(h.cfg.ImageDir, name), result.Image); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Gagal menyimpan gambar"})
		return
	}

	h.store.RecordActivity(
		fmt.Sprintf("Deteksi daun: %s (%.1f%%)", result.Status, result.Score*100),
		models.ActivityLeaf,
	)
	c.JSON(http.StatusOK, gin.H{
		"status": result.Status,
		"score":  result.Score,
		"image":  imageRoute + "/" + name,
	})
}

// VideoFeed streams frames as multipart MJPEG for as long as the client
// keeps the connection open. The frame source outlives the stream; only the
// loop stops on disconnect.
func (h *Handler) VideoFeed(c *gin.Context) {
	c.Header("Content-Type", "multipart/x-mixed-replace; boundary=frame")

	ctx := c.Request.Context()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, err := h.frames.Frame(ctx)
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(c.Writer,
			"--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame)); err != nil {
			return
		}
		if _, err := c.Writer.Write(frame); err != nil {
			return
		}
		if _, err := c.Writer.Write([]byte("\r\n")); err != nil {
			return
		}
		c.Writer.Flush()
	}
}
