package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ErrNoFrame means no source image is available, neither a live camera
// frame nor a fallback sample.
var ErrNoFrame = errors.New("no frame available")

const maxFrameBytes = 8 << 20

// FrameSource yields one image per call. The dashboard depends on this
// abstraction so tests can substitute canned frames for the camera.
type FrameSource interface {
	Frame(ctx context.Context) ([]byte, error)
}

// SnapshotCamera pulls single JPEG frames from an IP camera's snapshot URL
// (an ESP32-CAM `/capture` endpoint in the reference setup).
type SnapshotCamera struct {
	url    string
	client *http.Client
}

func NewSnapshotCamera(url string) *SnapshotCamera {
	return &SnapshotCamera{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *SnapshotCamera) Frame(ctx context.Context) ([]byte, error) {
	if s.url == "" {
		return nil, ErrNoFrame
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("camera fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera fetch: HTTP %d", resp.StatusCode)
	}
	frame, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBytes))
	if err != nil {
		return nil, fmt.Errorf("camera fetch: %w", err)
	}
	return frame, nil
}

// FileSource serves a static sample image from disk.
type FileSource struct {
	Path string
}

func (f *FileSource) Frame(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoFrame
		}
		return nil, err
	}
	return b, nil
}

// FallbackSource tries the live camera first and falls back to the sample
// image when the camera is absent or faulting.
type FallbackSource struct {
	Primary  FrameSource
	Fallback FrameSource
}

func (f *FallbackSource) Frame(ctx context.Context) ([]byte, error) {
	if b, err := f.Primary.Frame(ctx); err == nil {
		return b, nil
	}
	return f.Fallback.Frame(ctx)
}
