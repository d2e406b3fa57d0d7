package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCamera_Fetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpegbytes"))
	}))
	defer srv.Close()

	cam := NewSnapshotCamera(srv.URL)
	frame, err := cam.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), frame)
}

func TestSnapshotCamera_UpstreamFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cam := NewSnapshotCamera(srv.URL)
	_, err := cam.Frame(context.Background())
	assert.Error(t, err)
}

func TestSnapshotCamera_Unconfigured(t *testing.T) {
	cam := NewSnapshotCamera("")
	_, err := cam.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.jpg")
	require.NoError(t, os.WriteFile(path, []byte("sample"), 0o644))

	src := &FileSource{Path: path}
	frame, err := src.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("sample"), frame)

	missing := &FileSource{Path: filepath.Join(t.TempDir(), "nope.jpg")}
	_, err = missing.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNoFrame)
}

type stubSource struct {
	frame []byte
	err   error
}

func (s *stubSource) Frame(context.Context) ([]byte, error) { return s.frame, s.err }

func TestFallbackSource(t *testing.T) {
	live := &stubSource{frame: []byte("live")}
	sample := &stubSource{frame: []byte("sample")}

	src := &FallbackSource{Primary: live, Fallback: sample}
	frame, err := src.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("live"), frame)

	live.err = errors.New("camera offline")
	frame, err = src.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("sample"), frame)

	sample.err = ErrNoFrame
	_, err = src.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNoFrame)
}
