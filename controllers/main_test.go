package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Aulia153/Leafie-Website/config"
	"github.com/Aulia153/Leafie-Website/middlewares"
	"github.com/Aulia153/Leafie-Website/services"
	"github.com/Aulia153/Leafie-Website/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testDeviceSecret = "test-device-secret"

// --- local fakes ---

type fakeIdentity struct {
	known     map[string]bool
	resetSent []string
	fail      error
}

func (f *fakeIdentity) Lookup(_ context.Context, email string) error {
	if f.fail != nil {
		return f.fail
	}
	if !f.known[email] {
		return services.ErrEmailNotFound
	}
	return nil
}

func (f *fakeIdentity) SendResetLink(_ context.Context, email string) error {
	if f.fail != nil {
		return f.fail
	}
	f.resetSent = append(f.resetSent, email)
	return nil
}

func (f *fakeIdentity) SignIn(_ context.Context, _, _ string) error { return f.fail }

type fakeMailer struct {
	sent []string // message bodies
	fail error
}

func (f *fakeMailer) Send(_, _, body string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, body)
	return nil
}

type stubFrames struct {
	frame []byte
	err   error
}

func (s *stubFrames) Frame(context.Context) ([]byte, error) { return s.frame, s.err }

// --- environment ---

type testEnv struct {
	t        *testing.T
	router   *gin.Engine
	handler  *Handler
	store    *store.Store
	identity *fakeIdentity
	mailer   *fakeMailer
	camera   *stubFrames
	frames   *stubFrames
	cfg      *config.Config
}

func newTestEnv(t *testing.T, knownEmails ...string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	st := store.New(db, zerolog.Nop())

	identity := &fakeIdentity{known: map[string]bool{}}
	for _, e := range knownEmails {
		identity.known[e] = true
	}
	mailer := &fakeMailer{}
	flow := services.NewResetFlow(services.NewOTPStore(), identity, mailer, zerolog.Nop())

	camera := &stubFrames{}
	frames := &stubFrames{}

	cfg := &config.Config{
		ImageDir:       t.TempDir(),
		SimulateSensor: true,
		DeviceSecret:   testDeviceSecret,
	}

	h := NewHandler(cfg, st, services.NewGenerator(1), flow, identity, camera, frames, NewHub(zerolog.Nop()), zerolog.Nop())

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	r.GET("/lupaPassword", h.ForgotPasswordPage)
	r.POST("/lupaPassword", h.ForgotPassword)
	r.GET("/verifikasiOTP", h.VerifyOTPPage)
	r.POST("/verifikasiOTP", h.VerifyOTP)
	r.GET("/resetPassword", h.ResetPasswordPage)
	r.POST("/resetPassword", h.ResetPassword)
	r.POST("/resend_otp", h.ResendOTP)

	r.POST("/api/ingest", middlewares.DeviceAuth([]byte(cfg.DeviceSecret)), h.Ingest)

	r.GET("/api/sensor", h.GetSensor)
	r.GET("/api/history", h.GetHistory)
	r.GET("/api/activity", h.GetActivity)
	r.POST("/api/pump", h.TogglePump)
	r.POST("/api/camera", h.ToggleCamera)
	r.GET("/api/export", h.ExportCSV)
	r.POST("/capture_leaf", h.CaptureLeaf)
	r.POST("/detect_leaf", h.DetectLeaf)

	return &testEnv{
		t:        t,
		router:   r,
		handler:  h,
		store:    st,
		identity: identity,
		mailer:   mailer,
		camera:   camera,
		frames:   frames,
		cfg:      cfg,
	}
}

// postForm sends an urlencoded form with the given session cookies.
func (e *testEnv) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// mergeCookies overlays fresh response cookies onto the jar, replacing any
// cookie with the same name.
func mergeCookies(jar []*http.Cookie, resp *httptest.ResponseRecorder) []*http.Cookie {
	for _, fresh := range resp.Result().Cookies() {
		replaced := false
		for i, old := range jar {
			if old.Name == fresh.Name {
				jar[i] = fresh
				replaced = true
				break
			}
		}
		if !replaced {
			jar = append(jar, fresh)
		}
	}
	return jar
}
