package main

import (
	"context"
	"os"
	"time"

	"github.com/Aulia153/Leafie-Website/config"
	"github.com/Aulia153/Leafie-Website/controllers"
	"github.com/Aulia153/Leafie-Website/middlewares"
	"github.com/Aulia153/Leafie-Website/services"
	"github.com/Aulia153/Leafie-Website/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	godotenv.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()

	db, err := config.OpenDB(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	st := store.New(db, logger)

	identity, err := services.NewFirebaseIdentity(context.Background(), cfg.CredentialsFile, cfg.WebAPIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init identity provider")
	}

	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	flow := services.NewResetFlow(services.NewOTPStore(), identity, mailer, logger)

	camera := services.NewSnapshotCamera(cfg.CameraURL)
	frames := &services.FallbackSource{
		Primary:  camera,
		Fallback: &services.FileSource{Path: cfg.FallbackImage},
	}

	hub := controllers.NewHub(logger)
	gen := services.NewGenerator(time.Now().UnixNano())
	h := controllers.NewHandler(cfg, st, gen, flow, identity, camera, frames, hub, logger)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(sessions.Sessions("leafie_session", cookie.NewStore([]byte(cfg.SessionSecret))))
	r.Use(middlewares.Metrics())

	// Public routes
	r.Static("/images", cfg.ImageDir)
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.GET("/lupaPassword", h.ForgotPasswordPage)
	r.POST("/lupaPassword", h.ForgotPassword)
	r.GET("/verifikasiOTP", h.VerifyOTPPage)
	r.POST("/verifikasiOTP", h.VerifyOTP)
	r.GET("/resetPassword", h.ResetPasswordPage)
	r.POST("/resetPassword", h.ResetPassword)
	r.POST("/resend_otp", h.ResendOTP)

	// Hardware push, gated by the device token
	r.POST("/api/ingest", middlewares.DeviceAuth([]byte(cfg.DeviceSecret)), h.Ingest)

	// Dashboard routes, gated by the browser session
	auth := r.Group("/")
	auth.Use(middlewares.SessionRequired())
	auth.GET("/ws", hub.Serve)
	auth.GET("/api/sensor", h.GetSensor)
	auth.GET("/api/history", h.GetHistory)
	auth.GET("/api/activity", h.GetActivity)
	auth.POST("/api/pump", h.TogglePump)
	auth.POST("/api/camera", h.ToggleCamera)
	auth.GET("/api/export", h.ExportCSV)
	auth.GET("/export_csv", h.ExportCSV)
	auth.POST("/capture_leaf", h.CaptureLeaf)
	auth.POST("/detect_leaf", h.DetectLeaf)
	auth.POST("/api/detect_leaf", h.DetectLeaf)
	auth.GET("/video_feed", h.VideoFeed)

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
