package config

import (
	"os"
	"strconv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port          string
	DBPath        string
	SessionSecret string
	DeviceSecret  string

	// OTP mail transport (Gmail app password in the reference deployment).
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// Identity provider (Firebase).
	CredentialsFile string
	WebAPIKey       string

	// Camera and image output.
	CameraURL     string
	FallbackImage string
	ImageDir      string

	// When true, /api/sensor synthesizes a fresh reading per poll instead of
	// serving the last hardware push.
	SimulateSensor bool
}

// Load reads the configuration from the environment, applying defaults for
// everything that can sensibly have one.
func Load() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		DBPath:          getenv("DB_PATH", "leafie.db"),
		SessionSecret:   getenv("SESSION_SECRET", "leafie-dev-secret"),
		DeviceSecret:    getenv("DEVICE_TOKEN_SECRET", "leafie-device-secret"),
		SMTPHost:        getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        getenvInt("SMTP_PORT", 587),
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
		MailFrom:        getenv("MAIL_FROM", os.Getenv("SMTP_USER")),
		CredentialsFile: getenv("FIREBASE_CREDENTIALS", "serviceAccountKey.json"),
		WebAPIKey:       os.Getenv("FIREBASE_WEB_API_KEY"),
		CameraURL:       os.Getenv("CAMERA_SNAPSHOT_URL"),
		FallbackImage:   getenv("FALLBACK_LEAF_IMAGE", "static/image/sample_leaf.jpg"),
		ImageDir:        getenv("IMAGE_DIR", "static/image"),
		SimulateSensor:  getenvBool("SIMULATE_SENSOR", true),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
