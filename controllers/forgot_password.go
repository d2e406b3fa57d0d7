package controllers

import (
	"errors"
	"net/http"

	"github.com/Aulia153/Leafie-Website/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys for the reset flow, mirroring the dashboard frontend.
const (
	sessionKeyResetEmail  = "reset_email"
	sessionKeyOTPVerified = "otp_verified"
)

// flowSession reads the reset-flow state out of the browser session.
func flowSession(c *gin.Context) services.ResetSession {
	session := sessions.Default(c)
	sess := services.ResetSession{}
	if v, ok := session.Get(sessionKeyResetEmail).(string); ok {
		sess.Email = v
	}
	if v, ok := session.Get(sessionKeyOTPVerified).(bool); ok {
		sess.Verified = v
	}
	return sess
}

func saveFlowSession(c *gin.Context, sess services.ResetSession) error {
	session := sessions.Default(c)
	session.Set(sessionKeyResetEmail, sess.Email)
	session.Set(sessionKeyOTPVerified, sess.Verified)
	return session.Save()
}

// restartFlow sends the caller back to the request step with a flash.
func restartFlow(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.Delete(sessionKeyResetEmail)
	session.Delete(sessionKeyOTPVerified)
	session.AddFlash(message)
	_ = session.Save()
	c.Redirect(http.StatusFound, "/lupaPassword")
}

// ForgotPasswordPage serves the flow entry step.
func (h *Handler) ForgotPasswordPage(c *gin.Context) {
	session := sessions.Default(c)
	flashes := session.Flashes()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{"page": "lupaPassword", "flashes": flashes})
}

// ForgotPassword starts the reset flow for the submitted email: provider
// lookup, fresh OTP, mail dispatch, email bound into the session.
func (h *Handler) ForgotPassword(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email wajib diisi."})
		return
	}

	sess, err := h.flow.Request(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email tidak terdaftar. Silakan gunakan email yang valid."})
			return
		}
		h.log.Error().Err(err).Msg("otp request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Gagal mengirim email OTP."})
		return
	}

	if err := saveFlowSession(c, sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan sesi"})
		return
	}
	c.Redirect(http.StatusFound, "/verifikasiOTP")
}

// VerifyOTPPage serves the verification step; without a bound email the
// session has lapsed and the caller restarts.
func (h *Handler) VerifyOTPPage(c *gin.Context) {
	if flowSession(c).Email == "" {
		restartFlow(c, "Sesi telah berakhir. Silakan ulangi proses.")
		return
	}
	session := sessions.Default(c)
	flashes := session.Flashes()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{"page": "verifikasiOTP", "flashes": flashes})
}

// VerifyOTP checks the submitted code. A wrong code keeps the caller on
// this step; a missing or expired record restarts the flow.
func (h *Handler) VerifyOTP(c *gin.Context) {
	sess, err := h.flow.Verify(flowSession(c), c.PostForm("otp"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			restartFlow(c, "Sesi telah berakhir. Silakan ulangi proses.")
		case errors.Is(err, services.ErrNoOTP):
			restartFlow(c, "OTP tidak ditemukan. Silakan kirim ulang.")
		case errors.Is(err, services.ErrCodeExpired):
			restartFlow(c, "OTP sudah kadaluarsa. Silakan ulangi proses.")
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "OTP salah."})
		}
		return
	}

	if err := saveFlowSession(c, sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan sesi"})
		return
	}
	c.Redirect(http.StatusFound, "/resetPassword")
}

// ResetPasswordPage serves the final step, gated on a verified session.
func (h *Handler) ResetPasswordPage(c *gin.Context) {
	sess := flowSession(c)
	if sess.Email == "" || !sess.Verified {
		restartFlow(c, "Akses tidak sah. Silakan ulangi dari awal.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": "resetPassword"})
}

// ResetPassword completes the flow: the provider dispatches its reset link
// and the whole session is cleared, returning the flow to idle.
func (h *Handler) ResetPassword(c *gin.Context) {
	err := h.flow.Reset(c.Request.Context(), flowSession(c), c.PostForm("password"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			restartFlow(c, "Akses tidak sah. Silakan ulangi dari awal.")
		case errors.Is(err, services.ErrPasswordRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password baru wajib diisi."})
		default:
			h.log.Error().Err(err).Msg("password reset dispatch failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Gagal mengatur ulang password. Coba lagi."})
		}
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.AddFlash("Tautan reset password telah dikirim ke email Anda.")
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}

// ResendOTP regenerates and redispatches the code for the session-bound
// email. JSON in and out; the frontend calls it from the verify page.
func (h *Handler) ResendOTP(c *gin.Context) {
	err := h.flow.Resend(flowSession(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Sesi tidak ditemukan"})
		case errors.Is(err, services.ErrNoOTP):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "OTP tidak ditemukan"})
		default:
			h.log.Error().Err(err).Msg("otp resend failed")
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Gagal mengirim email"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "OTP baru dikirim"})
}
