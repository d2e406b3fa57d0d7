package controllers

import (
	"errors"
	"net/http"

	"github.com/Aulia153/Leafie-Website/middlewares"
	"github.com/Aulia153/Leafie-Website/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LoginPage serves the login state for the external frontend, including any
// flash messages left by a redirect.
func (h *Handler) LoginPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(middlewares.SessionKeyUser) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	flashes := session.Flashes()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{"page": "login", "flashes": flashes})
}

// Login signs the user in through the identity provider and binds the
// session.
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email dan password wajib diisi."})
		return
	}

	if err := h.identity.SignIn(c.Request.Context(), email, password); err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login gagal. Periksa email atau password Anda."})
			return
		}
		h.log.Error().Err(err).Msg("identity sign-in failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Login gagal. Coba lagi."})
		return
	}

	session := sessions.Default(c)
	session.Set(middlewares.SessionKeyUser, email)
	session.AddFlash("Login berhasil!")
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan sesi"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the whole session.
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}
