package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/http/render"
	"glamup.com/app/internal/modules/auth"
	"glamup.com/app/internal/shared/apperr"
	"glamup.com/app/pkg/view"
)

// Welcomer sends the post-registration mail.
type Welcomer interface {
	SendWelcome(ctx context.Context, name, addr string) error
}

type AuthHandler struct {
	Svc          *auth.Service
	Welcome      Welcomer // optional
	Log          *slog.Logger
	CookieName   string
	CookieSecure bool
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type validateStepRequest struct {
	Step int `json:"step"`
	auth.RegisterInput
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in auth.RegisterInput
	if !render.DecodeJSON(c, &in) {
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), in, clientMeta(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	if h.Welcome != nil {
		go func(u auth.User) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.Welcome.SendWelcome(ctx, u.Name, u.Email); err != nil {
				h.Log.Warn("welcome_mail_failed", "user_id", u.ID, "err", err)
			}
		}(res.User)
	}
	h.setSessionCookie(c, res)
	render.Created(c, view.SessionOf(res))
}

// ValidateStep checks one step of the registration form without creating anything.
func (h *AuthHandler) ValidateStep(c *gin.Context) {
	var in validateStepRequest
	if !render.DecodeJSON(c, &in) {
		return
	}
	if fields := auth.ValidateStep(in.Step, in.RegisterInput); fields != nil {
		middleware.Fail(c, apperr.InvalidErr("Please correct the highlighted fields.", fields))
		return
	}
	next := in.Step + 1
	if in.Step == auth.LastStep {
		next = 0
	}
	render.OK(c, gin.H{"valid": true, "nextStep": next})
}

func (h *AuthHandler) Options(c *gin.Context) {
	render.OK(c, view.RegisterOptionsOf())
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginRequest
	if !render.BindJSON(c, &in) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), in.Email, in.Password, clientMeta(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	h.setSessionCookie(c, res)
	render.OK(c, view.SessionOf(res))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if p, ok := middleware.CurrentPrincipal(c); ok {
		if err := h.Svc.Logout(c.Request.Context(), p.SessionID); err != nil {
			middleware.Fail(c, err)
			return
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, "", -1, "/", "", h.CookieSecure, true)
	render.NoContent(c)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, res auth.Result) {
	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, res.Token, maxAge, "/", "", h.CookieSecure, true)
}

func clientMeta(c *gin.Context) auth.ClientMeta {
	return auth.ClientMeta{UserAgent: c.Request.UserAgent(), IP: c.ClientIP()}
}
