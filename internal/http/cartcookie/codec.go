// Package cartcookie identifies anonymous carts with an HMAC-signed cookie.
package cartcookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrInvalid = errors.New("invalid cart cookie")

const DefaultName = "glamup_cart"

type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

func New(secret []byte, name string, secure bool, maxAge time.Duration) *Codec {
	if name == "" {
		name = DefaultName
	}
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	return &Codec{Secret: secret, CookieName: name, Secure: secure, MaxAge: maxAge}
}

// NewID returns a fresh cart id. Ids never contain '.'.
func NewID() string { return uuid.NewString() }

// Encode produces "<cartID>.<base64url(hmac-sha256(cartID))>".
func (c *Codec) Encode(cartID string) string {
	return cartID + "." + c.sign(cartID)
}

func (c *Codec) Decode(v string) (string, error) {
	id, sig, ok := strings.Cut(v, ".")
	if !ok || id == "" || strings.Contains(sig, ".") {
		return "", ErrInvalid
	}
	if !hmac.Equal([]byte(c.sign(id)), []byte(sig)) {
		return "", ErrInvalid
	}
	return id, nil
}

// GetCartID reads and verifies the cookie; a tampered cookie is cleared.
func (c *Codec) GetCartID(ctx *gin.Context) (string, bool) {
	v, err := ctx.Cookie(c.CookieName)
	if err != nil || v == "" {
		return "", false
	}
	id, err := c.Decode(v)
	if err != nil {
		c.Clear(ctx)
		return "", false
	}
	return id, true
}

func (c *Codec) Set(ctx *gin.Context, cartID string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, c.Encode(cartID), int(c.MaxAge.Seconds()), "/", "", c.Secure, true)
}

func (c *Codec) Clear(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, "", -1, "/", "", c.Secure, true)
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.Secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
