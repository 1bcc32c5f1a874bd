package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/http/render"
	"glamup.com/app/internal/modules/auth"
	"glamup.com/app/internal/shared/apperr"
	"glamup.com/app/internal/storage"
	"glamup.com/app/pkg/view"
)

const MaxAvatarBytes = 5 << 20

type AccountHandler struct {
	Auth    *auth.Service
	Storage storage.Storage
	Log     *slog.Logger
}

func (h *AccountHandler) Get(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	render.OK(c, gin.H{"user": view.UserOf(u)})
}

func (h *AccountHandler) Update(c *gin.Context) {
	var patch auth.ProfilePatch
	if !render.DecodeJSON(c, &patch) {
		return
	}
	u, _ := middleware.CurrentUser(c)
	updated, err := h.Auth.UpdateProfile(c.Request.Context(), u.ID, patch)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"user": view.UserOf(updated)})
}

// ChangePassword keeps the calling session and signs out every other device.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var in auth.PasswordChange
	if !render.DecodeJSON(c, &in) {
		return
	}
	p, _ := middleware.CurrentPrincipal(c)
	if err := h.Auth.ChangePassword(c.Request.Context(), p.User.ID, p.SessionID, in); err != nil {
		middleware.Fail(c, err)
		return
	}
	render.NoContent(c)
}

// UploadAvatar accepts a multipart "avatar" image of at most 5MB.
func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxAvatarBytes+1<<20)

	fh, err := c.FormFile("avatar")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			middleware.Fail(c, avatarErr("Image must be 5MB or smaller."))
			return
		}
		middleware.Fail(c, avatarErr("Please choose an image to upload."))
		return
	}
	if fh.Size > MaxAvatarBytes {
		middleware.Fail(c, avatarErr("Image must be 5MB or smaller."))
		return
	}

	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	ct, body, err := storage.SniffImage(f)
	if errors.Is(err, storage.ErrNotImage) {
		middleware.Fail(c, avatarErr("Only PNG, JPEG, WebP and GIF images are accepted."))
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	ctx := c.Request.Context()
	res, err := h.Storage.Put(ctx, body, storage.PutInput{Folder: "avatars", ContentType: ct, Size: fh.Size})
	if err != nil {
		middleware.Fail(c, apperr.UnavailableErr("Could not store the image. Please try again.", err))
		return
	}

	u, _ := middleware.CurrentUser(c)
	updated, err := h.Auth.SetAvatar(ctx, u.ID, res.URL)
	if err != nil {
		if derr := h.Storage.Delete(ctx, res.Key); derr != nil {
			h.Log.Warn("avatar_cleanup_failed", "key", res.Key, "err", derr)
		}
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"user": view.UserOf(updated)})
}

func avatarErr(msg string) error {
	return apperr.InvalidErr(msg, map[string]string{"avatar": msg})
}
