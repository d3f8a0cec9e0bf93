package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/media"
)

type MediaHandler struct {
	uploader *media.Uploader
}

func NewMediaHandler(uploader *media.Uploader) *MediaHandler {
	return &MediaHandler{uploader: uploader}
}

// Upload stores a reference image sent as multipart field "file" and
// returns the key to put in an appointment's reference_image.
func (h *MediaHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httperr.Respond(c, httperr.ErrValidation("file", "required"))
		return
	}
	if fh.Size > media.MaxUploadBytes {
		httperr.Respond(c, httperr.ErrValidation("file", "too_large"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Could not read upload.")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, media.MaxUploadBytes+1))
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Could not read upload.")
		return
	}

	key, err := h.uploader.Upload(c.Request.Context(), raw)
	if errors.Is(err, media.ErrDisabled) {
		httperr.Write(c, http.StatusServiceUnavailable, "uploads_disabled", "Image storage is not configured.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}
