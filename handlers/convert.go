package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tubeclip/services"
	"tubeclip/types"
)

// ConvertHandler handles the conversion endpoint
type ConvertHandler struct {
	pipeline services.Pipeline
}

// NewConvertHandler creates a new convert handler
func NewConvertHandler(p services.Pipeline) *ConvertHandler {
	return &ConvertHandler{pipeline: p}
}

// Convert runs the conversion pipeline for a URL and streams the MP3 back.
// The resolved video title travels in the X-Video-Title header, separate
// from any title the caller asked to embed as a tag.
func (h *ConvertHandler) Convert(c *gin.Context) {
	var req types.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid input: url is required",
		})
		return
	}

	result, err := h.pipeline.Convert(c.Request.Context(), &req)
	if err != nil {
		log.Printf("Conversion failed for %s: %v", req.URL, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Video-Title", result.Title)
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", downloadName(&req, result)))
	c.Data(http.StatusOK, "audio/mpeg", result.Audio)
}

// statusForError maps the pipeline failure taxonomy onto HTTP statuses:
// caller-correctable problems read as 4xx, processing failures as 5xx.
func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrSourceUnavailable):
		return http.StatusNotFound
	case errors.Is(err, types.ErrUpstreamFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// downloadName prefers the caller's tag title for the saved filename and
// falls back to the resolved title, truncated to keep names manageable.
func downloadName(req *types.ConvertRequest, result *types.ConversionResult) string {
	name := req.Title
	if name == "" {
		name = truncateRunes(result.Title, 50)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "audio"
	}
	return name + ".mp3"
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
