package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type SpeechVendor interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
	Speak(ctx context.Context, text string) (io.ReadCloser, error)
}

// SpeechHandler fronts the speech vendor for transcription and per-segment
// text to speech. Speech audio is streamed straight through to the caller.
type SpeechHandler struct {
	vendor SpeechVendor
}

func NewSpeechHandler(vendor SpeechVendor) *SpeechHandler {
	return &SpeechHandler{vendor: vendor}
}

func (h *SpeechHandler) PostTranscribe(c *gin.Context) {
	if h.vendor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "speech vendor not configured"})
		return
	}

	audio, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAudioUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read audio"})
		return
	}

	if len(audio) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio is required"})
		return
	}

	text, err := h.vendor.Transcribe(c.Request.Context(), audio)
	if err != nil {
		slog.Error("transcription failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Transcription failed"})
		return
	}

	c.JSON(http.StatusOK, TranscribeResponse{Text: text})
}

func (h *SpeechHandler) PostSpeak(c *gin.Context) {
	var req SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	if h.vendor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "speech vendor not configured"})
		return
	}

	body, err := h.vendor.Speak(c.Request.Context(), req.Text)
	if err != nil {
		slog.Error("speech synthesis failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Speech synthesis failed"})
		return
	}
	defer body.Close()

	c.Header("Content-Type", "audio/mpeg")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		slog.Warn("audio stream interrupted", "error", err)
	}
}
