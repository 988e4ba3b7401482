package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"finbrief/internal/model"
	"finbrief/internal/orchestrator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxAudioUpload = 20 << 20

type BriefAssembler interface {
	TextBrief(ctx context.Context, q model.Query) (*model.BriefResult, error)
}

type VoiceAssembler interface {
	VoiceBrief(ctx context.Context, audio []byte) (*model.BriefResult, error)
}

type ConversationStore interface {
	History(ctx context.Context, sessionID string) ([]model.Turn, error)
	Append(ctx context.Context, sessionID string, turns ...model.Turn) error
}

// BriefHandler exposes the two brief entry points. Session persistence is
// handled here, not in the pipeline: the assembler only ever sees history as
// caller input.
type BriefHandler struct {
	assembler BriefAssembler
	voice     VoiceAssembler
	sessions  ConversationStore
}

func NewBriefHandler(assembler BriefAssembler, voice VoiceAssembler, sessions ConversationStore) *BriefHandler {
	return &BriefHandler{assembler: assembler, voice: voice, sessions: sessions}
}

func (h *BriefHandler) PostTextBrief(c *gin.Context) {
	var req BriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	requestID := uuid.NewString()
	slog.Info("text brief requested", "request_id", requestID, "session_id", req.SessionID)

	history := req.ChatHistory
	if req.SessionID != "" && h.sessions != nil {
		stored, err := h.sessions.History(c.Request.Context(), req.SessionID)
		if err != nil {
			slog.Warn("session history unavailable, continuing without it", "request_id", requestID, "error", err)
		} else {
			history = append(stored, history...)
		}
	}

	query := model.Query{
		Text:        req.Query,
		ChatHistory: history,
		Portfolio:   req.Portfolio,
	}

	result, err := h.assembler.TextBrief(c.Request.Context(), query)
	if err != nil {
		respondBriefError(c, requestID, err)
		return
	}

	if req.SessionID != "" && h.sessions != nil {
		turns := []model.Turn{
			{Role: model.RoleUser, Content: req.Query},
			{Role: model.RoleAssistant, Content: result.Narrative},
		}
		if err := h.sessions.Append(c.Request.Context(), req.SessionID, turns...); err != nil {
			slog.Error("failed to persist session turns", "request_id", requestID, "error", err)
		}
	}

	c.JSON(http.StatusOK, BriefResponse{
		Narrative: result.Narrative,
		Audio:     result.Audio,
		SessionID: req.SessionID,
	})
}

func (h *BriefHandler) PostVoiceBrief(c *gin.Context) {
	audio, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAudioUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read audio"})
		return
	}

	if len(audio) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio is required"})
		return
	}

	requestID := uuid.NewString()
	slog.Info("voice brief requested", "request_id", requestID, "audio_bytes", len(audio))

	result, err := h.voice.VoiceBrief(c.Request.Context(), audio)
	if err != nil {
		if errors.Is(err, orchestrator.ErrNoSpeechDetected) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No speech detected"})
			return
		}
		respondBriefError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, BriefResponse{
		Narrative: result.Narrative,
		Audio:     result.Audio,
	})
}

func (h *BriefHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func respondBriefError(c *gin.Context, requestID string, err error) {
	var synthErr *orchestrator.SynthesisError
	if errors.As(err, &synthErr) {
		slog.Error("narrative synthesis failed", "request_id", requestID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not generate brief"})
		return
	}

	slog.Error("brief failed", "request_id", requestID, "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "Brief generation failed"})
}
