package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"finbrief/internal/model"
)

// Transcriber converts raw audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// BriefMaker is the piece of the assembler the voice path needs.
type BriefMaker interface {
	TextBrief(ctx context.Context, q model.Query) (*model.BriefResult, error)
}

// VoiceAdapter is the alternate entry point: transcribe first, then assemble.
// Voice queries carry no chat history.
type VoiceAdapter struct {
	transcriber Transcriber
	assembler   BriefMaker
}

func NewVoiceAdapter(transcriber Transcriber, assembler BriefMaker) *VoiceAdapter {
	return &VoiceAdapter{transcriber: transcriber, assembler: assembler}
}

func (v *VoiceAdapter) VoiceBrief(ctx context.Context, audio []byte) (*model.BriefResult, error) {
	text, err := v.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrNoSpeechDetected
	}

	return v.assembler.TextBrief(ctx, model.Query{Text: text})
}
