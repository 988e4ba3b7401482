package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// SegmentSpeaker converts one sentence-bounded segment to audio bytes.
type SegmentSpeaker interface {
	Speak(ctx context.Context, segment string) ([]byte, error)
}

// AudioSynthesizer splits a narrative into sentence segments to respect the
// speech vendor's per-request size ceiling, speaks them in order, and
// concatenates the audio. A failed segment contributes zero bytes; partial
// audio beats no audio.
type AudioSynthesizer struct {
	speaker SegmentSpeaker
}

func NewAudioSynthesizer(speaker SegmentSpeaker) *AudioSynthesizer {
	return &AudioSynthesizer{speaker: speaker}
}

func (s *AudioSynthesizer) Synthesize(ctx context.Context, narrative string) ([]byte, error) {
	segments := segmentSentences(narrative)
	if len(segments) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	failed := 0
	for i, seg := range segments {
		audio, err := s.speaker.Speak(ctx, seg)
		if err != nil {
			slog.Warn("segment speech failed, skipping", "segment", i, "error", err)
			failed++
			continue
		}
		buf.Write(audio)
	}

	if failed == len(segments) {
		return nil, fmt.Errorf("all %d segments failed", failed)
	}
	return buf.Bytes(), nil
}

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// segmentSentences splits at sentence-terminal punctuation followed by
// whitespace. Text with no such boundary is a single segment.
func segmentSentences(text string) []string {
	var segments []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		seg := strings.TrimSpace(text[start : loc[0]+1])
		if seg != "" {
			segments = append(segments, seg)
		}
		start = loc[1]
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		segments = append(segments, tail)
	}
	return segments
}
