package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
)

type fakeSpeaker struct {
	bytesFor func(segment string) ([]byte, error)
	spoken   []string
}

func (f *fakeSpeaker) Speak(_ context.Context, segment string) ([]byte, error) {
	f.spoken = append(f.spoken, segment)
	if f.bytesFor == nil {
		return []byte(segment), nil
	}
	return f.bytesFor(segment)
}

func TestSegmentSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "splits on terminal punctuation",
			input: "Markets rose today. TSMC beat estimates! What next?",
			want:  []string{"Markets rose today.", "TSMC beat estimates!", "What next?"},
		},
		{
			name:  "no punctuation is one segment",
			input: "a narrative with no sentence boundary at all",
			want:  []string{"a narrative with no sentence boundary at all"},
		},
		{
			name:  "trailing punctuation keeps final segment",
			input: "One. Two.",
			want:  []string{"One.", "Two."},
		},
		{
			name:  "decimal points are not boundaries",
			input: "Revenue was NT$600.5 billion. Demand is strong.",
			want:  []string{"Revenue was NT$600.5 billion.", "Demand is strong."},
		},
		{
			name:  "whitespace only yields nothing",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, segmentSentences(tt.input))
		})
	}
}

func TestAudioSynthesize_ConcatenatesInSegmentOrder(t *testing.T) {
	speaker := &fakeSpeaker{}
	s := NewAudioSynthesizer(speaker)

	audio, err := s.Synthesize(context.Background(), "First one. Second one. Third one.")

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"First one.", "Second one.", "Third one."}, speaker.spoken)
	assert.Equal(t, "First one.Second one.Third one.", string(audio))
}

func TestAudioSynthesize_FailedSegmentContributesZeroBytes(t *testing.T) {
	speaker := &fakeSpeaker{
		bytesFor: func(segment string) ([]byte, error) {
			if segment == "Second one." {
				return nil, errors.New("vendor error")
			}
			return []byte(segment), nil
		},
	}
	s := NewAudioSynthesizer(speaker)

	audio, err := s.Synthesize(context.Background(), "First one. Second one. Third one.")

	assert.Equal(t, nil, err)
	assert.Equal(t, "First one.Third one.", string(audio))
}

func TestAudioSynthesize_AllSegmentsFailed(t *testing.T) {
	speaker := &fakeSpeaker{
		bytesFor: func(string) ([]byte, error) { return nil, errors.New("vendor down") },
	}
	s := NewAudioSynthesizer(speaker)

	_, err := s.Synthesize(context.Background(), "One. Two.")
	assert.NotEqual(t, nil, err)
}

func TestAudioSynthesize_EmptyNarrative(t *testing.T) {
	speaker := &fakeSpeaker{}
	s := NewAudioSynthesizer(speaker)

	audio, err := s.Synthesize(context.Background(), "")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(audio))
	assert.Equal(t, 0, len(speaker.spoken))
}
