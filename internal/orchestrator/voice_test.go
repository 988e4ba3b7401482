package orchestrator

import (
	"context"
	"errors"
	"testing"

	"finbrief/internal/model"

	"github.com/go-playground/assert/v2"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	return f.text, f.err
}

type fakeBriefMaker struct {
	result *model.BriefResult
	err    error
	called int
	query  model.Query
}

func (f *fakeBriefMaker) TextBrief(_ context.Context, q model.Query) (*model.BriefResult, error) {
	f.called++
	f.query = q
	return f.result, f.err
}

func TestVoiceBrief_EmptyTranscriptIsNoSpeech(t *testing.T) {
	maker := &fakeBriefMaker{}
	v := NewVoiceAdapter(&fakeTranscriber{text: "   "}, maker)

	_, err := v.VoiceBrief(context.Background(), []byte("audio"))

	assert.Equal(t, true, errors.Is(err, ErrNoSpeechDetected))
	assert.Equal(t, 0, maker.called)
}

func TestVoiceBrief_TransportFailureIsNotNoSpeech(t *testing.T) {
	maker := &fakeBriefMaker{}
	transcriber := &fakeTranscriber{err: &AgentError{Agent: "stt", Kind: FailureConnection}}
	v := NewVoiceAdapter(transcriber, maker)

	_, err := v.VoiceBrief(context.Background(), []byte("audio"))

	assert.Equal(t, false, errors.Is(err, ErrNoSpeechDetected))

	var agentErr *AgentError
	assert.Equal(t, true, errors.As(err, &agentErr))
	assert.Equal(t, 0, maker.called)
}

func TestVoiceBrief_DelegatesWithEmptyHistory(t *testing.T) {
	maker := &fakeBriefMaker{result: &model.BriefResult{Narrative: "done"}}
	v := NewVoiceAdapter(&fakeTranscriber{text: "How is Samsung doing?"}, maker)

	result, err := v.VoiceBrief(context.Background(), []byte("audio"))

	assert.Equal(t, nil, err)
	assert.Equal(t, "done", result.Narrative)
	assert.Equal(t, "How is Samsung doing?", maker.query.Text)
	assert.Equal(t, 0, len(maker.query.ChatHistory))
}
