package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"finbrief/internal/model"
)

const (
	defaultNewsLimit    = 5
	defaultSummaryLimit = 2
	defaultTopK         = 3
)

// Collaborators is what the assembler needs from the agent fleet.
type Collaborators interface {
	Keywords(ctx context.Context, query string) (string, error)
	ScrapeNews(ctx context.Context, query string, resultsLimit, summaryLimit int) ([]model.NewsArticle, error)
	Retrieve(ctx context.Context, query string, topK int) ([]string, error)
	Synthesize(ctx context.Context, req model.SynthesisRequest) (string, error)
}

// SpeechSynthesizer turns a full narrative into one audio buffer.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, narrative string) ([]byte, error)
}

// Assembler drives one brief from query to narrative (and optionally audio).
// It is stateless between queries: chat history is caller input and is never
// mutated here.
//
// The pipeline: keyword extraction (raw-query fallback on failure), then
// scrape and retrieve concurrently (each degrades to empty on failure), join,
// synthesize (fatal on failure), then speech (degrades to narrative-only).
type Assembler struct {
	agents Collaborators
	audio  SpeechSynthesizer

	newsLimit    int
	summaryLimit int
	topK         int
}

// NewAssembler wires the collaborators. audio may be nil, in which case every
// brief is narrative-only.
func NewAssembler(agents Collaborators, audio SpeechSynthesizer) *Assembler {
	return &Assembler{
		agents:       agents,
		audio:        audio,
		newsLimit:    defaultNewsLimit,
		summaryLimit: defaultSummaryLimit,
		topK:         defaultTopK,
	}
}

func (a *Assembler) TextBrief(ctx context.Context, q model.Query) (*model.BriefResult, error) {
	term, err := a.agents.Keywords(ctx, q.Text)
	if err != nil || strings.TrimSpace(term) == "" {
		// The one step with a silent fallback: search with the raw query.
		slog.Warn("keyword extraction failed, using raw query", "error", err)
		term = q.Text
	}

	// Scrape and retrieve are independent; a failure in one must not block
	// or cancel the other. Retrieval uses the original query, not the
	// derived search term.
	var (
		wg       sync.WaitGroup
		articles []model.NewsArticle
		chunks   []string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		res, err := a.agents.ScrapeNews(ctx, term, a.newsLimit, a.summaryLimit)
		if err != nil {
			slog.Warn("news scrape failed, continuing without news", "error", err)
			return
		}
		articles = res
	}()
	go func() {
		defer wg.Done()
		res, err := a.agents.Retrieve(ctx, q.Text, a.topK)
		if err != nil {
			slog.Warn("retrieval failed, continuing without context", "error", err)
			return
		}
		chunks = res
	}()
	wg.Wait()

	req := model.SynthesisRequest{
		Query:       q.Text,
		ChatHistory: q.ChatHistory,
		RagChunks:   chunks,
		News:        articles,
		Portfolio:   q.Portfolio,
	}

	narrative, err := a.agents.Synthesize(ctx, req)
	if err != nil {
		return nil, &SynthesisError{Err: err}
	}
	if strings.TrimSpace(narrative) == "" {
		return nil, &SynthesisError{Err: errors.New("empty narrative")}
	}

	result := &model.BriefResult{Narrative: narrative}

	if a.audio != nil {
		audio, err := a.audio.Synthesize(ctx, narrative)
		if err != nil {
			// Audio is an enhancement, not a requirement.
			slog.Warn("speech synthesis failed, returning narrative only", "error", err)
		} else {
			result.Audio = audio
		}
	}

	return result, nil
}
