package model

import "encoding/json"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry in a conversation log. Turns are chronological; role
// alternation is not guaranteed since a failed brief leaves no assistant turn.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Audio   []byte `json:"audio,omitempty"`
}

// Query is the immutable input for one brief-generation attempt.
type Query struct {
	Text        string
	ChatHistory []Turn
	Portfolio   json.RawMessage
}

type NewsArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	LastUpdated string `json:"last_updated,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

// ContextText returns the text to feed into synthesis for this article,
// degrading summary -> snippet -> "not available".
func (a NewsArticle) ContextText() string {
	if a.Summary != "" {
		return a.Summary
	}
	if a.Snippet != "" {
		return a.Snippet
	}
	return "not available"
}

// SynthesisRequest is the single aggregation point for one brief: everything
// the narrative synthesis call sees, materialized before the call fires.
type SynthesisRequest struct {
	Query       string          `json:"query"`
	ChatHistory []Turn          `json:"chat_history,omitempty"`
	RagChunks   []string        `json:"rag_chunks,omitempty"`
	News        []NewsArticle   `json:"news_articles,omitempty"`
	Portfolio   json.RawMessage `json:"portfolio,omitempty"`
}

// BriefResult is the answer to one query. Audio is optional; a degraded brief
// carries the narrative alone.
type BriefResult struct {
	Narrative string `json:"narrative"`
	Audio     []byte `json:"audio,omitempty"`
}

// DocumentChunk is one indexed piece of the retrieval corpus.
type DocumentChunk struct {
	ID      int64
	Source  string
	Content string
}
