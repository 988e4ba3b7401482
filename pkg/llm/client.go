package llm

import "context"

// ChatTurn is one prior conversation entry replayed into a synthesis call.
type ChatTurn struct {
	Role    string
	Content string
}

// ArticleContext is one scraped article, already reduced to the text the
// model should see.
type ArticleContext struct {
	Title  string
	Source string
	Date   string
	Text   string
}

// SynthesisInput carries everything one narrative-synthesis call sees.
type SynthesisInput struct {
	Query     string
	History   []ChatTurn
	Chunks    []string
	Articles  []ArticleContext
	Portfolio string
}

type KeywordExtractor interface {
	Keywords(ctx context.Context, query string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, input SynthesisInput) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, title, body string) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
