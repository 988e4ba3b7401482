package handler

import (
	"encoding/json"

	"finbrief/internal/model"
)

type BriefRequest struct {
	Query       string          `json:"query"`
	ChatHistory []model.Turn    `json:"chat_history"`
	SessionID   string          `json:"session_id"`
	Portfolio   json.RawMessage `json:"portfolio"`
}

type BriefResponse struct {
	Narrative string `json:"narrative"`
	Audio     []byte `json:"audio,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type QuoteResponse struct {
	Symbol             string  `json:"symbol"`
	Provider           string  `json:"provider"`
	LatestTradingDay   string  `json:"latest_trading_day"`
	LatestClose        float64 `json:"latest_close"`
	PreviousTradingDay string  `json:"previous_trading_day"`
	PreviousClose      float64 `json:"previous_close"`
	ChangePercent      float64 `json:"change_percent"`
}

type NewsRequest struct {
	Query        string `json:"query"`
	ResultsLimit int    `json:"results_limit"`
	SummaryLimit int    `json:"summary_limit"`
}

type NewsResponse struct {
	Articles []model.NewsArticle `json:"articles"`
}

type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type SearchResponse struct {
	Chunks []string `json:"chunks"`
}

type BuildIndexResponse struct {
	IndexedChunks int `json:"indexed_chunks"`
}

type KeywordsRequest struct {
	Query string `json:"query"`
}

type KeywordsResponse struct {
	Keywords string `json:"keywords"`
}

type SynthesizeResponse struct {
	Narrative string `json:"narrative"`
}

type SpeakRequest struct {
	Text string `json:"text"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}
