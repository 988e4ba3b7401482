package llm

import (
	"fmt"
	"strings"
)

const synthesisSystemPrompt = `You are a financial assistant. Synthesize a concise, well-formatted, and easily readable market brief based on the user's query and the provided context.

Rules:
1. Ensure all numbers, currency symbols (like NT$), and units (like billion) are clearly separated by single spaces and correctly written (e.g., 'NT$600 billion', not 'NT$600billion')
2. Pay close attention to proper spacing between all words; sentences must be grammatically correct and flow naturally
3. If the context does not fully answer the query, state what you found
4. Do not make up information
5. Present the information clearly and professionally, as plain prose`

const keywordsSystemPrompt = `You are a financial search assistant. Given a user's question about markets or companies, reply with a short search term (a company name, ticker, or 2-4 keywords) that a news search engine would accept.

Reply with the search term only: no quotes, no explanation, one line.`

const articleSummarySystemPrompt = `You are a financial news editor. Summarize the given article in one or two neutral sentences. Keep all facts: numbers, names, dates, percentages. Reply with the summary only.`

// buildSynthesisPrompt renders the user-visible part of a synthesis call.
// Shared by every provider so that switching providers does not change what
// the model sees.
func buildSynthesisPrompt(input SynthesisInput) string {
	var sb strings.Builder

	sb.WriteString("User Query: ")
	sb.WriteString(input.Query)

	if len(input.Chunks) > 0 {
		sb.WriteString("\n\nRetrieved Context:\n")
		sb.WriteString(strings.Join(input.Chunks, "\n\n"))
	}

	if len(input.Articles) > 0 {
		sb.WriteString("\n\nRecent News:\n")
		for i, a := range input.Articles {
			sb.WriteString(fmt.Sprintf("%d. %s", i+1, a.Title))
			if a.Source != "" {
				sb.WriteString(" (" + a.Source)
				if a.Date != "" {
					sb.WriteString(", " + a.Date)
				}
				sb.WriteString(")")
			}
			sb.WriteString("\n   " + a.Text + "\n")
		}
	}

	if input.Portfolio != "" {
		sb.WriteString("\n\nPortfolio Snapshot:\n")
		sb.WriteString(input.Portfolio)
	}

	sb.WriteString("\n\nBased on the query and context, provide the brief.")
	return sb.String()
}

// cleanKeywords reduces a model reply to a single-line search term.
func cleanKeywords(content string) string {
	content = strings.TrimSpace(content)
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	content = strings.Trim(content, `"'`)
	return strings.Join(strings.Fields(content), " ")
}
