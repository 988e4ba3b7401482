package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client         *openai.Client
	model          openai.ChatModel
	embeddingModel openai.EmbeddingModel
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:         &client,
		model:          openai.ChatModelGPT4oMini,
		embeddingModel: openai.EmbeddingModelTextEmbedding3Small,
	}
}

func (c *OpenAIClient) Keywords(ctx context.Context, query string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(keywordsSystemPrompt),
			openai.UserMessage(query),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	keywords := cleanKeywords(resp.Choices[0].Message.Content)
	if keywords == "" {
		return "", fmt.Errorf("empty keywords from openai")
	}
	return keywords, nil
}

func (c *OpenAIClient) Synthesize(ctx context.Context, input SynthesisInput) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(synthesisSystemPrompt),
	}
	for _, turn := range input.History {
		if turn.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(buildSynthesisPrompt(input)))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	narrative := strings.TrimSpace(resp.Choices[0].Message.Content)
	if narrative == "" {
		return "", fmt.Errorf("empty narrative from openai")
	}
	return narrative, nil
}

func (c *OpenAIClient) Summarize(ctx context.Context, title, body string) (string, error) {
	userPrompt := fmt.Sprintf("Title: %s\n\n%s", title, body)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(articleSummarySystemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: c.embeddingModel,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings error: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}
