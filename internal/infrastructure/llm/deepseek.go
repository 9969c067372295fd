package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"PaperRecommender/internal/config"
	"PaperRecommender/internal/domain"
	"PaperRecommender/internal/ports"
)

const scoreSystemPrompt = `You are an expert in assessing research paper relevance.
The user will provide an abstract and keywords. Evaluate the relevance between the paper and keywords.
Return a JSON object with a relevance score between 0 and 1, where 1 is highly relevant.

Example Output:
{
    "relevance": 0.9
}`

const summarySystemPrompt = `You are a research assistant writing the opening section of a daily paper digest.
The user will provide the titles and abstracts of today's recommended papers.
Write a short narrative summary in markdown that connects the papers and highlights common themes.`

// DeepSeekClient implements the classifier port backed by DeepSeek's
// OpenAI-compatible chat-completion API.
type DeepSeekClient struct {
	api      *openai.Client
	model    string
	keywords string
	timeout  time.Duration
}

var _ ports.Classifier = (*DeepSeekClient)(nil)

// NewDeepSeekClient builds a client from configuration.
func NewDeepSeekClient(cfg config.DeepSeekConfig, keywords string) *DeepSeekClient {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &DeepSeekClient{
		api:      openai.NewClientWithConfig(apiCfg),
		model:    cfg.Model,
		keywords: keywords,
		timeout:  timeout,
	}
}

// ScoreRelevance asks the model to rate one abstract against the user
// keywords and parses the strict-JSON reply. A missing relevance key
// counts as zero; a malformed reply is an error.
func (c *DeepSeekClient) ScoreRelevance(ctx context.Context, abstract string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Abstract: %s\n\nKeywords: %s", abstract, c.keywords)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scoreSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("score relevance: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("score relevance: no response choices")
	}

	var verdict struct {
		Relevance float64 `json:"relevance"`
	}
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return 0, fmt.Errorf("score relevance: parse %q: %w", content, err)
	}

	return verdict.Relevance, nil
}

// SummarizePapers requests one cross-paper narrative summary in markdown.
func (c *DeepSeekClient) SummarizePapers(ctx context.Context, papers []domain.Paper) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := make([]string, 0, len(papers))
	for _, paper := range papers {
		parts = append(parts, paper.Title+"\n"+paper.Summary)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: strings.Join(parts, "\n\n")},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarize papers: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarize papers: no response choices")
	}

	return resp.Choices[0].Message.Content, nil
}
