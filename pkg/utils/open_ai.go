package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

// LessonGeneratorInterface covers the OpenAI-backed content operations:
// lesson body, audio narration script, and text embeddings for the
// related-lesson lookup.
type LessonGeneratorInterface interface {
	GenerateLesson(ctx context.Context, topic, language, level string) (title string, content string, err error)
	GenerateAudioScript(ctx context.Context, title, content string) (string, error)
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

type OpenAILessonGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAILessonGenerator(apiKey, model string) LessonGeneratorInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAILessonGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAILessonGenerator) GenerateLesson(ctx context.Context, topic, language, level string) (string, string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", "", fmt.Errorf("topic cannot be empty")
	}
	if level == "" {
		level = "beginner"
	}

	prompt := fmt.Sprintf(`Write a single %s lesson for a %s learner on the topic: %q.
Structure: short introduction, 3 teaching sections with examples, a 5-item practice section.
Use markdown. First line must be the lesson title as an H1.`, language, level, topic)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a language teacher writing course material."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", "", fmt.Errorf("openai lesson: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("no content")
	}

	content := resp.Choices[0].Message.Content
	title := topic
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			break
		}
	}

	return title, content, nil
}

func (o *OpenAILessonGenerator) GenerateAudioScript(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf(`Rewrite the lesson below as a natural spoken narration script for a
single narrator. Plain text only, no markdown, no stage directions.

Lesson title: %s

%s`, title, content)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("openai audio script: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no content")
	}

	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAILessonGenerator) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.SmallEmbedding3, // or "text-embedding-3-small"
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("no embedding returned")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}
