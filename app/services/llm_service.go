package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// LLM service error constants
var (
	ErrLLMEmptyResponse = errors.New("llm returned an empty response")
)

// ChatTurn is a single message of a conversation passed to the model
type ChatTurn struct {
	Role    string // "user" or "assistant"
	Content string
}

// LLMService generates assistant replies for campus chat sessions
type LLMService interface {
	GenerateReply(ctx context.Context, history []ChatTurn, message string) (string, error)
}

// GeminiService is a thin wrapper around the official genai client.
// Cross-cutting concerns (persistence, quotas, logging) live in the chat flow.
type GeminiService struct {
	cli          *genai.Client
	model        string
	systemPrompt string
	maxHistory   int
}

const defaultSystemPrompt = "You are the assistant of a university campus portal. " +
	"You help students with questions about courses, timetables, shared notes, campus events and lost-and-found items. " +
	"Answer concisely. If a question is unrelated to campus life or studies, politely say you can only help with campus topics."

// NewGeminiService creates an LLM service backed by the Gemini API
func NewGeminiService(ctx context.Context, apiKey, model, systemPrompt string, maxHistory int) (*GeminiService, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &GeminiService{cli: cli, model: model, systemPrompt: systemPrompt, maxHistory: maxHistory}, nil
}

// GenerateReply sends the trimmed conversation history plus the new message to the model
func (g *GeminiService) GenerateReply(ctx context.Context, history []ChatTurn, message string) (string, error) {
	if len(history) > g.maxHistory {
		history = history[len(history)-g.maxHistory:]
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.RoleUser
		if turn.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: message}},
	})

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: g.systemPrompt}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrLLMEmptyResponse
	}

	reply := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if reply == "" {
		return "", ErrLLMEmptyResponse
	}
	return reply, nil
}
