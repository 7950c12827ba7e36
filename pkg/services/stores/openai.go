package stores

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/liut/tutorbot/pkg/models/chat"
	"github.com/liut/tutorbot/pkg/settings"
)

const (
	openaiTimeout = time.Second * 60

	dftSystemPrompt = "You are a helpful teaching assistant for INFO 6200, a Python coding course. " +
		"Answer student questions clearly and concisely based on the course materials provided. " +
		"If the answer isn't in the course materials, provide general Python guidance but mention " +
		"that students should verify with their professor."
)

var ErrNoChoice = errors.New("no choice in completion")

// Answerer answers one question
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

func NewOpenAIClient() *openai.Client {
	occ := openai.DefaultConfig(settings.Current.OpenAIAPIKey)
	if len(settings.Current.OpenAIBaseURL) > 0 {
		occ.BaseURL = settings.Current.OpenAIBaseURL
	}
	occ.HTTPClient = &http.Client{
		Timeout:   openaiTimeout,
		Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
	}
	return openai.NewClientWithConfig(occ)
}

// ChatCompleter is the part of the openai client an answerer calls
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewAnswerer returns an answerer on an OpenAI compatible chat API
func NewAnswerer(cc ChatCompleter, preset chat.Preset) Answerer {
	a := &answerer{cc: cc, preset: preset, model: settings.Current.ChatModel}
	if len(preset.Model) > 0 {
		a.model = preset.Model
	}
	return a
}

type answerer struct {
	cc     ChatCompleter
	preset chat.Preset
	model  string
}

func (a *answerer) Answer(ctx context.Context, question string) (string, error) {
	systemPrompt := dftSystemPrompt
	if len(a.preset.SystemPrompt) > 0 {
		systemPrompt = a.preset.SystemPrompt
	}
	req := openai.ChatCompletionRequest{
		Model:       a.model,
		MaxTokens:   a.preset.MaxTokens,
		Temperature: a.preset.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	}
	res, err := a.cc.CreateChatCompletion(ctx, req)
	if err != nil {
		logger().Infow("chat completion fail", "model", a.model, "err", err)
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", ErrNoChoice
	}
	logger().Infow("chat completion done", "model", res.Model, "tokens", res.Usage.TotalTokens)
	return res.Choices[0].Message.Content, nil
}
