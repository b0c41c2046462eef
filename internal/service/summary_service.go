package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Sakilalakmal/nexus-app/internal/repository"
	"github.com/Sakilalakmal/nexus-app/internal/richtext"
)

const (
	defaultLLMBaseURL = "https://openrouter.ai/api/v1"
	defaultLLMModel   = "z-ai/glm-4.5-air:free"
)

// summarySystemPrompt instructs the model to summarize content only, never
// authors or timestamps.
var summarySystemPrompt = strings.Join([]string{
	"You are an expert assistant tasked with summarizing message threads for users in a professional and concise manner. When generating a summary, focus only on the content and main ideas discussed. Do not include or reference any user names, author names, or message timestamps",
	"Your summary must:",
	"Be clear, neutral, and suitable for any audience.",
	"Use bullet points or numbered lists for readability",
	"Highlight key points, decisions, and important information.",
	"Avoid personal opinions, speculation, or unnecessary details.",
	"Present the information in a factual and organized way",
}, " \n")

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func LoadLLMConfigFromEnv() LLMConfig {
	cfg := LLMConfig{
		APIKey:  strings.TrimSpace(os.Getenv("LLM_KEY")),
		BaseURL: strings.TrimSpace(os.Getenv("LLM_BASE_URL")),
		Model:   strings.TrimSpace(os.Getenv("LLM_MODEL")),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultLLMBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultLLMModel
	}
	return cfg
}

// SummaryService compiles a thread into markdown and asks an OpenAI-style
// chat completions endpoint for a summary.
type SummaryService struct {
	messageRepo repository.MessageRepositoryInterface
	cfg         LLMConfig
	httpClient  *http.Client
}

func NewSummaryService(messageRepo repository.MessageRepositoryInterface, cfg LLMConfig) *SummaryService {
	return &SummaryService{
		messageRepo: messageRepo,
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

// SummarizeThread summarizes the thread containing messageID. A reply id
// resolves to its parent, so both the thread root and any reply work as
// entry points.
func (s *SummaryService) SummarizeThread(ctx context.Context, workspaceID, messageID string) (string, error) {
	if s.cfg.APIKey == "" {
		return "", ErrSummarizerNotConfigured
	}

	base, err := s.messageRepo.FindInWorkspace(messageID, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	parent := base
	if base.ThreadID != nil {
		parent, err = s.messageRepo.FindInWorkspace(*base.ThreadID, workspaceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrNotFound
			}
			return "", err
		}
	}

	replies, err := s.messageRepo.ListThread(parent.ID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Thread Root - %s - %s\n", parent.AuthorName, parent.CreatedAt.Format("Mon Jan 2 2006"))
	b.WriteString(richtext.ToMarkdown(parent.Content))
	if len(replies) > 0 {
		b.WriteString("\n\nReplies\n")
		for _, reply := range replies {
			fmt.Fprintf(&b, "- %s - %s\n%s\n", reply.AuthorName, reply.CreatedAt.Format("Mon Jan 2 2006"), richtext.ToMarkdown(reply.Content))
		}
	}

	return s.complete(ctx, b.String())
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *SummaryService) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarizer returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("summarizer error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("summarizer returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
