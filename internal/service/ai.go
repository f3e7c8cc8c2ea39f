package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"execution-os/internal/metrics"
	"execution-os/internal/model"
)

// Coach produces the free-text judgements used by reviews and project changes.
type Coach interface {
	GenerateWeeklyReview(ctx context.Context, in model.WeeklyReviewContext) (string, error)
	EvaluateProjectChange(ctx context.Context, proposed, justification, replacing string) (string, error)
}

const AINotConfigured = "[AI not configured - set ai.api_key or AI_API_KEY]"

const coachSystemPrompt = "You are a strict accountability coach. No fluff. Direct and honest."

// AIService talks to an OpenAI-compatible chat completions endpoint.
type AIService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewAIService(baseURL, apiKey, model string, timeout time.Duration) *AIService {
	return &AIService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *AIService) doChat(ctx context.Context, op, system, user string) (out string, err error) {
	if s.apiKey == "" {
		return AINotConfigured, nil
	}
	start := time.Now()
	defer func() { metrics.RecordAI(op, err, time.Since(start)) }()

	body := map[string]interface{}{
		"model":       s.model,
		"max_tokens":  500,
		"temperature": 0.7,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm status %d: %s", resp.StatusCode, data)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return result.Choices[0].Message.Content, nil
}

func (s *AIService) GenerateWeeklyReview(ctx context.Context, in model.WeeklyReviewContext) (string, error) {
	out, err := s.doChat(ctx, "weekly_review", coachSystemPrompt, weeklyReviewPrompt(in))
	if err != nil {
		return "", fmt.Errorf("weekly review: %w", err)
	}
	return out, nil
}

func (s *AIService) EvaluateProjectChange(ctx context.Context, proposed, justification, replacing string) (string, error) {
	prompt := fmt.Sprintf(`You are an anti-idea-hopping gatekeeper. A user wants to switch projects.

**Current project to DROP:** %s
**Proposed new project:** %s
**Their justification:** %s

Evaluate:
1. Is this a legitimate strategic pivot or are they bored and chasing novelty?
2. Does the justification show clear reasoning or vague excitement?

Respond with APPROVE or DENY followed by a 2-sentence explanation.
Be harsh. Most project switches are procrastination disguised as productivity.`, replacing, proposed, justification)

	out, err := s.doChat(ctx, "project_change", coachSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("evaluate project change: %w", err)
	}
	return out, nil
}

func weeklyReviewPrompt(in model.WeeklyReviewContext) string {
	projects := "none"
	if len(in.ActiveProjects) > 0 {
		projects = strings.Join(in.ActiveProjects, ", ")
	}
	return fmt.Sprintf(`Here is my execution data for the past week:

**Goal:** %s (Day %d/%d)

**Active Projects:** %s

**Daily Execution (this week):**
%s

**Streaks:**
- Deep Work: %d days
- Gym: %d days
- Learning: %d days
- Sober: %d days

Analyze three things:
1. WHAT WORKED - Be specific about which days/habits showed real execution
2. WHERE I AVOIDED HARD WORK - Call out patterns of avoidance, low-effort days, skipped sessions
3. WHAT TO CUT - Identify distractions, habits, or projects that should be eliminated

Keep each section to 2-3 sentences. No encouragement. Just truth.`,
		in.GoalTitle, in.GoalDayNumber, GoalLengthDays, projects, in.DailyLogsSummary,
		in.DeepWorkStreak, in.GymStreak, in.LearningStreak, in.SoberStreak)
}
