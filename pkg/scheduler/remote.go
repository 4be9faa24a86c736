package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dkraemer/shiftplan-api-go/pkg/models"
)

// RemoteScorer calls an OpenAI-compatible chat completions endpoint to
// score a candidate batch. The HTTP client carries no timeout: callers
// needing bounded latency wrap the whole scheduling run in a deadline.
type RemoteScorer struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRemoteScorerFromEnv builds a remote scorer from SCORING_API_KEY,
// SCORING_BASE_URL and SCORING_MODEL. Returns nil when no API key is set,
// meaning no remote service is configured.
func NewRemoteScorerFromEnv(logger *zap.Logger) RemoteClient {
	apiKey := os.Getenv("SCORING_API_KEY")
	if apiKey == "" {
		return nil
	}

	baseURL := os.Getenv("SCORING_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	model := os.Getenv("SCORING_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &RemoteScorer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type remoteHTTPError struct {
	StatusCode int
	Body       string
}

func (e *remoteHTTPError) Error() string {
	return fmt.Sprintf("scoring service http %d: %s", e.StatusCode, e.Body)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type remoteScore struct {
	EmployeeID string  `json:"employee_id"`
	Score      float64 `json:"score"`
	Reasoning  string  `json:"reasoning"`
}

// ScoreCandidates sends one prompt for the whole batch and parses the
// response leniently. Entries for unknown employee IDs are dropped; a
// response covering only part of the batch is not an error.
func (r *RemoteScorer) ScoreCandidates(ctx context.Context, candidates []models.Employee, shiftType *models.ShiftType, date time.Time) (map[string]models.ScoringResult, error) {
	payload := chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildScoringPrompt(candidates, shiftType, date)},
		},
		Temperature: 0.2,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &remoteHTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("invalid scoring response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("scoring response contains no choices")
	}

	scores, err := parseScores(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(candidates))
	for _, emp := range candidates {
		known[emp.ID] = true
	}

	results := make(map[string]models.ScoringResult, len(scores))
	for _, sc := range scores {
		if !known[sc.EmployeeID] {
			r.logger.Debug("Scoring response names unknown employee, skipping",
				zap.String("employee_id", sc.EmployeeID))
			continue
		}
		results[sc.EmployeeID] = models.ScoringResult{
			EmployeeID: sc.EmployeeID,
			Score:      clampScore(sc.Score),
			Reasoning:  sc.Reasoning,
			AIUsed:     true,
		}
	}
	return results, nil
}

const systemPrompt = "Du bist ein Assistent für Personaleinsatzplanung. " +
	"Antworte ausschließlich mit einem JSON-Array, ohne weiteren Text."

// buildScoringPrompt renders the slot and the candidate batch as a
// natural-language scoring task.
func buildScoringPrompt(candidates []models.Employee, shiftType *models.ShiftType, date time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Bewerte die folgenden Mitarbeiter für die Schicht %q am %s (%s).\n",
		shiftType.Name, date.Format(DateLayout), date.Weekday())
	fmt.Fprintf(&b, "Schichtzeit: %s - %s.\n", shiftType.StartTime, shiftType.EndTime)
	if shiftType.Description != "" {
		fmt.Fprintf(&b, "Beschreibung: %s\n", shiftType.Description)
	}

	b.WriteString("\nKandidaten:\n")
	for _, emp := range candidates {
		fmt.Fprintf(&b, "- id=%s, Name: %s, Abteilung: %s, Position: %s\n",
			emp.ID, emp.Name, emp.Department, emp.Position)
	}

	b.WriteString("\nGib für jeden Kandidaten einen Score von 0 bis 100 und eine kurze Begründung an. " +
		`Antworte als JSON-Array: [{"employee_id": "...", "score": 0, "reasoning": "..."}]`)

	return b.String()
}

// parseScores locates the first JSON-array-shaped substring in the model
// output and decodes it. Models tend to wrap the array in prose or code
// fences, so the surrounding text is ignored.
func parseScores(content string) ([]remoteScore, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found in scoring response")
	}

	var scores []remoteScore
	if err := json.Unmarshal([]byte(content[start:end+1]), &scores); err != nil {
		return nil, fmt.Errorf("failed to parse scoring response: %w", err)
	}
	return scores, nil
}

func clampScore(v float64) int {
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
