package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dkraemer/shiftplan-api-go/pkg/models"
)

func newTestRemote(url string) *RemoteScorer {
	return &RemoteScorer{
		baseURL:    url,
		apiKey:     "test-key",
		model:      "test-model",
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
}

func chatBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

var remoteTestShift = &models.ShiftType{
	ID:          "st1",
	Name:        "Frühschicht",
	StartTime:   "06:00",
	EndTime:     "14:00",
	Description: "Pflege",
}

func TestScoreCandidatesParsesWrappedArray(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		// Models tend to wrap the array in prose.
		content := "Hier ist die Bewertung:\n" +
			`[{"employee_id": "e1", "score": 88.4, "reasoning": "Passt gut"},` +
			`{"employee_id": "e2", "score": 120, "reasoning": "Top"}]` +
			"\nViel Erfolg!"
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatBody(content)))
	}))
	defer srv.Close()

	r := newTestRemote(srv.URL)
	candidates := []models.Employee{
		{ID: "e1", Name: "Anna", Department: "Pflege"},
		{ID: "e2", Name: "Ben"},
	}

	results, err := r.ScoreCandidates(context.Background(), candidates, remoteTestShift, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Contains(t, gotReq.Messages[1].Content, "Frühschicht")
	assert.Contains(t, gotReq.Messages[1].Content, "id=e1")

	require.Len(t, results, 2)
	assert.Equal(t, 88, results["e1"].Score)
	assert.True(t, results["e1"].AIUsed)
	assert.Equal(t, "Passt gut", results["e1"].Reasoning)
	// Out-of-range scores are clamped.
	assert.Equal(t, 100, results["e2"].Score)
}

func TestScoreCandidatesDropsUnknownEmployees(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		content := `[{"employee_id": "ghost", "score": 99, "reasoning": "?"},` +
			`{"employee_id": "e1", "score": 40, "reasoning": "ok"}]`
		w.Write([]byte(chatBody(content)))
	}))
	defer srv.Close()

	r := newTestRemote(srv.URL)
	results, err := r.ScoreCandidates(context.Background(),
		[]models.Employee{{ID: "e1"}}, remoteTestShift, time.Now())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 40, results["e1"].Score)
}

func TestScoreCandidatesErrorOnUnparseablePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(chatBody("Ich kann dazu leider nichts sagen.")))
	}))
	defer srv.Close()

	r := newTestRemote(srv.URL)
	_, err := r.ScoreCandidates(context.Background(),
		[]models.Employee{{ID: "e1"}}, remoteTestShift, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON array")
}

func TestScoreCandidatesErrorOnHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := newTestRemote(srv.URL)
	_, err := r.ScoreCandidates(context.Background(),
		[]models.Employee{{ID: "e1"}}, remoteTestShift, time.Now())
	require.Error(t, err)

	var httpErr *remoteHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestParseScores(t *testing.T) {
	scores, err := parseScores("```json\n[{\"employee_id\":\"a\",\"score\":55,\"reasoning\":\"x\"}]\n```")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "a", scores[0].EmployeeID)

	_, err = parseScores("[not json]")
	require.Error(t, err)

	_, err = parseScores("kein array")
	require.Error(t, err)
}

func TestNewRemoteScorerFromEnv(t *testing.T) {
	t.Setenv("SCORING_API_KEY", "")
	assert.Nil(t, NewRemoteScorerFromEnv(zap.NewNop()))

	t.Setenv("SCORING_API_KEY", "sk-test")
	t.Setenv("SCORING_BASE_URL", "https://example.com/")
	t.Setenv("SCORING_MODEL", "")
	client := NewRemoteScorerFromEnv(zap.NewNop())
	require.NotNil(t, client)

	scorer, ok := client.(*RemoteScorer)
	require.True(t, ok)
	assert.Equal(t, "https://example.com", scorer.baseURL)
	assert.Equal(t, "gpt-4o-mini", scorer.model)
}
