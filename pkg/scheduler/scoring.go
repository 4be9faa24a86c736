package scheduler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dkraemer/shiftplan-api-go/pkg/models"
)

// remoteBatchLimit caps how many candidates are sent to the remote scoring
// service per slot. Candidates beyond the cap are scored locally.
const remoteBatchLimit = 10

// RemoteClient scores a batch of candidates via an external service.
// The returned map is keyed by employee ID and may cover only a subset
// of the batch; uncovered candidates fall back to the local heuristic.
type RemoteClient interface {
	ScoreCandidates(ctx context.Context, candidates []models.Employee, shiftType *models.ShiftType, date time.Time) (map[string]models.ScoringResult, error)
}

// HeuristicScorer is the deterministic local scoring rule. A small random
// jitter spreads ties between otherwise identical candidates; tests inject
// a fixed jitter source.
type HeuristicScorer struct {
	jitter func() float64
}

// NewHeuristicScorer returns a scorer with production jitter in (-5, +5).
func NewHeuristicScorer() *HeuristicScorer {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return NewHeuristicScorerWithJitter(func() float64 {
		return rng.Float64()*10 - 5
	})
}

// NewHeuristicScorerWithJitter returns a scorer with an injected jitter source.
func NewHeuristicScorerWithJitter(jitter func() float64) *HeuristicScorer {
	return &HeuristicScorer{jitter: jitter}
}

// Score rates one employee for a (shiftType, date) slot. Base 50, +20 for a
// department match, +15 when the position appears in the shift description,
// -10 on weekends, plus jitter; clamped to [0,100].
func (h *HeuristicScorer) Score(emp models.Employee, shiftType *models.ShiftType, date time.Time) models.ScoringResult {
	score := 50.0
	var reasons []string

	if emp.Department == shiftType.Description {
		score += 20
		reasons = append(reasons, "Passende Abteilung")
	}

	if emp.Position != "" && strings.Contains(shiftType.Description, emp.Position) {
		score += 15
		reasons = append(reasons, fmt.Sprintf("Position: %s", emp.Position))
	}

	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		score -= 10
		reasons = append(reasons, "Wochenendschicht")
	}

	score += h.jitter()

	final := int(math.Round(score))
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}

	reasoning := strings.Join(reasons, ", ")
	if reasoning == "" {
		reasoning = "Verfügbarer Mitarbeiter"
	}

	return models.ScoringResult{
		EmployeeID: emp.ID,
		Score:      final,
		Reasoning:  reasoning,
	}
}

// Strategy composes the remote scoring client with the local heuristic.
// Every slot attempts the remote path independently; any candidate not
// covered by a successful response is scored locally.
type Strategy struct {
	remote RemoteClient
	local  *HeuristicScorer
	logger *zap.Logger
}

// NewStrategy creates a scoring strategy. remote may be nil when no
// scoring service is configured.
func NewStrategy(remote RemoteClient, local *HeuristicScorer, logger *zap.Logger) *Strategy {
	return &Strategy{remote: remote, local: local, logger: logger}
}

// RemoteConfigured reports whether a remote scoring service is available.
func (s *Strategy) RemoteConfigured() bool {
	return s.remote != nil
}

// Score rates all candidates for the slot. With useAI and a configured
// remote service the first remoteBatchLimit candidates are scored in one
// remote call; everything else goes through the local heuristic.
func (s *Strategy) Score(ctx context.Context, candidates []models.Employee, shiftType *models.ShiftType, date time.Time, useAI bool) []models.ScoringResult {
	var remoteResults map[string]models.ScoringResult

	if useAI && s.remote != nil && len(candidates) > 0 {
		batch := candidates
		if len(batch) > remoteBatchLimit {
			batch = batch[:remoteBatchLimit]
		}

		scored, err := s.remote.ScoreCandidates(ctx, batch, shiftType, date)
		if err != nil {
			s.logger.Warn("Remote scoring failed, falling back to heuristic",
				zap.String("shift_type", shiftType.Name),
				zap.String("date", date.Format(DateLayout)),
				zap.Error(err))
		} else {
			remoteResults = scored
		}
	}

	results := make([]models.ScoringResult, 0, len(candidates))
	for _, emp := range candidates {
		if r, ok := remoteResults[emp.ID]; ok {
			results = append(results, r)
			continue
		}
		results = append(results, s.local.Score(emp, shiftType, date))
	}
	return results
}
