package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dkraemer/shiftplan-api-go/pkg/models"
)

const (
	// DateLayout is the calendar date format used across the API and store.
	DateLayout = "2006-01-02"

	clockLayout = "15:04"

	// maxExplanations caps the number of per-assignment rationales returned
	// to the caller. All assignments are still persisted.
	maxExplanations = 20
)

// ShiftTypeRegistry loads shift definitions.
type ShiftTypeRegistry interface {
	ActiveShiftTypes(ctx context.Context, ids []string) ([]models.ShiftType, error)
}

// EmployeeRegistry loads employees eligible for scheduling.
type EmployeeRegistry interface {
	ActiveEmployees(ctx context.Context, department string) ([]models.Employee, error)
}

// ShiftStore reads existing assignments and persists new ones.
type ShiftStore interface {
	AssignmentsInRange(ctx context.Context, start, end string) ([]models.ShiftAssignment, error)
	InsertAssignments(ctx context.Context, assignments []models.ShiftAssignment) error
}

// AuditSummary describes one completed scheduling run for the audit sink.
type AuditSummary struct {
	Strategy       string `json:"strategy"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	AssignedShifts int    `json:"assigned_shifts"`
	Conflicts      int    `json:"conflicts"`
}

// AuditSink receives best-effort run summaries.
type AuditSink interface {
	RecordScheduleRun(ctx context.Context, companyID string, summary AuditSummary) error
}

// Scheduler fills open staffing slots over a date range by matching
// available employees to shift types via a scoring strategy.
type Scheduler struct {
	shiftTypes ShiftTypeRegistry
	employees  EmployeeRegistry
	shifts     ShiftStore
	audit      AuditSink
	strategy   *Strategy
	logger     *zap.Logger
}

// New creates a scheduler. audit may be nil if no sink is configured.
func New(shiftTypes ShiftTypeRegistry, employees EmployeeRegistry, shifts ShiftStore, audit AuditSink, strategy *Strategy, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		shiftTypes: shiftTypes,
		employees:  employees,
		shifts:     shifts,
		audit:      audit,
		strategy:   strategy,
		logger:     logger,
	}
}

// Run executes one auto-assignment pass over the requested date range.
// The slot pass is strictly sequential: each decision feeds the
// availability check of later slots. New assignments are persisted in a
// single batch at the end; a failed batch write aborts the whole run.
func (s *Scheduler) Run(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleReport, error) {
	start, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", req.StartDate, err)
	}
	end, err := time.Parse(DateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", req.EndDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", req.EndDate, req.StartDate)
	}

	shiftTypes, err := s.shiftTypes.ActiveShiftTypes(ctx, req.ShiftTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift types: %w", err)
	}
	employees, err := s.employees.ActiveEmployees(ctx, req.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	existing, err := s.shifts.AssignmentsInRange(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing assignments: %w", err)
	}

	s.logger.Debug("Starting auto-assignment run",
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.Int("shift_types", len(shiftTypes)),
		zap.Int("employees", len(employees)),
		zap.Int("existing_assignments", len(existing)))

	employeesByID := make(map[string]models.Employee, len(employees))
	for _, emp := range employees {
		employeesByID[emp.ID] = emp
	}

	aiUsed := req.AIEnabled() && s.strategy.RemoteConfigured()
	run := newRunState(existing)

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		dateStr := date.Format(DateLayout)

		for i := range shiftTypes {
			st := &shiftTypes[i]

			needed := st.RequiredStaff - run.committed(dateStr, st.ID)
			if needed <= 0 {
				continue
			}

			available := run.available(employees, dateStr)
			scored := s.strategy.Score(ctx, available, st, date, req.AIEnabled())

			// Stable sort: equal scores keep the strategy's output order.
			sort.SliceStable(scored, func(a, b int) bool {
				return scored[a].Score > scored[b].Score
			})

			take := needed
			if len(scored) < take {
				take = len(scored)
			}

			for _, result := range scored[:take] {
				emp := employeesByID[result.EmployeeID]
				run.add(buildAssignment(emp, st, date, result.Score))
				run.explain(models.AssignmentExplanation{
					EmployeeName:  emp.Name,
					ShiftTypeName: st.Name,
					Date:          dateStr,
					Score:         result.Score,
					Reasoning:     result.Reasoning,
					AIUsed:        result.AIUsed,
				})
			}

			if take < needed {
				run.conflict(models.ConflictRecord{
					Date:          dateStr,
					ShiftTypeName: st.Name,
					Needed:        needed,
					Assigned:      take,
					Missing:       needed - take,
				})
			}
		}
	}

	// All-or-nothing batch write. Conflicts and explanations computed above
	// are discarded on failure together with the assignments.
	if len(run.created) > 0 {
		if err := s.shifts.InsertAssignments(ctx, run.created); err != nil {
			return nil, fmt.Errorf("failed to persist assignments: %w", err)
		}
	}

	s.recordAudit(ctx, employees, req, run, aiUsed)

	explanations := run.explanations
	if len(explanations) > maxExplanations {
		explanations = explanations[:maxExplanations]
	}

	report := &models.ScheduleReport{
		AssignedShifts:  len(run.created),
		Conflicts:       len(run.conflicts),
		ConflictDetails: run.conflicts,
		Explanations:    explanations,
		AIUsed:          aiUsed,
		Message: fmt.Sprintf("%d Schichten zugewiesen, %d Besetzungskonflikte",
			len(run.created), len(run.conflicts)),
	}

	s.logger.Info("Auto-assignment run completed",
		zap.Int("assigned", report.AssignedShifts),
		zap.Int("conflicts", report.Conflicts),
		zap.Bool("ai_used", report.AIUsed))

	return report, nil
}

// recordAudit writes the run summary to the audit sink. The record is keyed
// by the company of the first loaded employee; without employees there is
// nothing to key on and the record is skipped. Failures are logged only.
func (s *Scheduler) recordAudit(ctx context.Context, employees []models.Employee, req models.ScheduleRequest, run *runState, aiUsed bool) {
	if s.audit == nil || len(employees) == 0 {
		return
	}

	strategy := "heuristic"
	if aiUsed {
		strategy = "ai"
	}

	summary := AuditSummary{
		Strategy:       strategy,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AssignedShifts: len(run.created),
		Conflicts:      len(run.conflicts),
	}

	if err := s.audit.RecordScheduleRun(ctx, employees[0].CompanyID, summary); err != nil {
		s.logger.Warn("Failed to write audit record", zap.Error(err))
	}
}

// buildAssignment derives the concrete assignment for an employee on a date.
// Shift clock times roll over to the next day when the end is not after the
// start (night shifts). Malformed clock strings fall back to midnight.
func buildAssignment(emp models.Employee, st *models.ShiftType, date time.Time, score int) models.ShiftAssignment {
	startClock, _ := time.Parse(clockLayout, st.StartTime)
	endClock, _ := time.Parse(clockLayout, st.EndTime)

	startAt := time.Date(date.Year(), date.Month(), date.Day(),
		startClock.Hour(), startClock.Minute(), 0, 0, time.UTC)
	endAt := time.Date(date.Year(), date.Month(), date.Day(),
		endClock.Hour(), endClock.Minute(), 0, 0, time.UTC)
	if !endAt.After(startAt) {
		endAt = endAt.AddDate(0, 0, 1)
	}

	return models.ShiftAssignment{
		ID:          uuid.New().String(),
		CompanyID:   emp.CompanyID,
		EmployeeID:  emp.ID,
		ShiftTypeID: st.ID,
		Date:        date.Format(DateLayout),
		StartTime:   startAt,
		EndTime:     endAt,
		Status:      "scheduled",
		Notes:       fmt.Sprintf("Automatisch zugewiesen (Score: %d)", score),
	}
}
