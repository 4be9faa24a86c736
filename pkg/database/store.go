package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkraemer/shiftplan-api-go/pkg/models"
	"github.com/dkraemer/shiftplan-api-go/pkg/scheduler"
)

// Store backs the scheduler's registries, shift store and audit sink
// with the shared gorm connection.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store around an initialized database handle
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ActiveShiftTypes loads the active shift types among the requested IDs.
// Results are reordered to match the requested ID order so the scheduler
// processes shift types in input order.
func (s *Store) ActiveShiftTypes(ctx context.Context, ids []string) ([]models.ShiftType, error) {
	var loaded []models.ShiftType
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("id IN ?", ids).
		Find(&loaded).Error
	if err != nil {
		return nil, fmt.Errorf("query shift types: %w", err)
	}

	byID := make(map[string]models.ShiftType, len(loaded))
	for _, st := range loaded {
		byID[st.ID] = st
	}

	ordered := make([]models.ShiftType, 0, len(loaded))
	for _, id := range ids {
		if st, ok := byID[id]; ok {
			ordered = append(ordered, st)
		}
	}
	return ordered, nil
}

// ActiveEmployees loads employees with status "active", optionally
// restricted to one department.
func (s *Store) ActiveEmployees(ctx context.Context, department string) ([]models.Employee, error) {
	q := s.db.WithContext(ctx).Where("status = ?", "active")
	if department != "" {
		q = q.Where("department = ?", department)
	}

	var employees []models.Employee
	if err := q.Order("name").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	return employees, nil
}

// AssignmentsInRange loads all assignments whose date falls inside
// [start, end]. ISO date strings compare correctly as text.
func (s *Store) AssignmentsInRange(ctx context.Context, start, end string) ([]models.ShiftAssignment, error) {
	var assignments []models.ShiftAssignment
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	return assignments, nil
}

// InsertAssignments persists a scheduling run's assignments in one
// transaction so a failure leaves nothing behind.
func (s *Store) InsertAssignments(ctx context.Context, assignments []models.ShiftAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(assignments, 100).Error
	})
	if err != nil {
		return fmt.Errorf("insert assignments: %w", err)
	}
	return nil
}

// RecordScheduleRun writes one audit row for a completed scheduling run
func (s *Store) RecordScheduleRun(ctx context.Context, companyID string, summary scheduler.AuditSummary) error {
	details, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	row := AuditLog{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Action:    "schedule.auto_assign",
		Details:   string(details),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
