package database

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dkraemer/shiftplan-api-go/pkg/models"
	"github.com/dkraemer/shiftplan-api-go/pkg/scheduler"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Employee{},
		&models.ShiftType{},
		&models.ShiftAssignment{},
		&AuditLog{},
	))

	return NewStore(db)
}

func TestActiveShiftTypesFiltersAndPreservesRequestOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []models.ShiftType{
		{ID: "st1", Name: "Frühschicht", RequiredStaff: 2, IsActive: true},
		{ID: "st2", Name: "Spätschicht", RequiredStaff: 2, IsActive: false},
		{ID: "st3", Name: "Nachtschicht", RequiredStaff: 1, IsActive: true},
	}
	require.NoError(t, store.db.Create(&seed).Error)

	out, err := store.ActiveShiftTypes(ctx, []string{"st3", "st2", "st1"})
	require.NoError(t, err)

	// Inactive st2 is dropped, the rest keep the requested order.
	require.Len(t, out, 2)
	assert.Equal(t, "st3", out[0].ID)
	assert.Equal(t, "st1", out[1].ID)
}

func TestActiveEmployeesFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []models.Employee{
		{ID: "e1", Name: "Anna", Department: "Pflege", Status: "active"},
		{ID: "e2", Name: "Ben", Department: "Pflege", Status: "inactive"},
		{ID: "e3", Name: "Clara", Department: "Verwaltung", Status: "active"},
	}
	require.NoError(t, store.db.Create(&seed).Error)

	all, err := store.ActiveEmployees(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pflege, err := store.ActiveEmployees(ctx, "Pflege")
	require.NoError(t, err)
	require.Len(t, pflege, 1)
	assert.Equal(t, "e1", pflege[0].ID)
}

func TestAssignmentsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assignments := []models.ShiftAssignment{
		{ID: "a1", EmployeeID: "e1", ShiftTypeID: "st1", Date: "2025-03-02", Status: "scheduled"},
		{ID: "a2", EmployeeID: "e2", ShiftTypeID: "st1", Date: "2025-03-05", Status: "scheduled"},
		{ID: "a3", EmployeeID: "e1", ShiftTypeID: "st1", Date: "2025-03-09", Status: "scheduled"},
	}
	require.NoError(t, store.InsertAssignments(ctx, assignments))

	inRange, err := store.AssignmentsInRange(ctx, "2025-03-03", "2025-03-07")
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "a2", inRange[0].ID)
}

func TestInsertAssignmentsEmptyIsNoop(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.InsertAssignments(context.Background(), nil))
}

func TestRecordScheduleRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	summary := scheduler.AuditSummary{
		Strategy:       "heuristic",
		StartDate:      "2025-03-03",
		EndDate:        "2025-03-07",
		AssignedShifts: 8,
		Conflicts:      1,
	}
	require.NoError(t, store.RecordScheduleRun(ctx, "c1", summary))

	var logs []AuditLog
	require.NoError(t, store.db.Find(&logs).Error)
	require.Len(t, logs, 1)

	assert.Equal(t, "c1", logs[0].CompanyID)
	assert.Equal(t, "schedule.auto_assign", logs[0].Action)
	assert.WithinDuration(t, time.Now().UTC(), logs[0].CreatedAt, time.Minute)

	var decoded scheduler.AuditSummary
	require.NoError(t, json.Unmarshal([]byte(logs[0].Details), &decoded))
	assert.Equal(t, summary, decoded)
}
