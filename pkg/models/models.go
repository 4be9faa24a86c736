package models

import "time"

// ShiftType defines a recurring shift slot that needs staffing
type ShiftType struct {
	ID            string `json:"id" gorm:"primaryKey"`
	CompanyID     string `json:"company_id" gorm:"index"`
	Name          string `json:"name" gorm:"not null"`
	StartTime     string `json:"start_time"` // clock time, "15:04"
	EndTime       string `json:"end_time"`
	RequiredStaff int    `json:"required_staff" gorm:"default:1"`
	Description   string `json:"description"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`
}

// Employee represents a person that can be assigned to shifts
type Employee struct {
	ID         string `json:"id" gorm:"primaryKey"`
	CompanyID  string `json:"company_id" gorm:"index"`
	Name       string `json:"name" gorm:"not null"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Status     string `json:"status" gorm:"default:active"`
}

// ShiftAssignment is a concrete employee-shift pairing on a calendar date
type ShiftAssignment struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CompanyID   string    `json:"company_id" gorm:"index"`
	EmployeeID  string    `json:"employee_id" gorm:"index:idx_employee_date"`
	ShiftTypeID string    `json:"shift_type_id" gorm:"index"`
	Date        string    `json:"date" gorm:"index:idx_employee_date"` // "2006-01-02"
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
}

// ScoringResult is one candidate's score for a specific slot
type ScoringResult struct {
	EmployeeID string `json:"employee_id"`
	Score      int    `json:"score"` // always within [0,100]
	Reasoning  string `json:"reasoning"`
	AIUsed     bool   `json:"ai_used"`
}

// ConflictRecord reports a slot left understaffed after a scheduling pass
type ConflictRecord struct {
	Date          string `json:"date"`
	ShiftTypeName string `json:"shift_type_name"`
	Needed        int    `json:"needed"`
	Assigned      int    `json:"assigned"`
	Missing       int    `json:"missing"`
}

// AssignmentExplanation records why an employee was assigned to a slot
type AssignmentExplanation struct {
	EmployeeName  string `json:"employee_name"`
	ShiftTypeName string `json:"shift_type_name"`
	Date          string `json:"date"`
	Score         int    `json:"score"`
	Reasoning     string `json:"reasoning"`
	AIUsed        bool   `json:"ai_used"`
}

// ScheduleRequest is the input for the auto-assignment endpoint
type ScheduleRequest struct {
	StartDate    string   `json:"startDate" binding:"required"`
	EndDate      string   `json:"endDate" binding:"required"`
	ShiftTypeIDs []string `json:"shiftTypeIds" binding:"required,min=1"`
	Department   string   `json:"department"`
	UseAI        *bool    `json:"useAI"`
}

// AIEnabled reports whether the caller wants AI scoring (default true)
func (r ScheduleRequest) AIEnabled() bool {
	return r.UseAI == nil || *r.UseAI
}

// ScheduleReport is the result of one scheduling run
type ScheduleReport struct {
	AssignedShifts  int                     `json:"assignedShifts"`
	Conflicts       int                     `json:"conflicts"`
	ConflictDetails []ConflictRecord        `json:"conflictDetails"`
	Explanations    []AssignmentExplanation `json:"explanations"`
	AIUsed          bool                    `json:"aiUsed"`
	Message         string                  `json:"message"`
}

// ScheduleResponse is the HTTP envelope for a successful scheduling run
type ScheduleResponse struct {
	Success bool `json:"success"`
	ScheduleReport
}
