package scheduler

import "github.com/dkraemer/shiftplan-api-go/pkg/models"

// runState owns the mutable assignment set of one scheduling run. It seeds
// from the pre-existing assignments in the requested range and grows as
// slots are decided, so availability checks always see both.
type runState struct {
	existing     []models.ShiftAssignment
	created      []models.ShiftAssignment
	conflicts    []models.ConflictRecord
	explanations []models.AssignmentExplanation
}

func newRunState(existing []models.ShiftAssignment) *runState {
	return &runState{
		existing:     existing,
		created:      []models.ShiftAssignment{},
		conflicts:    []models.ConflictRecord{},
		explanations: []models.AssignmentExplanation{},
	}
}

// committed counts assignments already taken for a (date, shiftType) slot.
func (r *runState) committed(date, shiftTypeID string) int {
	count := 0
	for _, a := range r.existing {
		if a.Date == date && a.ShiftTypeID == shiftTypeID {
			count++
		}
	}
	for _, a := range r.created {
		if a.Date == date && a.ShiftTypeID == shiftTypeID {
			count++
		}
	}
	return count
}

// hasAssignment reports whether the employee is already committed to any
// shift on the given date, existing or decided earlier in this run.
func (r *runState) hasAssignment(employeeID, date string) bool {
	for _, a := range r.existing {
		if a.Date == date && a.EmployeeID == employeeID {
			return true
		}
	}
	for _, a := range r.created {
		if a.Date == date && a.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

// available filters employees down to those with no commitment on the date.
// Re-evaluated per slot because the committed set grows during the pass.
func (r *runState) available(employees []models.Employee, date string) []models.Employee {
	out := make([]models.Employee, 0, len(employees))
	for _, emp := range employees {
		if !r.hasAssignment(emp.ID, date) {
			out = append(out, emp)
		}
	}
	return out
}

func (r *runState) add(a models.ShiftAssignment) {
	r.created = append(r.created, a)
}

func (r *runState) conflict(c models.ConflictRecord) {
	r.conflicts = append(r.conflicts, c)
}

func (r *runState) explain(e models.AssignmentExplanation) {
	r.explanations = append(r.explanations, e)
}
