package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dkraemer/shiftplan-api-go/pkg/models"
)

// CreateEmployee inserts a new employee record
func (h *Handler) CreateEmployee(c *gin.Context) {
	var emp models.Employee
	if err := c.ShouldBindJSON(&emp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if emp.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}
	if emp.Status == "" {
		emp.Status = "active"
	}
	emp.CompanyID = c.GetString("companyID")

	if err := h.DB.Create(&emp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create employee"})
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// ListEmployees returns employees, optionally filtered by department or status
func (h *Handler) ListEmployees(c *gin.Context) {
	q := h.DB
	if dep := c.Query("department"); dep != "" {
		q = q.Where("department = ?", dep)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var employees []models.Employee
	if err := q.Order("name").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch employees"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// UpdateEmployee updates an existing employee record
func (h *Handler) UpdateEmployee(c *gin.Context) {
	id := c.Param("id")

	var emp models.Employee
	if err := h.DB.First(&emp, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var patch models.Employee
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// ID and company stay fixed
	patch.ID = emp.ID
	patch.CompanyID = emp.CompanyID

	if err := h.DB.Model(&emp).Updates(patch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update employee"})
		return
	}
	c.JSON(http.StatusOK, emp)
}

// DeleteEmployee removes an employee record
func (h *Handler) DeleteEmployee(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.Delete(&models.Employee{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete employee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}

// CreateShiftType inserts a new shift type
func (h *Handler) CreateShiftType(c *gin.Context) {
	var st models.ShiftType
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if st.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if st.RequiredStaff < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "required_staff must not be negative"})
		return
	}

	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	st.CompanyID = c.GetString("companyID")

	if err := h.DB.Create(&st).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create shift type"})
		return
	}
	c.JSON(http.StatusCreated, st)
}

// ListShiftTypes returns all shift types
func (h *Handler) ListShiftTypes(c *gin.Context) {
	var shiftTypes []models.ShiftType
	if err := h.DB.Order("name").Find(&shiftTypes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch shift types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift_types": shiftTypes})
}

// UpdateShiftType updates an existing shift type
func (h *Handler) UpdateShiftType(c *gin.Context) {
	id := c.Param("id")

	var st models.ShiftType
	if err := h.DB.First(&st, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift type not found"})
		return
	}

	var patch models.ShiftType
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch.ID = st.ID
	patch.CompanyID = st.CompanyID

	if err := h.DB.Model(&st).Updates(patch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update shift type"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// DeleteShiftType removes a shift type
func (h *Handler) DeleteShiftType(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.Delete(&models.ShiftType{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete shift type"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift type deleted"})
}

// ListAssignments returns assignments in a date range
func (h *Handler) ListAssignments(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required"})
		return
	}

	var assignments []models.ShiftAssignment
	err := h.DB.Where("date >= ? AND date <= ?", start, end).
		Order("date").Find(&assignments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch assignments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// DeleteAssignment removes a single assignment
func (h *Handler) DeleteAssignment(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.Delete(&models.ShiftAssignment{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete assignment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}
