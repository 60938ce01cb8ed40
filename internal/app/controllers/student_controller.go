package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/studentapi/internal/app/models/dto"
	"github.com/yigit/studentapi/internal/app/services"
	"github.com/yigit/studentapi/internal/middleware"
	"github.com/yigit/studentapi/internal/pkg/apperrors"
)

// Per-route responses for errors outside the taxonomy. Reads and deletes
// hide the cause; writes report PostgreSQL's message to the client.
var (
	listFallback   = middleware.InternalFallback("Database error while fetching students")
	searchFallback = middleware.InternalFallback("Search failed")
	getFallback    = middleware.InternalFallback("Database error")
	createFallback = middleware.StorageMessageFallback("Failed to create student")
	updateFallback = middleware.StorageMessageFallback("Failed to update student")
	deleteFallback = middleware.InternalFallback("Failed to delete student")
)

const (
	msgRequiredFields   = "First name, last name and email are required"
	msgNoFieldsToUpdate = "No fields provided to update"
	msgInvalidBody      = "Invalid request body"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// GetAllStudents lists every student
// @Summary List students
// @Description Returns all students ordered by last name, then first name
// @Tags students
// @Produce json
// @Success 200 {array} models.Student "Students"
// @Failure 500 {object} dto.ErrorResponse "Database error while fetching students"
// @Router /api/students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err, listFallback)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// SearchStudents searches students by name
// @Summary Search students by name
// @Description Case-insensitive substring match on first or last name, at most 50 results
// @Tags students
// @Produce json
// @Param name query string true "Name fragment (min 2 characters)"
// @Success 200 {array} models.Student "Matching students"
// @Failure 400 {object} dto.ErrorResponse "Name query parameter is required (min 2 characters)"
// @Failure 500 {object} dto.ErrorResponse "Search failed"
// @Router /api/students/search [get]
func (c *StudentController) SearchStudents(ctx *gin.Context) {
	students, err := c.studentService.SearchStudents(ctx.Request.Context(), ctx.Query("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, searchFallback)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// GetStudentByID retrieves a student by ID
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student "Student"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Database error"
// @Router /api/students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, err := parseStudentID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, getFallback)
		return
	}

	student, err := c.studentService.GetStudentByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err, getFallback)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// CreateStudent handles student creation
// @Summary Create a student
// @Description FName, Lname and Email are required; the email must be unused
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} models.Student "Student created"
// @Failure 400 {object} dto.ErrorResponse "First name, last name and email are required"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /api/students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, msgRequiredFields))
			return
		}
		message := msgInvalidBody
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			message = msgRequiredFields
		}
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, message).
			WithDetails(middleware.ValidationDetails(err)...))
		return
	}

	fields, err := req.ToFields()
	if err != nil {
		middleware.HandleAPIError(ctx, err, createFallback)
		return
	}

	student, err := c.studentService.CreateStudent(ctx.Request.Context(), fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err, createFallback)
		return
	}

	ctx.JSON(http.StatusCreated, student)
}

// UpdateStudent applies a partial update
// @Summary Update a student
// @Description Only the keys present in the body are changed; null clears dob, Address or enrollment_score
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} models.Student "Updated student"
// @Failure 400 {object} dto.ErrorResponse "No fields provided to update"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Email already in use"
// @Router /api/students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := parseStudentID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, updateFallback)
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, msgNoFieldsToUpdate))
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, msgInvalidBody).
			WithDetails(middleware.ValidationDetails(err)...))
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		middleware.HandleAPIError(ctx, err, updateFallback)
		return
	}

	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err, updateFallback)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// DeleteStudent deletes a student
// @Summary Delete a student
// @Description Students still referenced by enrollment records cannot be deleted
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.SuccessResponse "Student deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Student is still referenced"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete student"
// @Router /api/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := parseStudentID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, deleteFallback)
		return
	}

	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err, deleteFallback)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student deleted successfully"})
}

// parseStudentID reads the :id path parameter as a 64-bit integer. Zero and
// negative ids are left to storage, which reports them as not found.
func parseStudentID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.ErrInvalidStudentID
	}
	return id, nil
}
