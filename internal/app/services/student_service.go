package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/studentapi/internal/app/models"
	"github.com/yigit/studentapi/internal/app/repositories"
	"github.com/yigit/studentapi/internal/pkg/apperrors"
)

const (
	// MinSearchTermLength is the shortest trimmed name accepted by search
	MinSearchTermLength = 2
	// MaxSearchResults caps the rows returned by search
	MaxSearchResults = 50
)

// StudentService defines the interface for student-related operations
type StudentService interface {
	ListStudents(ctx context.Context) ([]*models.Student, error)
	SearchStudents(ctx context.Context, name string) ([]*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	CreateStudent(ctx context.Context, fields *models.StudentFields) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, patch *models.StudentPatch) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// StudentRepository is the storage the service depends on.
type StudentRepository interface {
	ListStudents(ctx context.Context) ([]*models.Student, error)
	SearchStudentsByName(ctx context.Context, term string, limit uint64) ([]*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	CreateStudent(ctx context.Context, fields *models.StudentFields) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, patch *models.StudentPatch) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

var _ StudentRepository = (*repositories.StudentRepository)(nil)

// Validation messages returned to clients
const (
	msgSearchTermRequired = "Name query parameter is required (min 2 characters)"
	msgRequiredFields     = "First name, last name and email are required"
	msgNoFieldsToUpdate   = "No fields provided to update"
)

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo StudentRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo StudentRepository) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
	}
}

// ListStudents retrieves all students ordered by last name, first name
func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// SearchStudents finds students whose first or last name contains name
func (s *studentServiceImpl) SearchStudents(ctx context.Context, name string) ([]*models.Student, error) {
	term := strings.TrimSpace(name)
	if len([]rune(term)) < MinSearchTermLength {
		return nil, apperrors.NewValidationError(msgSearchTermRequired)
	}

	students, err := s.studentRepo.SearchStudentsByName(ctx, term, MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("error searching students: %w", err)
	}
	return students, nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// CreateStudent validates and inserts a new student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, fields *models.StudentFields) (*models.Student, error) {
	if err := validateStudentFields(fields); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.CreateStudent(ctx, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return student, nil
}

// UpdateStudent applies a partial update to an existing student
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, patch *models.StudentPatch) (*models.Student, error) {
	if err := validateStudentPatch(patch); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.UpdateStudent(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrStudentNotFound):
			return nil, apperrors.ErrStudentNotFound
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, apperrors.ErrEmailAlreadyInUse
		case errors.Is(err, repositories.ErrNothingToUpdate):
			return nil, apperrors.NewValidationError(msgNoFieldsToUpdate)
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return student, nil
}

// DeleteStudent deletes a student by ID
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	err := s.studentRepo.DeleteStudent(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrStudentNotFound):
			return apperrors.ErrStudentNotFound
		case errors.Is(err, repositories.ErrStudentReferenced):
			return apperrors.ErrStudentHasRelations
		}
		return fmt.Errorf("error deleting student: %w", err)
	}
	return nil
}

// validateStudentFields checks the columns required on insert and trims names
func validateStudentFields(fields *models.StudentFields) error {
	if fields == nil {
		return apperrors.NewValidationError(msgRequiredFields)
	}

	fields.FName = strings.TrimSpace(fields.FName)
	fields.LName = strings.TrimSpace(fields.LName)
	fields.Email = strings.TrimSpace(fields.Email)

	if fields.FName == "" || fields.LName == "" || fields.Email == "" {
		return apperrors.NewValidationError(msgRequiredFields)
	}
	return nil
}

// validateStudentPatch rejects empty patches and clearing of required columns
func validateStudentPatch(patch *models.StudentPatch) error {
	if patch == nil || patch.IsEmpty() {
		return apperrors.NewValidationError(msgNoFieldsToUpdate)
	}

	required := []struct {
		name  string
		field *models.Optional[string]
	}{
		{"FName", &patch.FName},
		{"Lname", &patch.LName},
		{"Email", &patch.Email},
	}
	for _, r := range required {
		if !r.field.Set {
			continue
		}
		r.field.Value = strings.TrimSpace(r.field.Value)
		if r.field.Null || r.field.Value == "" {
			return apperrors.NewValidationError(r.name + " cannot be empty")
		}
	}
	return nil
}
