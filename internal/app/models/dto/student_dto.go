package dto

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/yigit/studentapi/internal/app/models"
	"github.com/yigit/studentapi/internal/pkg/apperrors"
)

// Request bodies keep the key casing of the existing clients (FName, Lname,
// Email, Address); responses use models.Student's lowercase keys.

// CreateStudentRequest represents student creation data
type CreateStudentRequest struct {
	FName           string   `json:"FName" binding:"required" example:"Zoe"`
	LName           string   `json:"Lname" binding:"required" example:"Adams"`
	DOB             *string  `json:"dob,omitempty" example:"2003-04-17"`
	Email           string   `json:"Email" binding:"required" example:"zoe.adams@example.edu"`
	Address         *string  `json:"Address,omitempty" example:"12 College Rd"`
	EnrollmentScore *float64 `json:"enrollment_score,omitempty" example:"87.5"`
}

// UpdateStudentRequest represents a partial student update. Keys that are
// absent leave the stored value untouched.
type UpdateStudentRequest struct {
	FName           models.Optional[string]  `json:"FName" swaggertype:"string" example:"Zoe"`
	LName           models.Optional[string]  `json:"Lname" swaggertype:"string" example:"Adams"`
	DOB             models.Optional[string]  `json:"dob" swaggertype:"string" example:"2003-04-17"`
	Email           models.Optional[string]  `json:"Email" swaggertype:"string" example:"zoe.adams@example.edu"`
	Address         models.Optional[string]  `json:"Address" swaggertype:"string" example:"12 College Rd"`
	EnrollmentScore models.Optional[float64] `json:"enrollment_score" swaggertype:"number" example:"90"`
}

// ToFields maps the request onto insertable column values. Empty optional
// strings are stored as NULL.
func (r *CreateStudentRequest) ToFields() (*models.StudentFields, error) {
	fields := &models.StudentFields{
		FName:           r.FName,
		LName:           r.LName,
		Email:           r.Email,
		Address:         nonEmpty(r.Address),
		EnrollmentScore: r.EnrollmentScore,
	}

	if dob := nonEmpty(r.DOB); dob != nil {
		d, err := ParseDate(*dob)
		if err != nil {
			return nil, err
		}
		fields.DOB = d
	}

	return fields, nil
}

// ToPatch maps the request onto the set of columns to change.
func (r *UpdateStudentRequest) ToPatch() (*models.StudentPatch, error) {
	patch := &models.StudentPatch{
		FName:           r.FName,
		LName:           r.LName,
		Email:           r.Email,
		Address:         r.Address,
		EnrollmentScore: r.EnrollmentScore,
	}

	if r.DOB.Set {
		if r.DOB.Null || strings.TrimSpace(r.DOB.Value) == "" {
			patch.DOB = models.Null[pgtype.Date]()
		} else {
			d, err := ParseDate(r.DOB.Value)
			if err != nil {
				return nil, err
			}
			patch.DOB = models.Some(d)
		}
	}

	return patch, nil
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp, keeping only the calendar date.
func ParseDate(s string) (pgtype.Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return pgtype.Date{}, apperrors.NewValidationError("dob must be a date in YYYY-MM-DD format")
		}
		t = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
