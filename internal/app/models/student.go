package models

import "github.com/jackc/pgx/v5/pgtype"

// Student defines the student model based on the 'student' table.
// JSON keys are the lowercase column aliases clients already consume.
type Student struct {
	StudentID       int64       `json:"studentid" example:"1"`                                       // Generated by the database, never changes
	FName           string      `json:"fname" example:"Zoe"`                                         // First name
	LName           string      `json:"lname" example:"Adams"`                                       // Last name
	DOB             pgtype.Date `json:"dob" swaggertype:"string" format:"date" example:"2003-04-17"` // Date of birth, null when unknown
	Email           string      `json:"email" example:"zoe.adams@example.edu"`                       // Unique across all students
	Address         *string     `json:"address" example:"12 College Rd"`                             // Postal address, nullable
	EnrollmentScore *float64    `json:"enrollment_score" example:"87.5"`                             // Entrance score, nullable
}

// StudentFields holds the column values of a student row to be inserted.
type StudentFields struct {
	FName           string
	LName           string
	DOB             pgtype.Date
	Email           string
	Address         *string
	EnrollmentScore *float64
}

// StudentPatch lists the columns a partial update touches. Fields that are
// not Set keep their stored value; a Set field with Null clears the column.
type StudentPatch struct {
	FName           Optional[string]
	LName           Optional[string]
	DOB             Optional[pgtype.Date]
	Email           Optional[string]
	Address         Optional[string]
	EnrollmentScore Optional[float64]
}

// IsEmpty reports whether the patch changes nothing.
func (p *StudentPatch) IsEmpty() bool {
	return !p.FName.Set && !p.LName.Set && !p.DOB.Set &&
		!p.Email.Set && !p.Address.Set && !p.EnrollmentScore.Set
}
