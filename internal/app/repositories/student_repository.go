package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentapi/internal/app/models"
	"github.com/yigit/studentapi/internal/db"
	"github.com/yigit/studentapi/internal/pkg/dberrors"
	"github.com/yigit/studentapi/internal/pkg/logger"
)

const studentTable = "student"

// EmailUniqueConstraint is the name PostgreSQL gives the UNIQUE (email) constraint.
const EmailUniqueConstraint = "student_email_key"

// studentColumns aliases the table columns to the response keys.
var studentColumns = []string{
	"student_id AS studentid",
	"first_name AS fname",
	"last_name AS lname",
	"dob",
	"email",
	"address",
	"enrollment_score",
}

var returningStudent = "RETURNING " + strings.Join(studentColumns, ", ")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ErrorRecorder receives storage failures for metrics. It may be nil.
type ErrorRecorder interface {
	RecordStorageError(operation, kind string)
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db       db.Querier
	sb       squirrel.StatementBuilderType
	recorder ErrorRecorder
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(q db.Querier, recorder ErrorRecorder) *StudentRepository {
	return &StudentRepository{
		db:       q,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		recorder: recorder,
	}
}

func (r *StudentRepository) record(operation, kind string) {
	if r.recorder != nil {
		r.recorder.RecordStorageError(operation, kind)
	}
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).From(studentTable)
}

// ListStudents returns every student ordered by last name, then first name
func (r *StudentRepository) ListStudents(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.selectStudents().
		OrderBy("last_name", "first_name").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	return r.queryStudents(ctx, "list", sql, args...)
}

// SearchStudentsByName matches term case-insensitively against first or last
// name. Wildcards in term are matched literally.
func (r *StudentRepository) SearchStudentsByName(ctx context.Context, term string, limit uint64) ([]*models.Student, error) {
	pattern := "%" + likeEscaper.Replace(term) + "%"

	sql, args, err := r.selectStudents().
		Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
		}).
		OrderBy("last_name", "first_name").
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building search students SQL")
		return nil, fmt.Errorf("failed to build search students query: %w", err)
	}

	return r.queryStudents(ctx, "search", sql, args...)
}

// GetStudentByID retrieves a student by ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.selectStudents().
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		r.record("get", "internal")
		logger.Error().Err(err).Int64("studentID", id).Msg("Error fetching student")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// CreateStudent inserts a student and returns the stored row with its generated ID
func (r *StudentRepository) CreateStudent(ctx context.Context, fields *models.StudentFields) (*models.Student, error) {
	sql, args, err := r.sb.Insert(studentTable).
		Columns("first_name", "last_name", "dob", "email", "address", "enrollment_score").
		Values(fields.FName, fields.LName, fields.DOB, fields.Email, fields.Address, fields.EnrollmentScore).
		Suffix(returningStudent).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return nil, fmt.Errorf("failed to build create student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, EmailUniqueConstraint):
			r.record("create", "conflict")
			logger.Warn().Str("email", fields.Email).Msg("Attempted to create student with duplicate email")
			return nil, ErrDuplicateEmail
		case dberrors.IsUniqueViolation(err):
			r.record("create", "conflict")
			logger.Warn().Str("pgMessage", dberrors.Message(err)).Msg("Unique constraint rejected new student")
			return nil, fmt.Errorf("error creating student: %w", err)
		}
		r.record("create", "internal")
		logger.Error().Err(err).Str("email", fields.Email).Msg("Error creating student")
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", student.StudentID).Msg("Student created successfully")
	return student, nil
}

// UpdateStudent applies the columns present in patch and returns the updated row
func (r *StudentRepository) UpdateStudent(ctx context.Context, id int64, patch *models.StudentPatch) (*models.Student, error) {
	changes := patchColumns(patch)
	if len(changes) == 0 {
		return nil, ErrNothingToUpdate
	}

	sql, args, err := r.sb.Update(studentTable).
		SetMap(changes).
		Where(squirrel.Eq{"student_id": id}).
		Suffix(returningStudent).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrStudentNotFound
		case dberrors.IsDuplicateConstraintError(err, EmailUniqueConstraint):
			r.record("update", "conflict")
			logger.Warn().Int64("studentID", id).Msg("Attempted to update student to a duplicate email")
			return nil, ErrDuplicateEmail
		case dberrors.IsUniqueViolation(err):
			r.record("update", "conflict")
			logger.Warn().Int64("studentID", id).Str("pgMessage", dberrors.Message(err)).Msg("Unique constraint rejected student update")
			return nil, fmt.Errorf("error updating student: %w", err)
		}
		r.record("update", "internal")
		logger.Error().Err(err).Int64("studentID", id).Msg("Error updating student")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return student, nil
}

// DeleteStudent deletes a student by ID. Rows referenced by enrollment
// records are refused by the foreign key, not checked beforehand.
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete(studentTable).
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			r.record("delete", "conflict")
			logger.Warn().Int64("studentID", id).Msg("Refused to delete referenced student")
			return ErrStudentReferenced
		}
		r.record("delete", "internal")
		logger.Error().Err(err).Int64("studentID", id).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}

	return nil
}

func (r *StudentRepository) queryStudents(ctx context.Context, operation, sql string, args ...interface{}) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		r.record(operation, "internal")
		logger.Error().Err(err).Str("operation", operation).Msg("Error querying students")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			r.record(operation, "internal")
			logger.Error().Err(err).Str("operation", operation).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		r.record(operation, "internal")
		logger.Error().Err(err).Str("operation", operation).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.StudentID, &s.FName, &s.LName, &s.DOB, &s.Email, &s.Address, &s.EnrollmentScore)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// patchColumns maps the present fields of patch to column values; a null
// field becomes a SQL NULL.
func patchColumns(patch *models.StudentPatch) map[string]interface{} {
	changes := map[string]interface{}{}
	if patch.FName.Set {
		changes["first_name"] = patch.FName.Ptr()
	}
	if patch.LName.Set {
		changes["last_name"] = patch.LName.Ptr()
	}
	if patch.DOB.Set {
		changes["dob"] = patch.DOB.Value
	}
	if patch.Email.Set {
		changes["email"] = patch.Email.Ptr()
	}
	if patch.Address.Set {
		changes["address"] = patch.Address.Ptr()
	}
	if patch.EnrollmentScore.Set {
		changes["enrollment_score"] = patch.EnrollmentScore.Ptr()
	}
	return changes
}
