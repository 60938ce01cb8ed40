package repositories

import (
	"github.com/yigit/studentapi/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository *StudentRepository
	HealthRepository  *HealthRepository
}

// NewRepositories initializes all repositories
func NewRepositories(q db.Querier, recorder ErrorRecorder) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(q, recorder),
		HealthRepository:  NewHealthRepository(q),
	}
}
