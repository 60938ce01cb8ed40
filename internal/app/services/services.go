package services

import "github.com/yigit/studentapi/internal/app/repositories"

// Services holds all the service instances
type Services struct {
	StudentService StudentService
	HealthService  HealthService
}

// NewServices initializes all services
func NewServices(repos *repositories.Repositories) *Services {
	return &Services{
		StudentService: NewStudentService(repos.StudentRepository),
		HealthService:  NewHealthService(repos.HealthRepository),
	}
}
