package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/studentapi/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	healthController *controllers.HealthController,
) {
	router.GET("/", healthController.Root)
	router.GET("/health", healthController.Check)

	api := router.Group("/api")

	// Student routes. /search is a static segment, so it wins over /:id.
	students := api.Group("/students")
	{
		students.GET("", studentController.GetAllStudents)
		students.GET("/search", studentController.SearchStudents)
		students.GET("/:id", studentController.GetStudentByID)
		students.POST("", studentController.CreateStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}
}
