package routes

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/yigit/studentapi/internal/app/models/dto"
)

// SetupStatic serves files under dir for any path no route claims. It must
// run after the API routes are registered so the file lookup only sees
// unmatched requests. GET and HEAD requests for missing files, and all other
// methods, answer 404.
func SetupStatic(router *gin.Engine, dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		router.NoRoute(notFound)
		return false
	}

	serve := static.Serve("/", static.LocalFile(dir, false))
	router.Use(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			serve(c)
		}
	})
	router.NoRoute(notFound)
	return true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound,
		"Cannot "+c.Request.Method+" "+strings.TrimSpace(c.Request.URL.Path)))
}
