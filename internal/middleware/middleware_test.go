package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smartystreets/goconvey/convey"
	"github.com/yigit/studentapi/internal/app/models/dto"
	"github.com/yigit/studentapi/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordedRequest struct {
	route, method, status string
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) RecordHTTPRequest(route, method, statusCode string, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{route, method, statusCode})
}

func serveError(err error, fallback Fallback) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/boom", func(c *gin.Context) {
		HandleAPIError(c, err, fallback)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	var body dto.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestHandleAPIError(t *testing.T) {
	convey.Convey("Given the central error handler", t, func() {
		internal := InternalFallback("Database error")

		convey.Convey("When the error is a validation failure", func() {
			w, body := serveError(apperrors.NewValidationError("Invalid student ID"), internal)

			convey.Convey("Then it answers 400 with the error's own message", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
				convey.So(body.Error, convey.ShouldEqual, "Invalid student ID")
				convey.So(body.Code, convey.ShouldEqual, dto.ErrorCodeValidationFailed)
			})
		})

		convey.Convey("When the error is a wrapped not-found", func() {
			w, body := serveError(fmt.Errorf("lookup: %w", apperrors.ErrStudentNotFound), internal)

			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			convey.So(body.Error, convey.ShouldEqual, "Student not found")
			convey.So(body.Code, convey.ShouldEqual, dto.ErrorCodeResourceNotFound)
		})

		convey.Convey("When the error is a duplicate email", func() {
			w, body := serveError(apperrors.ErrEmailAlreadyExists, internal)

			convey.So(w.Code, convey.ShouldEqual, http.StatusConflict)
			convey.So(body.Error, convey.ShouldEqual, "Email already exists")
			convey.So(body.Code, convey.ShouldEqual, dto.ErrorCodeResourceAlreadyExists)
		})

		convey.Convey("When the student is still referenced", func() {
			w, body := serveError(apperrors.ErrStudentHasRelations, internal)

			convey.So(w.Code, convey.ShouldEqual, http.StatusConflict)
			convey.So(body.Code, convey.ShouldEqual, dto.ErrorCodeResourceInUse)
		})

		convey.Convey("When the error is unexpected", func() {
			pgErr := &pgconn.PgError{Code: "22007", Message: `invalid input syntax for type date: "x"`}
			cause := fmt.Errorf("error creating student: %w", pgErr)

			convey.Convey("Then an internal fallback hides the cause", func() {
				w, body := serveError(cause, internal)
				convey.So(w.Code, convey.ShouldEqual, http.StatusInternalServerError)
				convey.So(body.Error, convey.ShouldEqual, "Database error")
				convey.So(body.Code, convey.ShouldEqual, dto.ErrorCodeDatabaseError)
			})

			convey.Convey("Then a storage-message fallback exposes PostgreSQL's message", func() {
				w, body := serveError(cause, StorageMessageFallback("Failed to create student"))
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
				convey.So(body.Error, convey.ShouldEqual, pgErr.Message)
			})

			convey.Convey("Then a storage-message fallback without a server message uses its default", func() {
				w, body := serveError(errors.New("conn closed"), StorageMessageFallback("Failed to create student"))
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
				convey.So(body.Error, convey.ShouldEqual, "Failed to create student")
			})

			convey.Convey("Then a zero fallback answers a generic 500", func() {
				w, body := serveError(errors.New("boom"), Fallback{})
				convey.So(w.Code, convey.ShouldEqual, http.StatusInternalServerError)
				convey.So(body.Error, convey.ShouldEqual, "Internal server error")
				convey.So(body.Code, convey.ShouldEqual, dto.ErrorCodeInternalServer)
			})
		})
	})
}

func TestValidationDetails(t *testing.T) {
	convey.Convey("Given binding errors", t, func() {
		convey.Convey("When fields fail validator tags", func() {
			type payload struct {
				Name  string `validate:"required"`
				Email string `validate:"email"`
			}
			err := validator.New().Struct(payload{Email: "nope"})

			convey.Convey("Then every field gets its own message", func() {
				convey.So(ValidationDetails(err), convey.ShouldResemble, []string{
					"Name is required",
					"Email must be a valid email address",
				})
			})
		})

		convey.Convey("When a JSON value has the wrong type", func() {
			var v struct {
				Score float64 `json:"enrollment_score"`
			}
			err := json.Unmarshal([]byte(`{"enrollment_score":"high"}`), &v)

			convey.So(ValidationDetails(err), convey.ShouldResemble, []string{"enrollment_score must be of type float64"})
		})

		convey.Convey("When there is no error", func() {
			convey.So(ValidationDetails(nil), convey.ShouldBeNil)
		})
	})
}

func TestRequestMiddleware(t *testing.T) {
	convey.Convey("Given a router with request id, logging and metrics", t, func() {
		recorder := &fakeRecorder{}
		router := gin.New()
		router.Use(RequestID(), RequestLogger(), Metrics(recorder))
		router.GET("/api/students/:id", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		convey.Convey("When the caller sends no request id", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/students/7", nil))

			convey.Convey("Then one is generated and echoed", func() {
				id := w.Header().Get(RequestIDHeader)
				convey.So(id, convey.ShouldHaveLength, 36)
				convey.So(w.Body.String(), convey.ShouldEqual, id)
			})

			convey.Convey("Then the route template is recorded", func() {
				convey.So(recorder.requests, convey.ShouldResemble, []recordedRequest{
					{"/api/students/:id", http.MethodGet, "200"},
				})
			})
		})

		convey.Convey("When the caller sends a request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/students/7", nil)
			req.Header.Set(RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			convey.So(w.Header().Get(RequestIDHeader), convey.ShouldEqual, "abc-123")
		})

		convey.Convey("When the path matches no route", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			convey.So(recorder.requests, convey.ShouldResemble, []recordedRequest{
				{"unmatched", http.MethodGet, "404"},
			})
		})
	})
}
