package httputil

import (
	"net/http"

	"github.com/darkkaiser/catalog-sync/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
)

func newHTTPError(code int, message string) error {
	return echo.NewHTTPError(code, response.ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

// NewBadRequestError 400 Bad Request 에러를 생성합니다
func NewBadRequestError(message string) error {
	return newHTTPError(http.StatusBadRequest, message)
}

// NewNotFoundError 404 Not Found 에러를 생성합니다
func NewNotFoundError(message string) error {
	return newHTTPError(http.StatusNotFound, message)
}

// NewConflictError 409 Conflict 에러를 생성합니다
func NewConflictError(message string) error {
	return newHTTPError(http.StatusConflict, message)
}

// NewTooManyRequestsError 429 Too Many Requests 에러를 생성합니다
func NewTooManyRequestsError(message string) error {
	return newHTTPError(http.StatusTooManyRequests, message)
}

// NewInternalServerError 500 Internal Server Error 에러를 생성합니다
func NewInternalServerError(message string) error {
	return newHTTPError(http.StatusInternalServerError, message)
}

// Accepted 비동기 작업이 접수되었음을 202 Accepted로 응답합니다.
func Accepted(c echo.Context, runID, message string) error {
	return c.JSON(http.StatusAccepted, response.RunAcceptedResponse{
		RunID:   runID,
		Message: message,
	})
}
