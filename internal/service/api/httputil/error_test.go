package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		err         error
		wantCode    int
		wantMessage string
		wantBody    bool
	}{
		{
			name:        "Conflict 에러",
			method:      http.MethodPost,
			err:         NewConflictError(constants.ErrMsgRunInProgress),
			wantCode:    http.StatusConflict,
			wantMessage: constants.ErrMsgRunInProgress,
			wantBody:    true,
		},
		{
			name:        "리소스 없음은 메시지 유지",
			method:      http.MethodGet,
			err:         NewNotFoundError(constants.ErrMsgNoReport),
			wantCode:    http.StatusNotFound,
			wantMessage: constants.ErrMsgNoReport,
			wantBody:    true,
		},
		{
			name:        "라우트 없음은 공통 메시지",
			method:      http.MethodGet,
			err:         echo.ErrNotFound,
			wantCode:    http.StatusNotFound,
			wantMessage: constants.ErrMsgNotFound,
			wantBody:    true,
		},
		{
			name:        "일반 에러는 500",
			method:      http.MethodGet,
			err:         errors.New("boom"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: constants.ErrMsgInternalServer,
			wantBody:    true,
		},
		{
			name:     "HEAD 요청은 본문 없음",
			method:   http.MethodHead,
			err:      NewTooManyRequestsError(constants.ErrMsgTooManyRequests),
			wantCode: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(tt.method, "/api/v1/runs", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			if !tt.wantBody {
				assert.Empty(t, rec.Body.String())
				return
			}

			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.ResultCode)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, c.String(http.StatusOK, "done"))

	ErrorHandler(NewInternalServerError("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

func TestAccepted(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, Accepted(c, "run-1", constants.MsgRunAccepted))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"run_id":"run-1","message":"`+constants.MsgRunAccepted+`"}`, rec.Body.String())
}
