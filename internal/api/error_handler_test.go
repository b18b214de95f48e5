package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/api/handler"
	"github.com/quotemate/gateway/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"echo", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"validation", &handler.ValidationError{Fields: map[string]string{"email": "email is required"}}, http.StatusUnprocessableEntity, "validation failed"},
		{"unavailable", fmt.Errorf("/match-subs: %w: dial tcp", domain.ErrBackendUnavailable), http.StatusBadGateway, domain.NetworkErrorMessage},
		{"rejected", &domain.BackendError{Endpoint: "/match-subs", Status: 500, Message: "matching failed"}, http.StatusBadGateway, "matching failed"},
		{"backend 404", &domain.BackendError{Endpoint: "/retell/project/{id}", Status: 404}, http.StatusNotFound, "not found"},
		{"no project", domain.ErrProjectRequired, http.StatusBadRequest, domain.ErrProjectRequired.Error()},
		{"unsupported", fmt.Errorf("a.exe: %w", domain.ErrUnsupportedFile), http.StatusUnsupportedMediaType, "a.exe: unsupported file type"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body.Error)
			}
		})
	}
}
