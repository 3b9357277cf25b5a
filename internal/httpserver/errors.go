package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/service/session"
)

var (
	errNoRoute     = errors.New("resource not found")
	errInvalidBody = errors.New("invalid request body")
)

type errorResponse struct {
	StatusCode int           `json:"statusCode"`
	Message    string        `json:"message"`
	Errors     []errorDetail `json:"errors"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal server error"
	}
	c.JSON(status, errorResponse{
		StatusCode: status,
		Message:    msg,
		Errors:     []errorDetail{{Code: code, Message: msg}},
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, errNoRoute):
		return http.StatusNotFound, "ResourceNotFound"
	case errors.Is(err, domain.ErrInvalidItem):
		return http.StatusBadRequest, "InvalidItem"
	case errors.Is(err, session.ErrInvalidEmail), errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "InvalidInput"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "invalid_token"
	default:
		return http.StatusInternalServerError, "General"
	}
}

func invalidBody(err error) error {
	detail := strings.TrimSpace(err.Error())
	if detail == "" {
		return errInvalidBody
	}
	return fmt.Errorf("%w: %s", errInvalidBody, detail)
}
