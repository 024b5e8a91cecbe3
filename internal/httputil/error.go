package httputil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/budgetmaster/backend/internal/database"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidBody      = errors.New("the request body is not a valid JSON object")
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrForbidden        = errors.New("the ledger of another identity cannot be accessed")
)

// HTTPError is the body of every error response.
type HTTPError struct {
	Error string `json:"error" example:"there is no document matching your query"`
}

// statuses maps sentinel errors to response codes. Errors matching none of
// them are client errors.
var statuses = []struct {
	err    error
	status int
}{
	{database.ErrGeneral, http.StatusInternalServerError},
	{database.ErrResourceNotFound, http.StatusNotFound},
	{ErrForbidden, http.StatusForbidden},
}

// Status returns the response code for err.
func Status(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusBadRequest
}

// ErrorHandler aborts the request with the error response for err.
//
// Internal errors are logged with the request id, the client only gets
// the request id to report.
func ErrorHandler(c *gin.Context, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		id := requestid.Get(c)
		log.Error().Str("request-id", id).Err(err).Msg("request failed")
		err = fmt.Errorf("%w, request id %q", database.ErrGeneral, id)
	}

	c.AbortWithStatusJSON(status, HTTPError{Error: err.Error()})
}
