package healthz

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/budgetmaster/backend/internal/database"
	"github.com/budgetmaster/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// Pinger is implemented by the SQLite and PostgreSQL document stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller reports the health of the document store.
type Controller struct {
	DB Pinger
}

func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", co.Get)
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.Allow(c, http.MethodGet)
}

// Get checks that the document store answers
//
//	@Summary		Get health
//	@Description	Returns 204 if the document store is reachable
//	@Tags			General
//	@Produce		json
//	@Success		204
//	@Failure		500	{object}	httputil.HTTPError
//	@Router			/healthz [get]
func (co Controller) Get(c *gin.Context) {
	if err := co.DB.Ping(c.Request.Context()); err != nil {
		// Any failure of the store is a server error
		if !errors.Is(err, database.ErrGeneral) {
			err = fmt.Errorf("%w: %w", database.ErrGeneral, err)
		}
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
