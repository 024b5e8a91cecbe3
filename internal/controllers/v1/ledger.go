package v1

import (
	"encoding/json"
	"net/http"

	"github.com/budgetmaster/backend/internal/httputil"
	"github.com/budgetmaster/backend/internal/models"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type LedgerResponse struct {
	Data remote.Document `json:"data"` // Data for the ledger document
}

// RegisterLedgerRoutes registers the routes for a ledger document with
// the RouterGroup that is passed.
func (co Controller) RegisterLedgerRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsLedger)
		r.GET("", IdentityMiddleware, co.GetLedger)
		r.PUT("", IdentityMiddleware, co.UpdateLedger)
		r.DELETE("", IdentityMiddleware, co.DeleteLedger)
	}

	{
		r.OPTIONS("/events", OptionsEvents)
		r.GET("/events", IdentityMiddleware, co.GetEvents)
	}
}

// OptionsLedger returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Ledgers
//	@Success		204
//	@Param			identity	path	string	true	"Identity of the ledger owner"
//	@Router			/v1/ledgers/{identity} [options]
func OptionsLedger(c *gin.Context) {
	httputil.Allow(c, http.MethodGet, http.MethodPut, http.MethodDelete)
}

// GetLedger returns the ledger document of an identity
//
//	@Summary		Get ledger
//	@Description	Returns the stored ledger snapshot of the identity
//	@Tags			Ledgers
//	@Produce		json
//	@Success		200					{object}	LedgerResponse
//	@Failure		403					{object}	httputil.HTTPError
//	@Failure		404					{object}	httputil.HTTPError
//	@Failure		500					{object}	httputil.HTTPError
//	@Param			identity			path		string	true	"Identity of the ledger owner"
//	@Param			X-Budget-Identity	header		string	true	"Identity of the caller"
//	@Router			/v1/ledgers/{identity} [get]
func (co Controller) GetLedger(c *gin.Context) {
	doc, err := co.Documents.Get(c.Request.Context(), c.Param("identity"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	data, err := doc.API()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, LedgerResponse{Data: data})
}

// UpdateLedger merges a snapshot into the ledger document
//
//	@Summary		Update ledger
//	@Description	Replaces every top-level key present in the body. Keys missing from the body keep their stored value. The document is created if it does not exist.
//	@Tags			Ledgers
//	@Accept			json
//	@Produce		json
//	@Success		200					{object}	LedgerResponse
//	@Success		201					{object}	LedgerResponse
//	@Failure		400					{object}	httputil.HTTPError
//	@Failure		403					{object}	httputil.HTTPError
//	@Failure		500					{object}	httputil.HTTPError
//	@Param			identity			path		string			true	"Identity of the ledger owner"
//	@Param			X-Budget-Identity	header		string			true	"Identity of the caller"
//	@Param			snapshot			body		ledger.Snapshot	true	"Snapshot keys to write"
//	@Router			/v1/ledgers/{identity} [put]
func (co Controller) UpdateLedger(c *gin.Context) {
	identity := c.Param("identity")

	var body map[string]json.RawMessage
	if err := httputil.BindData(c, &body); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	patch, err := json.Marshal(body)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	doc, keys, created, err := co.Documents.Put(c.Request.Context(), identity, patch)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	data, err := doc.API()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	operation := "update"
	status := http.StatusOK
	if created {
		operation = "create"
		status = http.StatusCreated
	}
	documentWrites.WithLabelValues(operation).Inc()

	log.Debug().Str("request-id", requestid.Get(c)).Str("identity", identity).Strs("keys", keys).Msg("ledger written")
	co.Hub.Publish(identity, models.Collections(keys), data.Snapshot)

	c.JSON(status, LedgerResponse{Data: data})
}

// DeleteLedger deletes the ledger document of an identity
//
//	@Summary		Delete ledger
//	@Description	Deletes the stored ledger document of the identity
//	@Tags			Ledgers
//	@Success		204
//	@Failure		403					{object}	httputil.HTTPError
//	@Failure		404					{object}	httputil.HTTPError
//	@Failure		500					{object}	httputil.HTTPError
//	@Param			identity			path		string	true	"Identity of the ledger owner"
//	@Param			X-Budget-Identity	header		string	true	"Identity of the caller"
//	@Router			/v1/ledgers/{identity} [delete]
func (co Controller) DeleteLedger(c *gin.Context) {
	err := co.Documents.Delete(c.Request.Context(), c.Param("identity"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	documentWrites.WithLabelValues("delete").Inc()
	c.Status(http.StatusNoContent)
}
