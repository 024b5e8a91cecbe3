package v1

import (
	"net/http"

	"github.com/budgetmaster/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Links Links `json:"links"`
}

// Links are URL templates of the ledger endpoints. {identity} is replaced
// with the identity of the ledger owner.
type Links struct {
	Ledgers string `json:"ledgers" example:"https://example.com/api/v1/ledgers/{identity}"`
	Events  string `json:"events" example:"https://example.com/api/v1/ledgers/{identity}/events?collection={collection}"`
}

// Get lists the ledger endpoints
//
//	@Summary		v1 API
//	@Description	Returns URL templates for the ledger document and its event stream
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	ledgers := httputil.BaseURL(c) + "/v1/ledgers/{identity}"

	c.JSON(http.StatusOK, Response{Links: Links{
		Ledgers: ledgers,
		Events:  ledgers + "/events?collection={collection}",
	}})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.Allow(c, http.MethodGet)
}
