package version

import (
	"net/http"
	"runtime"

	"github.com/budgetmaster/backend/internal/httputil"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Data Object `json:"data"`
}

// Object describes the running server.
type Object struct {
	Version  string `json:"version" example:"1.1.0"` // Release of the server
	Document string `json:"document" example:"1.0"`  // Format version of stored ledger documents
	Go       string `json:"go" example:"go1.25.0"`   // Go release the server was built with
}

// RegisterRoutes registers the version routes, reporting release as the
// version of the server.
func RegisterRoutes(r *gin.RouterGroup, release string) {
	r.OPTIONS("", Options)
	r.GET("", Get(Object{
		Version:  release,
		Document: remote.DocumentVersion,
		Go:       runtime.Version(),
	}))
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/version [options]
func Options(c *gin.Context) {
	httputil.Allow(c, http.MethodGet)
}

// Get reports the server and document format versions
//
//	@Summary		Versions
//	@Description	Returns the release of the server and the format version of the ledger documents it stores
//	@Tags			General
//	@Success		200	{object}	Response
//	@Router			/version [get]
func Get(o Object) gin.HandlerFunc {
	response := Response{Data: o}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response)
	}
}
