package v1

import (
	"github.com/budgetmaster/backend/internal/httputil"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/gin-gonic/gin"
)

// IdentityMiddleware only lets requests through whose identity header
// matches the identity in the path.
func IdentityMiddleware(c *gin.Context) {
	identity := c.GetHeader(remote.IdentityHeader)
	if identity == "" || identity != c.Param("identity") {
		httputil.ErrorHandler(c, httputil.ErrForbidden)
		return
	}

	c.Next()
}
