package httputil

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Allow answers an OPTIONS request. The allow header lists OPTIONS
// followed by methods.
func Allow(c *gin.Context, methods ...string) {
	c.Header("allow", strings.Join(append([]string{http.MethodOptions}, methods...), ", "))
	c.Status(http.StatusNoContent)
}
