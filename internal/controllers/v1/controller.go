// Package v1 implements the v1 API of the document server.
package v1

import (
	"github.com/budgetmaster/backend/internal/models"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/gin-gonic/gin"
)

// Controller holds the dependencies of the v1 handlers.
type Controller struct {
	Documents models.Documents
	Hub       *remote.Hub
}

func New(documents models.Documents) Controller {
	return Controller{
		Documents: documents,
		Hub:       remote.NewHub(),
	}
}

// RegisterRoutes registers all v1 routes on r.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)

	co.RegisterLedgerRoutes(r.Group("/ledgers/:identity"))
}
