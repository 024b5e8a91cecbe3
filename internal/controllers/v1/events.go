package v1

import (
	"io"
	"net/http"
	"time"

	"github.com/budgetmaster/backend/internal/httputil"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Heartbeat is the interval in which comments are sent on idle event
// streams so that proxies keep the connection open.
var Heartbeat = 30 * time.Second

// OptionsEvents returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Ledgers
//	@Success		204
//	@Param			identity	path	string	true	"Identity of the ledger owner"
//	@Router			/v1/ledgers/{identity}/events [options]
func OptionsEvents(c *gin.Context) {
	httputil.Allow(c, http.MethodGet)
}

// GetEvents streams changes of the ledger document
//
//	@Summary		Stream ledger changes
//	@Description	Opens a Server-Sent Events stream. Every time a key of the collection is written, a "snapshot" event carrying the full snapshot is sent. Clients that fall behind only receive the newest snapshot.
//	@Tags			Ledgers
//	@Produce		text/event-stream
//	@Success		200
//	@Failure		400					{object}	httputil.HTTPError
//	@Failure		403					{object}	httputil.HTTPError
//	@Param			identity			path		string	true	"Identity of the ledger owner"
//	@Param			X-Budget-Identity	header		string	true	"Identity of the caller"
//	@Param			collection			query		string	true	"Collection to watch"	Enums(transactions, accounts)
//	@Router			/v1/ledgers/{identity}/events [get]
func (co Controller) GetEvents(c *gin.Context) {
	identity := c.Param("identity")

	collection, err := remote.ParseCollection(c.Query("collection"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	ch, err := co.Hub.Subscribe(c.Request.Context(), identity, collection)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	subscribers.Inc()
	defer subscribers.Dec()

	logger := log.With().Str("request-id", requestid.Get(c)).Str("identity", identity).Str("collection", string(collection)).Logger()
	logger.Debug().Msg("event stream opened")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(Heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case s, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", s)
			return true

		case <-ticker.C:
			_, err := io.WriteString(w, ": heartbeat\n\n")
			return err == nil
		}
	})

	logger.Debug().Msg("event stream closed")
}
