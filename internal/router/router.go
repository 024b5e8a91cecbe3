// Package router builds the gin engine of the document server.
package router

import (
	"net/http"
	"net/url"

	docs "github.com/budgetmaster/backend/api"
	"github.com/budgetmaster/backend/internal/controllers/healthz"
	v1 "github.com/budgetmaster/backend/internal/controllers/v1"
	"github.com/budgetmaster/backend/internal/controllers/version"
	"github.com/budgetmaster/backend/internal/httputil"
	"github.com/budgetmaster/backend/internal/models"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options configure the engine.
type Options struct {
	// URL is the public base URL of the API. Links in responses and the
	// API documentation use it.
	URL *url.URL

	// AllowOrigins enables CORS for the origins listed.
	AllowOrigins []string

	// Pprof serves profiles under /debug/pprof.
	Pprof bool

	Version string
}

// New returns the engine with all middlewares and routes. The returned
// function unregisters the Prometheus metrics and must be called when the
// engine is not used anymore.
func New(o Options, documents models.Documents) (*gin.Engine, func(), error) {
	teardown := func() {
		if !unregisterMetrics(prometheus.DefaultRegisterer) {
			log.Warn().Msg("Prometheus metrics were not registered")
		}
	}

	if err := registerMetrics(prometheus.DefaultRegisterer); err != nil {
		return nil, teardown, err
	}

	// Route registration is not logged
	gin.DebugPrintRouteFunc = func(string, string, string, int) {}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Client IPs are not used, so no proxy needs to be trusted
	r.ForwardedByClientIP = false
	_ = r.SetTrustedProxies(nil)

	r.Use(
		gin.Recovery(),
		requestid.New(),
		httputil.URLMiddleware(o.URL),
		requestLogger(),
		MetricsMiddleware(),
	)

	if len(o.AllowOrigins) > 0 {
		log.Debug().Strs("origins", o.AllowOrigins).Msg("CORS enabled")
		r.Use(cors.New(cors.Config{
			AllowOrigins:     o.AllowOrigins,
			AllowMethods:     []string{http.MethodOptions, http.MethodGet, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", remote.IdentityHeader},
			AllowCredentials: true,
		}))
	}

	docs.SwaggerInfo.Host = o.URL.Host
	docs.SwaggerInfo.BasePath = o.URL.Path
	docs.SwaggerInfo.Version = o.Version

	root := r.Group("/")
	root.GET("", GetRoot)
	root.OPTIONS("", OptionsRoot)
	root.GET("/metrics", gin.WrapH(promhttp.Handler()))
	root.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if o.Pprof {
		pprof.RouteRegister(root, "debug/pprof")
	}

	healthz.Controller{DB: documents}.RegisterRoutes(root.Group("/healthz"))
	version.RegisterRoutes(root.Group("/version"), o.Version)
	v1.New(documents).RegisterRoutes(root.Group("/v1"))

	log.Info().Str("url", o.URL.String()).Str("version", o.Version).Msg("router configured")
	return r, teardown, nil
}

// requestLogger logs every request with its request id. Server errors are
// logged at error level.
func requestLogger() gin.HandlerFunc {
	return logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("route", c.FullPath()).
				Int("status", c.Writer.Status()).
				Logger()
		}),
	)
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/api/docs/index.html"` // Swagger API documentation
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"`      // Health of the document store
	Metrics string `json:"metrics" example:"https://example.com/api/metrics"`      // Prometheus metrics
	Version string `json:"version" example:"https://example.com/api/version"`      // Server and document format versions
	V1      string `json:"v1" example:"https://example.com/api/v1"`                // Ledger endpoints
}

// GetRoot returns the link list for the API root
//
//	@Summary		API root
//	@Description	Entrypoint for the API, listing all endpoints
//	@Tags			General
//	@Success		200	{object}	RootResponse
//	@Router			/ [get]
func GetRoot(c *gin.Context) {
	base := httputil.BaseURL(c)

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    base + "/docs/index.html",
			Healthz: base + "/healthz",
			Metrics: base + "/metrics",
			Version: base + "/version",
			V1:      base + "/v1",
		},
	})
}

// OptionsRoot returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.Allow(c, http.MethodGet)
}
