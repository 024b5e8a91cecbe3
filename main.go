package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/budgetmaster/backend/internal/models"
	"github.com/budgetmaster/backend/internal/pgstore"
	"github.com/budgetmaster/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultDatabase is used when DATABASE_URL is not set.
const defaultDatabase = "data/budgetmaster.db"

// version is set at build time with -ldflags "-X main.version=…".
var version = "0.0.0"

// openDocuments connects to the document database. PostgreSQL URLs select
// the PostgreSQL store, everything else is a path to a SQLite database.
func openDocuments(ctx context.Context, dsn string) (models.Documents, error) {
	if pgstore.IsURL(dsn) {
		store, err := pgstore.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	err := os.MkdirAll(filepath.Dir(dsn), os.ModePerm)
	if err != nil {
		return nil, err
	}

	documents, err := models.Connect(dsn)
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		log.Fatal().Msg("environment variable API_URL must be set")
	}

	url, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Msg("environment variable API_URL must be a valid URL")
	}

	dsn, ok := os.LookupEnv("DATABASE_URL")
	if !ok {
		dsn = defaultDatabase
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	documents, err := openDocuments(ctx, dsn)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer documents.Close()

	r, teardown, err := router.New(router.Options{
		URL:          url,
		AllowOrigins: strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS")),
		Pprof:        os.Getenv("ENABLE_PPROF") == "true",
		Version:      version,
	}, documents)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	port, ok := os.LookupEnv("PORT")
	if !ok {
		port = "8080"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info().Msg("shutting down")

		// Event streams only end when their clients disconnect
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("shutdown")
			server.Close()
		}
	}()

	log.Info().Str("addr", server.Addr).Msg("backend startup complete")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Msg(err.Error())
	}
	<-done
}
