package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gorm_logger "gorm.io/gorm/logger"
)

// slowQuery is the duration above which queries are logged as warnings.
const slowQuery = 200 * time.Millisecond

// logger sends gorm logs to zerolog. Queries are logged at debug level.
type logger struct {
	zerolog.Logger
	slow time.Duration
}

func newLogger(l zerolog.Logger) *logger {
	return &logger{Logger: l.With().Str("component", "gorm").Logger(), slow: slowQuery}
}

// LogMode is a no-op, the level is controlled by zerolog.
func (l *logger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *logger) Info(_ context.Context, msg string, args ...any) {
	l.Logger.Info().Msgf(msg, args...)
}

func (l *logger) Warn(_ context.Context, msg string, args ...any) {
	l.Logger.Warn().Msgf(msg, args...)
}

func (l *logger) Error(_ context.Context, msg string, args ...any) {
	l.Logger.Error().Msgf(msg, args...)
}

func (l *logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	var event *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, gorm_logger.ErrRecordNotFound) && !errors.Is(err, ErrResourceNotFound):
		event = l.Logger.Error().Err(err)
	case elapsed > l.slow:
		event = l.Logger.Warn().Bool("slow", true)
	default:
		event = l.Logger.Debug()
	}

	if !event.Enabled() {
		return
	}

	sql, rows := fc()
	event.Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("query")
}
