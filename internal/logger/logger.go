// Package logger configures the global zerolog logger and carries request
// and job identifiers through contexts.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	jobIDKey     contextKey = "job_id"
)

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

const callerWidth = 30

// Init configures the global logger. An empty level falls back to LOG_LEVEL,
// then info. Output goes to stdout and, when LOG_FILE is set, that file too.
func Init(level string) {
	InitWriter(level, os.Stdout)
}

// InitWriter is Init with an explicit console destination.
func InitWriter(level string, out io.Writer) {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		path := fmt.Sprintf("%s:%d", filepath.Base(file), line)
		if len(path) >= callerWidth {
			return path[len(path)-callerWidth:]
		}
		return path + strings.Repeat(" ", callerWidth-len(path))
	}

	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var output io.Writer = zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: milliTimeFormat,
		NoColor:    !isDevelopmentMode(),
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		f, ferr := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if ferr == nil {
			output = io.MultiWriter(output, f)
		}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()

	log.Debug().
		Str("level", lvl.String()).
		Bool("dev", isDevelopmentMode()).
		Msg("Logger initialized")
}

func isDevelopmentMode() bool {
	return os.Getenv("DEV") == "true" || os.Getenv("DEV_MODE") == "true"
}

// NewRequestID returns a short random identifier for log correlation.
func NewRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// WithRequestID returns a new context with the given request ID stored.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request ID from context, or empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithJobID stores a solve job ID in the context.
func WithJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the job ID from context, or empty string.
func JobIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(jobIDKey).(string)
	return id
}

// ForRequest returns a logger enriched with whichever IDs the context holds.
func ForRequest(ctx context.Context) zerolog.Logger {
	c := log.Logger.With()
	if id := RequestIDFromContext(ctx); id != "" {
		c = c.Str("requestId", id)
	}
	if id := JobIDFromContext(ctx); id != "" {
		c = c.Str("jobId", id)
	}
	return c.Logger()
}

// LogRequest logs a request body at debug level, truncating long bodies.
func LogRequest(logger zerolog.Logger, body []byte) {
	logBody(logger, "request_body", "Request body", body)
}

// LogResponse logs a response body at debug level, truncating long bodies.
func LogResponse(logger zerolog.Logger, body []byte) {
	logBody(logger, "response", "Response body", body)
}

func logBody(logger zerolog.Logger, field, msg string, body []byte) {
	if len(body) == 0 {
		return
	}
	if len(body) > 1000 {
		logger.Debug().Str(field, string(body[:1000])).Bool("truncated", true).Msg(msg)
		return
	}
	logger.Debug().Str(field, string(body)).Msg(msg)
}
