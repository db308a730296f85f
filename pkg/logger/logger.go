package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

// Options controls how a logger encodes and filters entries.
type Options struct {
	Level zapcore.Level
	JSON  bool
}

// OptionsFromEnv reads LOG_LEVEL and JSON_LOG. An unparseable level falls back to info.
func OptionsFromEnv() Options {
	opts := Options{Level: zap.InfoLevel}

	if levelEnv := os.Getenv("LOG_LEVEL"); levelEnv != "" {
		level, err := zapcore.ParseLevel(levelEnv)
		if err != nil {
			log.Println(fmt.Errorf("invalid level, defaulting to INFO: %w", err))
		} else {
			opts.Level = level
		}
	}

	opts.JSON = os.Getenv("JSON_LOG") != ""
	return opts
}

// New builds a SugaredLogger writing to w.
func New(w io.Writer, opts Options) *zap.SugaredLogger {
	var encoder zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(opts.Level))
	return zap.New(core.With(buildFields())).Sugar()
}

func buildFields() []zapcore.Field {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	fields := []zapcore.Field{zap.String("go_version", buildInfo.GoVersion)}
	for _, v := range buildInfo.Settings {
		if v.Key == "vcs.revision" && len(v.Value) >= 7 {
			fields = append(fields, zap.String("git_revision", v.Value[0:7]))
			break
		}
	}

	return fields
}

// Get initializes the process logger from the environment on first use and
// returns the same instance for subsequent calls.
func Get() *zap.SugaredLogger {
	once.Do(func() {
		logger = New(os.Stdout, OptionsFromEnv())
	})

	return logger
}

// FromCtx returns the logger attached to ctx, or the process logger when none is attached.
// Any key/value pairs in with are added to the returned logger.
func FromCtx(ctx context.Context, with ...any) *zap.SugaredLogger {
	l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger)
	if !ok {
		l = Get()
	}

	if len(with) == 0 {
		return l
	}

	return l.With(with...)
}

// WithCtx returns a copy of ctx with the logger attached.
func WithCtx(ctx context.Context, l *zap.SugaredLogger) context.Context {
	if lp, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && lp == l {
		return ctx
	}

	return context.WithValue(ctx, ctxKey{}, l)
}
