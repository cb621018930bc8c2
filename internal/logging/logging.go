// Package logging builds the diagnostic logger. User-facing status lines do not go through it.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLevel = zapcore.WarnLevel

type Options struct {
	// Level is a zap level name; it wins over Verbose.
	Level   string
	Verbose bool
	Output  io.Writer
}

// New returns a console logger tagged with a fresh run_id.
func New(opts Options) (*zap.Logger, error) {
	level, err := resolveLevel(opts)
	if err != nil {
		return nil, err
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(output), level)
	return zap.New(core).With(zap.String("run_id", uuid.NewString())), nil
}

func resolveLevel(opts Options) (zapcore.Level, error) {
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		level, err := zapcore.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return defaultLevel, fmt.Errorf("parse log level %q: %w", raw, err)
		}
		return level, nil
	}
	if opts.Verbose {
		return zapcore.DebugLevel, nil
	}
	return defaultLevel, nil
}
