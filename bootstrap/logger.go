package bootstrap

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes the zap logger with colored console output at the
// given level.
func InitLogger(level string) (*zap.Logger, *zap.SugaredLogger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // Colored levels
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder        // Readable timestamps
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder      // Short file paths

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.AddSync(os.Stdout),
		zapLevel,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, logger.Sugar(), nil
}
