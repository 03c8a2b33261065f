package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/logging"
	"go.uber.org/zap"
)

// zapLogger flushes buffered entries on shutdown.
type zapLogger struct {
	*zap.Logger
}

func (l *zapLogger) Shutdown() error {
	_ = l.Sync()

	return nil
}

// LoggerPackage provides the service logger.
func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zapLogger, error) {
		opts := do.MustInvoke[*Options](i)

		logger, err := logging.New(opts.LogFormat)
		if err != nil {
			return nil, err
		}

		return &zapLogger{Logger: logger.With(zap.String("env", opts.Env))}, nil
	})

	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		return do.MustInvoke[*zapLogger](i).Logger, nil
	})
}
