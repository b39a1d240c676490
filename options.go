package settle

import "go.uber.org/zap"

// Option configures a race.
type Option func(*config)

type config struct {
	panicToError bool
	logger       *zap.Logger
}

func defaultConfig() config {
	return config{
		panicToError: true,
		logger:       zap.NewNop(),
	}
}

// WithPanicToError converts task panics to failures.
func WithPanicToError(enabled bool) Option {
	return func(c *config) {
		c.panicToError = enabled
	}
}

// WithLogger routes debug events about settlement and discarded outcomes to l.
// A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
