package services

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"timeledger/internal/config"
)

// Clock returns the current instant. Tests inject a fixed clock.
type Clock func() time.Time

// IDGenerator returns a new unique identifier
type IDGenerator func() string

type serviceOptions struct {
	clock  Clock
	logger *zap.Logger
	config *config.Config
	newID  IDGenerator
}

// Option configures a service
type Option func(*serviceOptions)

// WithClock sets the time source
func WithClock(clock Clock) Option {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConfig sets the configuration used for thresholds and limits
func WithConfig(cfg *config.Config) Option {
	return func(o *serviceOptions) {
		if cfg != nil {
			o.config = cfg
		}
	}
}

// WithIDGenerator sets the identifier source
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *serviceOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}

func newServiceOptions(opts []Option) serviceOptions {
	o := serviceOptions{
		clock:  time.Now,
		logger: zap.NewNop(),
		config: config.NewConfig(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// now returns the clock reading truncated to milliseconds, the resolution of stored instants
func (o serviceOptions) now() time.Time {
	return o.clock().UTC().Truncate(time.Millisecond)
}
