package pathstore

import "time"

// MutationLogEvent describes one applied mutation for logging.
type MutationLogEvent struct {
	Op       string
	Path     string
	Paths    []string
	Batched  bool
	Notified int
	Duration time.Duration
	Err      error
}

// MutationLogger records applied mutations.
type MutationLogger interface {
	LogMutation(MutationLogEvent)
}

// MutationLoggerFunc adapts a function to MutationLogger.
type MutationLoggerFunc func(MutationLogEvent)

// LogMutation implements MutationLogger.
func (f MutationLoggerFunc) LogMutation(event MutationLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopMutationLogger struct{}

func (noopMutationLogger) LogMutation(MutationLogEvent) {}

// WithMutationLogger attaches a mutation logger to the store.
func WithMutationLogger(logger MutationLogger) Option {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.mutationLogger = noopMutationLogger{}
			return
		}
		cfg.mutationLogger = logger
	}
}

// WatchLogEvent describes a watch-expression evaluation for logging.
type WatchLogEvent struct {
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
}

// WatchLogger records watch evaluations.
type WatchLogger interface {
	LogWatch(WatchLogEvent)
}

// WatchLoggerFunc adapts a function to WatchLogger.
type WatchLoggerFunc func(WatchLogEvent)

// LogWatch implements WatchLogger.
func (f WatchLoggerFunc) LogWatch(event WatchLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopWatchLogger struct{}

func (noopWatchLogger) LogWatch(WatchLogEvent) {}

// WithWatchLogger attaches a watch logger to the store.
func WithWatchLogger(logger WatchLogger) Option {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.watchLogger = noopWatchLogger{}
			return
		}
		cfg.watchLogger = logger
	}
}
