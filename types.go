package pathstore

import (
	"time"

	"github.com/goliatone/go-pathstore/pkg/activity"
)

// Subscriber receives the value a subscription is scoped to after a
// matching mutation.
type Subscriber func(value any)

// WatchContext carries inputs needed when evaluating a watch expression.
type WatchContext struct {
	Snapshot any
	Paths    []string
	Now      *time.Time
	Args     map[string]any
}

func (ctx WatchContext) withDefaultNow() WatchContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx WatchContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx WatchContext) withDefaultMaps() WatchContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Paths == nil {
		ctx.Paths = []string{}
	}
	return ctx
}

func (ctx WatchContext) withDefaults() WatchContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

// Evaluator executes watch expressions against a snapshot context.
type Evaluator interface {
	Evaluate(ctx WatchContext, expr string) (any, error)
}

// Option configures a Store at construction time.
type Option func(*storeConfig)

type storeConfig struct {
	evaluator      Evaluator
	programCache   ProgramCache
	functions      *FunctionRegistry
	mutationLogger MutationLogger
	watchLogger    WatchLogger
	emitter        *activity.Emitter
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator configures the evaluator used by Watch.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *storeConfig) {
		cfg.evaluator = e
	}
}

// WithActivityEmitter attaches an activity emitter that receives one event
// per applied mutation.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(cfg *storeConfig) {
		cfg.emitter = emitter
	}
}

// WithActivityHooks attaches activity hooks through an enabled emitter
// with default configuration.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(cfg *storeConfig) {
		cfg.emitter = activity.NewEmitter(hooks, activity.Config{Enabled: true})
	}
}

func (s *Store) programCache() ProgramCache {
	return s.cfg.programCache
}

func (s *Store) functionRegistry() *FunctionRegistry {
	return s.cfg.functions
}

func (s *Store) mutationLogger() MutationLogger {
	if s.cfg.mutationLogger != nil {
		return s.cfg.mutationLogger
	}
	return noopMutationLogger{}
}

func (s *Store) watchLogger() WatchLogger {
	if s.cfg.watchLogger != nil {
		return s.cfg.watchLogger
	}
	return noopWatchLogger{}
}
