package tetgo

import (
	"log/slog"

	"github.com/hupe1980/tetgo/internal/delaunay"
	"github.com/hupe1980/tetgo/reorder"
)

type options struct {
	weights          []float64
	lift             []float64
	keepInfinite     bool
	order            reorder.Func
	progress         func(i, n int) bool
	seed             uint64
	debugChecks      bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Tessellation.
type Option func(*options)

// WithWeights switches to a regular (weighted Delaunay) tessellation.
// Point i gets weight w[i]; a point lies in the power cell of the vertex x
// minimizing |p-x|² - w. Points whose power cell is empty are hidden and
// not used by any cell.
//
// len(w) must match the number of points.
func WithWeights(w []float64) Option {
	return func(o *options) {
		o.weights = w
	}
}

// WithKeepInfinite retains the cells incident to the vertex at infinity after
// the build. They follow the finite cells and close the hull, so every
// neighbor link is set.
func WithKeepInfinite(keep bool) Option {
	return func(o *options) {
		o.keepInfinite = keep
	}
}

// WithOrder configures the insertion order. The default is a biased
// randomized insertion order seeded with the random seed.
//
// Example:
//
//	t, _ := tetgo.New(points, tetgo.WithOrder(reorder.Morton))
func WithOrder(fn reorder.Func) Option {
	return func(o *options) {
		o.order = fn
	}
}

// WithProgress configures a callback invoked before each insertion with the
// position in the insertion order and the number of points. Returning false
// cancels the build with ErrCanceled.
func WithProgress(fn func(i, n int) bool) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithRandomSeed seeds the point location walks and the default insertion
// order. Builds with the same seed and input are identical.
func WithRandomSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithDebugChecks runs Validate after every build.
func WithDebugChecks(enabled bool) Option {
	return func(o *options) {
		o.debugChecks = enabled
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tetgo.BasicMetricsCollector{}
//	t, _ := tetgo.New(points, tetgo.WithMetricsCollector(metrics))
//	// ... build and locate ...
//	stats := metrics.GetStats()
//	fmt.Printf("Locates: %d, Avg steps: %d\n", stats.LocateCount, stats.LocateAvgSteps)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := tetgo.NewJSONLogger(slog.LevelInfo)
//	t, _ := tetgo.New(points, tetgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		seed:             delaunay.DefaultRandomSeed,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.order == nil {
		o.order = reorder.BRIO(o.seed)
	}
	return o
}
