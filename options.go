package vimgo

import (
	"log/slog"

	"github.com/hupe1980/vimgo/archive"
	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/resource"
	"github.com/hupe1980/vimgo/scene"
)

type options struct {
	load             document.LoadOptions
	compression      archive.Algorithm
	controller       *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
	sceneOptions     []scene.Option
}

// Option configures Open, Save and OpenScene.
type Option func(*options)

// WithLoadOptions sets which buffers Open skips.
func WithLoadOptions(lo document.LoadOptions) Option {
	return func(o *options) {
		o.load = lo
	}
}

// WithSkipGeometry leaves the geometry buffer unread. Nodes are still loaded.
func WithSkipGeometry() Option {
	return func(o *options) {
		o.load.SkipGeometry = true
	}
}

// WithSkipAssets leaves the assets buffer unread.
func WithSkipAssets() Option {
	return func(o *options) {
		o.load.SkipAssets = true
	}
}

// WithCompression makes Save wrap the document in a compressed envelope.
// archive.None (the default) writes the plain container.
func WithCompression(alg archive.Algorithm) Option {
	return func(o *options) {
		o.compression = alg
	}
}

// WithResourceController bounds concurrent loads, buffered bytes and blob IO.
// Pass nil to disable limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vimgo.BasicMetricsCollector{}
//	doc, _ := vimgo.OpenFile(ctx, "tower.vim", vimgo.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Loads: %d, Avg latency: %dns\n", stats.LoadCount, stats.LoadAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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

// WithSceneOptions passes options through to scene.LoadScene in OpenScene.
func WithSceneOptions(opts ...scene.Option) Option {
	return func(o *options) {
		o.sceneOptions = append(o.sceneOptions, opts...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) documentOptions() []document.Option {
	return []document.Option{
		document.WithLoadOptions(o.load),
		document.WithLogger(o.logger.Logger),
	}
}
