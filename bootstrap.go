package fiberswaggerui

import (
	"log/slog"
	"sync/atomic"
)

// Viewer is a constructed documentation viewer instance
type Viewer struct {
	config ViewerConfiguration
}

// NewViewer is the default viewer factory
func NewViewer(config ViewerConfiguration) *Viewer {
	return &Viewer{config: config}
}

// Config returns the configuration the viewer was built with
func (v *Viewer) Config() ViewerConfiguration {
	return v.config
}

// Intercept runs the configured request-mutation hook on req
func (v *Viewer) Intercept(req RequestDescriptor) RequestDescriptor {
	return v.config.RequestInterceptor().Apply(req)
}

// Factory constructs a viewer from a configuration
type Factory func(ViewerConfiguration) *Viewer

// Handle holds the viewer built by the most recent load. It is owned by
// whoever hosts the viewer and may be read concurrently.
type Handle struct {
	viewer atomic.Pointer[Viewer]
	writes atomic.Int64
}

// Load returns the current viewer, nil before the first load
func (h *Handle) Load() *Viewer {
	return h.viewer.Load()
}

// IsSet reports whether a viewer has been stored
func (h *Handle) IsSet() bool {
	return h.viewer.Load() != nil
}

// Writes returns how many times the handle has been assigned
func (h *Handle) Writes() int {
	return int(h.writes.Load())
}

func (h *Handle) store(v *Viewer) {
	h.viewer.Store(v)
	h.writes.Add(1)
}

// Bootstrapper builds the viewer when the hosting page loads
type Bootstrapper struct {
	config  ViewerConfiguration
	factory Factory
	logger  *slog.Logger
}

// BootstrapOption customizes a Bootstrapper
type BootstrapOption func(*Bootstrapper)

// WithFactory overrides the viewer factory
func WithFactory(factory Factory) BootstrapOption {
	return func(b *Bootstrapper) { b.factory = factory }
}

// WithBootstrapLogger sets the logger used on each load
func WithBootstrapLogger(logger *slog.Logger) BootstrapOption {
	return func(b *Bootstrapper) { b.logger = logger }
}

// NewBootstrapper creates a bootstrapper for config
func NewBootstrapper(config ViewerConfiguration, opts ...BootstrapOption) *Bootstrapper {
	b := &Bootstrapper{
		config:  config,
		factory: NewViewer,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the configuration passed to the factory on each load
func (b *Bootstrapper) Config() ViewerConfiguration {
	return b.config
}

// OnLoad constructs the viewer and stores it in h. A repeated load replaces
// the previous viewer.
func (b *Bootstrapper) OnLoad(h *Handle) *Viewer {
	v := b.factory(b.config)
	h.store(v)
	b.logger.Debug("viewer bootstrapped",
		"configUrl", b.config.ConfigURL(),
		"domId", b.config.DomID(),
		"layout", b.config.Layout(),
		"loads", h.Writes())
	return v
}
