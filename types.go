package fiberswaggerui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// App wraps fiber.App with the documentation viewer and its discovery endpoint
type App struct {
	*fiber.App
	config       Config
	documents    *DocumentRegistry
	bootstrapper *Bootstrapper
	handle       *Handle
}

// New wraps app. An omitted or partial config is completed with DefaultConfig.
func New(app *fiber.App, config ...Config) *App {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = mergeConfig(config[0])
	}

	a := &App{
		App:       app,
		config:    cfg,
		documents: NewDocumentRegistry(),
		handle:    &Handle{},
	}
	a.bootstrapper = NewBootstrapper(*cfg.Viewer, WithBootstrapLogger(cfg.Logger))

	if !cfg.DisableCORS {
		app.Use(CORSMiddleware(cfg.AllowedOrigins, cfg.Logger))
	}
	return a
}

// Config returns the current configuration
func (a *App) Config() Config {
	return a.config
}

// Handle returns the holder of the live viewer
func (a *App) Handle() *Handle {
	return a.handle
}

// Documents returns the registry of served API documents
func (a *App) Documents() *DocumentRegistry {
	return a.documents
}

// AddDocument registers an API document under group name
func (a *App) AddDocument(ctx context.Context, name string, data []byte) error {
	// The discovery route lives under the api-docs prefix and would shadow a group of that name.
	if GroupURL(a.config.APIDocsPath, name) == a.handleConfig().ConfigURL() {
		return fmt.Errorf("group name %q collides with the discovery endpoint", name)
	}
	doc, err := a.documents.Register(ctx, name, data)
	if err != nil {
		return err
	}
	a.config.Logger.Info("api document registered", "group", name, "title", doc.Title)
	return nil
}

// Reload bootstraps a new viewer from config and replaces the live one.
// Config().Viewer keeps the initial configuration.
func (a *App) Reload(config ViewerConfiguration) *Viewer {
	return NewBootstrapper(config, WithBootstrapLogger(a.config.Logger)).OnLoad(a.handle)
}

func (a *App) handleConfig() ViewerConfiguration {
	if v := a.handle.Load(); v != nil {
		return v.Config()
	}
	return a.bootstrapper.Config()
}

// SetupDocs bootstraps the viewer and registers the documentation routes
func (a *App) SetupDocs() {
	a.bootstrapper.OnLoad(a.handle)

	docsPath := strings.TrimSuffix(a.config.DocsPath, "/")
	apiDocsPath := strings.TrimSuffix(a.config.APIDocsPath, "/")

	if !a.config.DisableViewer {
		a.Get(docsPath, func(c *fiber.Ctx) error {
			return c.Redirect(docsPath+"/index.html", fiber.StatusFound)
		})
		a.Get(docsPath+"/index.html", a.serveIndex)
		a.Get(docsPath+"/"+InitializerFile, a.serveInitializer)
	}

	// Registered ahead of the group route, which would otherwise match it.
	a.Get(a.handleConfig().ConfigURL(), a.serveDiscovery)

	a.Get(apiDocsPath, a.serveDocument("json"))
	a.Get(apiDocsPath+"/:group", a.serveDocument("json"))
	a.Get(apiDocsPath+".yaml", a.serveDocument("yaml"))
	a.Get(apiDocsPath+".yaml/:group", a.serveDocument("yaml"))

	if a.config.MetricsPath != "" && a.config.Metrics != nil {
		a.Get(a.config.MetricsPath, a.config.Metrics.Handler())
	}
}

// PublicPaths returns the route prefixes that must stay reachable without authentication
func (a *App) PublicPaths() []string {
	apiDocsPath := strings.TrimSuffix(a.config.APIDocsPath, "/")
	paths := []string{apiDocsPath, apiDocsPath + ".yaml", a.handleConfig().ConfigURL()}
	if !a.config.DisableViewer {
		paths = append(paths, a.config.DocsPath)
	}
	return paths
}
