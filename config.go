package fiberswaggerui

import "log/slog"

type Config struct {
	DisableViewer     bool                 // Do not serve the viewer page and bootstrap script
	DisableCORS       bool                 // Do not install the credentialed CORS middleware
	DocsPath          string               // Path of the viewer (e.g., "/swagger-ui")
	APIDocsPath       string               // Path of the JSON API documents (e.g., "/v3/api-docs")
	MetricsPath       string               // Path of the Prometheus endpoint, empty to disable
	Title             string               // Title of the viewer page
	AssetsURL         string               // Base URL of the viewer bundle
	AllowedOrigins    []string             // Origins allowed to make credentialed requests
	OAuth2RedirectURL string               // Advertised in the discovery document when set
	Viewer            *ViewerConfiguration // Viewer configuration, defaults when nil
	Metrics           *Metrics             // Collectors updated by the handlers, nil to disable
	Logger            *slog.Logger
}

const (
	DefaultDocsPath      = "/swagger-ui"
	DefaultAPIDocsPath   = "/v3/api-docs"
	DefaultTitle         = "API Documentation"
	DefaultAllowedOrigin = "http://localhost:5173"
)

// DefaultConfig returns the configuration used when New is called without one
func DefaultConfig() Config {
	viewer := DefaultViewerConfiguration()
	return Config{
		DocsPath:       DefaultDocsPath,
		APIDocsPath:    DefaultAPIDocsPath,
		Title:          DefaultTitle,
		AssetsURL:      DefaultAssetsURL,
		AllowedOrigins: []string{DefaultAllowedOrigin},
		Viewer:         &viewer,
		Logger:         slog.Default(),
	}
}

// mergeConfig fills every zero field of config from the defaults
func mergeConfig(config Config) Config {
	defaults := DefaultConfig()
	if config.DocsPath == "" {
		config.DocsPath = defaults.DocsPath
	}
	if config.APIDocsPath == "" {
		config.APIDocsPath = defaults.APIDocsPath
	}
	if config.Title == "" {
		config.Title = defaults.Title
	}
	if config.AssetsURL == "" {
		config.AssetsURL = defaults.AssetsURL
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = defaults.AllowedOrigins
	}
	if config.Viewer == nil {
		config.Viewer = defaults.Viewer
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}
	return config
}
