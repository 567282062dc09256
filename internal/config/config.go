package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	swaggerui "github.com/labbs/fiber-swaggerui"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Config holds the runtime configuration of the swaggerui command.
type Config struct {
	Addr           string
	DocsPath       string
	Title          string
	AssetsURL      string
	AllowedOrigins []string
	Documents      []Document
	ViewerConfig   string // optional viewer configuration file
	Metrics        bool
	APIToken       string
	TokenCookie    string
	LogLevel       string
	LogFormat      string
}

// Document is an API document file served under a group name
type Document struct {
	Name string
	Path string
}

// Load reads configuration from viper, which merges flag values, env vars,
// and defaults (set up by the cobra commands in cmd/swaggerui).
func Load() (Config, error) {
	docs, err := parseDocuments(viper.GetStringSlice("doc"))
	if err != nil {
		return Config{}, err
	}
	return Config{
		Addr:           viper.GetString("addr"),
		DocsPath:       viper.GetString("docs_path"),
		Title:          viper.GetString("title"),
		AssetsURL:      viper.GetString("assets_url"),
		AllowedOrigins: splitList(viper.GetStringSlice("allowed_origins")),
		Documents:      docs,
		ViewerConfig:   viper.GetString("viewer_config"),
		Metrics:        viper.GetBool("metrics"),
		APIToken:       viper.GetString("api_token"),
		TokenCookie:    viper.GetString("token_cookie"),
		LogLevel:       viper.GetString("log_level"),
		LogFormat:      viper.GetString("log_format"),
	}, nil
}

// ViewerConfiguration returns the configured viewer, the default one when no file is set
func (c Config) ViewerConfiguration() (swaggerui.ViewerConfiguration, error) {
	if c.ViewerConfig == "" {
		return swaggerui.DefaultViewerConfiguration(), nil
	}
	f, err := os.Open(c.ViewerConfig)
	if err != nil {
		return swaggerui.ViewerConfiguration{}, fmt.Errorf("open viewer config: %w", err)
	}
	defer f.Close()
	return swaggerui.LoadViewerConfiguration(f)
}

// NewLogger builds the process logger writing to w
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if c.LogLevel != "" {
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.LogFormat) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q: expected json or text", c.LogFormat)
}

// parseDocuments turns "name=path" entries into documents, keeping their order.
// A bare path registers the default group.
func parseDocuments(entries []string) ([]Document, error) {
	var docs []Document
	seen := make(map[string]bool)
	for _, entry := range splitList(entries) {
		name, path, ok := strings.Cut(entry, "=")
		if !ok {
			name, path = swaggerui.DefaultGroup, entry
		}
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid document entry %q: expected name=path", entry)
		}
		if seen[name] {
			return nil, fmt.Errorf("document group %q given twice", name)
		}
		seen[name] = true
		docs = append(docs, Document{Name: name, Path: path})
	}
	return docs, nil
}

// Env vars arrive as a single comma separated value.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
