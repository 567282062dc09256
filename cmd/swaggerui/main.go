package main

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	swaggerui "github.com/labbs/fiber-swaggerui"
	"github.com/labbs/fiber-swaggerui/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "swaggerui",
		Short:         "Serve and check a Swagger UI viewer wired to a springdoc-style discovery endpoint",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("viewer-config", "", "YAML or JSON viewer configuration file (defaults built in)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "json", "log format (json or text)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the viewer, the discovery endpoint and the API documents",
		RunE:  runServe,
	}
	f := serveCmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.String("docs-path", swaggerui.DefaultDocsPath, "path of the viewer")
	f.String("title", swaggerui.DefaultTitle, "title of the viewer page")
	f.String("assets-url", swaggerui.DefaultAssetsURL, "base URL of the Swagger UI bundle")
	f.StringSlice("allowed-origins", []string{swaggerui.DefaultAllowedOrigin}, "origins allowed to make credentialed requests")
	f.StringSlice("doc", nil, "API document to serve, as name=path (a bare path is the default group)")
	f.Bool("metrics", false, "expose Prometheus metrics at /metrics")
	f.String("api-token", "", "require this bearer token on every non-documentation route")
	f.String("token-cookie", "", "cookie that may carry the bearer token")

	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Fetch the discovery document and every API document like the viewer does",
		RunE:  runDiscover,
	}
	discoverCmd.Flags().String("base-url", "http://localhost:8080", "server hosting the discovery endpoint")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Print the bootstrap script for the effective viewer configuration",
		RunE:  runRender,
	}

	rootCmd.AddCommand(serveCmd, discoverCmd, renderCmd)

	// Viper keys use underscores so they match the env var suffix after the SWAGGERUI_ prefix.
	bindFlag := func(cmd *cobra.Command, viperKey, flagName string) {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(flagName)
		}
		_ = viper.BindPFlag(viperKey, flag)
	}
	bindFlag(rootCmd, "viewer_config", "viewer-config")
	bindFlag(rootCmd, "log_level", "log-level")
	bindFlag(rootCmd, "log_format", "log-format")
	bindFlag(serveCmd, "addr", "addr")
	bindFlag(serveCmd, "docs_path", "docs-path")
	bindFlag(serveCmd, "title", "title")
	bindFlag(serveCmd, "assets_url", "assets-url")
	bindFlag(serveCmd, "allowed_origins", "allowed-origins")
	bindFlag(serveCmd, "doc", "doc")
	bindFlag(serveCmd, "metrics", "metrics")
	bindFlag(serveCmd, "api_token", "api-token")
	bindFlag(serveCmd, "token_cookie", "token-cookie")
	bindFlag(discoverCmd, "base_url", "base-url")

	viper.SetEnvPrefix("SWAGGERUI")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return rootCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger(os.Stdout)
	if err != nil {
		return err
	}
	viewer, err := cfg.ViewerConfiguration()
	if err != nil {
		return err
	}

	var metrics *swaggerui.Metrics
	metricsPath := ""
	if cfg.Metrics {
		metrics = swaggerui.NewMetrics()
		metricsPath = "/metrics"
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(swaggerui.RequestLogger(logger))

	docs := swaggerui.New(app, swaggerui.Config{
		DocsPath:       cfg.DocsPath,
		Title:          cfg.Title,
		AssetsURL:      cfg.AssetsURL,
		AllowedOrigins: cfg.AllowedOrigins,
		MetricsPath:    metricsPath,
		Viewer:         &viewer,
		Metrics:        metrics,
		Logger:         logger,
	})

	if cfg.APIToken != "" {
		auth := swaggerui.BearerTokenMiddleware(swaggerui.StaticTokenValidator{Token: cfg.APIToken}, cfg.TokenCookie)
		app.Use(swaggerui.DocsAuthMiddleware(auth, docs))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for _, doc := range cfg.Documents {
		data, err := os.ReadFile(doc.Path)
		if err != nil {
			return fmt.Errorf("read document %s: %w", doc.Name, err)
		}
		if err := docs.AddDocument(ctx, doc.Name, data); err != nil {
			return err
		}
	}
	if len(cfg.Documents) == 0 {
		logger.Warn("no API documents configured, the viewer will have nothing to show")
	}

	docs.SetupDocs()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving documentation",
			"version", config.Version,
			"addr", cfg.Addr,
			"viewer", cfg.DocsPath+"/index.html",
			"discovery", viewer.ConfigURL())
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	viewer, err := cfg.ViewerConfiguration()
	if err != nil {
		return err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	client, err := swaggerui.NewViewerClient(viper.GetString("base_url"), viewer, jar, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	sc, err := client.Discover(ctx)
	if err != nil {
		return err
	}
	documents, err := client.FetchDocuments(ctx, sc)
	if err != nil {
		return err
	}
	if len(documents) == 0 {
		return errors.New("discovery endpoint advertises no API documents")
	}

	out := cmd.OutOrStdout()
	for _, doc := range documents {
		paths := 0
		if doc.Spec.Paths != nil {
			paths = doc.Spec.Paths.Len()
		}
		fmt.Fprintf(out, "%s\t%s\t%d paths\n", doc.Name, doc.Title, paths)
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	viewer, err := cfg.ViewerConfiguration()
	if err != nil {
		return err
	}

	var handle swaggerui.Handle
	script, err := swaggerui.NewBootstrapper(viewer).OnLoad(&handle).InitializerScript()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), script)
	return err
}
