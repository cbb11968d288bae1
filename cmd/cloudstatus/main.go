package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/conradoqg/cloudstatus/internal/collector"
	"github.com/conradoqg/cloudstatus/internal/config"
	"github.com/conradoqg/cloudstatus/internal/feed"
	"github.com/conradoqg/cloudstatus/internal/logx"
	"github.com/conradoqg/cloudstatus/internal/providers"
	"github.com/conradoqg/cloudstatus/internal/proxy"
	"github.com/conradoqg/cloudstatus/internal/registry"
	"github.com/conradoqg/cloudstatus/internal/server"
)

var (
	configPath string
	logLevel   string
)

type app struct {
	cfg     *config.Config
	reg     *registry.Registry
	fetcher *providers.Fetcher
	agg     *collector.Aggregator
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	// CLI flag overrides YAML if provided
	if logLevel != "" {
		cfg.Common.LogLevel = logLevel
	}
	logx.SetLevelFromString(cfg.Common.LogLevel)

	reg, err := registry.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	for _, pc := range reg.All() {
		if pc.InsecureSkipVerify {
			logx.Warnf("TLS certificate verification disabled for provider=%s url=%s", pc.ID, pc.APIURL)
		}
	}
	f := providers.NewFetcher(providers.FetchOptions{
		UserAgent:   cfg.Common.UserAgent,
		JSONTimeout: cfg.Common.JSONTimeout,
		XMLTimeout:  cfg.Common.XMLTimeout,
	})
	return &app{cfg: cfg, reg: reg, fetcher: f, agg: collector.NewAggregator(f)}, nil
}

func (a *app) channel() feed.Channel {
	return feed.Channel{Title: a.cfg.Feed.Title, Description: a.cfg.Feed.Description, Link: a.cfg.Feed.Link}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cloudstatus",
		Short:         "Aggregate third-party status pages into one status model and RSS feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			logx.Sync()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (built-in providers when empty)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")

	serve := newServeCmd()
	root.AddCommand(serve, newSnapshotCmd(), newFeedCmd())
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the status API, RSS feed and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			if listen != "" {
				a.cfg.Server.Listen = listen
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides config)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs := a.reg.All()
	store := &collector.Store{}
	ref := collector.NewRefresher(a.agg, configs, store, a.cfg.Common.Interval)
	go ref.Run(ctx)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collector.NewExporter(store, configs))

	s := server.New(server.Options{
		Refresher: ref,
		Store:     store,
		Proxy:     proxy.New(a.reg, a.fetcher),
		Channel:   a.channel(),
		Metrics:   promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}),
	})
	srv := &http.Server{
		Addr:         a.cfg.Server.Listen,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*a.cfg.Common.XMLTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Infof("cloudstatus listening on %s providers=%d", a.cfg.Server.Listen, len(configs))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logx.Infof("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Run one aggregation cycle and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			snap := a.agg.Cycle(cmd.Context(), a.reg.All())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"overall":     snap.Overall(),
				"lastUpdated": snap.CompletedAt,
				"providers":   snap.Providers,
			})
		},
	}
}

func newFeedCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Run one aggregation cycle and write the RSS feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			snap := a.agg.Cycle(cmd.Context(), a.reg.All())
			b, err := feed.Project(snap.Providers, a.channel(), time.Now())
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			_, err = w.Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the feed to this file instead of stdout")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logx.Errorf("%v", err)
		logx.Sync()
		os.Exit(1)
	}
}
