package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/linesrv/linesrv"
	"github.com/linesrv/linesrv/store"
)

func serveCmd() *cobra.Command {
	var (
		cfgPath   string
		addr      string
		adminAddr string
		corpus    string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a corpus file over TCP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()
			if cfgPath != "" {
				var err error
				cfg, err = loadConfig(cfgPath)
				if err != nil {
					return err
				}
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if adminAddr != "" {
				cfg.AdminAddr = adminAddr
			}
			if corpus != "" {
				cfg.Corpus = corpus
			}
			if noCache {
				cfg.IndexCache = false
			}
			if cfg.Corpus == "" {
				return errors.New("no corpus file configured (--corpus or corpus in the config file)")
			}

			return serve(cfg)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "TCP listen address (default :10497)")
	cmd.Flags().StringVar(&adminAddr, "admin-addr", "", "Admin HTTP listen address (health, metrics); disabled when empty")
	cmd.Flags().StringVar(&corpus, "corpus", "", "Path to the corpus file")
	cmd.Flags().BoolVar(&noCache, "no-index-cache", false, "Rebuild the line index instead of loading the cached one")

	return cmd
}

func serve(cfg config) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := linesrv.NewServer(st, linesrv.Config{
		Addr:        cfg.Addr,
		ReadTimeout: cfg.ReadTimeout,
		Logger:      &logger,
	})

	if cfg.AdminAddr != "" {
		go runAdmin(cfg.AdminAddr, srv, logger)
	}

	// SIGINT/SIGTERM behave like a shutdown command from an operator
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logger.Info().Str("signal", sig.String()).Msg("signal received, shutting down")
		srv.Shutdown()
	}()

	return srv.ListenAndServe()
}

func openStore(cfg config, logger zerolog.Logger) (*store.File, error) {
	start := time.Now()

	var st *store.File
	var err error
	if cfg.IndexCache {
		st, err = store.OpenFileCached(cfg.Corpus)
	} else {
		st, err = store.OpenFile(cfg.Corpus)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("corpus", cfg.Corpus).
		Int("lines", st.LineCount()).
		Dur("took", time.Since(start)).
		Msg("corpus loaded")
	return st, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log_level: %w", err)
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger(), nil
}

func runAdmin(addr string, srv *linesrv.Server, logger zerolog.Logger) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(linesrv.NewStatsCollector(srv))

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if srv.ShuttingDown() {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	logger.Info().Str("addr", addr).Msg("admin endpoint up")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error().Err(err).Msg("admin endpoint failed")
	}
}
