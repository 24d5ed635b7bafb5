package server

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"paygen/internal/domain/payslip"
	"paygen/internal/domain/ytd"
	"paygen/internal/platform/config"
	cryptoutil "paygen/internal/platform/crypto"
	"paygen/internal/platform/db"
	"paygen/internal/platform/jobs"
	"paygen/internal/platform/metrics"
	authhandler "paygen/internal/transport/http/handlers/auth"
	payslipshandler "paygen/internal/transport/http/handlers/payslips"
	"paygen/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := openLedger(ctx, cfg)
	if err != nil {
		log.Fatalf("ledger open failed: %v", err)
	}
	defer ledger.Close()

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption setup failed: %v", err)
	}

	renderer := payslip.NewPDFRenderer(cfg.PayslipDir, cryptoSvc)
	payslips := payslip.NewService(ledger, renderer)

	collector := metrics.New()
	jobsSvc := jobs.New(payslips, collector)
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	if cfg.JWTSecret != "" {
		router.Use(middleware.Auth(cfg.JWTSecret))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if _, err := ledger.Cumulative(ctx, 1, 1); err != nil {
			http.Error(w, "ledger not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTSecret != "" {
			authHandler, err := authhandler.NewHandler(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPassword)
			if err != nil {
				log.Fatalf("auth setup failed: %v", err)
			}
			r.Post("/auth/login", authHandler.HandleLogin)
		}

		payslipsHandler := payslipshandler.NewHandler(payslips, jobsSvc, ledger, cfg.Options())
		if cfg.JWTSecret != "" {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				payslipsHandler.RegisterRoutes(r)
			})
		} else {
			payslipsHandler.RegisterRoutes(r)
		}

		if cfg.MetricsEnabled {
			r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(collector.Snapshot())
			})
		}
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	go func() {
		slog.Info("paygen server listening", "addr", cfg.Addr, "driver", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("shutdown incomplete", "err", err)
	}
}

func openLedger(ctx context.Context, cfg config.Config) (ytd.StoreAPI, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return ytd.NewPostgresStore(ctx, pool)
	default:
		if err := db.EnsureDir(cfg.SQLitePath); err != nil {
			return nil, err
		}
		return ytd.NewSQLiteStore(cfg.SQLitePath)
	}
}
