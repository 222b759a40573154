package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/apigeo/carbone-cli/internal/engine"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for natural-language queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		eng := engine.New(store, sessionStore(store), engine.Options{
			MaxQueryLen:  cfg.NLU.MaxQueryLen,
			FeatureLimit: cfg.NLU.FeatureLimit,
		})

		r := chi.NewRouter()
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		limiter := newIPLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/query", func(w http.ResponseWriter, req *http.Request) {
			if !limiter.allow(clientIP(req)) {
				writeJSON(w, http.StatusTooManyRequests,
					map[string]string{"error": "Trop de requêtes, réessayez dans un instant."})
				return
			}

			var in struct {
				Query     string `json:"query"`
				SessionID string `json:"session_id"`
			}
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				writeJSON(w, http.StatusBadRequest,
					map[string]string{"error": "Corps de requête invalide."})
				return
			}
			if in.SessionID == "" {
				in.SessionID = uuid.NewString()
			}

			resp, err := eng.Process(req.Context(), in.SessionID, in.Query)
			switch {
			case eris.Is(err, engine.ErrEmptyQuery):
				writeJSON(w, http.StatusBadRequest,
					map[string]string{"error": `Le champ "query" est requis.`})
				return
			case eris.Is(err, engine.ErrQueryTooLong):
				writeJSON(w, http.StatusBadRequest,
					map[string]string{"error": "Requête trop longue."})
				return
			case err != nil:
				zap.L().Error("serve: query failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError,
					map[string]string{"error": "Erreur interne."})
				return
			}

			writeJSON(w, http.StatusOK, struct {
				*engine.Response
				SessionID string `json:"session_id"`
			}{resp, in.SessionID})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ipLimiter applies a token bucket per client address.
type ipLimiter struct {
	mu    sync.Mutex
	perIP map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		perIP: make(map[string]*rate.Limiter),
		limit: limit,
		burst: burst,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.perIP[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.perIP[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
