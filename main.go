package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/anchorcomply/backend/src/audit"
	"github.com/username/anchorcomply/backend/src/config"
	"github.com/username/anchorcomply/backend/src/handlers"
	"github.com/username/anchorcomply/backend/src/logger"
	"github.com/username/anchorcomply/backend/src/report"
	"github.com/username/anchorcomply/backend/src/services"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag, Content-Disposition")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("AnchorComply backend server starting...")

	sessionTTL := time.Duration(config.Cfg.SessionTTLMinutes) * time.Minute
	sessionStore := cache.New(sessionTTL, 2*sessionTTL)
	logger.L.Info("Session store initialized", "ttl", sessionTTL)

	engine := audit.NewEngine(audit.Config{
		MismatchTolerance: config.Cfg.MismatchTolerance,
		FeePerDay:         config.Cfg.LateFeePerDay,
		MinLateFee:        config.Cfg.MinLateFee,
		MaxLateFee:        config.Cfg.MaxLateFee,
	})
	assembler := report.NewAssembler(report.Options{
		RowCap:   config.Cfg.ReportRowCap,
		Currency: config.Cfg.CurrencySymbol,
	})
	auditService := services.NewAuditService(sessionStore, engine, assembler, config.Cfg.FuzzyMatchCutoff)

	uploadHandler := handlers.NewUploadHandler(auditService)
	auditHandler := handlers.NewAuditHandler(auditService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/datasets/{kind}", uploadHandler.HandleUpload)
	apiRouter.HandleFunc("PUT /api/sessions/{id}/datasets/{kind}/mapping", auditHandler.HandleSetMapping)
	apiRouter.HandleFunc("POST /api/sessions/{id}/audit", auditHandler.HandleRunAudit)
	apiRouter.HandleFunc("GET /api/sessions/{id}/report", auditHandler.HandleGetReport)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "AnchorComply backend is running"})
		} else if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
