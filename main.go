package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"Caldera/internal/auth"
	"Caldera/internal/calc"
	"Caldera/internal/calc/bundle"
	"Caldera/internal/calc/fixtures"
	"Caldera/internal/calc/premium/autodesign"
	"Caldera/internal/calc/premium/batch"
	"Caldera/internal/calc/premium/recommend"
	"Caldera/internal/calc/report"
	"Caldera/internal/calc/savings"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog/importer"
	"Caldera/internal/config"
	"Caldera/internal/logger"
	"Caldera/internal/proposal"
	"Caldera/internal/repo"
	"Caldera/internal/validation"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.HTTPRequest(r.Method, r.URL.Path, rec.status, float64(time.Since(started).Microseconds())/1000, r.RemoteAddr)
		})
	}
}

func HandleList(router *mux.Router, db *sql.DB, cfg *config.Config, log *logger.Logger) {
	table := units.Default()
	table.DefaultCurrency = cfg.DefaultCurrency

	v := validation.New()
	equipment := repo.NewPostgresCatalog(db)
	env := calc.NewEnv(table, equipment, v, log)

	authEnv := &auth.Authenv{
		JWTkey:       cfg.TokenKey,
		Repo:         repo.NewPostgresUserDB(db),
		Log:          log,
		Validate:     v,
		SecureCookie: cfg.UseTLS(),
	}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, log)

	router.Use(requestLogger(log))
	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	fixturesH := &fixtures.Handler{Env: env}
	sizingH := &savings.Handler{Env: env}
	quickH := &autodesign.Handler{Env: env}
	batchH := &batch.Handler{Env: env}
	recommendH := &recommend.Handler{Env: env}
	bundleH := &bundle.Handler{Env: env}
	reportH := &report.Handler{Env: env}
	importH := &importer.Handler{Env: env, Store: equipment}
	proposalH := &proposal.Handler{Env: env, Repo: repo.NewPostgresProposalDB(db)}

	secureApi.HandleFunc("/tools/fixtures/calc", fixturesH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/sizing/calc", sizingH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/sizing/quick", quickH.Quick).Methods("POST")
	secureApi.HandleFunc("/tools/sizing/batch", batchH.Sizing).Methods("POST")
	secureApi.HandleFunc("/tools/sizing/recommend", recommendH.Recommend).Methods("POST")
	secureApi.HandleFunc("/tools/bundle/calc", bundleH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Sizing).Methods("POST")
	secureApi.HandleFunc("/tools/report/bundle-pdf", reportH.Bundle).Methods("POST")

	secureApi.HandleFunc("/catalog/import", importH.Import).Methods("POST")
	secureApi.HandleFunc("/catalog/{kind}", importH.List).Methods("GET")

	secureApi.HandleFunc("/proposals", proposalH.Create).Methods("POST")
	secureApi.HandleFunc("/proposals/{id}", proposalH.Get).Methods("GET")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.New("production").Error("config", "error", err.Error())
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.DatabaseError("connect", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := repo.EnsureSchema(ctx, db); err != nil {
		log.DatabaseError("ensure schema", err)
		os.Exit(1)
	}

	router := mux.NewRouter()
	HandleList(router, db, cfg, log)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("server starting", "addr", cfg.HTTPAddr, "tls", cfg.UseTLS())
		var err error
		if cfg.UseTLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err.Error())
	}
	wg.Wait()
	log.Info("server stopped")
}
