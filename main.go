package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"dealer-feasibility/internal/audit"
	"dealer-feasibility/internal/auth"
	projectionapp "dealer-feasibility/internal/feasibility/application"
	feasibility "dealer-feasibility/internal/feasibility/domain"
	memoryrepo "dealer-feasibility/internal/feasibility/infrastructure/memory"
	postgresrepo "dealer-feasibility/internal/feasibility/infrastructure/postgres"
	projectionhttp "dealer-feasibility/internal/feasibility/interfaces/http"
	"dealer-feasibility/internal/observability/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	engineCfg, err := projectionapp.LoadConfig()
	if err != nil {
		logger.Fatalf("engine config error: %v", err)
	}
	defaults, err := engineCfg.EngineDefaults()
	if err != nil {
		logger.Fatalf("engine defaults error: %v", err)
	}
	engine := feasibility.NewEngine(defaults, feasibility.WithInsuranceRate(engineCfg.InsuranceRate))

	var db *sql.DB
	var subjectRepo projectionapp.SubjectRepository
	var scenarioRepo projectionapp.ScenarioRepository
	var resultRepo projectionapp.ResultRepository
	var subjectChecker auth.SubjectTenantChecker
	var auditLogger audit.Logger

	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		subjectRepo = postgresrepo.NewSubjectRepository(db)
		scenarioRepo = postgresrepo.NewScenarioRepository(db)
		resultRepo = postgresrepo.NewResultRepository(db)
		subjectChecker = auth.NewSubjectChecker(db)
		auditLogger = audit.NewRepository(db)
	} else {
		logger.Printf("DATABASE_URL not set, using in-memory storage")
		subjectRepo = memoryrepo.NewSubjectRepository()
		scenarioRepo = memoryrepo.NewScenarioRepository()
		resultRepo = memoryrepo.NewResultRepository()
	}

	metrics.Init(db, logger)

	service, err := projectionapp.NewProjectionService(subjectRepo, scenarioRepo, resultRepo, engine, projectionapp.SystemClock{}, logger,
		projectionapp.WithDefaultHorizon(engineCfg.HorizonYears),
		projectionapp.WithDefaultSignageInterval(engineCfg.SignageIntervalYears),
	)
	if err != nil {
		logger.Fatalf("projection service error: %v", err)
	}

	projectionHandler, err := projectionhttp.NewProjectionHandler(service, subjectChecker, auditLogger)
	if err != nil {
		logger.Fatalf("projection handler error: %v", err)
	}
	catalogHandler, err := projectionhttp.NewCatalogHandler(service, auditLogger)
	if err != nil {
		logger.Fatalf("catalog handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/projections", projectionHandler)
	mux.Handle("/api/v1/projections/", projectionHandler)
	mux.Handle("/api/v1/subjects", catalogHandler)
	mux.Handle("/api/v1/subjects/", catalogHandler)
	mux.Handle("/api/v1/scenarios", catalogHandler)
	mux.Handle("/api/v1/scenarios/", catalogHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		elapsed := time.Since(start)
		metrics.ObserveHTTP(r.Method, resp.status, elapsed)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, elapsed)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
