package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	aggregationapp "petrodata-cloud/internal/aggregation/application"
	aggregationnotify "petrodata-cloud/internal/aggregation/notify"
	analyticsapp "petrodata-cloud/internal/analytics/application"
	analyticshttp "petrodata-cloud/internal/analytics/interfaces/http"
	"petrodata-cloud/internal/audit"
	"petrodata-cloud/internal/auth"
	exportapp "petrodata-cloud/internal/export/application"
	exportspaces "petrodata-cloud/internal/export/infrastructure/spaces"
	exporthttp "petrodata-cloud/internal/export/interfaces/http"
	"petrodata-cloud/internal/observability/metrics"
	rawdataapp "petrodata-cloud/internal/rawdata/application"
	rawdatahttp "petrodata-cloud/internal/rawdata/interfaces/http"
	seriesrepo "petrodata-cloud/internal/series/infrastructure/postgres"
	submissionapp "petrodata-cloud/internal/submission/application"
	submissionrepo "petrodata-cloud/internal/submission/infrastructure/postgres"
	submissionhttp "petrodata-cloud/internal/submission/interfaces/http"
	"petrodata-cloud/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}
	if err := migrations.Up(db); err != nil {
		logger.Fatalf("db migrate error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	submissionRepo := submissionrepo.NewPostgresSubmissionRepository(db)
	recordRepo := seriesrepo.NewPostgresRecordRepository(db)

	submissionService, err := submissionapp.NewSubmissionApplicationService(submissionRepo, auditDecisionRecorder{repo: auditRepo}, systemClock{}, logger)
	if err != nil {
		logger.Fatalf("submission service error: %v", err)
	}
	submissionHandler, err := submissionhttp.NewHandler(submissionService, auditRepo)
	if err != nil {
		logger.Fatalf("submission handler error: %v", err)
	}

	analyticsService, err := analyticsapp.NewAnalyticsService(recordRepo, systemClock{}, logger)
	if err != nil {
		logger.Fatalf("analytics service error: %v", err)
	}
	analyticsHandler, err := analyticshttp.NewHandler(analyticsService)
	if err != nil {
		logger.Fatalf("analytics handler error: %v", err)
	}

	windower, err := rawdataapp.NewWindower(recordRepo, cfg.DataSource, logger)
	if err != nil {
		logger.Fatalf("windower error: %v", err)
	}
	rawdataHandler, err := rawdatahttp.NewHandler(windower)
	if err != nil {
		logger.Fatalf("rawdata handler error: %v", err)
	}

	blobStore, err := exportspaces.NewSpacesStore(context.Background(), exportspaces.ConfigFromEnv())
	if err != nil {
		logger.Fatalf("blob store error: %v", err)
	}
	exportService, err := exportapp.NewExportService(recordRepo, blobStore, systemClock{}, logger)
	if err != nil {
		logger.Fatalf("export service error: %v", err)
	}
	exportHandler, err := exporthttp.NewHandler(exportService, auditRepo)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	aggregationCfg, err := aggregationapp.LoadConfig()
	if err != nil {
		logger.Fatalf("aggregation config error: %v", err)
	}
	var aggregationNotifier aggregationnotify.Notifier
	if aggregationCfg.WebhookURL != "" {
		aggregationNotifier = aggregationnotify.NewWebhookNotifier(aggregationCfg.WebhookURL)
	}
	aggregationJob, err := aggregationapp.NewDailyAggregationJob(submissionRepo, recordRepo, aggregationNotifier, systemClock{}, logger)
	if err != nil {
		logger.Fatalf("aggregation job error: %v", err)
	}
	if aggregationCfg.Schedule.Enabled {
		scheduler := aggregationapp.NewScheduler(aggregationJob, aggregationCfg.Schedule.DailyAt, logger)
		go scheduler.Start(context.Background())
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/submissions", submissionHandler)
	mux.Handle("/api/v1/submissions/", submissionHandler)
	mux.Handle("/api/v1/analytics", analyticsHandler)
	mux.Handle("/api/v1/rawdata", rawdataHandler)
	mux.Handle("/api/v1/exports", exportHandler)
	mux.Handle("/api/v1/exports/all", exportHandler)
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
	DataSource  string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		DataSource:  getenvDefault("DATA_SOURCE", "Nigerian Bureau Of Statistics"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
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
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
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

// ---- Adapters ----

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// auditDecisionRecorder bridges the submission service to the audit log.
type auditDecisionRecorder struct {
	repo audit.Logger
}

func (r auditDecisionRecorder) RecordDecision(ctx context.Context, actor, submissionID, action, reason string, at time.Time) {
	if r.repo == nil {
		return
	}
	meta, _ := json.Marshal(map[string]string{"reason": reason})
	_ = r.repo.Log(ctx, audit.Entry{
		Actor:        actor,
		Action:       "submission." + action,
		ResourceType: "submission",
		ResourceID:   submissionID,
		Metadata:     meta,
		CreatedAt:    at,
	})
}
