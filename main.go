package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

var (
	cfg      *Config
	db       *sql.DB
	store    *sessions.CookieStore
	logger   zerolog.Logger
	notifier = NewNotifier()

	timeNow = time.Now
)

func main() {
	// Boot logger until the configured one takes over.
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	var err error
	cfg, err = LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config failed")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	db, err = sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening database failed")
	}
	defer db.Close()

	if err = db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("pinging database failed")
	}
	logger.Info().Msg("database connected")

	store = sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	r := mux.NewRouter()

	// Static files
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("./static/"))))

	// Auth
	r.HandleFunc("/api/signup", signupHandler).Methods("POST")
	r.HandleFunc("/api/login", loginHandler).Methods("POST")
	r.HandleFunc("/api/logout", logoutHandler).Methods("POST")
	r.HandleFunc("/api/session", sessionHandler).Methods("GET")

	// Sites. Every handler below validates the session itself and
	// scopes store access to the session user.
	r.HandleFunc("/api/sites", getSitesHandler).Methods("GET")
	r.HandleFunc("/api/sites", createSiteHandler).Methods("POST")
	r.HandleFunc("/api/sites/{id}", deleteSiteHandler).Methods("DELETE")

	// Reports
	r.HandleFunc("/api/reports", getReportHandler).Methods("GET")
	r.HandleFunc("/api/reports", saveReportHandler).Methods("POST")
	r.HandleFunc("/api/reports/{id}/approvals/next", nextApprovalHandler).Methods("GET")
	r.HandleFunc("/api/reports/{id}/approvals", confirmApprovalHandler).Methods("PUT")
	r.HandleFunc("/api/approval-titles", approvalTitlesHandler).Methods("POST")
	r.HandleFunc("/api/worker-search", workerSearchHandler).Methods("GET")

	// Change notifications and print view
	r.HandleFunc("/api/events", eventsHandler).Methods("GET")
	r.HandleFunc("/print", printHandler).Methods("GET")

	logger.Info().Str("addr", cfg.Addr).Msg("server starting")
	if err := http.ListenAndServe(cfg.Addr, loggingMiddleware(r)); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
