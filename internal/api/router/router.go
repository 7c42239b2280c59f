package router

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/Davide1809/password-health-tracker/internal/api/handlers"
	"github.com/Davide1809/password-health-tracker/internal/api/handlers/breaches"
	credhandlers "github.com/Davide1809/password-health-tracker/internal/api/handlers/credentials"
	"github.com/Davide1809/password-health-tracker/internal/api/handlers/passwords"
	qhandlers "github.com/Davide1809/password-health-tracker/internal/api/handlers/questions"
	"github.com/Davide1809/password-health-tracker/internal/api/middlewares"
	"github.com/Davide1809/password-health-tracker/internal/auth"
	"github.com/Davide1809/password-health-tracker/internal/breach"
	"github.com/Davide1809/password-health-tracker/internal/notify"
	"github.com/Davide1809/password-health-tracker/internal/security/credcipher"
	"github.com/Davide1809/password-health-tracker/internal/storage/s3"
	qstore "github.com/Davide1809/password-health-tracker/internal/store/questions"
)

// Deps carries everything the routes need. Storage may be nil; the export
// endpoint then answers 503.
type Deps struct {
	DB      *sql.DB
	RDB     *redis.Client
	Cipher  *credcipher.Cipher
	Checker *breach.Checker
	Storage *s3.S3Client
}

func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	gate := func(next http.Handler) http.Handler {
		return middlewares.RequireAuth(d.DB, next)
	}

	// Root + ops
	mux.HandleFunc("GET /", handlers.RootHandler)
	mux.Handle("GET /health", handlers.Health(d.DB, d.RDB))
	mux.Handle("GET /version", handlers.Version())

	// Auth
	authH := auth.New(auth.NewSQLStore(d.DB), d.RDB)
	mux.Handle("POST /api/auth/register", http.HandlerFunc(authH.Register))
	mux.Handle("POST /api/auth/login", middlewares.LoginRateLimit(d.RDB, http.HandlerFunc(authH.Login)))
	mux.Handle("POST /api/auth/refresh", http.HandlerFunc(authH.Refresh))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(authH.Logout))
	mux.Handle("POST /api/auth/logout-all", gate(http.HandlerFunc(authH.LogoutAll)))
	mux.Handle("GET /api/auth/me", gate(http.HandlerFunc(authH.Me)))
	mux.Handle("POST /api/auth/change-password", gate(http.HandlerFunc(authH.ChangePassword)))

	// Account recovery via security questions
	qs := qstore.NewStore(d.DB)
	recovery := &auth.RecoveryHandler{Users: authH.Store, Questions: qs, RDB: d.RDB, Notifier: notify.LogNotifier{}}
	mux.Handle("POST /api/auth/recovery/start", middlewares.LoginRateLimit(d.RDB, http.HandlerFunc(recovery.Start)))
	mux.Handle("POST /api/auth/recovery/verify", middlewares.LoginRateLimit(d.RDB, http.HandlerFunc(recovery.Verify)))
	mux.Handle("POST /api/auth/recovery/reset", middlewares.LoginRateLimit(d.RDB, http.HandlerFunc(recovery.Reset)))

	// Password analysis + generation
	mux.Handle("POST /api/passwords/analyze", gate(passwords.Analyze(d.Checker)))
	mux.Handle("POST /api/passwords/generate", gate(passwords.Generate()))

	// Breach lookup is safe for guests; only a 5-char hash prefix goes upstream.
	mux.Handle("POST /api/breaches/check", middlewares.OptionalAuth(d.DB, breaches.Check(d.Checker)))

	// Credential vault
	mux.Handle("POST /api/credentials", gate(credhandlers.Create(d.DB, d.Cipher)))
	mux.Handle("GET /api/credentials", gate(credhandlers.List(d.DB, d.Cipher)))
	mux.Handle("PUT /api/credentials/{id}", gate(credhandlers.Update(d.DB, d.Cipher)))
	mux.Handle("DELETE /api/credentials/{id}", gate(credhandlers.Delete(d.DB)))
	mux.Handle("POST /api/credentials/export", gate(credhandlers.Export(d.DB, d.Storage)))

	// Security questions
	mux.Handle("GET /api/security-questions", qhandlers.Catalog())
	mux.Handle("PUT /api/security-questions/answers", gate(qhandlers.SetAnswers(qs)))
	mux.Handle("GET /api/security-questions/answers", gate(qhandlers.MyQuestions(qs)))

	return mux
}
